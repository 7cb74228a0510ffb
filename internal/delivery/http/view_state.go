package http

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"signaldesk/internal/delivery/http/dto"
	"signaldesk/internal/domain"
)

// ViewState is the server-side copy of what the dashboard shows.
// Concurrent handlers overwrite it wholesale; the last write wins.
type ViewState struct {
	mu          sync.RWMutex
	output      string
	statusKnown bool
	statusOK    bool
	assets      int
	signals     int
	formValues  map[string]url.Values
	updatedAt   time.Time
	now         func() time.Time
}

// NewViewState creates an empty view showing the placeholder output
func NewViewState() *ViewState {
	return &ViewState{
		output:     domain.OutputPlaceholder,
		formValues: make(map[string]url.Values),
		now:        time.Now,
	}
}

// ShowOutput renders v as indented JSON into the output panel
func (s *ViewState) ShowOutput(v any) {
	text := renderOutput(v)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.output = text
	s.touch()
}

// ClearOutput puts the placeholder back
func (s *ViewState) ClearOutput() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.output = domain.OutputPlaceholder
	s.touch()
}

// SetStatus sets the badge
func (s *ViewState) SetStatus(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusKnown = true
	s.statusOK = ok
	s.touch()
}

// SetCounts sets both counters
func (s *ViewState) SetCounts(assets, signals int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets = assets
	s.signals = signals
	s.touch()
}

// RememberForm keeps submitted values so a failed form is shown as typed
func (s *ViewState) RememberForm(formID string, values url.Values) {
	copied := make(url.Values, len(values))
	for k, v := range values {
		copied[k] = append([]string(nil), v...)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.formValues[formID] = copied
}

// ResetForm forgets what was typed into a form
func (s *ViewState) ResetForm(formID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.formValues, formID)
}

// Snapshot builds the template view of the current state
func (s *ViewState) Snapshot(forms []domain.FormBinding) dto.DashboardView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view := dto.DashboardView{
		StatusKnown: s.statusKnown,
		StatusOK:    s.statusOK,
		StatusText:  "Connecting...",
		AssetCount:  s.assets,
		SignalCount: s.signals,
		Output:      s.output,
	}
	if s.statusKnown {
		view.StatusText = domain.StatusTextError
		if s.statusOK {
			view.StatusText = domain.StatusTextOK
		}
	}
	if !s.updatedAt.IsZero() {
		view.UpdatedAt = s.updatedAt.UTC().Format(time.RFC3339)
	}

	for _, f := range forms {
		fv := dto.FormView{ID: f.ID, Title: f.Title, Path: f.Path, Kind: string(f.Kind)}
		values := s.formValues[f.ID]
		for _, field := range f.Fields {
			fv.Fields = append(fv.Fields, dto.FieldView{
				Name:        field.Name,
				Label:       field.Label,
				Type:        field.Type,
				Placeholder: field.Placeholder,
				Step:        field.Step,
				Value:       values.Get(field.Name),
			})
		}
		view.Forms = append(view.Forms, fv)
	}
	return view
}

func (s *ViewState) touch() {
	s.updatedAt = s.now()
}

func renderOutput(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
