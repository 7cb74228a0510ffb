package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"signaldesk/internal/domain"
	"signaldesk/internal/payload"
)

// APIClient is the part of the backend client the dashboard needs
type APIClient interface {
	Count(ctx context.Context, path string) (int, error)
	Post(ctx context.Context, path string, body any) (json.RawMessage, error)
}

// FormCatalog resolves form ids to their bindings
type FormCatalog interface {
	Lookup(id string) (domain.FormBinding, bool)
}

// DashboardService drives the dashboard: list refreshes and form submissions.
// Every action ends with the UI showing either the response or the error;
// the error is also returned so callers can react to it.
type DashboardService struct {
	api   APIClient
	ui    domain.UIPorts
	forms FormCatalog
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(api APIClient, ui domain.UIPorts, forms FormCatalog) *DashboardService {
	return &DashboardService{
		api:   api,
		ui:    ui,
		forms: forms,
	}
}

// RefreshLists fetches both lists concurrently and updates the counters.
// Either request failing fails the whole refresh: the badge turns red,
// the error is shown and the counters keep their previous values.
func (s *DashboardService) RefreshLists(ctx context.Context) error {
	var assets, signals int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.api.Count(gctx, domain.PathAssets)
		if err != nil {
			return err
		}
		assets = n
		return nil
	})
	g.Go(func() error {
		n, err := s.api.Count(gctx, domain.PathSignals)
		if err != nil {
			return err
		}
		signals = n
		return nil
	})

	if err := g.Wait(); err != nil {
		glog.Warningf("[REFRESH] failed: %v", err)
		s.ui.SetStatus(false)
		s.showError(err)
		return err
	}

	s.ui.SetCounts(assets, signals)
	s.ui.SetStatus(true)
	glog.V(1).Infof("[REFRESH] assets=%d signals=%d", assets, signals)
	return nil
}

// SubmitForm posts a form to its endpoint.
// Mutating forms refresh the lists and reset the form on success; AI forms
// are handed to the AI summary flow. On failure the form keeps its values.
func (s *DashboardService) SubmitForm(ctx context.Context, formID string, fields []payload.Field) (json.RawMessage, error) {
	binding, ok := s.forms.Lookup(formID)
	if !ok {
		err := fmt.Errorf("unknown form %q", formID)
		s.showError(err)
		return nil, err
	}

	if !binding.Mutates() {
		return s.submitAI(ctx, binding.Path, fields)
	}

	body := payload.FromFields(fields)
	glog.V(1).Infof("[FORM] %s -> %s fields=%v", formID, binding.Path, body.Keys())
	resp, err := s.api.Post(ctx, binding.Path, body)
	if err != nil {
		glog.Warningf("[FORM] %s -> %s failed: %v", formID, binding.Path, err)
		s.showError(err)
		return nil, fmt.Errorf("submit %s: %w", formID, err)
	}

	glog.Infof("[FORM] %s -> %s ok", formID, binding.Path)
	s.ui.ShowOutput(resp)

	// a failed refresh reports itself; the submission already succeeded
	_ = s.RefreshLists(ctx)

	s.ui.ResetForm(formID)
	return resp, nil
}

// SubmitAISummary asks the backend for an advisory summary of a signal.
// It never touches the lists or the form.
func (s *DashboardService) SubmitAISummary(ctx context.Context, fields []payload.Field) (json.RawMessage, error) {
	return s.submitAI(ctx, domain.PathAISummary, fields)
}

func (s *DashboardService) submitAI(ctx context.Context, path string, fields []payload.Field) (json.RawMessage, error) {
	body := payload.ExtractMarket(payload.FromFields(fields))

	resp, err := s.api.Post(ctx, path, body)
	if err != nil {
		glog.Warningf("[AI] %s failed: %v", path, err)
		s.showError(err)
		return nil, fmt.Errorf("ai summary: %w", err)
	}

	glog.Infof("[AI] %s ok", path)
	s.ui.ShowOutput(resp)
	return resp, nil
}

// ClearOutput resets the output panel
func (s *DashboardService) ClearOutput() {
	s.ui.ClearOutput()
}

func (s *DashboardService) showError(err error) {
	s.ui.ShowOutput(domain.ErrorOutput{Error: err.Error()})
}
