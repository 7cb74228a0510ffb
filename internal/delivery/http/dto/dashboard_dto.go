package dto

// DashboardView is everything the dashboard template renders
type DashboardView struct {
	StatusKnown bool       `json:"status_known"`
	StatusOK    bool       `json:"status_ok"`
	StatusText  string     `json:"status_text"`
	AssetCount  int        `json:"asset_count"`
	SignalCount int        `json:"signal_count"`
	Output      string     `json:"output"`
	Forms       []FormView `json:"forms"`
	APIBaseURL  string     `json:"api_base_url"`
	UpdatedAt   string     `json:"updated_at,omitempty"`
}

// StatusClass is the CSS class of the status badge
func (v DashboardView) StatusClass() string {
	if v.StatusOK {
		return "value ok"
	}
	return "value"
}

// FormView is one form with whatever the user last typed into it
type FormView struct {
	ID     string      `json:"id"`
	Title  string      `json:"title"`
	Path   string      `json:"path"`
	Kind   string      `json:"kind"`
	Fields []FieldView `json:"fields"`
}

// FieldView is a single input
type FieldView struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Type        string `json:"type"`
	Placeholder string `json:"placeholder,omitempty"`
	Step        string `json:"step,omitempty"`
	Value       string `json:"value,omitempty"`
}
