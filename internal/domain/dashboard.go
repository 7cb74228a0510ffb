package domain

// API endpoints consumed by the dashboard
const (
	PathAssets     = "/api/assets/"
	PathSignals    = "/api/signals/"
	PathAutoSignal = "/api/signals/auto"
	PathAISummary  = "/api/ai/summary"
)

// OutputPlaceholder is shown in the output panel when it is cleared
const OutputPlaceholder = "Ready."

// Status badge texts
const (
	StatusTextOK    = "API Ready"
	StatusTextError = "API Error"
)

// UIPorts is everything the dashboard logic may touch on screen.
// Each call replaces the previous state wholesale; there is no history.
type UIPorts interface {
	// ShowOutput replaces the output panel with v rendered as indented JSON
	ShowOutput(v any)

	// ClearOutput resets the output panel to OutputPlaceholder
	ClearOutput()

	// SetStatus flips the status badge between healthy and unhealthy
	SetStatus(ok bool)

	// SetCounts replaces both list counters
	SetCounts(assets, signals int)

	// ResetForm clears whatever the user typed into a form
	ResetForm(formID string)
}

// ErrorOutput is what the output panel shows for a failed action
type ErrorOutput struct {
	Error string `json:"error"`
}
