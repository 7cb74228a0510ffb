package http

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/golang/glog"
	"github.com/labstack/echo/v4"

	"signaldesk/internal/domain"
	"signaldesk/internal/payload"
)

//go:embed templates/*.html
var templateFS embed.FS

// ParseTemplates loads the embedded dashboard templates
func ParseTemplates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

// DashboardService is what the web handler drives
type DashboardService interface {
	RefreshLists(ctx context.Context) error
	SubmitForm(ctx context.Context, formID string, fields []payload.Field) (json.RawMessage, error)
	ClearOutput()
}

// FormLister lists the forms shown on the page
type FormLister interface {
	All() []domain.FormBinding
	Lookup(id string) (domain.FormBinding, bool)
}

// afterAction is where form actions send the browser. The marker tells the
// dashboard not to refresh again, so the action's outcome stays on screen.
const afterAction = "/?from=action"

// WebHandler serves the dashboard page and its form actions
type WebHandler struct {
	templates  *template.Template
	service    DashboardService
	state      *ViewState
	forms      FormLister
	apiBaseURL string
}

// NewWebHandler creates a new WebHandler
func NewWebHandler(
	templates *template.Template,
	service DashboardService,
	state *ViewState,
	forms FormLister,
	apiBaseURL string,
) *WebHandler {
	return &WebHandler{
		templates:  templates,
		service:    service,
		state:      state,
		forms:      forms,
		apiBaseURL: apiBaseURL,
	}
}

// GET / - Refresh the lists and render the dashboard
func (h *WebHandler) HandleDashboard(c echo.Context) error {
	if c.QueryParam("from") != "action" {
		// a failed refresh is already on the output panel
		if err := h.service.RefreshLists(c.Request().Context()); err != nil {
			glog.V(1).Infof("[WEB] page load refresh failed: %v", err)
		}
	}

	view := h.state.Snapshot(h.forms.All())
	view.APIBaseURL = h.apiBaseURL

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return h.templates.ExecuteTemplate(c.Response().Writer, "dashboard", view)
}

// POST /forms/:formID - Submit a dashboard form, then show the dashboard again
func (h *WebHandler) HandleSubmit(c echo.Context) error {
	formID := c.Param("formID")
	if _, ok := h.forms.Lookup(formID); !ok {
		return NotFoundResponse(c, "Unknown form: "+formID)
	}

	values, err := c.FormParams()
	if err != nil {
		return BadRequestResponse(c, "Invalid form data")
	}

	h.state.RememberForm(formID, values)

	// the outcome, success or error, is already on the output panel
	if _, err := h.service.SubmitForm(c.Request().Context(), formID, payload.FieldsFromValues(values)); err != nil {
		glog.V(1).Infof("[WEB] form %s failed: %v", formID, err)
	}

	return c.Redirect(http.StatusSeeOther, afterAction)
}

// POST /refresh - Refresh both counters
func (h *WebHandler) HandleRefresh(c echo.Context) error {
	if err := h.service.RefreshLists(c.Request().Context()); err != nil {
		glog.V(1).Infof("[WEB] refresh failed: %v", err)
	}
	return c.Redirect(http.StatusSeeOther, afterAction)
}

// POST /output/clear - Reset the output panel
func (h *WebHandler) HandleClearOutput(c echo.Context) error {
	h.service.ClearOutput()
	return c.Redirect(http.StatusSeeOther, afterAction)
}

// GET /api/state - JSON snapshot of the dashboard
func (h *WebHandler) HandleState(c echo.Context) error {
	view := h.state.Snapshot(h.forms.All())
	view.APIBaseURL = h.apiBaseURL
	return SuccessResponse(c, view)
}

// RegisterWebRoutes registers all web routes (HTML pages)
func RegisterWebRoutes(e *echo.Echo, handler *WebHandler) {
	e.GET("/", handler.HandleDashboard)
	e.POST("/forms/:formID", handler.HandleSubmit)
	e.POST("/refresh", handler.HandleRefresh)
	e.POST("/output/clear", handler.HandleClearOutput)
	e.GET("/api/state", handler.HandleState)
}
