package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signaldesk/internal/adapter"
	"signaldesk/internal/domain"
	"signaldesk/internal/fakeapi"
	"signaldesk/internal/forms"
	"signaldesk/internal/usecase"
)

type testDashboard struct {
	echo    *echo.Echo
	state   *ViewState
	store   *fakeapi.Store
	backend *httptest.Server
}

func newTestDashboard(t *testing.T) *testDashboard {
	t.Helper()

	store := fakeapi.NewStore()
	backend := httptest.NewServer(fakeapi.NewRouter(store))
	t.Cleanup(backend.Close)

	catalog := forms.Default()
	state := NewViewState()
	api := adapter.NewAPIClient(backend.URL, 0)
	service := usecase.NewDashboardService(api, state, catalog)

	templates, err := ParseTemplates()
	require.NoError(t, err)

	handler := NewWebHandler(templates, service, state, catalog, backend.URL)
	e := NewServer(&RouterConfig{WebHandler: handler, Service: "signaldesk"})

	return &testDashboard{echo: e, state: state, store: store, backend: backend}
}

func (d *testDashboard) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	d.echo.ServeHTTP(rec, req)
	return rec
}

func (d *testDashboard) postForm(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	d.echo.ServeHTTP(rec, req)
	return rec
}

func TestDashboard_Render(t *testing.T) {
	d := newTestDashboard(t)

	rec := d.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, `id="statusBadge"`)
	assert.Contains(t, body, domain.StatusTextOK)
	assert.Contains(t, body, `action="/forms/assetForm"`)
	assert.Contains(t, body, `action="/forms/aiForm"`)
	assert.Contains(t, body, `id="aiForm-rsi"`)
	assert.Contains(t, body, domain.OutputPlaceholder)
}

func TestDashboard_PageLoadRefreshes(t *testing.T) {
	d := newTestDashboard(t)
	_, err := d.store.CreateAsset("BTC", "Bitcoin", "")
	require.NoError(t, err)
	_, err = d.store.CreateAsset("ETH", "Ether", "")
	require.NoError(t, err)

	rec := d.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="assetCount" class="counter">2<`)

	view := d.state.Snapshot(nil)
	assert.Equal(t, domain.StatusTextOK, view.StatusText)
	assert.Equal(t, 2, view.AssetCount)

	// the page after an action shows the action's outcome as is
	_, err = d.store.CreateAsset("SOL", "Solana", "")
	require.NoError(t, err)
	rec = d.get(afterAction)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, d.state.Snapshot(nil).AssetCount)
}

func TestDashboard_PageLoadRefreshFailure(t *testing.T) {
	d := newTestDashboard(t)
	d.backend.Close()

	rec := d.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), domain.StatusTextError)
	assert.Contains(t, d.state.Snapshot(nil).Output, `"error"`)
}

func TestDashboard_SubmitAssetRefreshesCounts(t *testing.T) {
	d := newTestDashboard(t)

	rec := d.postForm("/forms/assetForm", url.Values{"symbol": {"btcusdt"}, "name": {"Bitcoin"}, "exchange": {""}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, afterAction, rec.Header().Get(echo.HeaderLocation))

	view := d.state.Snapshot(forms.Default().All())
	assert.Equal(t, 1, view.AssetCount)
	assert.Equal(t, 0, view.SignalCount)
	assert.Equal(t, domain.StatusTextOK, view.StatusText)
	assert.Contains(t, view.Output, `"symbol": "BTCUSDT"`)
	assert.Empty(t, view.Forms[0].Fields[0].Value)

	rec = d.postForm("/forms/autoSignalForm", url.Values{"asset_id": {"1"}, "timeframe": {""}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	view = d.state.Snapshot(nil)
	assert.Equal(t, 1, view.SignalCount)
	assert.Contains(t, view.Output, `"timeframe": "5m"`)
}

func TestDashboard_SubmitErrorKeepsValues(t *testing.T) {
	d := newTestDashboard(t)
	_, err := d.store.CreateAsset("BTC", "Bitcoin", "")
	require.NoError(t, err)

	rec := d.postForm("/forms/assetForm", url.Values{"symbol": {"BTC"}, "name": {"Again"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	assert.Equal(t, "{\n  \"error\": \"symbol already exists\"\n}", d.state.Snapshot(nil).Output)

	page := d.get(afterAction).Body.String()
	assert.Contains(t, page, `value="Again"`)
	// no refresh ran, so the counters were never filled in
	assert.Contains(t, page, "Connecting...")
}

func TestDashboard_AIFormDoesNotRefresh(t *testing.T) {
	d := newTestDashboard(t)
	asset, err := d.store.CreateAsset("ETH", "Ether", "")
	require.NoError(t, err)
	d.store.AddSignal(fakeapi.GenerateSignal(asset.ID, fakeapi.Snapshot("ETH", "5m")))

	rec := d.postForm("/forms/aiForm", url.Values{"signal_id": {"1"}, "rsi": {"75"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	view := d.state.Snapshot(forms.Default().All())
	assert.Contains(t, view.Output, `"provider": "stub"`)
	assert.Contains(t, view.Output, "RSI overbought")
	assert.False(t, view.StatusKnown)

	require.Len(t, view.Forms, 3)
	ai := view.Forms[2]
	assert.Equal(t, "aiForm", ai.ID)
	assert.Equal(t, "1", ai.Fields[0].Value)
}

func TestDashboard_UnknownForm(t *testing.T) {
	d := newTestDashboard(t)
	rec := d.postForm("/forms/nope", url.Values{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboard_RefreshAndClear(t *testing.T) {
	d := newTestDashboard(t)
	_, err := d.store.CreateAsset("BTC", "Bitcoin", "")
	require.NoError(t, err)

	rec := d.postForm("/refresh", url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	view := d.state.Snapshot(nil)
	assert.Equal(t, 1, view.AssetCount)
	assert.Equal(t, domain.StatusTextOK, view.StatusText)

	d.state.ShowOutput(map[string]int{"x": 1})
	rec = d.postForm("/output/clear", url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, domain.OutputPlaceholder, d.state.Snapshot(nil).Output)
}

func TestDashboard_RefreshFailure(t *testing.T) {
	d := newTestDashboard(t)
	d.state.SetCounts(4, 2)
	d.backend.Close()

	rec := d.postForm("/refresh", url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	view := d.state.Snapshot(nil)
	assert.Equal(t, domain.StatusTextError, view.StatusText)
	assert.Equal(t, 4, view.AssetCount)
	assert.Equal(t, 2, view.SignalCount)
	assert.Contains(t, view.Output, `"error"`)
}

func TestDashboard_HealthAndState(t *testing.T) {
	d := newTestDashboard(t)

	rec := d.get("/health")
	require.Equal(t, http.StatusOK, rec.Code)
	var health Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "success", health.Status)

	rec = d.get("/api/state")
	require.Equal(t, http.StatusOK, rec.Code)
	var state struct {
		Status string `json:"status"`
		Data   struct {
			StatusText string `json:"status_text"`
			Output     string `json:"output"`
			APIBaseURL string `json:"api_base_url"`
			Forms      []struct {
				ID string `json:"id"`
			} `json:"forms"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, "Connecting...", state.Data.StatusText)
	assert.Equal(t, domain.OutputPlaceholder, state.Data.Output)
	assert.Equal(t, d.backend.URL, state.Data.APIBaseURL)
	assert.Len(t, state.Data.Forms, 3)
}
