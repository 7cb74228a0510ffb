package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signaldesk/internal/domain"
	"signaldesk/internal/fakeapi"
	"signaldesk/internal/payload"
)

func TestConsole_ShowOutputJSON(t *testing.T) {
	var out, status bytes.Buffer
	c := NewConsole(&out, &status, outputJSON)

	c.ShowOutput(json.RawMessage(`{"id":1,"symbol":"BTC"}`))
	assert.Equal(t, "{\n  \"id\": 1,\n  \"symbol\": \"BTC\"\n}\n", out.String())
	assert.Empty(t, status.String())
}

func TestConsole_ShowOutputTable(t *testing.T) {
	var out, status bytes.Buffer
	c := NewConsole(&out, &status, outputTable)

	c.ShowOutput(json.RawMessage(`{"symbol":"BTC","market":{"rsi":70}}`))
	s := out.String()
	assert.Contains(t, s, "FIELD")
	assert.Contains(t, s, "BTC")
	assert.Contains(t, s, `{"rsi":70}`)

	// non-objects fall back to JSON
	out.Reset()
	c.ShowOutput([]int{1, 2})
	assert.Equal(t, "[\n  1,\n  2\n]\n", out.String())
}

func TestConsole_ClearOutput(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(&out, &bytes.Buffer{}, outputJSON)
	c.ClearOutput()
	assert.Equal(t, domain.OutputPlaceholder+"\n", out.String())
}

func TestConsole_RenderStatus(t *testing.T) {
	var status bytes.Buffer
	c := NewConsole(&bytes.Buffer{}, &status, outputJSON)

	c.RenderStatus()
	assert.Empty(t, status.String())

	c.SetCounts(2, 5)
	c.SetStatus(true)
	c.RenderStatus()
	assert.Contains(t, status.String(), domain.StatusTextOK)
	assert.Contains(t, status.String(), "2")
	assert.Contains(t, status.String(), "5")

	status.Reset()
	c.SetStatus(false)
	c.RenderStatus()
	assert.Contains(t, status.String(), domain.StatusTextError)
}

func TestFieldsFromFlags(t *testing.T) {
	cmd := newAICommand(&rootOptions{}).Commands()[0]
	require.NoError(t, cmd.ParseFlags([]string{"--signal-id", "3", "--rsi", "71.5"}))

	fields, err := fieldsFromFlags(cmd, aiSummaryFields)
	require.NoError(t, err)
	assert.Equal(t, []payload.Field{
		{Name: "signal_id", Value: "3"},
		{Name: "last_price", Value: ""},
		{Name: "rsi", Value: "71.5"},
		{Name: "macd", Value: ""},
		{Name: "volatility", Value: ""},
	}, fields)
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("FORMS_FILE", "")
	t.Setenv("API_TIMEOUT", "")

	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func newBackend(t *testing.T) (*fakeapi.Store, string) {
	t.Helper()
	store := fakeapi.NewStore()
	srv := httptest.NewServer(fakeapi.NewRouter(store))
	t.Cleanup(srv.Close)
	return store, srv.URL
}

func TestAssetCreate(t *testing.T) {
	store, url := newBackend(t)

	out, errOut, err := run(t, "asset", "create", "--api", url, "--symbol", "btcusdt", "--name", "Bitcoin")
	require.NoError(t, err)
	assert.Contains(t, out, `"symbol": "BTCUSDT"`)
	assert.Contains(t, errOut, domain.StatusTextOK)
	assert.Len(t, store.Assets(), 1)
	assert.Equal(t, domain.DefaultExchange, store.Assets()[0].Exchange)
}

func TestSubmit_ErrorIsReported(t *testing.T) {
	store, url := newBackend(t)
	_, err := store.CreateAsset("BTC", "Bitcoin", "")
	require.NoError(t, err)

	out, errOut, err := run(t, "submit", "assetForm", "--api", url, "-f", "symbol=BTC", "-f", "name=Again")
	require.Error(t, err)
	assert.True(t, Reported(err))
	assert.Equal(t, "{\n  \"error\": \"symbol already exists\"\n}\n", out)
	// no refresh after a failed submission
	assert.Empty(t, errOut)
}

func TestSubmit_BadField(t *testing.T) {
	_, url := newBackend(t)
	_, _, err := run(t, "submit", "assetForm", "--api", url, "-f", "symbol")
	require.Error(t, err)
	assert.False(t, Reported(err))
}

func TestSignalAutoAndAISummary(t *testing.T) {
	store, url := newBackend(t)
	_, err := store.CreateAsset("ETH", "Ether", "")
	require.NoError(t, err)

	out, _, err := run(t, "signal", "auto", "--api", url, "--asset-id", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `"timeframe": "5m"`)
	require.Len(t, store.Signals(), 1)

	out, errOut, err := run(t, "ai", "summary", "--api", url, "--signal-id", "1", "--rsi", "25")
	require.NoError(t, err)
	assert.Contains(t, out, "RSI oversold")
	assert.Empty(t, errOut)
}

func TestRefresh(t *testing.T) {
	store, url := newBackend(t)
	_, err := store.CreateAsset("ETH", "Ether", "")
	require.NoError(t, err)

	_, errOut, err := run(t, "refresh", "--api", url)
	require.NoError(t, err)
	assert.Contains(t, errOut, domain.StatusTextOK)
	assert.Contains(t, errOut, "1")
}

func TestRefresh_Unreachable(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	out, errOut, err := run(t, "refresh", "--api", url)
	require.Error(t, err)
	assert.True(t, Reported(err))
	assert.Contains(t, out, `"error"`)
	assert.Contains(t, errOut, domain.StatusTextError)
}

func TestForms(t *testing.T) {
	out, _, err := run(t, "forms", "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "assetForm")
	assert.Contains(t, out, "/api/signals/auto")
	assert.Contains(t, out, "signal_id, last_price, rsi, macd, volatility")
}

func TestInvalidOutput(t *testing.T) {
	_, _, err := run(t, "forms", "-o", "yaml")
	assert.ErrorContains(t, err, "invalid --output")
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "signaldesk version dev\n", out)
}

func TestReported(t *testing.T) {
	base := errors.New("boom")
	assert.False(t, Reported(base))
	assert.True(t, Reported(reported(base)))
	assert.ErrorIs(t, reported(base), base)
	assert.Nil(t, reported(nil))
}
