package http

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signaldesk/internal/domain"
)

var testForms = []domain.FormBinding{
	{
		ID:    "assetForm",
		Title: "Track asset",
		Path:  domain.PathAssets,
		Kind:  domain.FormGeneric,
		Fields: []domain.FormField{
			{Name: "symbol", Label: "Symbol", Type: "text"},
			{Name: "name", Label: "Name", Type: "text"},
		},
	},
}

func TestViewState_Initial(t *testing.T) {
	s := NewViewState()
	view := s.Snapshot(testForms)

	assert.False(t, view.StatusKnown)
	assert.Equal(t, "Connecting...", view.StatusText)
	assert.Equal(t, domain.OutputPlaceholder, view.Output)
	assert.Empty(t, view.UpdatedAt)
	require.Len(t, view.Forms, 1)
	assert.Len(t, view.Forms[0].Fields, 2)
	assert.Empty(t, view.Forms[0].Fields[0].Value)
}

func TestViewState_Status(t *testing.T) {
	s := NewViewState()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	s.SetStatus(true)
	view := s.Snapshot(nil)
	assert.Equal(t, domain.StatusTextOK, view.StatusText)
	assert.Equal(t, "value ok", view.StatusClass())
	assert.Equal(t, "2024-05-01T12:00:00Z", view.UpdatedAt)

	s.SetStatus(false)
	view = s.Snapshot(nil)
	assert.Equal(t, domain.StatusTextError, view.StatusText)
	assert.Equal(t, "value", view.StatusClass())
}

func TestViewState_Output(t *testing.T) {
	s := NewViewState()

	s.ShowOutput(json.RawMessage(`{"id":1,"symbol":"BTC"}`))
	assert.Equal(t, "{\n  \"id\": 1,\n  \"symbol\": \"BTC\"\n}", s.Snapshot(nil).Output)

	s.ShowOutput(domain.ErrorOutput{Error: "boom"})
	assert.Equal(t, "{\n  \"error\": \"boom\"\n}", s.Snapshot(nil).Output)

	s.ClearOutput()
	assert.Equal(t, domain.OutputPlaceholder, s.Snapshot(nil).Output)
}

func TestViewState_Counts(t *testing.T) {
	s := NewViewState()
	s.SetCounts(3, 7)

	view := s.Snapshot(nil)
	assert.Equal(t, 3, view.AssetCount)
	assert.Equal(t, 7, view.SignalCount)
}

func TestViewState_FormValues(t *testing.T) {
	s := NewViewState()
	values := url.Values{"symbol": {"BTC"}, "name": {"Bitcoin"}}
	s.RememberForm("assetForm", values)

	// later changes to the caller's map must not leak in
	values.Set("symbol", "ETH")

	view := s.Snapshot(testForms)
	assert.Equal(t, "BTC", view.Forms[0].Fields[0].Value)
	assert.Equal(t, "Bitcoin", view.Forms[0].Fields[1].Value)

	s.ResetForm("assetForm")
	view = s.Snapshot(testForms)
	assert.Empty(t, view.Forms[0].Fields[0].Value)
	assert.Empty(t, view.Forms[0].Fields[1].Value)
}
