// Package fakeapi is an in-memory stand-in for the dashboard backend.
// It speaks the same JSON contract and is meant for tests and local demos.
package fakeapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"signaldesk/internal/domain"
)

// Server serves the backend API from a Store
type Server struct {
	store *Store
}

// NewRouter builds the chi router for store
func NewRouter(store *Store) http.Handler {
	s := &Server{store: store}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found", "The requested URL was not found on the server.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed", "The method is not allowed for the requested URL.")
	})

	r.Route("/api/assets", func(r chi.Router) {
		r.Get("/", s.listAssets)
		r.Post("/", s.createAsset)
		r.Get("/{id}", s.getAsset)
		r.Delete("/{id}", s.deleteAsset)
	})
	r.Route("/api/signals", func(r chi.Router) {
		r.Get("/", s.listSignals)
		r.Post("/auto", s.createAutoSignal)
		r.Get("/{id}", s.getSignal)
		r.Delete("/{id}", s.deleteSignal)
	})
	r.Post("/api/ai/summary", s.aiSummary)
	r.Post("/api/market/snapshot", s.marketSnapshot)

	return r
}

func (s *Server) listAssets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Assets())
}

func (s *Server) createAsset(w http.ResponseWriter, r *http.Request) {
	body := readBody(r)
	symbol := text(body["symbol"])
	name := text(body["name"])
	if symbol == "" || name == "" {
		writeError(w, http.StatusBadRequest, "symbol and name are required", "")
		return
	}

	asset, err := s.store.CreateAsset(symbol, name, text(body["exchange"]))
	if errors.Is(err, ErrDuplicateSymbol) {
		writeError(w, http.StatusConflict, err.Error(), "")
		return
	}
	writeJSON(w, http.StatusCreated, asset)
}

func (s *Server) getAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	asset, err := s.store.Asset(id)
	if err != nil {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

func (s *Server) deleteAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteAsset(id); err != nil {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) listSignals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Signals())
}

func (s *Server) createAutoSignal(w http.ResponseWriter, r *http.Request) {
	body := readBody(r)
	assetID, ok := integer(body["asset_id"])
	if !ok {
		writeError(w, http.StatusBadRequest, "asset_id is required", "")
		return
	}
	timeframe := text(body["timeframe"])
	if timeframe == "" {
		timeframe = domain.DefaultTimeframe
	}

	asset, err := s.store.Asset(assetID)
	if err != nil {
		notFound(w)
		return
	}

	snap := Snapshot(asset.Symbol, timeframe)
	sig := s.store.AddSignal(GenerateSignal(asset.ID, snap))
	writeJSON(w, http.StatusCreated, domain.AutoSignalResult{Signal: sig, Market: snap})
}

func (s *Server) getSignal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	sig, err := s.store.Signal(id)
	if err != nil {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, sig)
}

func (s *Server) deleteSignal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteSignal(id); err != nil {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) aiSummary(w http.ResponseWriter, r *http.Request) {
	body := readBody(r)
	signalID, ok := integer(body["signal_id"])
	if !ok {
		writeError(w, http.StatusBadRequest, "signal_id is required", "")
		return
	}
	sig, err := s.store.Signal(signalID)
	if err != nil {
		notFound(w)
		return
	}
	asset, err := s.store.Asset(sig.AssetID)
	if err != nil {
		notFound(w)
		return
	}

	market, _ := body["market"].(map[string]any)
	writeJSON(w, http.StatusOK, summarize(asset, sig, market))
}

func (s *Server) marketSnapshot(w http.ResponseWriter, r *http.Request) {
	body := readBody(r)
	assetID, ok := integer(body["asset_id"])
	if !ok {
		writeError(w, http.StatusBadRequest, "asset_id is required", "")
		return
	}
	timeframe := text(body["timeframe"])
	if timeframe == "" {
		timeframe = domain.DefaultTimeframe
	}
	asset, err := s.store.Asset(assetID)
	if err != nil {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, Snapshot(asset.Symbol, timeframe))
}

// summarize produces a canned advisory answer from the signal and the
// market snapshot the client sent along
func summarize(asset domain.Asset, sig domain.Signal, market map[string]any) domain.AISummary {
	risks := []string{}
	recommendation := "Wait for confirmation before entering."

	if rsi, ok := market["rsi"].(float64); ok {
		switch {
		case rsi >= 70:
			risks = append(risks, "RSI overbought")
		case rsi <= 30:
			risks = append(risks, "RSI oversold")
		}
	} else {
		risks = append(risks, "RSI not provided")
	}
	if vol, ok := market["volatility"].(float64); ok && vol > 0.02 {
		risks = append(risks, "High volatility")
	}
	if sig.Side != domain.SideHold && len(risks) == 0 {
		recommendation = fmt.Sprintf("Consider a %s entry near %.4f.", sig.Side, sig.EntryPrice)
	}

	return domain.AISummary{
		SignalID:       sig.ID,
		Provider:       "stub",
		Summary:        fmt.Sprintf("%s %s signal on %s with confidence %.2f.", asset.Symbol, sig.Side, sig.Timeframe, sig.Confidence),
		Recommendation: recommendation,
		Confidence:     sig.Confidence,
		Risks:          risks,
	}
}

// readBody decodes a JSON object; anything else counts as an empty object
func readBody(r *http.Request) map[string]any {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body == nil {
		return map[string]any{}
	}
	return body
}

func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func integer(v any) (int64, bool) {
	switch t := v.(type) {
	case float64:
		if t == 0 {
			return 0, false
		}
		return int64(t), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n, err == nil && n != 0
	default:
		return 0, false
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		notFound(w)
		return 0, false
	}
	return id, true
}

func notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "Not Found", "The requested URL was not found on the server.")
}

func writeError(w http.ResponseWriter, status int, errMsg, message string) {
	body := map[string]string{"error": errMsg}
	if message != "" {
		body["message"] = message
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
