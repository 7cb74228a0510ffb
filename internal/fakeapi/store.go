package fakeapi

import (
	"errors"
	"hash/fnv"
	"math"
	"sort"
	"strings"
	"sync"

	"signaldesk/internal/domain"
	"signaldesk/internal/utils"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateSymbol = errors.New("symbol already exists")
)

// Store keeps assets and signals in memory
type Store struct {
	mu           sync.Mutex
	assets       []domain.Asset
	signals      []domain.Signal
	nextAssetID  int64
	nextSignalID int64
	clock        utils.Clock
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		nextAssetID:  1,
		nextSignalID: 1,
		clock:        utils.UTCClock,
	}
}

// CreateAsset adds an asset; symbols are upper-cased and unique
func (s *Store) CreateAsset(symbol, name, exchange string) (domain.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	symbol = strings.ToUpper(symbol)
	for _, a := range s.assets {
		if a.Symbol == symbol {
			return domain.Asset{}, ErrDuplicateSymbol
		}
	}
	if exchange == "" {
		exchange = domain.DefaultExchange
	}

	asset := domain.Asset{
		ID:        s.nextAssetID,
		Symbol:    symbol,
		Name:      name,
		Exchange:  exchange,
		CreatedAt: utils.FormatISO(s.clock()),
	}
	s.nextAssetID++
	s.assets = append(s.assets, asset)
	return asset, nil
}

// Assets returns all assets in creation order
func (s *Store) Assets() []domain.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Asset{}, s.assets...)
}

// Asset finds an asset by id
func (s *Store) Asset(id int64) (domain.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.assets {
		if a.ID == id {
			return a, nil
		}
	}
	return domain.Asset{}, ErrNotFound
}

// DeleteAsset removes an asset together with its signals
func (s *Store) DeleteAsset(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.assets {
		if a.ID != id {
			continue
		}
		s.assets = append(s.assets[:i], s.assets[i+1:]...)
		kept := s.signals[:0]
		for _, sig := range s.signals {
			if sig.AssetID != id {
				kept = append(kept, sig)
			}
		}
		s.signals = kept
		return nil
	}
	return ErrNotFound
}

// AddSignal stores a signal and assigns its id and timestamp
func (s *Store) AddSignal(sig domain.Signal) domain.Signal {
	s.mu.Lock()
	defer s.mu.Unlock()
	sig.ID = s.nextSignalID
	sig.CreatedAt = utils.FormatISO(s.clock())
	s.nextSignalID++
	s.signals = append(s.signals, sig)
	return sig
}

// Signals returns all signals, newest first
func (s *Store) Signals() []domain.Signal {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]domain.Signal{}, s.signals...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// Signal finds a signal by id
func (s *Store) Signal(id int64) (domain.Signal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sig := range s.signals {
		if sig.ID == id {
			return sig, nil
		}
	}
	return domain.Signal{}, ErrNotFound
}

// DeleteSignal removes a signal
func (s *Store) DeleteSignal(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sig := range s.signals {
		if sig.ID == id {
			s.signals = append(s.signals[:i], s.signals[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Snapshot derives a stable, made-up market snapshot for a symbol.
// Same symbol and timeframe always give the same numbers.
func Snapshot(symbol, timeframe string) domain.MarketSnapshot {
	h := fnv.New64a()
	h.Write([]byte(strings.ToUpper(symbol) + "|" + timeframe))
	seed := h.Sum64()

	unit := func(shift uint) float64 {
		return float64((seed>>shift)&0xffff) / 0xffff
	}

	return domain.MarketSnapshot{
		Symbol:     normalizeSymbol(symbol),
		Timeframe:  timeframe,
		LastPrice:  round(10+unit(0)*90000, 4),
		RSI:        round(20+unit(16)*60, 4),
		MACD:       round(unit(32)*4-2, 4),
		Signal:     round(unit(48)*4-2, 4),
		Volatility: round(unit(8)*0.03, 6),
	}
}

// GenerateSignal turns a snapshot into a buy, sell or hold signal
func GenerateSignal(assetID int64, snap domain.MarketSnapshot) domain.Signal {
	side := domain.SideHold
	switch {
	case snap.RSI < 45 && snap.MACD > snap.Signal:
		side = domain.SideBuy
	case snap.RSI > 55 && snap.MACD < snap.Signal:
		side = domain.SideSell
	}

	confidence := math.Min(1, math.Max(0.1, math.Abs(snap.RSI-50)/50+math.Abs(snap.MACD)/10))
	entry := snap.LastPrice
	vol := math.Max(snap.Volatility, 0.005)

	sig := domain.Signal{
		AssetID:    assetID,
		Side:       side,
		Timeframe:  snap.Timeframe,
		Confidence: round(confidence, 3),
		EntryPrice: round(entry, 4),
	}
	switch side {
	case domain.SideBuy:
		sig.StopLoss = ptr(round(entry*(1-2*vol), 4))
		sig.TakeProfit = ptr(round(entry*(1+3*vol), 4))
	case domain.SideSell:
		sig.StopLoss = ptr(round(entry*(1+2*vol), 4))
		sig.TakeProfit = ptr(round(entry*(1-3*vol), 4))
	}
	return sig
}

func normalizeSymbol(symbol string) string {
	if strings.Contains(symbol, "/") {
		return symbol
	}
	upper := strings.ToUpper(symbol)
	if strings.HasSuffix(upper, "USDT") && len(upper) > 4 {
		return upper[:len(upper)-4] + "/USDT"
	}
	return upper
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func ptr(v float64) *float64 { return &v }
