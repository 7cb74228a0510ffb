package domain

// Asset is a tracked instrument as returned by /api/assets/
type Asset struct {
	ID        int64  `json:"id"`
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	Exchange  string `json:"exchange"`
	CreatedAt string `json:"created_at"`
}

// DefaultExchange is assumed when an asset is created without one
const DefaultExchange = "binance"

// Signal sides
const (
	SideBuy  = "buy"
	SideSell = "sell"
	SideHold = "hold"
)

// Signal is a trading signal as returned by /api/signals/
type Signal struct {
	ID         int64    `json:"id"`
	AssetID    int64    `json:"asset_id"`
	Side       string   `json:"side"`
	Timeframe  string   `json:"timeframe"`
	Confidence float64  `json:"confidence"`
	EntryPrice float64  `json:"entry_price"`
	StopLoss   *float64 `json:"stop_loss"`
	TakeProfit *float64 `json:"take_profit"`
	CreatedAt  string   `json:"created_at"`
}

// DefaultTimeframe is used when an auto-signal request names none
const DefaultTimeframe = "5m"

// MarketSnapshot is the indicator set behind an auto-generated signal
type MarketSnapshot struct {
	Symbol     string  `json:"symbol"`
	Timeframe  string  `json:"timeframe"`
	LastPrice  float64 `json:"last_price"`
	RSI        float64 `json:"rsi"`
	MACD       float64 `json:"macd"`
	Signal     float64 `json:"signal"`
	Volatility float64 `json:"volatility"`
}

// AutoSignalResult is the body returned by /api/signals/auto
type AutoSignalResult struct {
	Signal Signal         `json:"signal"`
	Market MarketSnapshot `json:"market"`
}

// AISummary is the advisory answer of /api/ai/summary
type AISummary struct {
	SignalID       int64    `json:"signal_id"`
	Provider       string   `json:"provider"`
	Summary        string   `json:"summary"`
	Recommendation string   `json:"recommendation"`
	Confidence     float64  `json:"confidence"`
	Risks          []string `json:"risks"`
}
