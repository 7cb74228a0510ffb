package payload

// MarketKey is where the snapshot lands in an AI summary request
const MarketKey = "market"

// MarketFields are moved out of the top level into the market snapshot
var MarketFields = []string{"last_price", "rsi", "macd", "volatility"}

// Market is the nested snapshot of an AI summary request.
// A field left empty on the form is sent as null.
type Market struct {
	LastPrice  *Value `json:"last_price"`
	RSI        *Value `json:"rsi"`
	MACD       *Value `json:"macd"`
	Volatility *Value `json:"volatility"`
}

// ExtractMarket moves the snapshot fields under "market".
// The input is left untouched; other keys are copied as they are.
func ExtractMarket(p Payload) Payload {
	out := make(Payload, len(p)+1)
	for k, v := range p {
		out[k] = v
	}

	take := func(key string) *Value {
		v, ok := out[key].(Value)
		delete(out, key)
		if !ok {
			return nil
		}
		return &v
	}

	out[MarketKey] = Market{
		LastPrice:  take("last_price"),
		RSI:        take("rsi"),
		MACD:       take("macd"),
		Volatility: take("volatility"),
	}
	return out
}
