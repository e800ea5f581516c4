// market/instruments.go
package market

import "math"

// InstrumentMeta describes the static, per-run metadata for a tradable symbol.
type InstrumentMeta struct {
	Symbol        string
	AssetClass    string
	PriceDecimals int
	QtyDecimals   int
	MaxLeverage   float64
	MinOrderSize  float64
	BasePrice     float64
}

// TickSize is the smallest representable price increment,
// derived from the symbol's price precision.
func (m InstrumentMeta) TickSize() float64 {
	return math.Pow(10, -float64(m.PriceDecimals))
}

var Instruments = map[string]InstrumentMeta{
	"BTC_USD": {
		Symbol:        "BTC_USD",
		AssetClass:    "crypto",
		PriceDecimals: 2,
		QtyDecimals:   4,
		MaxLeverage:   100,
		MinOrderSize:  0.0001,
		BasePrice:     95420.50,
	},
	"ETH_USD": {
		Symbol:        "ETH_USD",
		AssetClass:    "crypto",
		PriceDecimals: 2,
		QtyDecimals:   3,
		MaxLeverage:   100,
		MinOrderSize:  0.001,
		BasePrice:     3310.25,
	},
	"SOL_USD": {
		Symbol:        "SOL_USD",
		AssetClass:    "crypto",
		PriceDecimals: 3,
		QtyDecimals:   2,
		MaxLeverage:   50,
		MinOrderSize:  0.01,
		BasePrice:     214.730,
	},
	"EUR_USD": {
		Symbol:        "EUR_USD",
		AssetClass:    "fx",
		PriceDecimals: 5,
		QtyDecimals:   0,
		MaxLeverage:   30,
		MinOrderSize:  1000,
		BasePrice:     1.08450,
	},
	"XAU_USD": {
		Symbol:        "XAU_USD",
		AssetClass:    "metal",
		PriceDecimals: 2,
		QtyDecimals:   2,
		MaxLeverage:   20,
		MinOrderSize:  0.01,
		BasePrice:     2655.80,
	},
}

// Lookup returns the metadata for a symbol and whether it is known.
func Lookup(symbol string) (InstrumentMeta, bool) {
	m, ok := Instruments[symbol]
	return m, ok
}

// Symbols returns every registered symbol.
func Symbols() []string {
	out := make([]string, 0, len(Instruments))
	for s := range Instruments {
		out = append(out, s)
	}
	return out
}
