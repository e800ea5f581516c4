package sim

import (
	"math/rand"
	"sync"
	"time"

	"github.com/propdesk/propdesk/market"
)

// Bounds on the random walk, relative to each instrument's base price.
const (
	walkStepPct = 0.0003 // each advance moves up to ±0.03% of base
	walkBandPct = 0.03   // price stays within ±3% of base
)

// Quote is a point-in-time two-sided price. Bid/ask sit one tick either
// side of the walked mid.
type Quote struct {
	Symbol string
	Bid    float64
	Ask    float64
	Time   time.Time
}

func (q Quote) Mid() float64 { return (q.Bid + q.Ask) / 2 }

// PriceBook holds one mutable current price per registered symbol and
// advances it by a bounded random walk. Unknown symbols read as zero so
// downstream arithmetic runs to completion instead of panicking.
type PriceBook struct {
	mu      sync.RWMutex
	rng     *rand.Rand
	current map[string]float64
}

// NewPriceBook seeds every registered instrument at its base price.
// Pass seed 0 for a time-based seed.
func NewPriceBook(seed int64) *PriceBook {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	current := make(map[string]float64, len(market.Instruments))
	for sym, meta := range market.Instruments {
		current[sym] = meta.BasePrice
	}
	return &PriceBook{
		rng:     rand.New(rand.NewSource(seed)),
		current: current,
	}
}

// Advance perturbs the symbol's current price by a uniform delta scaled to
// the walk step, clamps it to the band around base, and returns the new
// value. Unknown symbols return 0.
func (pb *PriceBook) Advance(symbol string) float64 {
	meta, ok := market.Lookup(symbol)
	if !ok {
		return 0
	}

	pb.mu.Lock()
	defer pb.mu.Unlock()
	return pb.advanceLocked(meta)
}

// AdvanceAll walks every registered symbol once and returns the full
// current price map.
func (pb *PriceBook) AdvanceAll() map[string]float64 {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	out := make(map[string]float64, len(pb.current))
	for sym := range pb.current {
		meta, _ := market.Lookup(sym)
		out[sym] = pb.advanceLocked(meta)
	}
	return out
}

func (pb *PriceBook) advanceLocked(meta market.InstrumentMeta) float64 {
	px := pb.current[meta.Symbol]
	px += (pb.rng.Float64()*2 - 1) * meta.BasePrice * walkStepPct

	lo := meta.BasePrice * (1 - walkBandPct)
	hi := meta.BasePrice * (1 + walkBandPct)
	if px < lo {
		px = lo
	}
	if px > hi {
		px = hi
	}

	pb.current[meta.Symbol] = px
	return px
}

// Set pins a symbol's current price directly, bypassing the walk. Used by
// replay tooling and tests; unknown symbols are ignored.
func (pb *PriceBook) Set(symbol string, price float64) {
	if _, ok := market.Lookup(symbol); !ok {
		return
	}
	pb.mu.Lock()
	pb.current[symbol] = price
	pb.mu.Unlock()
}

// Current returns the latest walked price, or 0 for unknown symbols.
func (pb *PriceBook) Current(symbol string) float64 {
	pb.mu.RLock()
	defer pb.mu.RUnlock()
	return pb.current[symbol]
}

// GetQuote derives bid/ask from the latest price and the instrument's tick
// size. Unknown symbols yield a zero-valued quote, never an error.
func (pb *PriceBook) GetQuote(symbol string) Quote {
	meta, ok := market.Lookup(symbol)
	if !ok {
		return Quote{Symbol: symbol, Time: time.Now()}
	}

	pb.mu.RLock()
	px := pb.current[symbol]
	pb.mu.RUnlock()

	tick := meta.TickSize()
	return Quote{
		Symbol: symbol,
		Bid:    px - tick,
		Ask:    px + tick,
		Time:   time.Now(),
	}
}
