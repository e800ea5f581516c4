package sim

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/propdesk/propdesk/metrics"
)

// DefaultTickInterval is the cadence of the risk evaluation loop.
const DefaultTickInterval = 500 * time.Millisecond

// Ticker drives the recurring risk evaluation: trailing-stop ratchets and
// stop-loss/take-profit closes. There is one ticker per engine; Start is
// idempotent and a failing tick never stops the schedule.
type Ticker struct {
	engine   *Engine
	interval time.Duration
	log      *zap.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewTicker(e *Engine, interval time.Duration, logger *zap.Logger) *Ticker {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ticker{engine: e, interval: interval, log: logger}
}

// Start launches the tick loop. Returns false if it is already running.
func (t *Ticker) Start(ctx context.Context) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return false
	}
	t.running = true

	ctx, t.cancel = context.WithCancel(ctx)
	t.done = make(chan struct{})

	go t.loop(ctx)
	return true
}

// Stop cancels the loop and waits for the in-flight tick to finish.
func (t *Ticker) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	cancel, done := t.cancel, t.done
	t.running = false
	t.mu.Unlock()

	cancel()
	<-done
}

func (t *Ticker) loop(ctx context.Context) {
	defer close(t.done)

	tick := time.NewTicker(t.interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			t.engine.EvaluateRisk()
		}
	}
}

// EvaluateRisk runs one risk pass over a stable snapshot of the open set:
// ratchet trailing stops, then close anything whose stop-loss or
// take-profit is breached. A panic while evaluating one position is
// logged and the rest of the sweep continues.
func (e *Engine) EvaluateRisk() {
	type closedEvent struct {
		positionID string
		reason     CloseReason
	}
	var events []closedEvent

	e.mu.Lock()

	for _, l := range e.ledgers {
		ids := make([]string, 0, len(l.positions))
		for pid := range l.positions {
			ids = append(ids, pid)
		}

		for _, pid := range ids {
			p := l.positions[pid]
			if p == nil || p.Status != PositionOpen {
				continue
			}

			func() {
				defer func() {
					if r := recover(); r != nil {
						metrics.RiskTickError()
						e.log.Error("risk tick: position evaluation failed",
							zap.String("position", pid),
							zap.Any("panic", r))
					}
				}()

				price := e.prices.Current(p.Symbol)
				if price <= 0 {
					return
				}

				if ratchetTrailingStop(p, price) {
					l.bump()
				}

				var reason CloseReason
				switch {
				case hitStopLoss(p, price):
					reason = CloseStopLoss
				case hitTakeProfit(p, price):
					reason = CloseTakeProfit
				default:
					return
				}

				exit, err := e.exitPriceLocked(p)
				if err != nil {
					return
				}
				e.closePositionLocked(l, p, exit, time.Now(), reason)
				events = append(events, closedEvent{positionID: pid, reason: reason})
			}()
		}
	}

	listener := e.listener
	e.mu.Unlock()

	metrics.RiskTick()

	// Notify after releasing the lock to avoid deadlocks.
	if listener != nil {
		for _, ev := range events {
			listener.OnPositionClosed(ev.positionID, ev.reason)
		}
	}
}
