package sim

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/propdesk/propdesk/internal/id"
	"github.com/propdesk/propdesk/journal"
	"github.com/propdesk/propdesk/market"
	"github.com/propdesk/propdesk/metrics"
)

// Engine is the order/position lifecycle manager. Every mutation to any
// ledger (user commands and the risk tick sweep) is serialized behind one
// mutex, so a manual close and a concurrent tick-triggered close of the
// same position cannot race.
type Engine struct {
	mu       sync.Mutex
	prices   *PriceBook
	ledgers  map[string]*Ledger
	posOwner map[string]string // open position id -> account id
	ordOwner map[string]string // order id -> account id
	journal  journal.Journal
	log      *zap.Logger
	listener CloseListener
}

// CloseListener is notified when the risk tick sweep auto-closes a
// position. It is called after the engine lock is released.
type CloseListener interface {
	OnPositionClosed(positionID string, reason CloseReason)
}

func NewEngine(prices *PriceBook, j journal.Journal, logger *zap.Logger) *Engine {
	if prices == nil {
		prices = NewPriceBook(0)
	}
	if j == nil {
		j = journal.Nop()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		prices:   prices,
		ledgers:  make(map[string]*Ledger),
		posOwner: make(map[string]string),
		ordOwner: make(map[string]string),
		journal:  j,
		log:      logger,
	}
}

func (e *Engine) Prices() *PriceBook { return e.prices }

// SetCloseListener registers an optional listener for tick-driven closes.
func (e *Engine) SetCloseListener(l CloseListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listener = l
}

// CreateAccount registers a fresh ledger. It is an error to register the
// same account twice.
func (e *Engine) CreateAccount(accountID string, startingBalance float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.ledgers[accountID]; ok {
		return fmt.Errorf("account %q already exists", accountID)
	}
	e.ledgers[accountID] = NewLedger(accountID, startingBalance)
	return nil
}

// AdvancePrices walks every symbol once and returns the full price map.
// Price moves change unrealized P&L, so they invalidate cached snapshots.
func (e *Engine) AdvancePrices() map[string]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := e.prices.AdvanceAll()
	for _, l := range e.ledgers {
		l.bump()
	}
	return out
}

// SetPrice pins one symbol's price directly. Like AdvancePrices it
// invalidates cached snapshots, since marks move with it.
func (e *Engine) SetPrice(symbol string, price float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.prices.Set(symbol, price)
	for _, l := range e.ledgers {
		l.bump()
	}
}

// OrderRequest carries every parameter of placeOrder. Price is the limit
// price for limit/stop_limit orders; StopPrice the trigger for
// stop/stop_limit orders.
type OrderRequest struct {
	AccountID string
	Symbol    string
	Direction Direction
	Type      OrderType
	Quantity  float64
	Leverage  float64

	Price     *float64
	StopPrice *float64

	StopLoss             *float64
	TakeProfit           *float64
	TrailingStopDistance *float64
}

// OrderResult is the outcome of PlaceOrder: market orders fill into
// Position, resting orders come back as a pending Order.
type OrderResult struct {
	Position *Position
	Order    *Order
}

// PlaceOrder validates the request and either fills it synchronously
// (market) or books a pending order with margin reserved (limit, stop,
// stop_limit). All validation happens before any mutation.
func (e *Engine) PlaceOrder(ctx context.Context, req OrderRequest) (OrderResult, error) {
	_ = ctx // reserved for future cancellation checks

	meta, ok := market.Lookup(req.Symbol)
	if !ok {
		return OrderResult{}, fmt.Errorf("place order: %w: %q", ErrUnknownSymbol, req.Symbol)
	}
	if !req.Direction.valid() {
		return OrderResult{}, fmt.Errorf("place order: %w: %q", ErrInvalidDirection, req.Direction)
	}
	if !req.Type.valid() {
		return OrderResult{}, fmt.Errorf("place order: unsupported order type %q", req.Type)
	}
	if req.Quantity <= 0 || math.IsNaN(req.Quantity) {
		return OrderResult{}, fmt.Errorf("place order: %w: %v", ErrInvalidQuantity, req.Quantity)
	}
	if req.Quantity < meta.MinOrderSize {
		return OrderResult{}, fmt.Errorf("place order: %w: %v below minimum %v",
			ErrInvalidQuantity, req.Quantity, meta.MinOrderSize)
	}
	if req.Leverage <= 0 || math.IsNaN(req.Leverage) {
		return OrderResult{}, fmt.Errorf("place order: %w: %v", ErrInvalidLeverage, req.Leverage)
	}

	leverage := req.Leverage
	if leverage < 1 {
		leverage = 1
	}
	if leverage > meta.MaxLeverage {
		leverage = meta.MaxLeverage
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	l, ok := e.ledgers[req.AccountID]
	if !ok {
		return OrderResult{}, fmt.Errorf("place order: %w: %q", ErrAccountNotFound, req.AccountID)
	}

	if req.Type == OrderMarket {
		return e.fillMarketLocked(l, meta, req, leverage)
	}
	return e.bookPendingLocked(l, req, leverage)
}

func (e *Engine) fillMarketLocked(l *Ledger, meta market.InstrumentMeta, req OrderRequest, leverage float64) (OrderResult, error) {
	q := e.prices.GetQuote(req.Symbol)
	entry := q.Ask
	if req.Direction == Short {
		entry = q.Bid
	}
	if entry <= 0 {
		return OrderResult{}, fmt.Errorf("place order: %w: %q", ErrPriceUnavailable, req.Symbol)
	}

	margin := RequiredMargin(entry, req.Quantity, leverage)
	fee := Fee(entry, req.Quantity)

	if margin > e.snapshotLocked(l).AvailableMargin {
		return OrderResult{}, fmt.Errorf("place order: %w: need %.2f", ErrInsufficientMargin, margin)
	}

	now := q.Time
	p := &Position{
		ID:                   id.New(),
		AccountID:            req.AccountID,
		Symbol:               req.Symbol,
		Direction:            req.Direction,
		Quantity:             req.Quantity,
		Leverage:             leverage,
		EntryPrice:           entry,
		EntryTime:            now,
		LiquidationPrice:     LiquidationPrice(req.Direction, entry, leverage),
		Status:               PositionOpen,
		IsolatedMargin:       margin,
		TradeFees:            fee,
		TotalFees:            fee,
		StopLoss:             req.StopLoss,
		TakeProfit:           req.TakeProfit,
		TrailingStopDistance: req.TrailingStopDistance,
	}

	l.positions[p.ID] = p
	e.posOwner[p.ID] = l.AccountID
	l.TotalFeesPaid += fee
	l.appendActivity(activityOrderFilled,
		fmt.Sprintf("%s %s", req.Direction, req.Symbol),
		fmt.Sprintf("%.*f @ %.*f x%g", meta.QtyDecimals, req.Quantity, meta.PriceDecimals, entry, leverage),
		now, nil)
	l.bump()

	metrics.OrderPlaced(string(OrderMarket), string(req.Direction))
	metrics.PositionOpened()
	metrics.FeeCharged(fee)
	e.log.Info("position opened",
		zap.String("position", p.ID),
		zap.String("account", l.AccountID),
		zap.String("symbol", p.Symbol),
		zap.String("direction", string(p.Direction)),
		zap.Float64("entry", entry),
		zap.Float64("quantity", p.Quantity),
		zap.Float64("leverage", leverage))

	return OrderResult{Position: p}, nil
}

func (e *Engine) bookPendingLocked(l *Ledger, req OrderRequest, leverage float64) (OrderResult, error) {
	var ref float64
	switch req.Type {
	case OrderLimit, OrderStopLimit:
		if req.Price == nil {
			return OrderResult{}, fmt.Errorf("place order: %w for %s order", ErrPriceRequired, req.Type)
		}
		ref = *req.Price
	case OrderStop:
		if req.StopPrice == nil {
			return OrderResult{}, fmt.Errorf("place order: %w for %s order", ErrPriceRequired, req.Type)
		}
		ref = *req.StopPrice
	}
	if ref <= 0 {
		return OrderResult{}, fmt.Errorf("place order: %w: reference price %v", ErrPriceRequired, ref)
	}

	// Margin is reserved at placement and released on cancel, so pending
	// orders cannot over-commit the account.
	margin := RequiredMargin(ref, req.Quantity, leverage)
	if margin > e.snapshotLocked(l).AvailableMargin {
		return OrderResult{}, fmt.Errorf("place order: %w: need %.2f", ErrInsufficientMargin, margin)
	}

	now := time.Now()
	o := &Order{
		ID:             id.New(),
		AccountID:      req.AccountID,
		Symbol:         req.Symbol,
		Direction:      req.Direction,
		Type:           req.Type,
		Quantity:       req.Quantity,
		Leverage:       leverage,
		Price:          req.Price,
		StopPrice:      req.StopPrice,
		StopLoss:       req.StopLoss,
		TakeProfit:     req.TakeProfit,
		Status:         OrderPending,
		ReservedMargin: margin,
		CreatedAt:      now,
	}

	l.orders[o.ID] = o
	e.ordOwner[o.ID] = l.AccountID
	l.reservedMargin += margin
	l.appendActivity(activityOrderPlaced,
		fmt.Sprintf("%s %s %s", req.Type, req.Direction, req.Symbol),
		fmt.Sprintf("%g @ %g", req.Quantity, ref),
		now, nil)
	l.bump()

	metrics.OrderPlaced(string(req.Type), string(req.Direction))
	return OrderResult{Order: o}, nil
}

// ClosePosition closes the full position at the opposite-side quote:
// longs exit on bid, shorts on ask.
func (e *Engine) ClosePosition(ctx context.Context, positionID string) (*Position, error) {
	_ = ctx

	e.mu.Lock()
	defer e.mu.Unlock()

	l, p, err := e.openPositionLocked(positionID)
	if err != nil {
		return nil, err
	}

	exit, err := e.exitPriceLocked(p)
	if err != nil {
		return nil, err
	}

	e.closePositionLocked(l, p, exit, time.Now(), CloseManual)
	return p, nil
}

// PartialClose realizes P&L on part of a position and releases the
// proportional slice of isolated margin. Full closes must use
// ClosePosition.
func (e *Engine) PartialClose(ctx context.Context, positionID string, closeQuantity float64) (*Position, error) {
	_ = ctx

	e.mu.Lock()
	defer e.mu.Unlock()

	l, p, err := e.openPositionLocked(positionID)
	if err != nil {
		return nil, err
	}
	if closeQuantity <= 0 || math.IsNaN(closeQuantity) || closeQuantity >= p.Quantity {
		return nil, fmt.Errorf("partial close: %w: %v of %v", ErrInvalidPartialQuantity, closeQuantity, p.Quantity)
	}

	exit, err := e.exitPriceLocked(p)
	if err != nil {
		return nil, err
	}

	pnl := RealizedPnl(p.Direction, p.EntryPrice, exit, closeQuantity, p.Leverage)
	fee := Fee(exit, closeQuantity)
	fraction := closeQuantity / p.Quantity

	p.IsolatedMargin -= p.IsolatedMargin * fraction
	p.Quantity -= closeQuantity
	p.RealizedPnl += pnl
	p.TotalFees += fee

	l.RealizedPnl += pnl
	l.TotalFeesPaid += fee

	now := time.Now()
	l.appendActivity(activityPartialClose,
		fmt.Sprintf("partial close %s", p.Symbol),
		fmt.Sprintf("%g @ %g", closeQuantity, exit),
		now, &pnl)
	l.bump()

	e.recordTrade(p, closeQuantity, exit, now, "partial", pnl, fee)
	metrics.PositionClosed("partial", pnl, fee)

	return p, nil
}

// CancelOrder cancels a pending or partially filled order and releases
// its reserved margin.
func (e *Engine) CancelOrder(ctx context.Context, orderID string) (*Order, error) {
	_ = ctx

	e.mu.Lock()
	defer e.mu.Unlock()

	acct, ok := e.ordOwner[orderID]
	if !ok {
		return nil, fmt.Errorf("cancel order: %w: %q", ErrOrderNotFound, orderID)
	}
	l := e.ledgers[acct]
	o := l.orders[orderID]
	if o == nil || !o.active() {
		return nil, fmt.Errorf("cancel order: %w: %q", ErrOrderNotFound, orderID)
	}

	e.cancelOrderLocked(l, o, time.Now())
	l.bump()
	return o, nil
}

// Reverse closes a position and re-opens it in the opposite direction at
// the same size and leverage. If the close commits but the re-open fails,
// the position stays closed and the failure is surfaced without retry.
func (e *Engine) Reverse(ctx context.Context, positionID string) (OrderResult, error) {
	e.mu.Lock()
	_, p, err := e.openPositionLocked(positionID)
	if err != nil {
		e.mu.Unlock()
		return OrderResult{}, err
	}
	req := OrderRequest{
		AccountID: p.AccountID,
		Symbol:    p.Symbol,
		Direction: p.Direction.Opposite(),
		Type:      OrderMarket,
		Quantity:  p.Quantity,
		Leverage:  p.Leverage,
	}
	e.mu.Unlock()

	if _, err := e.ClosePosition(ctx, positionID); err != nil {
		return OrderResult{}, err
	}

	res, err := e.PlaceOrder(ctx, req)
	if err != nil {
		return OrderResult{}, fmt.Errorf("reverse: position closed but re-open failed: %w", err)
	}
	return res, nil
}

// ComputeSnapshot returns the cached account snapshot, recomputing only
// when the ledger has mutated since the last call.
func (e *Engine) ComputeSnapshot(accountID string) (AccountSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, ok := e.ledgers[accountID]
	if !ok {
		return AccountSnapshot{}, fmt.Errorf("snapshot: %w: %q", ErrAccountNotFound, accountID)
	}
	snap := e.snapshotLocked(l)
	metrics.SetAccountGauges(accountID, snap.NetWorth, snap.MarginUsed)
	return snap, nil
}

// GetOpenPositions returns the open set ordered by entry time.
func (e *Engine) GetOpenPositions(accountID string) []*Position {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, ok := e.ledgers[accountID]
	if !ok {
		return nil
	}
	out := make([]*Position, 0, len(l.positions))
	for _, p := range l.positions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EntryTime.Equal(out[j].EntryTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].EntryTime.Before(out[j].EntryTime)
	})
	return out
}

// GetClosedPositions returns the retained close history, most recent last.
func (e *Engine) GetClosedPositions(accountID string) []*Position {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, ok := e.ledgers[accountID]
	if !ok {
		return nil
	}
	out := make([]*Position, len(l.closed))
	copy(out, l.closed)
	return out
}

// GetPendingOrders returns orders still awaiting a fill or cancel.
func (e *Engine) GetPendingOrders(accountID string) []*Order {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, ok := e.ledgers[accountID]
	if !ok {
		return nil
	}
	out := make([]*Order, 0, len(l.orders))
	for _, o := range l.orders {
		if o.active() {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GetActivity returns the retained activity log, oldest first.
func (e *Engine) GetActivity(accountID string) []ActivityEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, ok := e.ledgers[accountID]
	if !ok {
		return nil
	}
	out := make([]ActivityEntry, len(l.activity))
	copy(out, l.activity)
	return out
}

// openPositionLocked resolves an open position or reports
// ErrPositionNotFound for absent and already-closed ids alike.
func (e *Engine) openPositionLocked(positionID string) (*Ledger, *Position, error) {
	acct, ok := e.posOwner[positionID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrPositionNotFound, positionID)
	}
	l := e.ledgers[acct]
	p := l.positions[positionID]
	if p == nil || p.Status != PositionOpen {
		return nil, nil, fmt.Errorf("%w: %q", ErrPositionNotFound, positionID)
	}
	return l, p, nil
}

// exitPriceLocked is the opposite-side quote: longs exit on bid, shorts
// on ask.
func (e *Engine) exitPriceLocked(p *Position) (float64, error) {
	q := e.prices.GetQuote(p.Symbol)
	exit := q.Bid
	if p.Direction == Short {
		exit = q.Ask
	}
	if exit <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrPriceUnavailable, p.Symbol)
	}
	return exit, nil
}

// closePositionLocked commits a full close: books P&L and fees, retires
// the position to closed history, cancels linked protective orders, and
// journals the trade plus a fresh equity snapshot.
func (e *Engine) closePositionLocked(l *Ledger, p *Position, exit float64, closeTime time.Time, reason CloseReason) {
	pnl := RealizedPnl(p.Direction, p.EntryPrice, exit, p.Quantity, p.Leverage)
	fee := Fee(exit, p.Quantity)

	p.ExitPrice = exit
	p.ExitTime = closeTime
	p.RealizedPnl += pnl
	p.TotalFees += fee
	p.Status = PositionClosed
	p.CloseReason = reason

	delete(e.posOwner, p.ID)
	l.retire(p)

	l.RealizedPnl += pnl
	l.TotalFeesPaid += fee

	for _, o := range l.orders {
		if o.PositionID == p.ID && o.active() {
			e.cancelOrderLocked(l, o, closeTime)
		}
	}

	l.appendActivity(activityPositionClosed,
		fmt.Sprintf("closed %s %s (%s)", p.Direction, p.Symbol, reason),
		fmt.Sprintf("%g @ %g", p.Quantity, exit),
		closeTime, &pnl)
	l.bump()

	e.recordTrade(p, p.Quantity, exit, closeTime, string(reason), pnl, fee)
	snap := e.snapshotLocked(l)
	if err := e.journal.RecordEquity(journal.EquitySnapshot{
		Time:            closeTime,
		AccountID:       l.AccountID,
		NetWorth:        snap.NetWorth,
		MarginUsed:      snap.MarginUsed,
		AvailableMargin: snap.AvailableMargin,
		UnrealizedPL:    snap.UnrealizedPnl,
	}); err != nil {
		e.log.Error("journal equity", zap.Error(err))
	}

	metrics.PositionClosed(string(reason), pnl, fee)
	e.log.Info("position closed",
		zap.String("position", p.ID),
		zap.String("account", l.AccountID),
		zap.String("reason", string(reason)),
		zap.Float64("exit", exit),
		zap.Float64("pnl", pnl))
}

func (e *Engine) cancelOrderLocked(l *Ledger, o *Order, t time.Time) {
	o.Status = OrderCancelled
	l.reservedMargin -= o.ReservedMargin
	if l.reservedMargin < 0 {
		l.reservedMargin = 0
	}
	delete(e.ordOwner, o.ID)
	l.appendActivity(activityOrderCancelled,
		fmt.Sprintf("cancelled %s %s %s", o.Type, o.Direction, o.Symbol),
		fmt.Sprintf("%g", o.Quantity),
		t, nil)
	metrics.OrderCancelled()
}

func (e *Engine) recordTrade(p *Position, quantity, exit float64, closeTime time.Time, reason string, pnl, fee float64) {
	if err := e.journal.RecordTrade(journal.TradeRecord{
		PositionID: p.ID,
		AccountID:  p.AccountID,
		Symbol:     p.Symbol,
		Direction:  string(p.Direction),
		Quantity:   quantity,
		Leverage:   p.Leverage,
		EntryPrice: p.EntryPrice,
		ExitPrice:  exit,
		OpenTime:   p.EntryTime,
		CloseTime:  closeTime,
		RealizedPL: pnl,
		Fees:       fee,
		Reason:     reason,
	}); err != nil {
		e.log.Error("journal trade", zap.Error(err))
	}
}
