package sim

import "time"

type OrderType string

const (
	OrderMarket    OrderType = "market"
	OrderLimit     OrderType = "limit"
	OrderStop      OrderType = "stop"
	OrderStopLimit OrderType = "stop_limit"
)

func (t OrderType) valid() bool {
	switch t {
	case OrderMarket, OrderLimit, OrderStop, OrderStopLimit:
		return true
	}
	return false
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPartial   OrderStatus = "partial"
	OrderFilled    OrderStatus = "filled"
	OrderCancelled OrderStatus = "cancelled"
)

// Order is a resting (non-market) order. Market orders never persist as
// Order records; they resolve synchronously to a Position.
type Order struct {
	ID        string
	AccountID string
	Symbol    string
	Direction Direction
	Type      OrderType

	Quantity float64
	Leverage float64

	Price     *float64 // limit price (limit, stop_limit)
	StopPrice *float64 // trigger price (stop, stop_limit)

	StopLoss   *float64
	TakeProfit *float64

	Status         OrderStatus
	FilledQuantity float64

	// ReservedMargin is debited from available margin at placement and
	// released when the order is cancelled.
	ReservedMargin float64

	// PositionID links protective orders to a position; they are
	// cancelled when that position closes.
	PositionID string

	CreatedAt time.Time
}

func (o *Order) active() bool {
	return o.Status == OrderPending || o.Status == OrderPartial
}
