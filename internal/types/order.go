package types

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/riptide-lab/riptide-trading/pkg/errors"
)

type OrderType string

type OrderStatus string

const (
	OrderTypeMarket OrderType = "MARKET"
)

const (
	OrderStatusFilled   OrderStatus = "FILLED"
	OrderStatusRejected OrderStatus = "REJECTED"
	OrderStatusFailed   OrderStatus = "FAILED"
)

const (
	OrderReasonSignal     string = "signal"
	OrderReasonStopLoss   string = "stop_loss"
	OrderReasonTakeProfit string = "take_profit"
)

// Reason records why an order was placed.
type Reason struct {
	Kind    string `yaml:"kind" json:"kind" validate:"required"`
	Message string `yaml:"message" json:"message"`
}

// Order is a request handed to an order transport. Only market orders are
// placed; price is the decision price and paper transports fill at it.
type Order struct {
	OrderID   string     `yaml:"order_id" json:"order_id" validate:"required,uuid"`
	Symbol    string     `yaml:"symbol" json:"symbol" validate:"required"`
	Side      SignalSide `yaml:"side" json:"side" validate:"required,oneof=BUY SELL"`
	OrderType OrderType  `yaml:"order_type" json:"order_type" validate:"required,oneof=MARKET"`
	Quantity  float64    `yaml:"quantity" json:"quantity" validate:"required,gt=0"`
	Price     float64    `yaml:"price" json:"price" validate:"required,gt=0"`
	// PositionID links the order to the position it opens or reduces.
	PositionID string    `yaml:"position_id" json:"position_id"`
	Reason     Reason    `yaml:"reason" json:"reason" validate:"required"`
	Timestamp  time.Time `yaml:"timestamp" json:"timestamp"`
}

// OrderResult is the transport's fill report.
type OrderResult struct {
	OrderID          string      `yaml:"order_id" json:"order_id"`
	Status           OrderStatus `yaml:"status" json:"status"`
	ExecutedPrice    float64     `yaml:"executed_price" json:"executed_price"`
	ExecutedQuantity float64     `yaml:"executed_quantity" json:"executed_quantity"`
	ExecutedAt       time.Time   `yaml:"executed_at" json:"executed_at"`
}

// Validate validates the Order struct.
func (o *Order) Validate() error {
	validate := validator.New()
	if err := validate.Struct(o); err != nil {
		return errors.Wrap(errors.ErrCodeOrderFailed, "invalid order", err)
	}

	return nil
}
