package trading

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/riptide-lab/riptide-trading/internal/logger"
	"github.com/riptide-lab/riptide-trading/internal/types"
)

// PaperTransport fills every order instantly at the submitted price. It
// keeps the fill history so tests and the API can inspect what was placed.
type PaperTransport struct {
	log *logger.Logger

	mu     sync.Mutex
	orders []types.Order
}

// NewPaperTransport creates a paper transport.
func NewPaperTransport(log *logger.Logger) *PaperTransport {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &PaperTransport{log: log}
}

// SubmitOrder fills the order at its own price.
func (t *PaperTransport) SubmitOrder(_ context.Context, order types.Order) (types.OrderResult, error) {
	if err := order.Validate(); err != nil {
		return types.OrderResult{
			OrderID: order.OrderID,
			Status:  types.OrderStatusRejected,
		}, err
	}

	t.mu.Lock()
	t.orders = append(t.orders, order)
	t.mu.Unlock()

	t.log.Info("paper fill",
		zap.String("symbol", order.Symbol),
		zap.String("side", string(order.Side)),
		zap.Float64("quantity", order.Quantity),
		zap.Float64("price", order.Price),
		zap.String("reason", order.Reason.Kind))

	return types.OrderResult{
		OrderID:          order.OrderID,
		Status:           types.OrderStatusFilled,
		ExecutedPrice:    order.Price,
		ExecutedQuantity: order.Quantity,
		ExecutedAt:       time.Now().UTC(),
	}, nil
}

// CancelAllOrders is a no-op: paper orders never rest.
func (t *PaperTransport) CancelAllOrders(_ context.Context, _ string) error {
	return nil
}

// Name implements OrderTransport.
func (t *PaperTransport) Name() string {
	return "paper"
}

// Orders returns a copy of every order submitted so far.
func (t *PaperTransport) Orders() []types.Order {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]types.Order, len(t.orders))
	copy(out, t.orders)

	return out
}

var _ OrderTransport = (*PaperTransport)(nil)
