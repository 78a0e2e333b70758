package trading

import (
	"context"

	"github.com/riptide-lab/riptide-trading/internal/types"
)

// OrderTransport places orders on a venue. The engine decides; the
// transport only executes.
type OrderTransport interface {
	// SubmitOrder places a market order and reports the fill.
	SubmitOrder(ctx context.Context, order types.Order) (types.OrderResult, error)
	// CancelAllOrders cancels every open order for the symbol.
	CancelAllOrders(ctx context.Context, symbol string) error
	// Name identifies the transport in logs.
	Name() string
}
