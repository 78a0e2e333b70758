package trading

import (
	"context"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"
	"go.uber.org/zap"

	"github.com/riptide-lab/riptide-trading/internal/logger"
	"github.com/riptide-lab/riptide-trading/internal/types"
	"github.com/riptide-lab/riptide-trading/pkg/errors"
	"github.com/riptide-lab/riptide-trading/pkg/utils"
)

// binanceQuantityPrecision is a fallback decimal precision for order
// quantities. 8 decimals is satoshi-level; production systems should use
// the symbol's LOT_SIZE filter from exchange info.
const binanceQuantityPrecision = 8

// createOrderService and cancelOpenOrdersService mirror the fluent Binance
// API so tests can substitute mocks.
type createOrderService interface {
	Symbol(symbol string) createOrderService
	Side(side binance.SideType) createOrderService
	Type(orderType binance.OrderType) createOrderService
	Quantity(quantity string) createOrderService
	Do(ctx context.Context) (*binance.CreateOrderResponse, error)
}

type cancelOpenOrdersService interface {
	Symbol(symbol string) cancelOpenOrdersService
	Do(ctx context.Context) error
}

type binanceAPI interface {
	NewCreateOrderService() createOrderService
	NewCancelOpenOrdersService() cancelOpenOrdersService
}

type realBinanceAPI struct {
	client *binance.Client
}

func (r *realBinanceAPI) NewCreateOrderService() createOrderService {
	return &realCreateOrderService{service: r.client.NewCreateOrderService()}
}

func (r *realBinanceAPI) NewCancelOpenOrdersService() cancelOpenOrdersService {
	return &realCancelOpenOrdersService{service: r.client.NewCancelOpenOrdersService()}
}

type realCreateOrderService struct {
	service *binance.CreateOrderService
}

func (s *realCreateOrderService) Symbol(symbol string) createOrderService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *realCreateOrderService) Side(side binance.SideType) createOrderService {
	s.service = s.service.Side(side)

	return s
}

func (s *realCreateOrderService) Type(orderType binance.OrderType) createOrderService {
	s.service = s.service.Type(orderType)

	return s
}

func (s *realCreateOrderService) Quantity(quantity string) createOrderService {
	s.service = s.service.Quantity(quantity)

	return s
}

func (s *realCreateOrderService) Do(ctx context.Context) (*binance.CreateOrderResponse, error) {
	return s.service.Do(ctx)
}

type realCancelOpenOrdersService struct {
	service *binance.CancelOpenOrdersService
}

func (s *realCancelOpenOrdersService) Symbol(symbol string) cancelOpenOrdersService {
	s.service = s.service.Symbol(symbol)

	return s
}

func (s *realCancelOpenOrdersService) Do(ctx context.Context) error {
	_, err := s.service.Do(ctx)

	return err
}

// BinanceTransport places real market orders on Binance spot.
type BinanceTransport struct {
	api       binanceAPI
	precision int
	log       *logger.Logger
}

// NewBinanceTransport creates an authenticated Binance order transport.
// With useTestnet set it talks to the Binance spot testnet.
func NewBinanceTransport(apiKey, secretKey string, useTestnet bool, log *logger.Logger) (*BinanceTransport, error) {
	if apiKey == "" || secretKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "binance transport requires api key and secret key")
	}

	if useTestnet {
		binance.UseTestnet = true
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &BinanceTransport{
		api:       &realBinanceAPI{client: binance.NewClient(apiKey, secretKey)},
		precision: binanceQuantityPrecision,
		log:       log,
	}, nil
}

// newBinanceTransportWithAPI is used by tests to inject a mock API.
func newBinanceTransportWithAPI(api binanceAPI, log *logger.Logger) *BinanceTransport {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &BinanceTransport{api: api, precision: binanceQuantityPrecision, log: log}
}

// SubmitOrder places a market order. The executed price is derived from the
// cumulative quote quantity of the fill when Binance reports one.
func (t *BinanceTransport) SubmitOrder(ctx context.Context, order types.Order) (types.OrderResult, error) {
	rejected := types.OrderResult{OrderID: order.OrderID, Status: types.OrderStatusRejected}

	if err := order.Validate(); err != nil {
		return rejected, err
	}

	var side binance.SideType

	switch order.Side {
	case types.SignalSideBuy:
		side = binance.SideTypeBuy
	case types.SignalSideSell:
		side = binance.SideTypeSell
	default:
		return rejected, errors.Newf(errors.ErrCodeOrderFailed, "unsupported order side: %s", order.Side)
	}

	quantity := utils.RoundDownToPrecision(order.Quantity, t.precision)
	if quantity <= 0 {
		return rejected, errors.Newf(errors.ErrCodeOrderFailed,
			"order quantity %.8f is too small after rounding to %d decimal places",
			order.Quantity, t.precision)
	}

	response, err := t.api.NewCreateOrderService().
		Symbol(order.Symbol).
		Side(side).
		Type(binance.OrderTypeMarket).
		Quantity(strconv.FormatFloat(quantity, 'f', t.precision, 64)).
		Do(ctx)
	if err != nil {
		return types.OrderResult{OrderID: order.OrderID, Status: types.OrderStatusFailed},
			errors.Wrap(errors.ErrCodeOrderFailed, "failed to place order on binance", err)
	}

	executedQuantity, _ := strconv.ParseFloat(response.ExecutedQuantity, 64)
	cumulativeQuote, _ := strconv.ParseFloat(response.CummulativeQuoteQuantity, 64)

	executedPrice := order.Price
	if executedQuantity > 0 && cumulativeQuote > 0 {
		executedPrice = cumulativeQuote / executedQuantity
	}

	if executedQuantity == 0 {
		executedQuantity = quantity
	}

	t.log.Info("binance fill",
		zap.String("symbol", order.Symbol),
		zap.String("side", string(order.Side)),
		zap.Float64("quantity", executedQuantity),
		zap.Float64("price", executedPrice))

	return types.OrderResult{
		OrderID:          order.OrderID,
		Status:           types.OrderStatusFilled,
		ExecutedPrice:    executedPrice,
		ExecutedQuantity: executedQuantity,
		ExecutedAt:       time.UnixMilli(response.TransactTime).UTC(),
	}, nil
}

// CancelAllOrders cancels every open order for the symbol.
func (t *BinanceTransport) CancelAllOrders(ctx context.Context, symbol string) error {
	if err := t.api.NewCancelOpenOrdersService().Symbol(symbol).Do(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeOrderFailed, "failed to cancel open orders on binance", err)
	}

	return nil
}

// Name implements OrderTransport.
func (t *BinanceTransport) Name() string {
	return "binance"
}

var _ OrderTransport = (*BinanceTransport)(nil)
