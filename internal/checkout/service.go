package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/orders"
	"github.com/angelmondragon/storefront/internal/session"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/types"
	"github.com/shopspring/decimal"
)

// DefaultTaxRate is applied when no rate is configured.
var DefaultTaxRate = decimal.RequireFromString("0.18")

// Service turns the current cart into an order.
type Service interface {
	Quote(ctx context.Context) (Quote, error)
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*types.Order, error)
}

// Quote is the priced cart. Tax is rounded to a whole currency unit.
type Quote struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// PlaceOrderInput carries the buyer's choices at checkout.
type PlaceOrderInput struct {
	PaymentMethod enums.PaymentMethod
}

// ServiceParams bundles the dependencies required to build a checkout service.
type ServiceParams struct {
	Cart    cart.Service
	Session session.Service
	Orders  orders.Service
	TaxRate *decimal.Decimal
	Metrics *metrics.OrderMetrics
	Logger  *logger.Logger
	Now     func() time.Time
}

type service struct {
	cart    cart.Service
	session session.Service
	orders  orders.Service
	taxRate decimal.Decimal
	metrics *metrics.OrderMetrics
	logg    *logger.Logger
	now     func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Cart == nil {
		return nil, fmt.Errorf("cart service is required")
	}
	if params.Session == nil {
		return nil, fmt.Errorf("session service is required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders service is required")
	}
	rate := DefaultTaxRate
	if params.TaxRate != nil {
		if params.TaxRate.IsNegative() {
			return nil, fmt.Errorf("tax rate must not be negative")
		}
		rate = *params.TaxRate
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		cart:    params.Cart,
		session: params.Session,
		orders:  params.Orders,
		taxRate: rate,
		metrics: params.Metrics,
		logg:    logg,
		now:     now,
	}, nil
}

func (s *service) Quote(ctx context.Context) (Quote, error) {
	items, err := s.cart.GetCart(ctx)
	if err != nil {
		return Quote{}, err
	}
	return PriceItems(items, s.taxRate), nil
}

// PriceItems computes subtotal, tax and total for items at rate.
func PriceItems(items []types.CartItem, rate decimal.Decimal) Quote {
	subtotal := cart.SubtotalOf(items)
	tax := subtotal.Mul(rate).Round(0)
	return Quote{
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     subtotal.Add(tax),
		ItemCount: cart.CountItems(items),
	}
}

// PlaceOrder records the cart as a pending order for the logged-in user and
// takes the ordered lines out of the cart. Items added while the order is
// being saved are left in the cart.
func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*types.Order, error) {
	user, err := s.session.GetUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required to place an order")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method").
			WithDetails(map[string]string{
				"paymentMethod": fmt.Sprintf("must be %s or %s", enums.PaymentMethodOnline, enums.PaymentMethodCashOnDelivery),
			})
	}

	items, err := s.cart.GetCart(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	quote := PriceItems(items, s.taxRate)
	order := types.Order{
		ID:            s.orders.GenerateOrderID(),
		Items:         types.CloneCartItems(items),
		Total:         quote.Total.InexactFloat64(),
		Date:          s.now().UTC().Format(types.OrderDateLayout),
		PaymentMethod: input.PaymentMethod,
		Status:        enums.OrderStatusPending,
		UserEmail:     user.Email,
	}

	if err := s.orders.SaveOrder(ctx, order); err != nil {
		return nil, err
	}
	if err := s.cart.RemoveCheckedOut(ctx, items); err != nil {
		return nil, err
	}

	s.metrics.ObservePlaced(order.PaymentMethod.String(), order.Total)
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"order_id":       order.ID,
		"payment_method": order.PaymentMethod.String(),
		"total":          order.Total,
	})
	s.logg.Info(s.logg.WithUserEmail(logCtx, user.Email), "checkout.order_placed")

	return &order, nil
}
