package cart

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront/internal/state"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/types"
	"github.com/shopspring/decimal"
)

// MaxQuantity caps a single cart line.
const MaxQuantity = 100_000

// Service manages the persisted cart. Every call re-reads the backend; slices
// returned to callers are copies and go stale after any mutation.
type Service interface {
	GetCart(ctx context.Context) ([]types.CartItem, error)
	AddToCart(ctx context.Context, item types.CartItem) error
	RemoveFromCart(ctx context.Context, id int) error
	UpdateCartItemQuantity(ctx context.Context, id, quantity int) error
	ClearCart(ctx context.Context) error
	RemoveCheckedOut(ctx context.Context, checkedOut []types.CartItem) error
	ItemCount(ctx context.Context) (int, error)
	Subtotal(ctx context.Context) (decimal.Decimal, error)
}

type service struct {
	store *state.Store
}

// NewService builds a cart service on top of the state store.
func NewService(store *state.Store) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("state store required")
	}
	return &service{store: store}, nil
}

// GetCart returns the cart in insertion order, or an empty slice.
func (s *service) GetCart(ctx context.Context) ([]types.CartItem, error) {
	items, _, err := state.Get[[]types.CartItem](ctx, s.store, state.KeyCart)
	if err != nil {
		return nil, err
	}
	return types.CloneCartItems(items), nil
}

// AddToCart merges item into an existing line with the same id, or appends it.
func (s *service) AddToCart(ctx context.Context, item types.CartItem) error {
	if err := validateItem(item); err != nil {
		return err
	}
	return state.Update(ctx, s.store, state.KeyCart, func(items []types.CartItem, _ bool) ([]types.CartItem, bool, error) {
		if idx := indexOf(items, item.ID); idx >= 0 {
			if items[idx].Quantity > MaxQuantity-item.Quantity {
				return nil, false, quantityError(fmt.Sprintf("line total must be at most %d", MaxQuantity))
			}
			items[idx].Quantity += item.Quantity
			return items, true, nil
		}
		return append(types.CloneCartItems(items), item), true, nil
	})
}

// RemoveFromCart drops the line with id. Unknown ids are ignored.
func (s *service) RemoveFromCart(ctx context.Context, id int) error {
	return state.Update(ctx, s.store, state.KeyCart, func(items []types.CartItem, _ bool) ([]types.CartItem, bool, error) {
		return without(items, id), true, nil
	})
}

// UpdateCartItemQuantity sets the quantity of line id; quantity <= 0 removes
// the line. Unknown ids are ignored.
func (s *service) UpdateCartItemQuantity(ctx context.Context, id, quantity int) error {
	if quantity > MaxQuantity {
		return quantityError(fmt.Sprintf("must be at most %d", MaxQuantity))
	}
	return state.Update(ctx, s.store, state.KeyCart, func(items []types.CartItem, _ bool) ([]types.CartItem, bool, error) {
		idx := indexOf(items, id)
		if idx < 0 {
			return items, false, nil
		}
		if quantity <= 0 {
			return without(items, id), true, nil
		}
		items[idx].Quantity = quantity
		return items, true, nil
	})
}

// ClearCart persists an empty cart.
func (s *service) ClearCart(ctx context.Context) error {
	return state.Put(ctx, s.store, state.KeyCart, []types.CartItem{})
}

// RemoveCheckedOut subtracts the checked-out lines from the cart in one
// update. Lines added after the snapshot was taken stay in the cart, and a
// line whose quantity grew keeps the difference.
func (s *service) RemoveCheckedOut(ctx context.Context, checkedOut []types.CartItem) error {
	taken := make(map[int]int, len(checkedOut))
	for _, item := range checkedOut {
		taken[item.ID] += item.Quantity
	}
	return state.Update(ctx, s.store, state.KeyCart, func(items []types.CartItem, _ bool) ([]types.CartItem, bool, error) {
		out := make([]types.CartItem, 0, len(items))
		for _, item := range items {
			item.Quantity -= taken[item.ID]
			if item.Quantity > 0 {
				out = append(out, item)
			}
		}
		return out, true, nil
	})
}

// ItemCount sums line quantities.
func (s *service) ItemCount(ctx context.Context) (int, error) {
	items, err := s.GetCart(ctx)
	if err != nil {
		return 0, err
	}
	return CountItems(items), nil
}

// Subtotal is the sum of price times quantity over all lines.
func (s *service) Subtotal(ctx context.Context) (decimal.Decimal, error) {
	items, err := s.GetCart(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return SubtotalOf(items), nil
}

// CountItems sums the quantities of items.
func CountItems(items []types.CartItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

// SubtotalOf prices items without tax.
func SubtotalOf(items []types.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		sum = sum.Add(line)
	}
	return sum
}

func validateItem(item types.CartItem) error {
	details := map[string]string{}
	if item.ID < 0 {
		details["id"] = "must not be negative"
	}
	switch {
	case item.Quantity < 1:
		details["quantity"] = "must be at least 1"
	case item.Quantity > MaxQuantity:
		details["quantity"] = fmt.Sprintf("must be at most %d", MaxQuantity)
	}
	if item.Price < 0 {
		details["price"] = "must not be negative"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid cart item").WithDetails(details)
	}
	return nil
}

func quantityError(msg string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid cart item").
		WithDetails(map[string]string{"quantity": msg})
}

func indexOf(items []types.CartItem, id int) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func without(items []types.CartItem, id int) []types.CartItem {
	out := make([]types.CartItem, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}
