package orders

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/storefront/internal/state"
	"github.com/angelmondragon/storefront/pkg/types"
	"github.com/google/uuid"
)

const (
	idPrefix        = "ORD-"
	suffixLength    = 9
	base36          = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffixByteLimit = 252 // 7 * len(base36)
)

// Service manages the append-only order history.
type Service interface {
	GetOrders(ctx context.Context) ([]types.Order, error)
	SaveOrder(ctx context.Context, order types.Order) error
	ListForUser(ctx context.Context, email string) ([]types.Order, error)
	GenerateOrderID() string
}

// Option customises a Service.
type Option func(*service)

// WithClock replaces time.Now for id generation.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

type service struct {
	store *state.Store
	now   func() time.Time
}

func NewService(store *state.Store, opts ...Option) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("state store required")
	}
	s := &service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GetOrders returns every saved order, oldest first.
func (s *service) GetOrders(ctx context.Context) ([]types.Order, error) {
	list, _, err := state.Get[[]types.Order](ctx, s.store, state.KeyOrders)
	if err != nil {
		return nil, err
	}
	out := make([]types.Order, 0, len(list))
	for _, order := range list {
		out = append(out, order.Clone())
	}
	return out, nil
}

// SaveOrder appends order to the history. Duplicate ids are not detected.
func (s *service) SaveOrder(ctx context.Context, order types.Order) error {
	snapshot := order.Clone()
	return state.Update(ctx, s.store, state.KeyOrders, func(list []types.Order, _ bool) ([]types.Order, bool, error) {
		return append(list, snapshot), true, nil
	})
}

// ListForUser filters the history by userEmail, ignoring case.
func (s *service) ListForUser(ctx context.Context, email string) ([]types.Order, error) {
	all, err := s.GetOrders(ctx)
	if err != nil {
		return nil, err
	}
	email = strings.TrimSpace(email)
	out := make([]types.Order, 0, len(all))
	for _, order := range all {
		if order.UserEmail != "" && strings.EqualFold(order.UserEmail, email) {
			out = append(out, order)
		}
	}
	return out, nil
}

// GenerateOrderID returns ORD-<unix millis>-<9 base36 chars>.
func (s *service) GenerateOrderID() string {
	return idPrefix + strconv.FormatInt(s.now().UnixMilli(), 10) + "-" + randomSuffix()
}

// randomSuffix draws base36 characters from the random bytes of v4 UUIDs.
// Bytes 6 and 8 carry version and variant bits and are skipped; bytes at or
// above suffixByteLimit are rejected so every character is equally likely.
func randomSuffix() string {
	var b strings.Builder
	b.Grow(suffixLength)
	for b.Len() < suffixLength {
		entropy := uuid.New()
		for i, v := range entropy {
			if i == 6 || i == 8 || v >= suffixByteLimit {
				continue
			}
			b.WriteByte(base36[int(v)%len(base36)])
			if b.Len() == suffixLength {
				break
			}
		}
	}
	return b.String()
}
