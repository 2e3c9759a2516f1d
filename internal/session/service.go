package session

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront/internal/state"
	"github.com/angelmondragon/storefront/pkg/types"
)

// Service owns the single persisted user session.
type Service interface {
	GetUser(ctx context.Context) (*types.User, error)
	SaveUser(ctx context.Context, user types.User) error
	Logout(ctx context.Context) error
}

type service struct {
	store *state.Store
}

func NewService(store *state.Store) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("state store required")
	}
	return &service{store: store}, nil
}

// GetUser returns the logged-in user or nil.
func (s *service) GetUser(ctx context.Context) (*types.User, error) {
	user, found, err := state.Get[types.User](ctx, s.store, state.KeyUser)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

// SaveUser replaces whatever session is stored.
func (s *service) SaveUser(ctx context.Context, user types.User) error {
	return state.Put(ctx, s.store, state.KeyUser, user)
}

func (s *service) Logout(ctx context.Context) error {
	return s.store.Delete(ctx, state.KeyUser)
}
