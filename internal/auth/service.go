// Package auth turns the login and registration forms into a stored session.
// There is no credential store: passwords are validated for shape and then
// discarded.
package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront/internal/session"
	"github.com/angelmondragon/storefront/pkg/types"
	"github.com/angelmondragon/storefront/pkg/validation"
)

// Service defines the behavior needed by the session controller.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*types.User, error)
	Register(ctx context.Context, input RegisterInput) (*types.User, error)
}

type service struct {
	session session.Service
}

func NewService(sessions session.Service) (Service, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session service is required")
	}
	return &service{session: sessions}, nil
}

// Login stores a session named after the local part of the email.
func (s *service) Login(ctx context.Context, input LoginInput) (*types.User, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	user := types.User{
		Email: input.Email,
		Name:  localPart(input.Email),
	}
	if err := s.session.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*types.User, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	user := types.User{
		Email: input.Email,
		Name:  input.Name,
		Phone: input.Phone,
	}
	if err := s.session.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

func localPart(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}
