package session

import (
	"context"
	"testing"

	"github.com/angelmondragon/storefront/internal/state"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/kv"
	"github.com/angelmondragon/storefront/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, policy state.DecodePolicy) (Service, *kv.Memory) {
	t.Helper()
	backend := kv.NewMemory()
	store, err := state.New(state.Options{Backend: backend, Policy: policy})
	require.NoError(t, err)
	svc, err := NewService(store)
	require.NoError(t, err)
	return svc, backend
}

func TestGetUserNilWhenLoggedOut(t *testing.T) {
	svc, _ := newTestService(t, state.DecodeLenient)
	user, err := svc.GetUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestSaveUserOverwrites(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, state.DecodeLenient)

	require.NoError(t, svc.SaveUser(ctx, types.User{Email: "a@x.com", Name: "a"}))
	require.NoError(t, svc.SaveUser(ctx, types.User{Email: "b@x.com", Name: "Bea", Phone: "555"}))

	user, err := svc.GetUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, types.User{Email: "b@x.com", Name: "Bea", Phone: "555"}, *user)
}

func TestLogoutRemovesKey(t *testing.T) {
	ctx := context.Background()
	svc, backend := newTestService(t, state.DecodeLenient)
	require.NoError(t, svc.SaveUser(ctx, types.User{Email: "a@x.com", Name: "a"}))

	require.NoError(t, svc.Logout(ctx))

	_, err := backend.Get(ctx, "user")
	assert.ErrorIs(t, err, kv.ErrNotFound)
	user, err := svc.GetUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	require.NoError(t, svc.Logout(ctx), "logout without a session is a no-op")
}

func TestCorruptSessionByPolicy(t *testing.T) {
	ctx := context.Background()

	lenient, backend := newTestService(t, state.DecodeLenient)
	require.NoError(t, backend.Set(ctx, "user", "{broken"))
	user, err := lenient.GetUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	strict, backend := newTestService(t, state.DecodeStrict)
	require.NoError(t, backend.Set(ctx, "user", "{broken"))
	_, err = strict.GetUser(ctx)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeCorruptState))
}
