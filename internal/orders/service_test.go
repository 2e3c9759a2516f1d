package orders

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/angelmondragon/storefront/internal/state"
	"github.com/angelmondragon/storefront/pkg/enums"
	"github.com/angelmondragon/storefront/pkg/kv"
	"github.com/angelmondragon/storefront/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, opts ...Option) Service {
	t.Helper()
	store, err := state.New(state.Options{Backend: kv.NewMemory()})
	require.NoError(t, err)
	svc, err := NewService(store, opts...)
	require.NoError(t, err)
	return svc
}

func sampleOrder(id, email string) types.Order {
	return types.Order{
		ID:            id,
		Items:         []types.CartItem{{ID: 7, Name: "Cement", Price: 350, Quantity: 3}},
		Total:         1239,
		Date:          "2026-01-02T03:04:05.678Z",
		PaymentMethod: enums.PaymentMethodOnline,
		Status:        enums.OrderStatusPending,
		UserEmail:     email,
	}
}

func TestGetOrdersEmpty(t *testing.T) {
	svc := newTestService(t)
	list, err := svc.GetOrders(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestSaveOrderAppendsWithoutDedup(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	require.NoError(t, svc.SaveOrder(ctx, sampleOrder("ORD-1", "a@x.com")))
	require.NoError(t, svc.SaveOrder(ctx, sampleOrder("ORD-2", "b@x.com")))
	require.NoError(t, svc.SaveOrder(ctx, sampleOrder("ORD-1", "a@x.com")))

	list, err := svc.GetOrders(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "ORD-1", list[0].ID)
	assert.Equal(t, "ORD-2", list[1].ID)
	assert.Equal(t, "ORD-1", list[2].ID)
	assert.Equal(t, sampleOrder("ORD-2", "b@x.com"), list[1])
}

func TestSaveOrderSnapshotsItems(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	order := sampleOrder("ORD-1", "a@x.com")
	require.NoError(t, svc.SaveOrder(ctx, order))
	order.Items[0].Quantity = 99

	list, err := svc.GetOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, list[0].Items[0].Quantity)
}

func TestListForUserIgnoresCase(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	require.NoError(t, svc.SaveOrder(ctx, sampleOrder("ORD-1", "Ana@X.com")))
	require.NoError(t, svc.SaveOrder(ctx, sampleOrder("ORD-2", "bo@x.com")))
	require.NoError(t, svc.SaveOrder(ctx, sampleOrder("ORD-3", "")))
	require.NoError(t, svc.SaveOrder(ctx, sampleOrder("ORD-4", "ana@x.com")))

	list, err := svc.ListForUser(ctx, "ana@x.com")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ORD-1", list[0].ID)
	assert.Equal(t, "ORD-4", list[1].ID)

	none, err := svc.ListForUser(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGenerateOrderIDFormat(t *testing.T) {
	fixed := time.UnixMilli(1767225600123)
	svc := newTestService(t, WithClock(func() time.Time { return fixed }))

	id := svc.GenerateOrderID()
	assert.Regexp(t, regexp.MustCompile(`^ORD-1767225600123-[0-9a-z]{9}$`), id)
}

func TestGenerateOrderIDVaries(t *testing.T) {
	svc := newTestService(t)
	seen := map[string]struct{}{}
	for i := 0; i < 50; i++ {
		seen[svc.GenerateOrderID()] = struct{}{}
	}
	assert.Greater(t, len(seen), 45)
}

func TestRandomSuffixCoversAlphabetAtEveryPosition(t *testing.T) {
	seen := make([]map[byte]bool, suffixLength)
	for i := range seen {
		seen[i] = map[byte]bool{}
	}
	for n := 0; n < 2000; n++ {
		suffix := randomSuffix()
		require.Len(t, suffix, suffixLength)
		for i := 0; i < suffixLength; i++ {
			seen[i][suffix[i]] = true
		}
	}
	for i := range seen {
		assert.Len(t, seen[i], len(base36), "position %d", i)
	}
}
