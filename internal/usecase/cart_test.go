package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_UniqueIDs(t *testing.T) {
	svc, _ := newTestCartService()
	ctx := context.Background()

	a, err := svc.Create(ctx)
	require.NoError(t, err)
	b, err := svc.Create(ctx)
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Empty(t, a.Items)
	assert.Equal(t, int64(0), a.Total)
}

func TestAddLineItem_MergesSameVariant(t *testing.T) {
	svc, _ := newTestCartService()
	ctx := context.Background()

	cart, err := svc.Create(ctx)
	require.NoError(t, err)

	_, err = svc.AddLineItem(ctx, cart.ID, "prod_1", 1)
	require.NoError(t, err)
	got, err := svc.AddLineItem(ctx, cart.ID, "prod_1", 2)
	require.NoError(t, err)

	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(3), got.Items[0].Quantity)
	assert.Equal(t, int64(14997), got.Total)
	assert.Equal(t, got.Subtotal, got.Total)
}

func TestAddLineItem_Errors(t *testing.T) {
	svc, _ := newTestCartService()
	ctx := context.Background()

	cart, err := svc.Create(ctx)
	require.NoError(t, err)

	_, err = svc.AddLineItem(ctx, "missing-cart", "prod_1", 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.AddLineItem(ctx, cart.ID, "prod_unknown", 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.AddLineItem(ctx, cart.ID, "prod_1", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = svc.AddLineItem(ctx, cart.ID, "prod_1", -3)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	got, err := svc.Get(ctx, cart.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items, "failed adds must not touch the cart")
}

func TestRemoveLineItem_Idempotent(t *testing.T) {
	svc, _ := newTestCartService()
	ctx := context.Background()

	cart, err := svc.Create(ctx)
	require.NoError(t, err)
	withItem, err := svc.AddLineItem(ctx, cart.ID, "prod_5", 1)
	require.NoError(t, err)

	unchanged, err := svc.RemoveLineItem(ctx, cart.ID, "no-such-line")
	require.NoError(t, err)
	assert.Equal(t, withItem.Items, unchanged.Items)
	assert.Equal(t, int64(2999), unchanged.Total)

	empty, err := svc.RemoveLineItem(ctx, cart.ID, withItem.Items[0].ID)
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
	assert.Equal(t, int64(0), empty.Total)
}

func TestUpdateLineItemQuantity(t *testing.T) {
	svc, _ := newTestCartService()
	ctx := context.Background()

	cart, err := svc.Create(ctx)
	require.NoError(t, err)
	withItem, err := svc.AddLineItem(ctx, cart.ID, "prod_1", 1)
	require.NoError(t, err)
	lineID := withItem.Items[0].ID

	got, err := svc.UpdateLineItemQuantity(ctx, cart.ID, lineID, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.Items[0].Quantity)
	assert.Equal(t, int64(4*4999), got.Total)

	_, err = svc.UpdateLineItemQuantity(ctx, cart.ID, lineID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.UpdateLineItemQuantity(ctx, cart.ID, "no-such-line", 2)
	assert.ErrorIs(t, err, ErrNotFound)

	after, err := svc.Get(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), after.Items[0].Quantity, "failed updates must not touch the cart")
}

func TestAddLineItem_ConcurrentSameCart(t *testing.T) {
	svc, _ := newTestCartService()
	ctx := context.Background()

	cart, err := svc.Create(ctx)
	require.NoError(t, err)

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.AddLineItem(ctx, cart.ID, "prod_1", 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := svc.Get(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1, "merge must hold under concurrency")
	assert.Equal(t, int64(workers), got.Items[0].Quantity, "no lost updates")
	assert.Equal(t, int64(workers*4999), got.Total)
}
