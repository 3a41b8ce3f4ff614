package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestWishlist(t *testing.T) (*WishlistLedger, *recordingStore) {
	t.Helper()
	store := newRecordingStore()
	wishlist := NewWishlistLedger(store, zap.NewNop())
	wishlist.Bind(context.Background(), testIdentity("user-1"))
	return wishlist, store
}

func TestWishlistAdd_IsIdempotent(t *testing.T) {
	wishlist, _ := newTestWishlist(t)
	ctx := context.Background()

	wishlist.Add(ctx, testProduct("A", 10))
	wishlist.Add(ctx, testProduct("A", 10))

	require.Len(t, wishlist.Entries(), 1)
	assert.True(t, wishlist.Contains("A"))
}

func TestWishlistRemove_AbsentIsNoOp(t *testing.T) {
	wishlist, _ := newTestWishlist(t)
	ctx := context.Background()

	wishlist.Add(ctx, testProduct("A", 10))
	wishlist.Remove(ctx, "missing")

	assert.Len(t, wishlist.Entries(), 1)
}

func TestWishlistRemove_DeletesEntry(t *testing.T) {
	wishlist, _ := newTestWishlist(t)
	ctx := context.Background()

	wishlist.Add(ctx, testProduct("A", 10))
	wishlist.Remove(ctx, "A")

	assert.Empty(t, wishlist.Entries())
	assert.False(t, wishlist.Contains("A"))
}

func TestWishlistClear(t *testing.T) {
	wishlist, _ := newTestWishlist(t)
	ctx := context.Background()

	wishlist.Add(ctx, testProduct("A", 10))
	wishlist.Add(ctx, testProduct("B", 5))
	wishlist.Clear(ctx)

	assert.Empty(t, wishlist.Entries())
}

func TestWishlistMoveToCart_TransfersEntry(t *testing.T) {
	store := newRecordingStore()
	ctx := context.Background()

	wishlist := NewWishlistLedger(store, zap.NewNop())
	wishlist.Bind(ctx, testIdentity("user-1"))
	cart := NewCartLedger(store, zap.NewNop())
	cart.Bind(ctx, testIdentity("user-1"))

	wishlist.Add(ctx, testProduct("A", 10))
	err := wishlist.MoveToCart(ctx, "A", cart)
	require.NoError(t, err)

	assert.False(t, wishlist.Contains("A"))
	require.Len(t, cart.Lines(), 1)
	assert.Equal(t, "A", cart.Lines()[0].ProductID)
	assert.Equal(t, 1, cart.Lines()[0].Quantity)
	assert.InDelta(t, 10.0, cart.Lines()[0].Price, 1e-9)
}

func TestWishlistMoveToCart_AbsentEntryFails(t *testing.T) {
	store := newRecordingStore()
	ctx := context.Background()

	wishlist := NewWishlistLedger(store, zap.NewNop())
	wishlist.Bind(ctx, testIdentity("user-1"))
	cart := NewCartLedger(store, zap.NewNop())
	cart.Bind(ctx, testIdentity("user-1"))

	err := wishlist.MoveToCart(ctx, "missing", cart)
	assert.ErrorIs(t, err, ErrEntryNotFound)
	assert.Empty(t, cart.Lines())
}

func TestWishlist_EveryMutationPersistsSnapshot(t *testing.T) {
	wishlist, store := newTestWishlist(t)
	ctx := context.Background()

	wishlist.Add(ctx, testProduct("A", 10))
	wishlist.Remove(ctx, "A")
	wishlist.Clear(ctx)

	assert.Equal(t, 3, store.writeCount())
}

func TestWishlist_SnapshotSurvivesRebind(t *testing.T) {
	store := newRecordingStore()
	ctx := context.Background()

	wishlist := NewWishlistLedger(store, zap.NewNop())
	wishlist.Bind(ctx, testIdentity("user-1"))
	wishlist.Add(ctx, testProduct("A", 10))

	reloaded := NewWishlistLedger(store, zap.NewNop())
	reloaded.Bind(ctx, testIdentity("user-1"))

	assert.True(t, reloaded.Contains("A"))
}
