package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkotenko/storefront/internal/models"
	"github.com/dkotenko/storefront/internal/transport"
)

func TestCartService_AddThenView(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	catalog := newCatalogService(r)
	cart := newCartService(r)
	ctx := context.Background()

	user := createTestUser(t, r, "alice")
	prod := createTestProduct(t, catalog, "Pen", 1.5)

	item, err := cart.AddToCart(ctx, user.ID, prod.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, item.UserID)
	assert.Equal(t, prod.ID, item.ProductID)

	entries, err := cart.ViewCart(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, prod.ID, entries[0].ProductID)
	assert.Equal(t, "Pen", entries[0].ProductName)
	assert.Equal(t, 1.5, entries[0].ProductPrice)
}

func TestCartService_AddTwice_CreatesTwoRows(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	catalog := newCatalogService(r)
	cart := newCartService(r)
	ctx := context.Background()

	user := createTestUser(t, r, "alice")
	prod := createTestProduct(t, catalog, "Pen", 1.5)

	_, err := cart.AddToCart(ctx, user.ID, prod.ID)
	require.NoError(t, err)
	_, err = cart.AddToCart(ctx, user.ID, prod.ID)
	require.NoError(t, err)

	entries, err := cart.ViewCart(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, prod.ID, e.ProductID)
	}
}

func TestCartService_Add_UnknownProductOrUser(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	catalog := newCatalogService(r)
	cart := newCartService(r)
	ctx := context.Background()

	user := createTestUser(t, r, "alice")
	prod := createTestProduct(t, catalog, "Pen", 1.5)

	tests := []struct {
		name      string
		userID    uuid.UUID
		productID uuid.UUID
	}{
		{name: "unknown product", userID: user.ID, productID: uuid.New()},
		{name: "unknown user", userID: uuid.New(), productID: prod.ID},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			item, err := cart.AddToCart(ctx, tt.userID, tt.productID)
			require.Error(t, err)
			assert.Nil(t, item)
			assert.ErrorIs(t, err, ErrInvalidOperation)
		})
	}

	// failed adds must not leave partial writes behind
	var count int64
	require.NoError(t, r.DB.Model(&models.CartItem{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCartService_Remove_OneRowPerCall(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	catalog := newCatalogService(r)
	cart := newCartService(r)
	ctx := context.Background()

	user := createTestUser(t, r, "alice")
	prod := createTestProduct(t, catalog, "Pen", 1.5)

	_, err := cart.AddToCart(ctx, user.ID, prod.ID)
	require.NoError(t, err)
	_, err = cart.AddToCart(ctx, user.ID, prod.ID)
	require.NoError(t, err)

	require.NoError(t, cart.RemoveFromCart(ctx, user.ID, prod.ID))
	entries, err := cart.ViewCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, cart.RemoveFromCart(ctx, user.ID, prod.ID))
	entries, err = cart.ViewCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	err = cart.RemoveFromCart(ctx, user.ID, prod.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestCartService_Remove_EmptyCart(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	cart := newCartService(r)

	user := createTestUser(t, r, "alice")

	err := cart.RemoveFromCart(context.Background(), user.ID, uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestCartService_Checkout_ClearsEverything(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	catalog := newCatalogService(r)
	cart := newCartService(r)
	ctx := context.Background()

	user := createTestUser(t, r, "alice")
	pen := createTestProduct(t, catalog, "Pen", 1.5)
	notebook := createTestProduct(t, catalog, "Notebook", 4.0)

	for i := 0; i < 2; i++ {
		_, err := cart.AddToCart(ctx, user.ID, pen.ID)
		require.NoError(t, err)
	}
	_, err := cart.AddToCart(ctx, user.ID, notebook.ID)
	require.NoError(t, err)

	cleared, err := cart.Checkout(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, cleared)

	entries, err := cart.ViewCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCartService_Checkout_EmptyCartIsFine(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	cart := newCartService(r)

	user := createTestUser(t, r, "alice")

	cleared, err := cart.Checkout(context.Background(), user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, cleared)
}

func TestCartService_Checkout_LeavesOtherCartsAlone(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	catalog := newCatalogService(r)
	cart := newCartService(r)
	ctx := context.Background()

	alice := createTestUser(t, r, "alice")
	bob := createTestUser(t, r, "bob")
	prod := createTestProduct(t, catalog, "Pen", 1.5)

	_, err := cart.AddToCart(ctx, alice.ID, prod.ID)
	require.NoError(t, err)
	_, err = cart.AddToCart(ctx, bob.ID, prod.ID)
	require.NoError(t, err)

	_, err = cart.Checkout(ctx, alice.ID)
	require.NoError(t, err)

	entries, err := cart.ViewCart(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCartService_View_ReflectsLivePrice(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	catalog := newCatalogService(r)
	cart := newCartService(r)
	ctx := context.Background()

	user := createTestUser(t, r, "alice")
	prod := createTestProduct(t, catalog, "Pen", 1.5)

	_, err := cart.AddToCart(ctx, user.ID, prod.ID)
	require.NoError(t, err)

	_, err = catalog.UpdateProduct(ctx, prod.ID, transport.ProductPatch{Price: floatPtr(2.0)})
	require.NoError(t, err)

	entries, err := cart.ViewCart(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 2.0, entries[0].ProductPrice)
}
