package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopeasy/storefront-api/internal/model"
)

func seedCart(t *testing.T, userID uuid.UUID, products ...*model.Product) []model.CartItem {
	t.Helper()
	repo := NewCartRepository(testPool)
	var items []model.CartItem
	for _, p := range products {
		item := &model.CartItem{UserID: userID, ProductID: p.ID, Quantity: 1}
		require.NoError(t, repo.Upsert(context.Background(), item))
		items = append(items, *item)
	}
	return items
}

func TestOrderRepo_CreateWithItems(t *testing.T) {
	cleanupAll(t)

	orderRepo := NewOrderRepository(testPool)
	cartRepo := NewCartRepository(testPool)
	productRepo := NewProductRepository(testPool)
	ctx := context.Background()

	user := seedUser(t, "alice")
	jacket := seedProduct(t, "Jacket", 349, 100)
	boots := seedProduct(t, "Boots", 599, 5)

	jacketItem := &model.CartItem{UserID: user.ID, ProductID: jacket.ID, Quantity: 2, Size: "M"}
	require.NoError(t, cartRepo.Upsert(ctx, jacketItem))
	bootsItem := &model.CartItem{UserID: user.ID, ProductID: boots.ID, Quantity: 1}
	require.NoError(t, cartRepo.Upsert(ctx, bootsItem))

	order := &model.Order{
		UserID:      user.ID,
		TotalAmount: decimal.NewFromInt(1297),
		Status:      model.OrderStatusPaid,
		PaymentID:   "pay_123",
		FullName:    "Alice Doe",
		Address:     "1 Main St",
		Items: []model.OrderItem{
			{ProductID: jacket.ID, ProductName: "Jacket", Quantity: 2, Price: decimal.NewFromInt(349), Size: "M"},
			{ProductID: boots.ID, ProductName: "Boots", Quantity: 1, Price: decimal.NewFromInt(599)},
		},
	}
	require.NoError(t, orderRepo.CreateWithItems(ctx, order, []uuid.UUID{jacketItem.ID, bootsItem.ID}))
	assert.NotEqual(t, uuid.Nil, order.ID)

	stored, err := orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.TotalAmount.Equal(decimal.NewFromInt(1297)))
	assert.Equal(t, model.OrderStatusPaid, stored.Status)
	assert.Len(t, stored.Items, 2)

	jacketAfter, err := productRepo.GetByID(ctx, jacket.ID)
	require.NoError(t, err)
	assert.Equal(t, 98, jacketAfter.Stock)
	bootsAfter, err := productRepo.GetByID(ctx, boots.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, bootsAfter.Stock)

	remaining, err := cartRepo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestOrderRepo_CreateWithItems_InsufficientStockRollsBack(t *testing.T) {
	cleanupAll(t)

	orderRepo := NewOrderRepository(testPool)
	productRepo := NewProductRepository(testPool)
	ctx := context.Background()

	user := seedUser(t, "alice")
	jacket := seedProduct(t, "Jacket", 349, 100)
	boots := seedProduct(t, "Boots", 599, 0)
	items := seedCart(t, user.ID, jacket, boots)

	order := &model.Order{
		UserID:      user.ID,
		TotalAmount: decimal.NewFromInt(948),
		Status:      model.OrderStatusPending,
		FullName:    "Alice Doe",
		Address:     "1 Main St",
		Items: []model.OrderItem{
			{ProductID: jacket.ID, ProductName: "Jacket", Quantity: 1, Price: decimal.NewFromInt(349)},
			{ProductID: boots.ID, ProductName: "Boots", Quantity: 1, Price: decimal.NewFromInt(599)},
		},
	}
	err := orderRepo.CreateWithItems(ctx, order, []uuid.UUID{items[0].ID, items[1].ID})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// The jacket decrement ran inside the same transaction and must be
	// rolled back with everything else.
	jacketAfter, err := productRepo.GetByID(ctx, jacket.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, jacketAfter.Stock)

	remaining, err := NewCartRepository(testPool).ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 2)

	orders, err := orderRepo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderRepo_CreateWithItems_MissingCartRows(t *testing.T) {
	cleanupAll(t)

	orderRepo := NewOrderRepository(testPool)
	ctx := context.Background()

	user := seedUser(t, "alice")
	jacket := seedProduct(t, "Jacket", 349, 100)

	order := &model.Order{
		UserID:      user.ID,
		TotalAmount: decimal.NewFromInt(349),
		Status:      model.OrderStatusPending,
		FullName:    "Alice Doe",
		Address:     "1 Main St",
		Items: []model.OrderItem{
			{ProductID: jacket.ID, ProductName: "Jacket", Quantity: 1, Price: decimal.NewFromInt(349)},
		},
	}
	err := orderRepo.CreateWithItems(ctx, order, []uuid.UUID{uuid.New()})
	assert.ErrorIs(t, err, ErrCartConflict)
}

func TestOrderRepo_ItemsSurviveProductDelete(t *testing.T) {
	cleanupAll(t)

	orderRepo := NewOrderRepository(testPool)
	productRepo := NewProductRepository(testPool)
	ctx := context.Background()

	user := seedUser(t, "alice")
	jacket := seedProduct(t, "Jacket", 349, 100)
	items := seedCart(t, user.ID, jacket)

	order := &model.Order{
		UserID:      user.ID,
		TotalAmount: decimal.NewFromInt(349),
		Status:      model.OrderStatusPaid,
		PaymentID:   "pay_123",
		FullName:    "Alice Doe",
		Address:     "1 Main St",
		Items: []model.OrderItem{
			{ProductID: jacket.ID, ProductName: "Jacket", ProductImage: "jacket.jpg", Quantity: 1, Price: decimal.NewFromInt(349)},
		},
	}
	require.NoError(t, orderRepo.CreateWithItems(ctx, order, []uuid.UUID{items[0].ID}))
	require.NoError(t, productRepo.Delete(ctx, jacket.ID))

	stored, err := orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "Jacket", stored.Items[0].ProductName)
	assert.Equal(t, "jacket.jpg", stored.Items[0].ProductImage)
	assert.True(t, stored.Items[0].Price.Equal(decimal.NewFromInt(349)))
}

func TestOrderRepo_HasItemsForProduct(t *testing.T) {
	cleanupAll(t)

	orderRepo := NewOrderRepository(testPool)
	ctx := context.Background()

	user := seedUser(t, "alice")
	jacket := seedProduct(t, "Jacket", 349, 100)
	items := seedCart(t, user.ID, jacket)

	has, err := orderRepo.HasItemsForProduct(ctx, jacket.ID)
	require.NoError(t, err)
	assert.False(t, has)

	order := &model.Order{
		UserID:      user.ID,
		TotalAmount: decimal.NewFromInt(349),
		Status:      model.OrderStatusPending,
		FullName:    "Alice Doe",
		Address:     "1 Main St",
		Items: []model.OrderItem{
			{ProductID: jacket.ID, ProductName: "Jacket", Quantity: 1, Price: decimal.NewFromInt(349)},
		},
	}
	require.NoError(t, orderRepo.CreateWithItems(ctx, order, []uuid.UUID{items[0].ID}))

	has, err = orderRepo.HasItemsForProduct(ctx, jacket.ID)
	require.NoError(t, err)
	assert.True(t, has)
}
