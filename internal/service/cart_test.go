package service

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopeasy/storefront-api/internal/model"
)

type mockCartRepo struct {
	items    map[uuid.UUID]*model.CartItem
	products *mockProductRepo
}

func newMockCartRepo(products *mockProductRepo) *mockCartRepo {
	return &mockCartRepo{items: make(map[uuid.UUID]*model.CartItem), products: products}
}

func (m *mockCartRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	var out []model.CartItem
	for _, item := range m.items {
		if item.UserID != userID {
			continue
		}
		joined := *item
		joined.Product = m.products.products[item.ProductID]
		out = append(out, joined)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (m *mockCartRepo) GetByID(_ context.Context, itemID, userID uuid.UUID) (*model.CartItem, error) {
	item, ok := m.items[itemID]
	if !ok || item.UserID != userID {
		return nil, nil
	}
	joined := *item
	joined.Product = m.products.products[item.ProductID]
	return &joined, nil
}

func (m *mockCartRepo) Upsert(_ context.Context, item *model.CartItem) error {
	for _, existing := range m.items {
		if existing.UserID == item.UserID && existing.ProductID == item.ProductID && existing.Size == item.Size {
			existing.Quantity += item.Quantity
			item.ID = existing.ID
			item.Quantity = existing.Quantity
			return nil
		}
	}
	item.ID = uuid.New()
	stored := *item
	m.items[item.ID] = &stored
	return nil
}

func (m *mockCartRepo) UpdateQuantity(_ context.Context, itemID uuid.UUID, quantity int) error {
	if item, ok := m.items[itemID]; ok {
		item.Quantity = quantity
	}
	return nil
}

func (m *mockCartRepo) Delete(_ context.Context, itemID uuid.UUID) error {
	delete(m.items, itemID)
	return nil
}

func (m *mockCartRepo) CountByUser(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, item := range m.items {
		if item.UserID == userID {
			count += item.Quantity
		}
	}
	return count, nil
}

func TestCartService_Add(t *testing.T) {
	productRepo := newMockProductRepo()
	pid := productRepo.add(model.Product{Name: "Jacket", Price: mustDecimal("349"), Stock: 100})
	cartRepo := newMockCartRepo(productRepo)
	svc := NewCartService(cartRepo, productRepo)

	userID := uuid.New()
	count, err := svc.Add(context.Background(), userID, pid, 2, "M")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, cartRepo.items, 1)
}

func TestCartService_Add_DefaultsQuantity(t *testing.T) {
	productRepo := newMockProductRepo()
	pid := productRepo.add(model.Product{Name: "Jacket", Price: mustDecimal("349"), Stock: 100})
	svc := NewCartService(newMockCartRepo(productRepo), productRepo)

	count, err := svc.Add(context.Background(), uuid.New(), pid, 0, "")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCartService_Add_ProductNotFound(t *testing.T) {
	productRepo := newMockProductRepo()
	svc := NewCartService(newMockCartRepo(productRepo), productRepo)

	_, err := svc.Add(context.Background(), uuid.New(), uuid.New(), 1, "")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_Add_InsufficientStock(t *testing.T) {
	productRepo := newMockProductRepo()
	pid := productRepo.add(model.Product{Name: "Jacket", Price: mustDecimal("349"), Stock: 1})
	svc := NewCartService(newMockCartRepo(productRepo), productRepo)

	_, err := svc.Add(context.Background(), uuid.New(), pid, 3, "")
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCartService_Add_MergesSameProductAndSize(t *testing.T) {
	productRepo := newMockProductRepo()
	pid := productRepo.add(model.Product{Name: "Jacket", Price: mustDecimal("349"), Stock: 100})
	cartRepo := newMockCartRepo(productRepo)
	svc := NewCartService(cartRepo, productRepo)

	userID := uuid.New()
	_, err := svc.Add(context.Background(), userID, pid, 2, "M")
	require.NoError(t, err)
	count, err := svc.Add(context.Background(), userID, pid, 3, "M")
	require.NoError(t, err)

	assert.Equal(t, 5, count)
	assert.Len(t, cartRepo.items, 1)
}

func TestCartService_Add_DifferentSizesStaySeparate(t *testing.T) {
	productRepo := newMockProductRepo()
	pid := productRepo.add(model.Product{Name: "Jacket", Price: mustDecimal("349"), Stock: 100})
	cartRepo := newMockCartRepo(productRepo)
	svc := NewCartService(cartRepo, productRepo)

	userID := uuid.New()
	_, err := svc.Add(context.Background(), userID, pid, 1, "M")
	require.NoError(t, err)
	count, err := svc.Add(context.Background(), userID, pid, 1, "L")
	require.NoError(t, err)

	assert.Equal(t, 2, count)
	assert.Len(t, cartRepo.items, 2)
}

func TestCartService_Update(t *testing.T) {
	productRepo := newMockProductRepo()
	pid := productRepo.add(model.Product{Name: "Jacket", Price: mustDecimal("349"), Stock: 100})
	cartRepo := newMockCartRepo(productRepo)
	svc := NewCartService(cartRepo, productRepo)

	userID := uuid.New()
	item := &model.CartItem{UserID: userID, ProductID: pid, Quantity: 1}
	require.NoError(t, cartRepo.Upsert(context.Background(), item))

	total, count, err := svc.Update(context.Background(), userID, item.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.True(t, total.Equal(mustDecimal("1047")))
}

func TestCartService_Update_ZeroQuantityRemoves(t *testing.T) {
	productRepo := newMockProductRepo()
	pid := productRepo.add(model.Product{Name: "Jacket", Price: mustDecimal("349"), Stock: 100})
	cartRepo := newMockCartRepo(productRepo)
	svc := NewCartService(cartRepo, productRepo)

	userID := uuid.New()
	item := &model.CartItem{UserID: userID, ProductID: pid, Quantity: 2}
	require.NoError(t, cartRepo.Upsert(context.Background(), item))

	total, count, err := svc.Update(context.Background(), userID, item.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.True(t, total.IsZero())
	assert.Empty(t, cartRepo.items)
}

func TestCartService_Update_NotOwned(t *testing.T) {
	productRepo := newMockProductRepo()
	pid := productRepo.add(model.Product{Name: "Jacket", Price: mustDecimal("349"), Stock: 100})
	cartRepo := newMockCartRepo(productRepo)
	svc := NewCartService(cartRepo, productRepo)

	item := &model.CartItem{UserID: uuid.New(), ProductID: pid, Quantity: 1}
	require.NoError(t, cartRepo.Upsert(context.Background(), item))

	_, _, err := svc.Update(context.Background(), uuid.New(), item.ID, 3)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_Remove(t *testing.T) {
	productRepo := newMockProductRepo()
	jacket := productRepo.add(model.Product{Name: "Jacket", Price: mustDecimal("349"), Stock: 100})
	boots := productRepo.add(model.Product{Name: "Boots", Price: mustDecimal("599"), Stock: 5})
	cartRepo := newMockCartRepo(productRepo)
	svc := NewCartService(cartRepo, productRepo)

	userID := uuid.New()
	jacketItem := &model.CartItem{UserID: userID, ProductID: jacket, Quantity: 2}
	require.NoError(t, cartRepo.Upsert(context.Background(), jacketItem))
	bootsItem := &model.CartItem{UserID: userID, ProductID: boots, Quantity: 1}
	require.NoError(t, cartRepo.Upsert(context.Background(), bootsItem))

	total, count, err := svc.Remove(context.Background(), userID, bootsItem.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.True(t, total.Equal(mustDecimal("698")))
}

func TestCartService_Remove_NotFound(t *testing.T) {
	productRepo := newMockProductRepo()
	svc := NewCartService(newMockCartRepo(productRepo), productRepo)

	_, _, err := svc.Remove(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_List_Totals(t *testing.T) {
	productRepo := newMockProductRepo()
	jacket := productRepo.add(model.Product{Name: "Jacket", Price: mustDecimal("349"), Stock: 100})
	boots := productRepo.add(model.Product{Name: "Boots", Price: mustDecimal("599"), Stock: 5})
	cartRepo := newMockCartRepo(productRepo)
	svc := NewCartService(cartRepo, productRepo)

	userID := uuid.New()
	require.NoError(t, cartRepo.Upsert(context.Background(), &model.CartItem{UserID: userID, ProductID: jacket, Quantity: 2}))
	require.NoError(t, cartRepo.Upsert(context.Background(), &model.CartItem{UserID: userID, ProductID: boots, Quantity: 1}))

	items, total, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.True(t, total.Equal(mustDecimal("1297")))
}

func TestCartService_Count_EmptyCart(t *testing.T) {
	productRepo := newMockProductRepo()
	svc := NewCartService(newMockCartRepo(productRepo), productRepo)

	count, err := svc.Count(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, count)
}
