package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopeasy/storefront-api/internal/model"
	"github.com/shopeasy/storefront-api/internal/repository"
)

var (
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrInsufficientStock = errors.New("not enough stock")
)

type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

// Add puts quantity of a product (with optional size variant) into the
// user's cart, merging into an existing row for the same
// (product, size). Returns the user's new total item count.
//
// The stock check covers the requested quantity only, not the merged
// row total; checkout re-validates before committing.
func (s *CartService) Add(ctx context.Context, userID, productID uuid.UUID, quantity int, size string) (int, error) {
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return 0, ErrProductNotFound
	}
	if product.Stock < quantity {
		return 0, ErrInsufficientStock
	}

	item := &model.CartItem{UserID: userID, ProductID: productID, Quantity: quantity, Size: size}
	if err := s.cartRepo.Upsert(ctx, item); err != nil {
		return 0, fmt.Errorf("add cart item: %w", err)
	}

	count, err := s.cartRepo.CountByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count cart items: %w", err)
	}
	return count, nil
}

// Update sets the item's quantity verbatim; a quantity of zero or less
// removes the row instead. Returns the remaining cart total and count.
func (s *CartService) Update(ctx context.Context, userID, itemID uuid.UUID, quantity int) (decimal.Decimal, int, error) {
	item, err := s.cartRepo.GetByID(ctx, itemID, userID)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("get cart item: %w", err)
	}
	if item == nil {
		return decimal.Zero, 0, ErrCartItemNotFound
	}

	if quantity <= 0 {
		err = s.cartRepo.Delete(ctx, itemID)
	} else {
		err = s.cartRepo.UpdateQuantity(ctx, itemID, quantity)
	}
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("update cart item: %w", err)
	}

	return s.totals(ctx, userID)
}

func (s *CartService) Remove(ctx context.Context, userID, itemID uuid.UUID) (decimal.Decimal, int, error) {
	item, err := s.cartRepo.GetByID(ctx, itemID, userID)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("get cart item: %w", err)
	}
	if item == nil {
		return decimal.Zero, 0, ErrCartItemNotFound
	}

	if err := s.cartRepo.Delete(ctx, itemID); err != nil {
		return decimal.Zero, 0, fmt.Errorf("remove cart item: %w", err)
	}

	return s.totals(ctx, userID)
}

func (s *CartService) Count(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.cartRepo.CountByUser(ctx, userID)
}

// List returns the user's cart rows with products and the grand total.
func (s *CartService) List(ctx context.Context, userID uuid.UUID) ([]model.CartItem, decimal.Decimal, error) {
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("list cart items: %w", err)
	}
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return items, total, nil
}

func (s *CartService) totals(ctx context.Context, userID uuid.UUID) (decimal.Decimal, int, error) {
	items, total, err := s.List(ctx, userID)
	if err != nil {
		return decimal.Zero, 0, err
	}
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return total, count, nil
}
