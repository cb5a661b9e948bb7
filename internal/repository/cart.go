package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/shopeasy/storefront-api/internal/model"
)

type CartRepository interface {
	// ListByUser returns the user's cart rows joined with their products.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error)
	// GetByID resolves a cart row only when it belongs to userID.
	GetByID(ctx context.Context, itemID, userID uuid.UUID) (*model.CartItem, error)
	// Upsert inserts the row or, when a row for the same
	// (user, product, size) tuple exists, adds the quantity to it.
	Upsert(ctx context.Context, item *model.CartItem) error
	UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	Delete(ctx context.Context, itemID uuid.UUID) error
	// CountByUser sums quantities across the user's cart rows.
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

type pgCartRepo struct{ pool *pgxpool.Pool }

func NewCartRepository(pool *pgxpool.Pool) CartRepository {
	return &pgCartRepo{pool: pool}
}

const cartJoinQuery = `
	SELECT ci.id, ci.user_id, ci.product_id, ci.quantity, ci.size, ci.created_at, ci.updated_at,
	       ` + productColumnsPrefixed + `
	FROM cart_items ci
	JOIN products p ON p.id = ci.product_id`

const productColumnsPrefixed = `p.id, p.name, p.description, p.highlights, p.price, p.original_price,
	p.image, p.category, p.stock, p.featured, p.sizes, p.created_at, p.updated_at`

func (r *pgCartRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	rows, err := r.pool.Query(ctx, cartJoinQuery+` WHERE ci.user_id = $1 ORDER BY ci.created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	var items []model.CartItem
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *pgCartRepo) GetByID(ctx context.Context, itemID, userID uuid.UUID) (*model.CartItem, error) {
	row := r.pool.QueryRow(ctx, cartJoinQuery+` WHERE ci.id = $1 AND ci.user_id = $2`, itemID, userID)
	item, err := scanCartItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart item: %w", err)
	}
	return item, nil
}

func (r *pgCartRepo) Upsert(ctx context.Context, item *model.CartItem) error {
	item.ID = uuid.New()
	query := `INSERT INTO cart_items (id, user_id, product_id, quantity, size, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			  ON CONFLICT (user_id, product_id, size)
			  DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
			  RETURNING id, quantity, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		item.ID, item.UserID, item.ProductID, item.Quantity, item.Size,
	).Scan(&item.ID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert cart item: %w", err)
	}
	return nil
}

func (r *pgCartRepo) UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE cart_items SET quantity = $2, updated_at = NOW() WHERE id = $1`,
		itemID, quantity,
	)
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgCartRepo) Delete(ctx context.Context, itemID uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgCartRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM cart_items WHERE user_id = $1`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count cart items: %w", err)
	}
	return count, nil
}

func scanCartItem(row pgx.Row) (*model.CartItem, error) {
	item := &model.CartItem{Product: &model.Product{}}
	var original decimal.NullDecimal
	err := row.Scan(
		&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.Size,
		&item.CreatedAt, &item.UpdatedAt,
		&item.Product.ID, &item.Product.Name, &item.Product.Description, &item.Product.Highlights,
		&item.Product.Price, &original, &item.Product.Image, &item.Product.Category,
		&item.Product.Stock, &item.Product.Featured, &item.Product.Sizes,
		&item.Product.CreatedAt, &item.Product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if original.Valid {
		item.Product.OriginalPrice = &original.Decimal
	}
	return item, nil
}
