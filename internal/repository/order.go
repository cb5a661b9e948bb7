package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopeasy/storefront-api/internal/model"
)

var (
	// ErrInsufficientStock is returned when a stock decrement would take
	// a product below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrCartConflict is returned when cart rows changed between the
	// checkout snapshot and the transaction taking its locks.
	ErrCartConflict = errors.New("cart changed during checkout")
)

type OrderRepository interface {
	// CreateWithItems persists the order and its items, decrements
	// product stock and removes the processed cart rows as one
	// transaction. Any failure rolls the whole sequence back.
	CreateWithItems(ctx context.Context, order *model.Order, cartItemIDs []uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)
	HasItemsForProduct(ctx context.Context, productID uuid.UUID) (bool, error)
}

type pgOrderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &pgOrderRepo{pool: pool}
}

func (r *pgOrderRepo) CreateWithItems(ctx context.Context, order *model.Order, cartItemIDs []uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the cart rows being converted; a concurrent checkout of the
	// same cart blocks here and then sees its rows gone.
	rows, err := tx.Query(ctx,
		`SELECT id FROM cart_items WHERE id = ANY($1) FOR UPDATE`, cartItemIDs,
	)
	if err != nil {
		return fmt.Errorf("lock cart items: %w", err)
	}
	locked := 0
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scan locked cart item: %w", err)
		}
		locked++
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("lock cart items: %w", err)
	}
	if locked != len(cartItemIDs) {
		return ErrCartConflict
	}

	order.ID = uuid.New()
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (id, user_id, total_amount, status, payment_id,
			full_name, address, city, state, zipcode, phone, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		 RETURNING created_at`,
		order.ID, order.UserID, order.TotalAmount, order.Status, order.PaymentID,
		order.FullName, order.Address, order.City, order.State, order.Zipcode, order.Phone,
	).Scan(&order.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.ID = uuid.New()
		item.OrderID = order.ID
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (id, order_id, product_id, product_name, product_image,
				quantity, price, size)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			item.ID, item.OrderID, item.ProductID, item.ProductName, item.ProductImage,
			item.Quantity, item.Price, item.Size,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}

		ct, err := tx.Exec(ctx,
			`UPDATE products SET stock = stock - $2, updated_at = NOW()
			 WHERE id = $1 AND stock >= $2`,
			item.ProductID, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return fmt.Errorf("%w: product %s", ErrInsufficientStock, item.ProductName)
		}
	}

	if _, err = tx.Exec(ctx, `DELETE FROM cart_items WHERE id = ANY($1)`, cartItemIDs); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *pgOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order := &model.Order{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, total_amount, status, payment_id,
			full_name, address, city, state, zipcode, phone, created_at
		 FROM orders WHERE id = $1`, id,
	).Scan(
		&order.ID, &order.UserID, &order.TotalAmount, &order.Status, &order.PaymentID,
		&order.FullName, &order.Address, &order.City, &order.State, &order.Zipcode,
		&order.Phone, &order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, order_id, product_id, product_name, product_image, quantity, price, size
		 FROM order_items WHERE order_id = $1`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.ProductImage, &item.Quantity, &item.Price, &item.Size)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	return order, rows.Err()
}

func (r *pgOrderRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, total_amount, status, payment_id,
			full_name, address, city, state, zipcode, phone, created_at
		 FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		err := rows.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.PaymentID,
			&o.FullName, &o.Address, &o.City, &o.State, &o.Zipcode, &o.Phone, &o.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *pgOrderRepo) HasItemsForProduct(ctx context.Context, productID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM order_items WHERE product_id = $1)`, productID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check order items: %w", err)
	}
	return exists, nil
}
