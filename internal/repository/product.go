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

// ProductFilter narrows List results; zero values mean "no filter".
type ProductFilter struct {
	Category string
	Search   string
	Featured bool
	Limit    int
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	Related(ctx context.Context, category string, exclude uuid.UUID, limit int) ([]model.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgProductRepo struct{ pool *pgxpool.Pool }

func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &pgProductRepo{pool: pool}
}

const productColumns = `id, name, description, highlights, price, original_price,
	image, category, stock, featured, sizes, created_at, updated_at`

func (r *pgProductRepo) Create(ctx context.Context, p *model.Product) error {
	p.ID = uuid.New()
	query := `INSERT INTO products (id, name, description, highlights, price, original_price,
				image, category, stock, featured, sizes, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
			  RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		p.ID, p.Name, p.Description, p.Highlights, p.Price, toNullDecimal(p.OriginalPrice),
		p.Image, p.Category, p.Stock, p.Featured, p.Sizes,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *pgProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *pgProductRepo) List(ctx context.Context, f ProductFilter) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE ($1 = '' OR category = $1)
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR description ILIKE '%' || $2 || '%')
		  AND (NOT $3 OR featured)
		ORDER BY created_at DESC`
	args := []any{f.Category, f.Search, f.Featured}
	if f.Limit > 0 {
		query += ` LIMIT $4`
		args = append(args, f.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *pgProductRepo) Related(ctx context.Context, category string, exclude uuid.UUID, limit int) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE category = $1 AND id <> $2
		 ORDER BY created_at DESC LIMIT $3`,
		category, exclude, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("related products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *pgProductRepo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT category FROM products ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *pgProductRepo) Update(ctx context.Context, p *model.Product) error {
	query := `UPDATE products SET name=$2, description=$3, highlights=$4, price=$5,
				original_price=$6, image=$7, category=$8, stock=$9, featured=$10, sizes=$11,
				updated_at=NOW()
			  WHERE id=$1 RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		p.ID, p.Name, p.Description, p.Highlights, p.Price, toNullDecimal(p.OriginalPrice),
		p.Image, p.Category, p.Stock, p.Featured, p.Sizes,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pgx.ErrNoRows
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *pgProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	p := &model.Product{}
	var original decimal.NullDecimal
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Highlights, &p.Price, &original,
		&p.Image, &p.Category, &p.Stock, &p.Featured, &p.Sizes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if original.Valid {
		p.OriginalPrice = &original.Decimal
	}
	return p, nil
}

func collectProducts(rows pgx.Rows) ([]model.Product, error) {
	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
