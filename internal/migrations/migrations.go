package migrations

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		is_admin      BOOLEAN NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id             UUID PRIMARY KEY,
		name           TEXT NOT NULL,
		description    TEXT NOT NULL,
		highlights     TEXT NOT NULL DEFAULT '',
		price          NUMERIC(12,2) NOT NULL,
		original_price NUMERIC(12,2),
		image          TEXT NOT NULL DEFAULT 'default.jpg',
		category       TEXT NOT NULL DEFAULT 'General',
		stock          INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		featured       BOOLEAN NOT NULL DEFAULT FALSE,
		sizes          TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products (category)`,
	`CREATE TABLE IF NOT EXISTS cart_items (
		id         UUID PRIMARY KEY,
		user_id    UUID NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		product_id UUID NOT NULL REFERENCES products (id) ON DELETE CASCADE,
		quantity   INTEGER NOT NULL CHECK (quantity > 0),
		size       TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, product_id, size)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id           UUID PRIMARY KEY,
		user_id      UUID NOT NULL REFERENCES users (id),
		total_amount NUMERIC(12,2) NOT NULL,
		status       TEXT NOT NULL DEFAULT 'Pending',
		payment_id   TEXT NOT NULL DEFAULT '',
		full_name    TEXT NOT NULL DEFAULT '',
		address      TEXT NOT NULL DEFAULT '',
		city         TEXT NOT NULL DEFAULT '',
		state        TEXT NOT NULL DEFAULT '',
		zipcode      TEXT NOT NULL DEFAULT '',
		phone        TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders (user_id)`,
	// order_items.product_id intentionally has no foreign key: the row
	// carries a denormalized snapshot and must survive product deletion.
	`CREATE TABLE IF NOT EXISTS order_items (
		id            UUID PRIMARY KEY,
		order_id      UUID NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
		product_id    UUID NOT NULL,
		product_name  TEXT NOT NULL,
		product_image TEXT NOT NULL DEFAULT '',
		quantity      INTEGER NOT NULL,
		price         NUMERIC(12,2) NOT NULL,
		size          TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items (order_id)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items (product_id)`,
}

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

type seedProduct struct {
	name, description, highlights string
	price, originalPrice          float64
	image, category               string
	stock                         int
	featured                      bool
	sizes                         string
}

var starterCatalog = []seedProduct{
	{
		name: "Casual Brown Shirt", description: "Comfortable brown long-sleeve shirt. Great for daily wear.",
		price: 349, originalPrice: 699, image: "shirt1.jpg", category: "Shirts", stock: 100, featured: true,
	},
	{
		name: "Classic Checked Shirt", description: "Blue and white checked shirt in soft cotton. Standard fit.",
		price: 399, originalPrice: 799, image: "shirt2.jpg", category: "Shirts", stock: 80, featured: true,
	},
	{
		name: "Daily Walk Sneakers", description: "Lightweight blue and white sneakers for daily use. Breathable.",
		price: 599, originalPrice: 1299, image: "sneaker.jpg", category: "Footwear", stock: 75, featured: true,
	},
	{
		name: "Comfort Grip Trainers", description: "Beige and green trainers with a thick sole for comfort.",
		price: 649, originalPrice: 1499, image: "sneaker1.jpg", category: "Footwear", stock: 60, featured: true,
	},
	{
		name: "Striped Polo T-Shirt", description: "Navy and grey striped polo shirt. Smart-casual look.",
		highlights: "Comfortable Fit|Easy Wash|Standard Style|Multiple Sizes",
		price:      249, originalPrice: 499, image: "tshirt1.jpg", category: "T-Shirts", stock: 120,
		sizes: "S,M,L,XL,XXL", featured: true,
	},
	{
		name: "Plain White Tee", description: "Basic white t-shirt. 100% cotton, soft and durable.",
		highlights: "Pure Cotton|Regular Fit|White Color|Daily Essential",
		price:      199, originalPrice: 399, image: "tshirt2.jpg", category: "T-Shirts", stock: 150,
		sizes: "S,M,L,XL",
	},
	{
		name: "Smart Health Watch", description: "Smartwatch with health tracking features and long battery.",
		highlights: "Step Counter|Heart Monitor|Calls Sync|Long Battery",
		price:      799, originalPrice: 1599, image: "watch.jpg", category: "Watches", stock: 40, featured: true,
	},
	{
		name: "Wired Music Headphones", description: "Over-ear wired headphones with clear audio performance.",
		price: 349, originalPrice: 799, image: "wiredheadphone1.jpg", category: "Electronics", stock: 60,
	},
	{
		name: "Portable Mini Speaker", description: "Small Bluetooth speaker with big sound for travel.",
		price: 449, originalPrice: 949, image: "speaker1.jpg", category: "Electronics", stock: 85, featured: true,
	},
}

// Seed creates the default admin account and, when the catalog is
// empty, the starter products.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	var adminExists bool
	err := pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, "admin@shopeasy.com",
	).Scan(&adminExists)
	if err != nil {
		return fmt.Errorf("seed: check admin: %w", err)
	}
	if !adminExists {
		hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed: hash admin password: %w", err)
		}
		_, err = pool.Exec(ctx,
			`INSERT INTO users (id, username, email, password_hash, is_admin) VALUES ($1, $2, $3, $4, TRUE)`,
			uuid.New(), "admin", "admin@shopeasy.com", string(hashed),
		)
		if err != nil {
			return fmt.Errorf("seed: create admin: %w", err)
		}
	}

	var productCount int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&productCount); err != nil {
		return fmt.Errorf("seed: count products: %w", err)
	}
	if productCount > 0 {
		return nil
	}

	for _, sp := range starterCatalog {
		original := decimal.NullDecimal{Decimal: decimal.NewFromFloat(sp.originalPrice), Valid: sp.originalPrice > 0}
		_, err := pool.Exec(ctx,
			`INSERT INTO products (id, name, description, highlights, price, original_price,
				image, category, stock, featured, sizes)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			uuid.New(), sp.name, sp.description, sp.highlights,
			decimal.NewFromFloat(sp.price), original,
			sp.image, sp.category, sp.stock, sp.featured, sp.sizes,
		)
		if err != nil {
			return fmt.Errorf("seed: insert product %q: %w", sp.name, err)
		}
	}
	return nil
}
