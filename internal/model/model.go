package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID        uuid.UUID
	Username  string
	Email     string
	Password  string
	IsAdmin   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	// Highlights holds "About this item" bullet points separated by '|'.
	Highlights    string
	Price         decimal.Decimal
	OriginalPrice *decimal.Decimal
	Image         string
	Category      string
	Stock         int
	Featured      bool
	// Sizes is a comma-separated list like "S,M,L,XL"; empty means the
	// product has no size variants.
	Sizes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DiscountPercent derives the display discount from the original price.
// Returns 0 unless the original price is set and strictly above the
// current price.
func (p *Product) DiscountPercent() int {
	if p.OriginalPrice == nil || !p.OriginalPrice.GreaterThan(p.Price) {
		return 0
	}
	return int(p.OriginalPrice.Sub(p.Price).Div(*p.OriginalPrice).Mul(decimal.NewFromInt(100)).IntPart())
}

func (p *Product) HighlightsList() []string {
	return splitTrim(p.Highlights, "|")
}

func (p *Product) SizesList() []string {
	return splitTrim(p.Sizes, ",")
}

func splitTrim(s, sep string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// CartItem is one cart row. At most one row exists per
// (user, product, size) tuple; size "" means no variant.
type CartItem struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	Size      string
	Product   *Product
	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "Pending"
	OrderStatusPaid    OrderStatus = "Paid"
)

type Order struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	TotalAmount decimal.Decimal
	Status      OrderStatus
	PaymentID   string
	FullName    string
	Address     string
	City        string
	State       string
	Zipcode     string
	Phone       string
	Items       []OrderItem
	CreatedAt   time.Time
}

// OrderItem snapshots a purchased line. ProductName, ProductImage and
// Price are copied at checkout time so the row stays meaningful after
// the product is edited or deleted.
type OrderItem struct {
	ID           uuid.UUID
	OrderID      uuid.UUID
	ProductID    uuid.UUID
	ProductName  string
	ProductImage string
	Quantity     int
	Price        decimal.Decimal
	Size         string
}

type OrderPlacedMessage struct {
	OrderID uuid.UUID `json:"order_id"`
	UserID  uuid.UUID `json:"user_id"`
}
