package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopeasy/storefront-api/internal/model"
)

// --- Auth ---

type RegisterRequest struct {
	Username        string `json:"username" form:"username" binding:"required,min=1,max=80"`
	Email           string `json:"email" form:"email" binding:"required,email"`
	Password        string `json:"password" form:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" binding:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	IsAdmin  bool      `json:"is_admin"`
}

// --- Product ---

type CreateProductRequest struct {
	Name          string           `json:"name" binding:"required,max=200"`
	Description   string           `json:"description" binding:"required"`
	Highlights    string           `json:"highlights"`
	Price         decimal.Decimal  `json:"price" binding:"required"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	Image         string           `json:"image"`
	Category      string           `json:"category"`
	Stock         int              `json:"stock" binding:"min=0"`
	Featured      bool             `json:"featured"`
	Sizes         string           `json:"sizes"`
}

type UpdateProductRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Highlights    *string          `json:"highlights"`
	Price         *decimal.Decimal `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	Image         *string          `json:"image"`
	Category      *string          `json:"category"`
	Stock         *int             `json:"stock"`
	Featured      *bool            `json:"featured"`
	Sizes         *string          `json:"sizes"`
}

type ListProductsRequest struct {
	Category string `form:"category"`
	Search   string `form:"search"`
	Featured bool   `form:"featured"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

type ProductResponse struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Highlights      []string         `json:"highlights"`
	Price           decimal.Decimal  `json:"price"`
	OriginalPrice   *decimal.Decimal `json:"original_price"`
	DiscountPercent int              `json:"discount_percent"`
	Image           string           `json:"image"`
	Category        string           `json:"category"`
	Stock           int              `json:"stock"`
	Featured        bool             `json:"featured"`
	Sizes           []string         `json:"sizes"`
	CreatedAt       time.Time        `json:"created_at"`
}

// --- Cart ---

// Cart mutation endpoints accept either a JSON body or form fields;
// both encodings bind into the same request struct.

type AddToCartRequest struct {
	ProductID string `json:"product_id" form:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" form:"quantity" binding:"omitempty,min=1"`
	Size      string `json:"size" form:"size"`
}

type UpdateCartRequest struct {
	ItemID   string `json:"item_id" form:"item_id" binding:"required"`
	Quantity int    `json:"quantity" form:"quantity"`
}

type RemoveCartRequest struct {
	ItemID string `json:"item_id" form:"item_id" binding:"required"`
}

type CartMutationResponse struct {
	Success   bool             `json:"success"`
	Message   string           `json:"message,omitempty"`
	Total     *decimal.Decimal `json:"total,omitempty"`
	CartCount int              `json:"cart_count"`
}

type CartItemResponse struct {
	ID       uuid.UUID       `json:"id"`
	Product  ProductResponse `json:"product"`
	Quantity int             `json:"quantity"`
	Size     string          `json:"size,omitempty"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total decimal.Decimal    `json:"total"`
}

type CartCountResponse struct {
	Count int `json:"count"`
}

// --- Checkout / Orders ---

type CheckoutRequest struct {
	FullName      string `json:"full_name" form:"full_name" binding:"required"`
	Address       string `json:"address" form:"address" binding:"required"`
	City          string `json:"city" form:"city"`
	State         string `json:"state" form:"state"`
	Zipcode       string `json:"zipcode" form:"zipcode"`
	Phone         string `json:"phone" form:"phone"`
	PaymentID     string `json:"payment_id" form:"payment_id"`
	PaymentMethod string `json:"payment_method" form:"payment_method"`
}

type CheckoutResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	OrderID uuid.UUID `json:"order_id"`
}

type OrderItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductImage string          `json:"product_image"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	Size         string          `json:"size,omitempty"`
}

type OrderResponse struct {
	ID          uuid.UUID           `json:"id"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	Status      model.OrderStatus   `json:"status"`
	PaymentID   string              `json:"payment_id,omitempty"`
	FullName    string              `json:"full_name"`
	Address     string              `json:"address"`
	City        string              `json:"city"`
	State       string              `json:"state"`
	Zipcode     string              `json:"zipcode"`
	Phone       string              `json:"phone"`
	Items       []OrderItemResponse `json:"items"`
	CreatedAt   time.Time           `json:"created_at"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
}
