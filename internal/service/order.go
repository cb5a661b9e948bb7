package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/shopeasy/storefront-api/internal/dto"
	"github.com/shopeasy/storefront-api/internal/model"
	"github.com/shopeasy/storefront-api/internal/repository"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderAccessDenied = errors.New("access denied")
	ErrCartConflict      = errors.New("cart changed, please retry checkout")
)

type OrderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	redisClient *redis.Client
	amqpCh      *amqp.Channel
}

func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, redisClient *redis.Client, amqpCh *amqp.Channel) *OrderService {
	return &OrderService{orderRepo: orderRepo, cartRepo: cartRepo, redisClient: redisClient, amqpCh: amqpCh}
}

// Checkout converts the user's cart into an order: line prices are
// frozen at the current product price, stock is decremented, and the
// cart is cleared, all in one transaction. The order is Paid when a
// payment reference was supplied (or the payment method is "free"),
// otherwise Pending.
func (s *OrderService) Checkout(ctx context.Context, userID uuid.UUID, req dto.CheckoutRequest) (*model.Order, error) {
	cartItems, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	if len(cartItems) == 0 {
		return nil, ErrEmptyCart
	}

	total := decimal.Zero
	items := make([]model.OrderItem, 0, len(cartItems))
	cartItemIDs := make([]uuid.UUID, 0, len(cartItems))
	for _, ci := range cartItems {
		total = total.Add(ci.Product.Price.Mul(decimal.NewFromInt(int64(ci.Quantity))))
		items = append(items, model.OrderItem{
			ProductID:    ci.ProductID,
			ProductName:  ci.Product.Name,
			ProductImage: ci.Product.Image,
			Quantity:     ci.Quantity,
			Price:        ci.Product.Price,
			Size:         ci.Size,
		})
		cartItemIDs = append(cartItemIDs, ci.ID)
	}

	status := model.OrderStatusPending
	if req.PaymentID != "" || req.PaymentMethod == "free" {
		status = model.OrderStatusPaid
	}

	order := &model.Order{
		UserID:      userID,
		TotalAmount: total,
		Status:      status,
		PaymentID:   req.PaymentID,
		FullName:    req.FullName,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		Zipcode:     req.Zipcode,
		Phone:       req.Phone,
		Items:       items,
	}

	if err := s.orderRepo.CreateWithItems(ctx, order, cartItemIDs); err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientStock):
			return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, err)
		case errors.Is(err, repository.ErrCartConflict):
			return nil, ErrCartConflict
		}
		return nil, fmt.Errorf("place order: %w", err)
	}

	// Stock changed; drop stale product cache entries.
	if s.redisClient != nil {
		for _, item := range items {
			s.redisClient.Del(ctx, "product:"+item.ProductID.String())
		}
	}

	// Best-effort notification event; the order itself is committed.
	if s.amqpCh != nil {
		msg, _ := json.Marshal(model.OrderPlacedMessage{OrderID: order.ID, UserID: userID})
		_ = s.amqpCh.PublishWithContext(ctx, "", "order.placed", false, false, amqp.Publishing{
			ContentType:  "application/json",
			Body:         msg,
			DeliveryMode: amqp.Persistent,
		})
	}

	return order, nil
}

func (s *OrderService) GetByID(ctx context.Context, orderID, userID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != userID {
		return nil, ErrOrderAccessDenied
	}
	return order, nil
}

func (s *OrderService) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}
