package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/shopeasy/storefront-api/internal/model"
	"github.com/shopeasy/storefront-api/internal/repository"
)

const (
	orderPlacedQueue = "order.placed"
	dlxExchange      = "order.placed.dlx"
	dlqQueueName     = "order.placed.dlq"
	idempotencyTTL   = 24 * time.Hour
)

// NotificationWorker consumes order.placed events and sends the order
// confirmation for each one. Delivery failures dead-letter into the DLQ
// for inspection instead of being retried forever.
type NotificationWorker struct {
	channel     *amqp.Channel
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	redisClient *redis.Client
	log         *slog.Logger
	done        chan struct{}
}

func NewNotificationWorker(
	ch *amqp.Channel,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	redisClient *redis.Client,
	log *slog.Logger,
) *NotificationWorker {
	return &NotificationWorker{
		channel:     ch,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		redisClient: redisClient,
		log:         log,
		done:        make(chan struct{}),
	}
}

// SetupRabbitMQ declares the order.placed queue together with its
// dead-letter exchange and queue.
func SetupRabbitMQ(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(dlxExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLX: %w", err)
	}
	if _, err := ch.QueueDeclare(dlqQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLQ: %w", err)
	}
	if err := ch.QueueBind(dlqQueueName, orderPlacedQueue, dlxExchange, false, nil); err != nil {
		return fmt.Errorf("bind DLQ: %w", err)
	}
	if _, err := ch.QueueDeclare(orderPlacedQueue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    dlxExchange,
		"x-dead-letter-routing-key": orderPlacedQueue,
	}); err != nil {
		return fmt.Errorf("declare order.placed queue: %w", err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set QoS: %w", err)
	}
	return nil
}

func (w *NotificationWorker) Start(ctx context.Context) error {
	msgs, err := w.channel.Consume(orderPlacedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				w.processMessage(ctx, msg)
			case <-w.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	w.log.Info("notification worker started")
	return nil
}

func (w *NotificationWorker) Stop() { close(w.done) }

func (w *NotificationWorker) processMessage(ctx context.Context, msg amqp.Delivery) {
	var placed model.OrderPlacedMessage
	if err := json.Unmarshal(msg.Body, &placed); err != nil {
		w.log.Error("unmarshal order.placed message", "error", err)
		_ = msg.Nack(false, false)
		return
	}

	log := w.log.With("order_id", placed.OrderID, "user_id", placed.UserID)

	// Redelivered messages must not send a second confirmation.
	idempotencyKey := "order_notified:" + placed.OrderID.String()
	exists, err := w.redisClient.Exists(ctx, idempotencyKey).Result()
	if err != nil {
		log.Error("check idempotency key", "error", err)
		_ = msg.Nack(false, true)
		return
	}
	if exists > 0 {
		log.Info("order already notified, skipping")
		_ = msg.Ack(false)
		return
	}

	if err := w.notifyOrder(ctx, placed.OrderID); err != nil {
		log.Error("notify order failed", "error", err)
		_ = msg.Nack(false, false)
		return
	}

	if err := w.redisClient.Set(ctx, idempotencyKey, "1", idempotencyTTL).Err(); err != nil {
		log.Error("set idempotency key", "error", err)
	}

	_ = msg.Ack(false)
	log.Info("order confirmation sent")
}

func (w *NotificationWorker) notifyOrder(ctx context.Context, orderID uuid.UUID) error {
	order, err := w.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return fmt.Errorf("order not found: %s", orderID)
	}

	user, err := w.userRepo.GetByID(ctx, order.UserID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("user not found: %s", order.UserID)
	}

	// No mail transport is wired up yet; the confirmation is logged with
	// everything a template would need.
	w.log.Info("order confirmation",
		"order_id", order.ID,
		"email", user.Email,
		"username", user.Username,
		"total", order.TotalAmount.String(),
		"status", order.Status,
		"items", len(order.Items),
	)
	return nil
}
