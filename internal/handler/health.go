package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

type HealthHandler struct {
	pool     *pgxpool.Pool
	rdb      *redis.Client
	amqpConn *amqp.Connection
}

func NewHealthHandler(pool *pgxpool.Pool, rdb *redis.Client, amqpConn *amqp.Connection) *HealthHandler {
	return &HealthHandler{pool: pool, rdb: rdb, amqpConn: amqpConn}
}

func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz reports ready only when every backing dependency answers.
func (h *HealthHandler) Readyz(c *gin.Context) {
	ctx := c.Request.Context()

	deps := gin.H{"postgres": "connected", "redis": "connected", "rabbitmq": "connected"}
	ready := true

	if err := h.pool.Ping(ctx); err != nil {
		deps["postgres"] = "unavailable"
		ready = false
	}
	if err := h.rdb.Ping(ctx).Err(); err != nil {
		deps["redis"] = "unavailable"
		ready = false
	}
	if h.amqpConn.IsClosed() {
		deps["rabbitmq"] = "unavailable"
		ready = false
	}

	if !ready {
		deps["status"] = "error"
		c.JSON(http.StatusServiceUnavailable, deps)
		return
	}
	deps["status"] = "ok"
	c.JSON(http.StatusOK, deps)
}
