package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/shopeasy/storefront-api/internal/config"
	"github.com/shopeasy/storefront-api/internal/handler"
	"github.com/shopeasy/storefront-api/internal/middleware"
	"github.com/shopeasy/storefront-api/internal/migrations"
	"github.com/shopeasy/storefront-api/internal/repository"
	"github.com/shopeasy/storefront-api/internal/service"
	"github.com/shopeasy/storefront-api/internal/worker"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL
	poolCfg, err := pgxpool.ParseConfig(cfg.DB.DSN())
	if err != nil {
		log.Error("parse db config", "error", err)
		os.Exit(1)
	}
	poolCfg.MaxConns = cfg.DB.MaxConns

	dbPool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		log.Error("ping database", "error", err)
		os.Exit(1)
	}
	log.Info("connected to PostgreSQL")

	if err := migrations.Migrate(ctx, dbPool); err != nil {
		log.Error("run migrations", "error", err)
		os.Exit(1)
	}
	if cfg.DB.Seed {
		if err := migrations.Seed(ctx, dbPool); err != nil {
			log.Error("seed database", "error", err)
			os.Exit(1)
		}
	}

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Redis")

	// RabbitMQ
	amqpConn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		log.Error("connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer amqpConn.Close()

	amqpCh, err := amqpConn.Channel()
	if err != nil {
		log.Error("open RabbitMQ channel", "error", err)
		os.Exit(1)
	}
	defer amqpCh.Close()

	if err := worker.SetupRabbitMQ(amqpCh); err != nil {
		log.Error("setup RabbitMQ", "error", err)
		os.Exit(1)
	}
	log.Info("connected to RabbitMQ")

	// Repositories
	userRepo := repository.NewUserRepository(dbPool)
	productRepo := repository.NewProductRepository(dbPool)
	cartRepo := repository.NewCartRepository(dbPool)
	orderRepo := repository.NewOrderRepository(dbPool)

	// Services
	authSvc := service.NewAuthService(userRepo, cfg.Session.Secret, cfg.Session.TTL)
	productSvc := service.NewProductService(productRepo, orderRepo, redisClient, cfg.Catalog.DeletePolicy)
	cartSvc := service.NewCartService(cartRepo, productRepo)
	orderSvc := service.NewOrderService(orderRepo, cartRepo, redisClient, amqpCh)

	// Handlers
	authH := handler.NewAuthHandler(authSvc, int(cfg.Session.TTL.Seconds()), cfg.Session.CookieSecure)
	productH := handler.NewProductHandler(productSvc)
	cartH := handler.NewCartHandler(cartSvc)
	orderH := handler.NewOrderHandler(orderSvc)
	healthH := handler.NewHealthHandler(dbPool, redisClient, amqpConn)

	// Worker
	notifier := worker.NewNotificationWorker(amqpCh, orderRepo, userRepo, redisClient, log)

	// Router
	router := gin.Default()
	router.GET("/healthz", healthH.Healthz)
	router.GET("/readyz", healthH.Readyz)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/register", authH.Register)
		auth.POST("/login", authH.Login)
		auth.POST("/logout", authH.Logout)
		auth.GET("/me", middleware.RequireAuth(cfg.Session.Secret), authH.Me)

		api.GET("/products", productH.List)
		api.GET("/product/:id", productH.GetByID)
		api.GET("/product/:id/related", productH.Related)
		api.GET("/categories", productH.Categories)

		api.GET("/cart/count", middleware.OptionalAuth(cfg.Session.Secret), cartH.Count)

		cart := api.Group("/cart", middleware.RequireAuth(cfg.Session.Secret))
		cart.GET("", cartH.GetCart)
		cart.POST("/add", cartH.Add)
		cart.POST("/update", cartH.Update)
		cart.POST("/remove", cartH.Remove)

		authed := api.Group("", middleware.RequireAuth(cfg.Session.Secret))
		authed.POST("/checkout", orderH.Checkout)
		authed.GET("/orders", orderH.List)
		authed.GET("/orders/:id", orderH.GetByID)

		admin := api.Group("/admin", middleware.RequireAuth(cfg.Session.Secret), middleware.RequireAdmin())
		admin.POST("/products", productH.Create)
		admin.PUT("/products/:id", productH.Update)
		admin.DELETE("/products/:id", productH.Delete)
	}

	if err := notifier.Start(ctx); err != nil {
		log.Error("start notification worker", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}

	notifier.Stop()
	time.Sleep(500 * time.Millisecond)
	cancel()
	log.Info("server stopped")
}
