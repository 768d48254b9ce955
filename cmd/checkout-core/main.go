package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/storefront-labs/checkout-core/docs"
	"github.com/storefront-labs/checkout-core/internal/api/handlers"
	"github.com/storefront-labs/checkout-core/internal/api/middleware"
	"github.com/storefront-labs/checkout-core/internal/config"
	"github.com/storefront-labs/checkout-core/internal/events"
	"github.com/storefront-labs/checkout-core/internal/events/consumers"
	"github.com/storefront-labs/checkout-core/internal/health"
	"github.com/storefront-labs/checkout-core/internal/metrics"
	repository "github.com/storefront-labs/checkout-core/internal/repositories"
	redisrepo "github.com/storefront-labs/checkout-core/internal/repositories/redis"
	service "github.com/storefront-labs/checkout-core/internal/services"
	"github.com/storefront-labs/checkout-core/internal/telemetry"
	"github.com/storefront-labs/checkout-core/pkg/kafka"
	"github.com/storefront-labs/checkout-core/pkg/sendgrid"
)

//	@title			Checkout Core API
//	@version		1.0
//	@description	Cart, checkout and order service.
//	@BasePath		/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Tracing setup
	shutdownTracing, err := telemetry.Setup(context.Background(), cfg)
	if err != nil {
		slog.Error("❌ Error setting up tracing", "error", err.Error())
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup
	redisClient, err := redisrepo.NewClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", "error", err.Error())
		os.Exit(1)
	}
	rateLimiter := redisrepo.NewRateLimiter(redisClient, cfg)

	// Event fan-out: audit always; receipt, fulfillment and provisioning
	// depending on config. All of them are best effort.
	dispatcher := events.NewDispatcher(logger)
	dispatcher.Register(events.OrderPlaced, consumers.NewAuditLogger(logger))
	dispatcher.Register(events.AccountCreated, consumers.NewCustomerProvisioner(repos.Customer))

	if cfg.SendGrid.Enabled {
		emailService := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
		dispatcher.Register(events.OrderPlaced, consumers.NewEmailReceipt(emailService))
	}

	feedCtx, stopFeed := context.WithCancel(context.Background())
	defer stopFeed()

	var (
		producer        *kafka.Producer
		accountConsumer *kafka.Consumer
	)
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(cfg.Kafka.Brokers)
		dispatcher.Register(events.OrderPlaced, consumers.NewFulfillment(producer, cfg.Kafka.OrderTopic))

		accountConsumer = kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.AccountTopic, cfg.Kafka.GroupID)
		go events.NewAccountFeed(accountConsumer, dispatcher, logger).Run(feedCtx)
	}

	jwtKey := []byte(cfg.Security.JWTKey)
	cartService := service.NewCartService(repos.Cart, repos.Product)
	cartHandler := handlers.NewCartHandler(cartService)
	checkoutService := service.NewCheckoutService(repos.Order, repos.Customer, dispatcher)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, rateLimiter)
	authMiddleware := middleware.NewAuthMiddleware(jwtKey)

	healthHandler, err := health.NewHealthHandler(cfg, &health.Endpoints{DB: repos.DB})
	if err != nil {
		slog.Error("❌ Error creating health handler", "error", err.Error())
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("POST /api/v1/carts", cartHandler.CreateCart())
	routerMux.HandleFunc("GET /api/v1/carts/{id}", cartHandler.GetCart())
	routerMux.HandleFunc("POST /api/v1/carts/{id}/items", cartHandler.AddItem())
	routerMux.HandleFunc("PUT /api/v1/carts/{id}/items/{itemId}", cartHandler.UpdateItem())
	routerMux.HandleFunc("DELETE /api/v1/carts/{id}/items/{itemId}", cartHandler.RemoveItem())
	routerMux.HandleFunc("POST /api/v1/checkout", authMiddleware.Authenticate(checkoutHandler.Checkout()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}", authMiddleware.Authenticate(checkoutHandler.GetOrder()))
	routerMux.HandleFunc("PATCH /api/v1/orders/{id}/payment-status", authMiddleware.Authenticate(checkoutHandler.UpdatePaymentStatus()))
	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /swagger/", httpSwagger.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	if cfg.Telemetry.Enabled {
		handler = otelhttp.NewHandler(handler, "checkout-core")
	}

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	stopFeed()

	if producer != nil {
		if err := producer.Close(); err != nil {
			slog.Error("⚠️ Error closing kafka producer", slog.String("error", err.Error()))
		}
	}

	if accountConsumer != nil {
		if err := accountConsumer.Close(); err != nil {
			slog.Error("⚠️ Error closing kafka consumer", slog.String("error", err.Error()))
		}
	}

	if err := redisClient.Close(); err != nil {
		slog.Error("⚠️ Error closing redis client", slog.String("error", err.Error()))
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Error flushing traces", slog.String("error", err.Error()))
	}
}
