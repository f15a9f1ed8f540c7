package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"ms-marketplace/internal/accounts"
	"ms-marketplace/internal/accounts/account_api"
	accounts_db "ms-marketplace/internal/accounts/db"
	"ms-marketplace/internal/auth"
	"ms-marketplace/internal/config"
	"ms-marketplace/internal/database/migrations"
	"ms-marketplace/internal/events"
	events_db "ms-marketplace/internal/events/db"
	"ms-marketplace/internal/events/event_api"
	"ms-marketplace/internal/kafka"
	"ms-marketplace/internal/listings"
	listing_cache "ms-marketplace/internal/listings/cache"
	listings_db "ms-marketplace/internal/listings/db"
	"ms-marketplace/internal/listings/listing_api"
	"ms-marketplace/internal/logger"
	"ms-marketplace/internal/media"
	"ms-marketplace/internal/moderation"
	moderation_db "ms-marketplace/internal/moderation/db"
	"ms-marketplace/internal/moderation/moderation_api"
	"ms-marketplace/internal/orders"
	orders_db "ms-marketplace/internal/orders/db"
	"ms-marketplace/internal/orders/order_api"
	"ms-marketplace/internal/orders/pass_generator"
	users_db "ms-marketplace/internal/users/db"
)

func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.LogAPI(r.Method, r.URL.Path, strconv.Itoa(ww.Status()), time.Since(start).String())
		})
	}
}

func verifyConnections(ctx context.Context, cfg *config.Config, log *logger.Logger) (*bun.DB, *redis.Client) {
	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			log.Error("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
			time.Sleep(2 * time.Second)
			continue
		}

		err = sqldb.Ping()
		if err == nil {
			break
		}

		log.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	log.LogDatabase("CONNECT", "postgres", "connection established")

	bunDB := bun.NewDB(sqldb, pgdialect.New())

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}
	log.LogDatabase("CONNECT", "redis", "connected to "+cfg.Redis.Addr)

	return bunDB, redisClient
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting marketplace service initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	log.Debug("CONFIG", fmt.Sprintf("server=%s redis=%s kafka_enabled=%t", cfg.Server.Port, cfg.Redis.Addr, cfg.Kafka.Enabled))
	ctx := context.Background()

	bunDB, redisClient := verifyConnections(ctx, cfg, log)
	defer bunDB.Close()
	defer redisClient.Close()

	runner := migrations.NewRunner(bunDB, migrations.DefaultOptions())
	if err := runner.Up(); err != nil {
		log.Warn("DATABASE", fmt.Sprintf("Migration runner failed (%v), bootstrapping schema from models", err))
		if err := migrations.Bootstrap(ctx, bunDB); err != nil {
			log.Fatal("DATABASE", fmt.Sprintf("Schema bootstrap failed: %v", err))
		}
	}
	log.Info("DATABASE", "Schema up to date")

	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()

		requiredTopics := []string{
			cfg.Kafka.Topics.EventCreated,
			cfg.Kafka.Topics.ListingCreated,
			cfg.Kafka.Topics.OrderCreated,
			cfg.Kafka.Topics.ReportFiled,
			cfg.Kafka.Topics.ReportDisputed,
		}
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, requiredTopics); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		} else {
			for _, topic := range requiredTopics {
				log.LogKafka("ENSURE", topic, "topic ready")
			}
		}
	} else {
		log.Warn("KAFKA", "Kafka disabled, domain events will not be published")
	}

	userStore := &users_db.DB{Bun: bunDB}

	eventService := events.NewEventService(&events_db.DB{Bun: bunDB}, producer, cfg.Kafka.Topics.EventCreated)
	feedCache := listing_cache.NewCache(redisClient, cfg.Redis.RecentListingsTTL)
	listingService := listings.NewListingService(&listings_db.DB{Bun: bunDB}, feedCache, producer, cfg.Kafka.Topics.ListingCreated)
	orderService := orders.NewOrderService(&orders_db.DB{Bun: bunDB}, listingService, producer, cfg.Kafka.Topics.OrderCreated)
	moderationService := moderation.NewModerationService(&moderation_db.DB{Bun: bunDB}, producer, cfg.Kafka.Topics.ReportFiled, cfg.Kafka.Topics.ReportDisputed)
	accountService := accounts.NewAccountService(&accounts_db.DB{Bun: bunDB})

	eventHandler := &event_api.Handler{EventService: eventService, Logger: log}
	listingHandler := &listing_api.Handler{
		ListingService: listingService,
		Media:          &media.Store{Dir: cfg.Media.UploadDir},
		Logger:         log,
	}
	orderHandler := &order_api.Handler{
		OrderService: orderService,
		Passes:       pass_generator.NewPassGenerator(cfg.Auth.PassSecret),
		Logger:       log,
	}
	moderationHandler := &moderation_api.Handler{ModerationService: moderationService, Logger: log}
	accountHandler := &account_api.Handler{AccountService: accountService, Logger: log}

	log.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	r.Use(requestLogger(log))

	// --- Public Routes ---
	r.Get("/api/listings/recent", listingHandler.RecentListings)
	r.Get("/api/events", eventHandler.ListEvents)
	r.Get("/api/events/slug/{slug}", eventHandler.GetEventBySlug)
	log.Info("ROUTER", "Public storefront endpoints registered")

	// --- Protected Routes ---
	verifier, err := auth.NewOIDCVerifier(ctx, cfg.Auth.OIDCIssuer)
	if err != nil {
		log.Fatal("AUTH", fmt.Sprintf("OIDC setup failed: %v", err))
	}

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(verifier, userStore))
		log.Info("AUTH", "OIDC middleware applied to protected API routes")

		r.Route("/api", func(r chi.Router) {
			r.Route("/events", func(r chi.Router) {
				r.Post("/", eventHandler.CreateEvent)
				r.Get("/{eventID}", eventHandler.GetEvent)
				r.Put("/{eventID}", eventHandler.UpdateEvent)
				r.Delete("/{eventID}", eventHandler.DeleteEvent)
				r.Post("/{eventID}/cancel", eventHandler.CancelEvent)
				r.Get("/{eventID}/listings", listingHandler.ListByEvent)
			})
			log.Info("ROUTER", "Event routes registered under /api/events")

			r.Route("/listings", func(r chi.Router) {
				r.Get("/", listingHandler.ListListings)
				r.Post("/", listingHandler.CreateListing)
				r.Get("/{listingID}", listingHandler.ViewListing)
				r.Put("/{listingID}", listingHandler.UpdateListing)
				r.Delete("/{listingID}", listingHandler.DeleteListing)
				r.Post("/{listingID}/sold", listingHandler.MarkSold)
				r.Post("/{listingID}/expired", listingHandler.MarkExpired)
			})
			log.Info("ROUTER", "Listing routes registered under /api/listings")

			r.Route("/order", func(r chi.Router) {
				r.Post("/", orderHandler.PlaceOrder)
				r.Get("/", orderHandler.ListMyOrders)
				r.Get("/all", orderHandler.ListAllOrders)
				r.Get("/{orderID}", orderHandler.GetOrder)
				r.Get("/{orderID}/pass", orderHandler.OrderPass)
			})
			log.Info("ROUTER", "Order routes registered under /api/order")

			r.Route("/reports", func(r chi.Router) {
				r.Post("/", moderationHandler.FileReport)
				r.Get("/", moderationHandler.ListReports)
				r.Get("/{reportID}", moderationHandler.GetReport)
				r.Post("/{reportID}/verify", moderationHandler.VerifyReport)
				r.Post("/{reportID}/dispute", moderationHandler.DisputeReport)
				r.Get("/{reportID}/dispute", moderationHandler.GetDispute)
			})
			log.Info("ROUTER", "Moderation routes registered under /api/reports")

			r.Route("/account", func(r chi.Router) {
				r.Post("/", accountHandler.OpenAccount)
				r.Get("/", accountHandler.GetAccount)
				r.Put("/", accountHandler.UpdateAccountID)
				r.Post("/deposit", accountHandler.Deposit)
				r.Post("/withdraw", accountHandler.Withdraw)
			})
			log.Info("ROUTER", "Account routes registered under /api/account")
		})
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", "Marketplace service running on "+cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server shutdown failed: %v", err))
	} else {
		log.Info("HTTP", "Marketplace service shutdown complete")
	}
}
