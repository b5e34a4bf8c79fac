package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/georgemunganga/marketplace-backend/internal/config"
	"github.com/georgemunganga/marketplace-backend/internal/database"
	"github.com/georgemunganga/marketplace-backend/internal/events"
	"github.com/georgemunganga/marketplace-backend/internal/httpx"
	"github.com/georgemunganga/marketplace-backend/internal/modules/auth"
	"github.com/georgemunganga/marketplace-backend/internal/modules/billing"
	"github.com/georgemunganga/marketplace-backend/internal/modules/cart"
	"github.com/georgemunganga/marketplace-backend/internal/modules/catalog"
	"github.com/georgemunganga/marketplace-backend/internal/modules/dashboard"
	"github.com/georgemunganga/marketplace-backend/internal/modules/inventory"
	"github.com/georgemunganga/marketplace-backend/internal/modules/order"
	"github.com/georgemunganga/marketplace-backend/internal/modules/shipping"
	"github.com/georgemunganga/marketplace-backend/internal/modules/user"
	"github.com/georgemunganga/marketplace-backend/internal/modules/vendor"
	"github.com/georgemunganga/marketplace-backend/internal/modules/wishlist"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("connected to the database")

	if cfg.MigrateOnStart {
		if err := database.Migrate(db); err != nil {
			return err
		}
	}
	tx := database.NewTransactor(db)

	publisher, closePublisher, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	sequence, closeSequence, err := newInvoiceSequence(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer closeSequence()

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(httpx.RequestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			httpx.Error(w, r, err)
			return
		}
		httpx.OK(w, http.StatusOK, "ok", nil)
	})

	// ── Phase 1: Identity & Vendors ─────────────────────────
	userRepo := user.NewPostgresRepository(db)
	vendorService := vendor.NewService(vendor.NewPostgresRepository(db))
	userService := user.NewService(userRepo, vendorService, tx)

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	authn := auth.NewMiddleware(tokens, userRepo).Authenticate
	auth.NewHandler(auth.NewService(userService, userRepo, tokens)).RegisterRoutes(router)
	user.NewHandler(userService).RegisterRoutes(router, authn)
	vendor.NewHandler(vendorService).RegisterRoutes(router, authn)

	// ── Phase 2: Catalog & Inventory ────────────────────────
	catalogService := catalog.NewService(catalog.NewPostgresRepository(db))
	catalog.NewHandler(catalogService).RegisterRoutes(router, authn)

	inventoryService := inventory.NewService(inventory.NewPostgresLedger(db), tx)
	inventory.NewHandler(inventoryService).RegisterRoutes(router, authn)

	// ── Phase 3: Shopping ───────────────────────────────────
	cart.NewHandler(cart.NewService(cart.NewPostgresRepository(db), catalogService)).RegisterRoutes(router, authn)
	wishlist.NewHandler(wishlist.NewService(wishlist.NewPostgresRepository(db), catalogService)).RegisterRoutes(router, authn)

	shippingService := shipping.NewService(shipping.NewPostgresRepository(db))
	shipping.NewHandler(shippingService).RegisterRoutes(router, authn)

	// ── Phase 4: Orders & Invoices ──────────────────────────
	orderRepo := order.NewPostgresRepository(db)
	billingService := billing.NewService(billing.NewPostgresRepository(db), orderRepo, sequence, publisher)
	billing.NewHandler(billingService).RegisterRoutes(router, authn)

	orderService := order.NewService(order.Deps{
		Repo:      orderRepo,
		Products:  catalogService,
		Stock:     inventoryService,
		Addresses: shippingService,
		Invoices:  billingService,
		Publisher: publisher,
		Tx:        tx,
	})
	order.NewHandler(orderService).RegisterRoutes(router, authn)

	// ── Phase 5: Admin Dashboard ────────────────────────────
	dashboard.NewHandler(dashboard.NewPostgresRepository(db)).RegisterRoutes(router, authn)

	// ── Start Server ─────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logger.Info("marketplace API server starting", slog.String("addr", srv.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newPublisher produces events to Kafka when brokers are configured and logs them otherwise.
func newPublisher(cfg config.Config, logger *slog.Logger) (events.Publisher, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		return events.LogPublisher{Logger: logger}, func() {}, nil
	}
	p, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("publishing events to kafka", slog.String("topic", cfg.KafkaTopic))
	return p, p.Close, nil
}

// newInvoiceSequence counts invoice numbers in Redis when REDIS_URL is set and
// in Postgres otherwise.
func newInvoiceSequence(ctx context.Context, cfg config.Config, db *sql.DB) (billing.Sequence, func(), error) {
	if cfg.RedisURL == "" {
		return billing.NewPostgresSequence(db), func() {}, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, err
	}
	return billing.NewRedisSequence(client), func() { client.Close() }, nil
}
