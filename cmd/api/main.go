package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/tradeboard-backend/internal/config"
	reqlog "github.com/georgemunganga/tradeboard-backend/internal/middleware"
	"github.com/georgemunganga/tradeboard-backend/internal/modules/account"
	"github.com/georgemunganga/tradeboard-backend/internal/modules/auth"
	"github.com/georgemunganga/tradeboard-backend/internal/modules/customer"
	"github.com/georgemunganga/tradeboard-backend/internal/modules/inventory"
	"github.com/georgemunganga/tradeboard-backend/internal/modules/messaging"
	"github.com/georgemunganga/tradeboard-backend/internal/modules/order"
	"github.com/georgemunganga/tradeboard-backend/internal/modules/payment"
	"github.com/georgemunganga/tradeboard-backend/internal/modules/stats"
	"github.com/georgemunganga/tradeboard-backend/internal/modules/user"
	"github.com/georgemunganga/tradeboard-backend/internal/platform/cache"
	"github.com/georgemunganga/tradeboard-backend/internal/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Amounts go out as JSON numbers, like the stats totals.
	decimal.MarshalJSONWithoutQuotes = true

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("open database", "error", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal("ping database", "error", err)
	}
	log.Info("connected to database")

	snapshots := cache.NewNoop()
	if cfg.CacheEnabled() {
		snapshots, err = cache.NewRedis(log, cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Fatal("connect redis", "error", err)
		}
		log.Info("stats snapshot cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.StatsCacheTTL)
	}
	defer snapshots.Close()

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(reqlog.RequestLogger(log))
	router.Use(middleware.Recoverer)

	// ── Identity & Business ─────────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	userHandler := user.NewHandler(user.NewService(userRepo, log))

	accountService := account.NewService(account.NewPostgresRepository(db), log)
	accountHandler := account.NewHandler(accountService)

	authService := auth.NewService(userRepo, accountService, cfg.JWTSecret, cfg.JWTTTL, log)
	authHandler := auth.NewHandler(authService)

	// ── Records ─────────────────────────────────────────────
	orderRepo := order.NewPostgresRepository(db)
	productRepo := inventory.NewProductPostgresRepository(db)
	paymentRepo := payment.NewPostgresRepository(db)
	customerRepo := customer.NewPostgresRepository(db)

	// ── Dashboard statistics ────────────────────────────────
	loader := stats.NewLoader(stats.Sources{
		Orders:    orderRepo,
		Products:  productRepo,
		Payments:  paymentRepo,
		Customers: customerRepo,
	}, snapshots, cfg.StatsCacheTTL, log)
	statsHandler := stats.NewHandler(stats.NewService(loader, cfg.Currency, log))

	// Writes drop the owner's cached snapshot.
	orderHandler := order.NewHandler(order.NewService(orderRepo, loader, log))
	inventoryHandler := inventory.NewHandler(inventory.NewService(productRepo, cfg.LowStockThreshold, loader, log))
	paymentHandler := payment.NewHandler(payment.NewService(paymentRepo, loader, log))
	customerHandler := customer.NewHandler(customer.NewService(customerRepo, loader, log))
	messagingHandler := messaging.NewHandler(messaging.NewService(messaging.NewPostgresRepository(db), log))

	// ── Routes ──────────────────────────────────────────────
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	userHandler.RegisterPublicRoutes(router)
	authHandler.RegisterPublicRoutes(router)

	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(authService))
		userHandler.RegisterRoutes(r)
		authHandler.RegisterRoutes(r)
		accountHandler.RegisterRoutes(r)
		messagingHandler.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireOwner)
			orderHandler.RegisterRoutes(r)
			inventoryHandler.RegisterRoutes(r)
			paymentHandler.RegisterRoutes(r)
			customerHandler.RegisterRoutes(r)
			statsHandler.RegisterRoutes(r)
		})
	})

	// ── Start Server ─────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.Info("TradeBoard API server starting", "port", cfg.Port)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown", "error", err)
		}
		log.Info("server stopped")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server exited", "error", err)
		}
	}
}
