package main

import (
	"context"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/alihamzakhan/bazaargo-backend/api/routes"
	"github.com/alihamzakhan/bazaargo-backend/internal/cart"
	"github.com/alihamzakhan/bazaargo-backend/internal/catalog"
	"github.com/alihamzakhan/bazaargo-backend/internal/orders"
	"github.com/alihamzakhan/bazaargo-backend/internal/packs"
	"github.com/alihamzakhan/bazaargo-backend/internal/session"
	"github.com/alihamzakhan/bazaargo-backend/pkg/config"
	"github.com/alihamzakhan/bazaargo-backend/pkg/db"
	"github.com/alihamzakhan/bazaargo-backend/pkg/db/models"
	pkgerrors "github.com/alihamzakhan/bazaargo-backend/pkg/errors"
	"github.com/alihamzakhan/bazaargo-backend/pkg/logger"
	"github.com/alihamzakhan/bazaargo-backend/pkg/metrics"
	"github.com/alihamzakhan/bazaargo-backend/pkg/redis"
	"github.com/alihamzakhan/bazaargo-backend/pkg/upstream"
)

// tokenSource binds late because the session service and the cart manager
// construct in a cycle: the cart's remote mirror needs a token source while
// the session service tears carts down through the manager at logout.
type tokenSource struct {
	svc session.Service
}

func (t *tokenSource) Token(ctx context.Context, userID uuid.UUID) (string, error) {
	if t.svc == nil {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "session service not bound")
	}
	return t.svc.Token(ctx, userID)
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if cfg.FeatureFlags.AutoMigrate {
		if err := dbClient.DB().AutoMigrate(&models.Session{}, &models.SavedPack{}); err != nil {
			logg.Error(context.Background(), "failed to run auto migration", err)
			os.Exit(1)
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, vendor listing cache disabled")
	}

	registry := prometheus.NewRegistry()
	upstreamMetrics := metrics.NewUpstreamMetrics(registry)

	upstreamClient, err := upstream.NewClient(
		cfg.Upstream.BaseURL,
		upstream.WithTimeout(cfg.Upstream.Timeout),
		upstream.WithRetryPolicy(cfg.Upstream.RetryCount, cfg.Upstream.RetryDelay),
		upstream.WithMetrics(upstreamMetrics),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create upstream client", err)
		os.Exit(1)
	}

	sessionRepo := session.NewRepository(dbClient.DB())
	verifier := session.NewVerifier(sessionRepo)

	tokens := &tokenSource{}
	remote, err := cart.NewPlatformRemote(upstreamClient, tokens)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart remote", err)
		os.Exit(1)
	}
	cartManager, err := cart.NewManager(remote)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart manager", err)
		os.Exit(1)
	}

	sessionService, err := session.NewService(upstreamClient, sessionRepo, cartManager, cfg.JWT, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create session service", err)
		os.Exit(1)
	}
	tokens.svc = sessionService

	var catalogService catalog.Service
	if redisClient != nil {
		catalogService, err = catalog.NewService(upstreamClient, sessionService, redisClient, cfg.Search, logg)
	} else {
		catalogService, err = catalog.NewService(upstreamClient, sessionService, nil, cfg.Search, logg)
	}
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	packsService, err := packs.NewService(upstreamClient, sessionService, packs.NewRepository(dbClient.DB()), cfg.Search, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create packs service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(
		upstreamClient,
		sessionService,
		cartManager,
		decimal.NewFromInt(int64(cfg.Checkout.DeliveryFee)),
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	var cachePinger redis.Pinger
	if redisClient != nil {
		cachePinger = redisClient
	}

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			cachePinger,
			registry,
			verifier,
			sessionService,
			catalogService,
			cartManager,
			packsService,
			ordersService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
