package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	_ "github.com/studahub/backend/docs"
	"github.com/studahub/backend/internal/antispam"
	"github.com/studahub/backend/internal/api"
	"github.com/studahub/backend/internal/api/handler"
	"github.com/studahub/backend/internal/config"
	"github.com/studahub/backend/internal/gateway"
	"github.com/studahub/backend/internal/model"
	"github.com/studahub/backend/internal/outbox"
	"github.com/studahub/backend/internal/repository"
	"github.com/studahub/backend/internal/service"
	"github.com/studahub/backend/internal/telemetry"
	"github.com/studahub/backend/pkg/logger"
)

// @title        StudaHub API
// @version      1.0
// @description  Catalog, checkout and student services for the StudaHub platform.
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Mode); err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN, Environment: cfg.Mode}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	shutdownTracing, err := telemetry.Init(ctx, "studahub-backend", cfg.OTLPEndpoint)
	if err != nil {
		logger.Fatal("tracing init failed", zap.Error(err))
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	defer rdb.Close()

	users := repository.NewUserRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	orders := repository.NewOrderRepository(db)
	entRepo := repository.NewEntitlementRepository(db)
	papers := repository.NewCustomPaperRepository(db)
	apps := repository.NewCollaboratorRepository(db)
	messages := repository.NewMessageRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	newsRepo := repository.NewNewsletterRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)
	events := repository.NewWebhookEventRepository(db)

	gw, err := gateway.NewClient(cfg.GatewayBaseURL, cfg.GatewayAPIKey, cfg.GatewayTimeout)
	if err != nil {
		logger.Fatal("gateway client init failed", zap.Error(err))
	}

	spamCfg := antispam.DefaultConfig()
	spamCfg.MaxRequests = cfg.SpamMaxRequests
	spamCfg.Window = cfg.SpamWindow
	spamCfg.BlockDuration = cfg.SpamBlockDuration
	var spamStore antispam.Store
	if cfg.SpamUseRedis {
		spamStore = antispam.NewRedisStore(rdb, spamCfg)
	} else {
		spamStore = antispam.NewMemoryStore(spamCfg)
	}
	defer spamStore.Close()
	scorer := antispam.NewScorer(spamStore, spamCfg)

	authSvc := service.NewAuthService(users, cfg.JWTSecret, cfg.TokenTTL)
	catalogSvc := service.NewCatalogService(catalogRepo, rdb, cfg.CacheTTL)
	entSvc := service.NewEntitlementService(catalogRepo, orders, entRepo)
	fulfiller := service.NewFulfiller(orders, entRepo, users, outboxRepo)
	checkoutSvc := service.NewCheckoutService(orders, catalogRepo, users, entSvc, gw, fulfiller)
	webhookSvc := service.NewWebhookService(orders, events, fulfiller)
	paperSvc := service.NewCustomPaperService(papers, users, outboxRepo)
	contactSvc := service.NewContactService(messages, scorer, outboxRepo, cfg.AdminEmail)
	collabSvc := service.NewCollaboratorService(apps, users, outboxRepo)
	blogSvc := service.NewBlogService(blogRepo)
	newsSvc := service.NewNewsletterService(newsRepo)
	statsSvc := service.NewStatsService(users, orders, messages, newsRepo, outboxRepo)

	var sender outbox.Sender = outbox.LogSender{}
	if cfg.SMTPAddr != "" {
		sender = &outbox.SMTPSender{Addr: cfg.SMTPAddr, From: cfg.SMTPFrom}
	}
	worker := outbox.NewWorker(outboxRepo, sender, cfg.OutboxWorkers, cfg.OutboxBatchSize, cfg.OutboxPoll, cfg.OutboxMaxAttempts)
	stopWorker := worker.Start()

	h := handler.New(authSvc, catalogSvc, checkoutSvc, entSvc, webhookSvc, paperSvc, contactSvc, collabSvc, blogSvc, newsSvc, statsSvc)
	router := api.NewRouter(cfg, h, authSvc)

	srv := &http.Server{Addr: cfg.Addr, Handler: router}
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	if err := stopWorker(shutdownCtx); err != nil {
		logger.Error("outbox worker shutdown failed", zap.Error(err))
	}
}
