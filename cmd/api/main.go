package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo/readpref"

	_ "github.com/oficiosya/hires-api/docs"
	"github.com/oficiosya/hires-api/internal/api"
	"github.com/oficiosya/hires-api/internal/api/handler"
	"github.com/oficiosya/hires-api/internal/core/service"
	"github.com/oficiosya/hires-api/internal/infrastructure/catalog"
	"github.com/oficiosya/hires-api/internal/infrastructure/config"
	mongodb "github.com/oficiosya/hires-api/internal/infrastructure/db/mongo"
	redisdb "github.com/oficiosya/hires-api/internal/infrastructure/db/redis"
	"github.com/oficiosya/hires-api/internal/infrastructure/email"
	"github.com/oficiosya/hires-api/internal/infrastructure/queue"
	"github.com/oficiosya/hires-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title           Hires API
// @version         1.0
// @description     Hire engagement lifecycle: directory ranking, hire state machine, guest contact flow, reviews and notifications.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. Config
	cfg, err := config.Load(ctx)
	if err != nil {
		// logger is not up yet
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	// 2. Logger
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "hires-api",
	})
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting hires api")

	// 3. Storage
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		dctx, dcancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer dcancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	// 4. Repositories
	hireRepo := mongodb.NewHireRepository(db)
	proRepo := mongodb.NewProfessionalRepository(db)
	reviewRepo := mongodb.NewReviewRepository(db)
	notifRepo := mongodb.NewNotificationRepository(db)
	convRepo := mongodb.NewConversationRepository(db)
	userRepo := mongodb.NewUserRepository(db)

	if err := mongodb.EnsureIndexes(ctx, hireRepo, proRepo, reviewRepo, notifRepo, userRepo); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure indexes")
	}

	categories, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load service catalog")
	}

	// 5. Notification pipeline
	clock := service.SystemClock{}
	sender := email.NewHTTPSender(email.Config{
		URL:     cfg.Email.FunctionURL,
		APIKey:  cfg.Email.FunctionKey,
		Timeout: cfg.Email.Timeout,
	}, nil, logger.Component("email"))
	if cfg.Email.FunctionURL == "" {
		log.Warn().Msg("EMAIL_FUNCTION_URL not set, emails will be skipped")
	}

	notifier := service.NewNotifier(
		notifRepo, convRepo, proRepo, userRepo,
		sender, redisdb.NewDedupStore(rdb), cfg.Dispatch.DedupTTL,
		clock, logger.Component("notifier"),
	)
	dispatcher := queue.NewDispatcher(cfg.Dispatch.Workers, notifier, logger.Component("dispatcher"))
	dispatcher.Start(ctx)

	// 6. Services
	hireSvc := service.NewHireService(hireRepo, proRepo, categories, dispatcher, clock, logger.Component("hires"))
	guestSvc := service.NewGuestService(hireSvc, proRepo, clock, logger.Component("guest"))
	reviewSvc := service.NewReviewService(reviewRepo, hireRepo, proRepo, dispatcher, clock, logger.Component("reviews"))
	directorySvc := service.NewDirectoryService(proRepo, clock, logger.Component("directory"))
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL, clock)
	inboxSvc := service.NewInboxService(notifRepo)

	// 7. HTTP
	router := api.NewRouter(api.RouterDeps{
		Logger:    log,
		JWTSecret: cfg.JWTSecret,
		Auth:      authSvc,
		Hires:     hireSvc,
		Guests:    guestSvc,
		Reviews:   reviewSvc,
		Directory: directorySvc,
		Inbox:     inboxSvc,
		Events:    dispatcher,
		Clock:     clock,
		Probes: map[string]handler.Probe{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, readpref.Primary()) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()
	log.Info().Str("addr", srv.Addr).Msg("http server listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer scancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}

	// no request can publish anymore; flush what is queued
	dispatcher.Stop()
	cancel()
	log.Info().Msg("stopped")
}
