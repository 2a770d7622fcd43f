package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/shelf-social/config"
	"github.com/d60-Lab/shelf-social/internal/api"
	"github.com/d60-Lab/shelf-social/internal/api/handler"
	"github.com/d60-Lab/shelf-social/internal/cache"
	"github.com/d60-Lab/shelf-social/internal/metrics"
	"github.com/d60-Lab/shelf-social/internal/middleware"
	"github.com/d60-Lab/shelf-social/internal/repository"
	"github.com/d60-Lab/shelf-social/internal/service"
	"github.com/d60-Lab/shelf-social/pkg/database"
	"github.com/d60-Lab/shelf-social/pkg/logger"
	"github.com/d60-Lab/shelf-social/pkg/tracing"
)

// @title           shelf-social API
// @version         1.0
// @description     Paper shelf social feed: following timeline, activity, search and follow graph.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Server.Mode, cfg.Log.Level); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN, Environment: cfg.Sentry.Environment}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()
	if cfg.Database.AutoMigrate {
		if err := repository.AutoMigrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			// redis 不可用时退化为直连数据库
			logger.Warn("redis unavailable, profile cache disabled", zap.Error(err))
			rdb = nil
		} else if cfg.Tracing.Enabled {
			if err := redisotel.InstrumentTracing(rdb); err != nil {
				logger.Warn("redis tracing disabled", zap.Error(err))
			}
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.NewCollector(reg)

	profileRepo := repository.NewProfileRepository(db)
	followRepo := repository.NewFollowRepository(db)
	postRepo := repository.NewPostRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	paperRepo := repository.NewPaperRepository(db)
	libraryRepo := repository.NewLibraryRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	txm := repository.NewTxManager(db)

	profileCache := cache.NewProfileCache(profileRepo, rdb, cfg.Redis.TTL)
	joiner := service.NewReferenceJoiner(paperRepo, profileCache, cfg.Feed.MaxBatchKeys, rec)
	searchSvc := service.NewSearchService(profileCache)

	h := handler.New(handler.Services{
		Feed: service.NewFeedService(followRepo, postRepo, likeRepo, joiner, searchSvc, service.FeedOptions{
			PostWindow:       cfg.Feed.PostWindow,
			LikeCap:          cfg.Feed.LikeCap,
			FollowerEventCap: cfg.Feed.FollowerEventCap,
			ProfilePostCap:   cfg.Feed.ProfilePostCap,
		}, rec),
		Relationship: service.NewRelationshipService(followRepo, profileRepo, joiner, rec),
		Search:       searchSvc,
		Profile:      service.NewProfileService(profileRepo, followRepo, postRepo, libraryRepo, accountRepo, profileCache, txm, rec),
		Library:      service.NewLibraryService(paperRepo, libraryRepo, postRepo, joiner, txm),
		Like:         service.NewLikeService(likeRepo, postRepo),
		Superseder:   service.NewSuperseder(rec),
	}, cfg.Server.RequestTimeout)

	searchLimit := middleware.NewRateLimiter(cfg.Server.SearchRate, cfg.Server.SearchBurst, 10*time.Minute)
	defer searchLimit.Stop()

	router := api.NewRouter(h, api.RouterOptions{
		JWTSecret:   cfg.Auth.JWTSecret,
		ServiceName: cfg.Tracing.ServiceName,
		Gatherer:    reg,
		SearchLimit: searchLimit,
		Tracing:     cfg.Tracing.Enabled,
		Swagger:     cfg.Server.Mode != gin.ReleaseMode,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
