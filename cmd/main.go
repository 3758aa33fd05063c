package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/errgroup"

	"gitlab.com/codepad.net/internal/adapter/crypto"
	"gitlab.com/codepad.net/internal/adapter/judge0"
	"gitlab.com/codepad.net/internal/adapter/memory"
	"gitlab.com/codepad.net/internal/adapter/postgres"
	"gitlab.com/codepad.net/internal/adapter/postgres/historyrepository"
	"gitlab.com/codepad.net/internal/adapter/redis/runstore"
	"gitlab.com/codepad.net/internal/config"
	"gitlab.com/codepad.net/internal/core/ports/primary"
	"gitlab.com/codepad.net/internal/core/ports/secondary"
	"gitlab.com/codepad.net/internal/core/services/execution"
	"gitlab.com/codepad.net/internal/core/services/history"
	logger2 "gitlab.com/codepad.net/internal/global/logger"
	"gitlab.com/codepad.net/internal/handlers"
	http2 "gitlab.com/codepad.net/internal/http"
	"gitlab.com/codepad.net/internal/schedulerengine"
)

func main() {
	InitReader()

	sysCfg := config.NewSystemConfig()
	logger2.SetLevel(sysCfg.LogLevel)
	logger := logger2.Logger
	defer logger.Sync()

	logger.Info("Starting codepad service", "debug", sysCfg.DebugMode)

	// Set up graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// SECONDARY PORTS
	historyRepo, closeDB := setupHistoryRepository(ctx, sysCfg.PostgresConfig, logger)
	defer closeDB()
	runStore, pruner, closeRedis := setupRunStore(ctx, sysCfg, logger)
	defer closeRedis()
	executor := judge0.NewClient(sysCfg.ExecutorConfig, logger)

	//services
	historySvc := history.NewHistoryService(historyRepo, logger)
	executionSvc := execution.NewExecutionService(
		executor,
		runStore,
		historySvc,
		logger,
		sysCfg.RunSvcCfg,
		sysCfg.ExecutorConfig.LanguageID,
	)

	var middleware *handlers.MiddlewareProvider
	if sysCfg.JwtConfig.Enabled() {
		middleware = handlers.NewMiddlewareProvider(crypto.NewJWTService(sysCfg.JwtConfig), logger)
	} else {
		logger.Warn("JWT_SECRET not set, API is unauthenticated")
	}

	serviceProvider := http2.NewServiceProvider(
		executionSvc,
		historySvc,
		sysCfg.ExecutorConfig,
		sysCfg.ExecutorConfig.AllowedLanguages(),
		middleware,
	)

	//server
	httpServer := http2.NewServer(sysCfg.HttpPort, "codepad", *serviceProvider, logger)
	if err := httpServer.Init(); err != nil {
		panic(err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(httpServer.Start)
	if pruner != nil {
		schedulerSvc := schedulerengine.NewSchedulerEngine(sysCfg.RunSvcCfg, pruner, logger)
		g.Go(func() error { return schedulerSvc.StartPruneEngine(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := httpServer.Stop(shutdownCtx)
		executionSvc.Close()
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", "error", err)
		return
	}

	logger.Info("successfully shutdown server")
}

// setupHistoryRepository uses PostgreSQL when DATABASE_URL is set, memory otherwise
func setupHistoryRepository(ctx context.Context, cfg *config.PostgresConfig, logger primary.Logger) (secondary.HistoryRepository, func()) {
	if !cfg.Enabled() {
		logger.Warn("DATABASE_URL not set, history is kept in memory")
		return memory.NewHistoryRepository(), func() {}
	}

	db, err := postgres.Open(ctx, cfg.Url)
	if err != nil {
		panic(err)
	}

	repo := historyrepository.NewHistoryRepository(db, logger)
	if err := repo.EnsureSchema(ctx); err != nil {
		panic(err)
	}

	return repo, func() { _ = db.Close() }
}

// setupRunStore uses Redis when REDIS_ENABLED is true, memory otherwise.
// The pruner is nil for Redis, which expires keys itself.
func setupRunStore(ctx context.Context, cfg *config.AppConfig, logger primary.Logger) (secondary.RunStateRepository, schedulerengine.RunPruner, func()) {
	if !cfg.RedisConfig.Enabled {
		store := memory.NewRunStore()
		return store, store, func() {}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisConfig.Url,
		Password: cfg.RedisConfig.Password,
		DB:       cfg.RedisConfig.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		panic(err)
	}

	store := runstore.NewRunStore(redisClient, logger, cfg.RunSvcCfg.StateTTL, cfg.RunSvcCfg.LockTTL)
	return store, nil, func() { _ = redisClient.Close() }
}

func InitReader() {
	environment := ""
	if len(os.Args) < 2 {
		log.Fatalf("Env not supplied in argument")
	} else {
		environment = os.Args[1]
	}

	if err := config.LoadEnvFile(environment); err != nil {
		log.Fatal(err)
	}
}
