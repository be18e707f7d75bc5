// Package main - точка входа HTTP-сервера coinMarkaz.
//
// coinMarkaz - бэкенд учебного центра: тесты с вариантами A-D, баллы за
// правильные ответы, ручные начисления менторов и лидерборд студентов.
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: чистая бизнес-логика без внешних зависимостей
// - Application: оркестрация use cases (Commands/Queries)
// - Infrastructure: postgres, redis, auth
// - Interface: HTTP endpoints
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/akbarkhojayev/coinMarkaz/config"
	"github.com/akbarkhojayev/coinMarkaz/internal/application/command"
	"github.com/akbarkhojayev/coinMarkaz/internal/application/ledger"
	"github.com/akbarkhojayev/coinMarkaz/internal/application/query"
	"github.com/akbarkhojayev/coinMarkaz/internal/infrastructure/auth"
	"github.com/akbarkhojayev/coinMarkaz/internal/infrastructure/persistence/postgres"
	"github.com/akbarkhojayev/coinMarkaz/internal/infrastructure/persistence/redis"
	httpserver "github.com/akbarkhojayev/coinMarkaz/internal/interface/http"
	"github.com/akbarkhojayev/coinMarkaz/pkg/logger"
	"github.com/akbarkhojayev/coinMarkaz/pkg/retry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.App.Debug,
	})
	log.Info("starting coinMarkaz server",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К БАЗЕ ДАННЫХ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection")
		dbConn.Close()
	}()

	// Холодный старт: база может подниматься параллельно с сервисом.
	err = retry.DatabaseRetrier().Do(ctx, func(ctx context.Context) error {
		return retry.Retryable(dbConn.Ping(ctx))
	})
	if err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. МИГРАЦИИ СХЕМЫ
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Database.Migrate {
		migrator := postgres.NewMigrator(dbConn, log)
		if err := migrator.Up(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ИНИЦИАЛИЗАЦИЯ REDIS (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var (
		leaderboardUpdater command.LeaderboardUpdater
		leaderboardCache   query.LeaderboardCache
		cachePinger        httpserver.Pinger
	)

	if !cfg.Redis.Disabled {
		log.Info("connecting to redis")
		redisCache, err := redis.NewCache(redis.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			// Redis только ускоряет лидерборд; без него работаем от
			// postgres напрямую.
			log.Warn("redis unavailable, leaderboard served from postgres", logger.Err(err))
		} else {
			defer func() {
				_ = redisCache.Close()
			}()

			lb := redis.NewLeaderboardCache(redisCache)
			leaderboardUpdater = lb
			leaderboardCache = lb
			cachePinger = redisCache
			log.Info("redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. РЕПОЗИТОРИИ И СЕРВИСЫ
	// ─────────────────────────────────────────────────────────────────────────
	userRepo := postgres.NewUserRepository(dbConn)
	studentRepo := postgres.NewStudentRepository(dbConn)
	ledgerRepo := postgres.NewLedgerRepository(dbConn)
	mentorRepo := postgres.NewMentorRepository(dbConn)
	courseRepo := postgres.NewCourseRepository(dbConn)
	groupRepo := postgres.NewGroupRepository(dbConn)
	testRepo := postgres.NewTestRepository(dbConn)
	attemptRepo := postgres.NewAttemptRepository(dbConn)
	givePointRepo := postgres.NewGivePointRepository(dbConn)

	uowFactory := postgres.NewUnitOfWorkFactory(dbConn)
	recorder := ledger.NewRecorder(log)

	secret := cfg.Auth.Secret
	if secret == "" && cfg.IsDevelopment() {
		log.Warn("AUTH_SECRET is not set, using development fallback")
		secret = "coinmarkaz-dev-secret"
	}
	tokens, err := auth.NewTokenService(secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to init token service: %w", err)
	}
	passwords := auth.NewPasswordHasher(cfg.Auth.BcryptCost)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ОБРАБОТЧИКИ COMMAND/QUERY
	// ─────────────────────────────────────────────────────────────────────────
	submitTest := command.NewSubmitTestHandler(testRepo, uowFactory, recorder, leaderboardUpdater, log)
	grantPoints := command.NewGrantPointsHandler(mentorRepo, uowFactory, recorder, leaderboardUpdater, log)
	getLeaderboard := query.NewGetLeaderboardHandler(studentRepo, leaderboardCache, log)
	getPointHistory := query.NewGetPointHistoryHandler(studentRepo, ledgerRepo)
	getTestResults := query.NewGetTestResultsHandler(attemptRepo, studentRepo, groupRepo)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. HTTP-СЕРВЕР
	// ─────────────────────────────────────────────────────────────────────────
	serverCfg := httpserver.DefaultConfig()
	serverCfg.Host = cfg.HTTP.Host
	serverCfg.Port = cfg.HTTP.Port
	serverCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	serverCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	serverCfg.IdleTimeout = cfg.HTTP.IdleTimeout

	server := httpserver.NewServer(serverCfg, httpserver.Dependencies{
		SubmitTest:      submitTest,
		GrantPoints:     grantPoints,
		GetLeaderboard:  getLeaderboard,
		GetPointHistory: getPointHistory,
		GetTestResults:  getTestResults,
		Users:           userRepo,
		Students:        studentRepo,
		Mentors:         mentorRepo,
		Courses:         courseRepo,
		Groups:          groupRepo,
		Tests:           testRepo,
		GivePoints:      givePointRepo,
		Tokens:          tokens,
		Passwords:       passwords,
		DB:              dbConn,
		Cache:           cachePinger,
		Logger:          log,
	})

	errCh := server.StartAsync()

	// ─────────────────────────────────────────────────────────────────────────
	// 9. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("server stopped")
	return nil
}
