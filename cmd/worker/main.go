// Package main - точка входа фонового воркера coinMarkaz.
//
// Воркер отвечает за периодические задачи обслуживания:
// - Перестройка Redis-лидерборда из postgres
// - Ночная сверка балансов с журналом баллов
//
// Postgres остаётся авторитетным хранилищем; воркер лишь поддерживает
// read model и проверяет инварианты экономики баллов.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/akbarkhojayev/coinMarkaz/config"
	"github.com/akbarkhojayev/coinMarkaz/internal/application/query"
	"github.com/akbarkhojayev/coinMarkaz/internal/infrastructure/persistence/postgres"
	"github.com/akbarkhojayev/coinMarkaz/internal/infrastructure/persistence/redis"
	"github.com/akbarkhojayev/coinMarkaz/internal/infrastructure/scheduler"
	"github.com/akbarkhojayev/coinMarkaz/internal/infrastructure/scheduler/jobs"
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
	// 2. ЛОГИРОВАНИЕ
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.New(logger.Options{
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.App.Debug,
	})
	log = log.With(logger.Component("worker"))
	log.Info("starting coinMarkaz worker",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К БАЗЕ ДАННЫХ
	// ─────────────────────────────────────────────────────────────────────────
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection")
		dbConn.Close()
	}()

	err = retry.DatabaseRetrier().Do(ctx, func(ctx context.Context) error {
		return retry.Retryable(dbConn.Ping(ctx))
	})
	if err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	studentRepo := postgres.NewStudentRepository(dbConn)
	ledgerRepo := postgres.NewLedgerRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REDIS (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var leaderboardCache query.LeaderboardCache

	if !cfg.Redis.Disabled {
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
			log.Warn("redis unavailable, leaderboard rebuild disabled", logger.Err(err))
		} else {
			defer func() {
				_ = redisCache.Close()
			}()
			leaderboardCache = redis.NewLeaderboardCache(redisCache)
			log.Info("redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ПЛАНИРОВЩИК И ЗАДАЧИ
	// ─────────────────────────────────────────────────────────────────────────
	sched := scheduler.NewScheduler(log)

	if leaderboardCache != nil {
		rebuild := jobs.NewRebuildLeaderboardJob(studentRepo, leaderboardCache, log)
		if err := sched.Register(rebuild, scheduler.NewIntervalSchedule(cfg.Worker.RebuildInterval)); err != nil {
			return fmt.Errorf("failed to register rebuild job: %w", err)
		}
	}

	if !cfg.Worker.AuditDisabled {
		daily, err := scheduler.NewDailySchedule(cfg.Worker.AuditTime)
		if err != nil {
			return fmt.Errorf("invalid audit schedule: %w", err)
		}
		audit := jobs.NewAuditBalancesJob(studentRepo, ledgerRepo, log)
		if err := sched.Register(audit, daily); err != nil {
			return fmt.Errorf("failed to register audit job: %w", err)
		}
	}

	if len(sched.ListJobs()) == 0 {
		return fmt.Errorf("no jobs to run: redis disabled and audit disabled")
	}

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	log.Info("coinMarkaz worker is running")

	// ─────────────────────────────────────────────────────────────────────────
	// 6. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case <-ctx.Done():
		log.Info("context cancelled")
	}

	if err := sched.Stop(); err != nil {
		log.Warn("scheduler stop failed", logger.Err(err))
	}

	log.Info("shutdown completed")
	return nil
}
