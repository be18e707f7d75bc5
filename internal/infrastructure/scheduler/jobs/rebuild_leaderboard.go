// Package jobs contains the scheduled maintenance jobs of the coinMarkaz worker.
package jobs

import (
	"context"
	"fmt"

	"github.com/akbarkhojayev/coinMarkaz/internal/application/query"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/student"
	"github.com/akbarkhojayev/coinMarkaz/pkg/logger"
	"github.com/akbarkhojayev/coinMarkaz/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// REBUILD LEADERBOARD JOB
// Пересобирает Redis-рейтинг из postgres целиком. Кеш с TTL и так
// самовосстанавливается через ленивую перестройку на чтении; задача убирает
// холодные чтения и подхватывает балансы, обновления которых были потеряны.
// ══════════════════════════════════════════════════════════════════════════════

// RebuildLeaderboardJob пересобирает лидерборд из авторитетного хранилища.
type RebuildLeaderboardJob struct {
	students student.Repository
	cache    query.LeaderboardCache
	retrier  *retry.Retrier
	log      *logger.Logger
}

// NewRebuildLeaderboardJob создаёт задачу перестройки лидерборда.
func NewRebuildLeaderboardJob(
	students student.Repository,
	cache query.LeaderboardCache,
	log *logger.Logger,
) *RebuildLeaderboardJob {
	if log == nil {
		log = logger.Default()
	}
	return &RebuildLeaderboardJob{
		students: students,
		cache:    cache,
		retrier:  retry.CacheRetrier(),
		log:      log.With(logger.Component("rebuild_leaderboard")),
	}
}

// Name возвращает имя задачи.
func (j *RebuildLeaderboardJob) Name() string {
	return "rebuild_leaderboard"
}

// Run выполняет перестройку.
func (j *RebuildLeaderboardJob) Run(ctx context.Context) error {
	total, err := j.students.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count students: %w", err)
	}
	if total == 0 {
		return nil
	}

	ranked, err := j.students.GetTopByBalance(ctx, student.ListOptions{Offset: 0, Limit: total})
	if err != nil {
		return fmt.Errorf("failed to load ranking: %w", err)
	}

	entries := make([]query.LeaderboardEntry, 0, len(ranked))
	for i, s := range ranked {
		entries = append(entries, query.LeaderboardEntry{
			Rank:      i + 1,
			StudentID: s.ID,
			Name:      s.Name,
			Balance:   s.Balance.Int(),
		})
	}

	err = j.retrier.Do(ctx, func(ctx context.Context) error {
		return retry.Retryable(j.cache.Rebuild(ctx, entries))
	})
	if err != nil {
		return fmt.Errorf("failed to rebuild leaderboard cache: %w", err)
	}

	j.log.Info("leaderboard rebuilt", logger.Int("students", len(entries)))
	return nil
}
