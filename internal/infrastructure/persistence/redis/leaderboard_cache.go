package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/akbarkhojayev/coinMarkaz/internal/application/query"
	"github.com/akbarkhojayev/coinMarkaz/pkg/circuitbreaker"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD CACHE
//
// Architecture:
//   - Sorted set "leaderboard:balance" stores studentID -> balance
//   - Hash "leaderboard:info" stores studentID -> entry JSON
//
// Rank lookups are O(log N), range reads O(log N + M). Implements both the
// query-side read model and the command-side post-commit updater.
// ══════════════════════════════════════════════════════════════════════════════

// Key patterns for leaderboard cache.
const (
	// keyLeaderboardBalance is the sorted set of balances.
	keyLeaderboardBalance = "leaderboard:balance"

	// keyLeaderboardInfo is the hash of entry details.
	keyLeaderboardInfo = "leaderboard:info"

	// ttlLeaderboard bounds staleness when update events are lost.
	ttlLeaderboard = 5 * time.Minute
)

// entryInfo is the hash payload for one student.
type entryInfo struct {
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
	Balance   int    `json:"balance"`
}

// LeaderboardCache provides leaderboard reads over Redis sorted sets.
// All calls pass through a circuit breaker: after repeated Redis failures the
// cache answers circuitbreaker.ErrCircuitOpen immediately and the query side
// falls back to postgres without waiting on timeouts.
type LeaderboardCache struct {
	cache   *Cache
	breaker *circuitbreaker.CircuitBreaker
}

// NewLeaderboardCache creates a new LeaderboardCache instance.
func NewLeaderboardCache(cache *Cache) *LeaderboardCache {
	return &LeaderboardCache{
		cache:   cache,
		breaker: circuitbreaker.CacheBreaker(nil),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// WRITE OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// UpdateScore updates a single student's balance in the ranking.
// Called after a successful commit; implements command.LeaderboardUpdater.
func (l *LeaderboardCache) UpdateScore(ctx context.Context, studentID, name string, balance int) error {
	if studentID == "" {
		return ErrCacheKeyEmpty
	}

	data, err := json.Marshal(entryInfo{StudentID: studentID, Name: name, Balance: balance})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCacheSerialization, err)
	}

	return l.breaker.Execute(ctx, func(ctx context.Context) error {
		pipe := l.cache.Client().Pipeline()
		pipe.ZAdd(ctx, keyLeaderboardBalance, redis.Z{
			Score:  float64(balance),
			Member: studentID,
		})
		pipe.HSet(ctx, keyLeaderboardInfo, studentID, data)
		pipe.Expire(ctx, keyLeaderboardBalance, ttlLeaderboard)
		pipe.Expire(ctx, keyLeaderboardInfo, ttlLeaderboard)

		_, err := pipe.Exec(ctx)
		return err
	})
}

// Rebuild replaces the cached ranking wholesale.
func (l *LeaderboardCache) Rebuild(ctx context.Context, entries []query.LeaderboardEntry) error {
	if len(entries) == 0 {
		return nil
	}

	zMembers := make([]redis.Z, 0, len(entries))
	hashData := make(map[string]interface{}, len(entries))

	for _, entry := range entries {
		if entry.StudentID == "" {
			continue
		}

		zMembers = append(zMembers, redis.Z{
			Score:  float64(entry.Balance),
			Member: entry.StudentID,
		})

		data, err := json.Marshal(entryInfo{
			StudentID: entry.StudentID,
			Name:      entry.Name,
			Balance:   entry.Balance,
		})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCacheSerialization, err)
		}
		hashData[entry.StudentID] = data
	}

	return l.breaker.Execute(ctx, func(ctx context.Context) error {
		pipe := l.cache.Client().Pipeline()
		pipe.Del(ctx, keyLeaderboardBalance, keyLeaderboardInfo)
		pipe.ZAdd(ctx, keyLeaderboardBalance, zMembers...)
		pipe.HSet(ctx, keyLeaderboardInfo, hashData)
		pipe.Expire(ctx, keyLeaderboardBalance, ttlLeaderboard)
		pipe.Expire(ctx, keyLeaderboardInfo, ttlLeaderboard)

		_, err := pipe.Exec(ctx)
		return err
	})
}

// Invalidate drops the cached ranking entirely.
func (l *LeaderboardCache) Invalidate(ctx context.Context) error {
	return l.cache.Delete(ctx, keyLeaderboardBalance, keyLeaderboardInfo)
}

// ══════════════════════════════════════════════════════════════════════════════
// READ OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// Top returns entries ranked best-first for the given window.
func (l *LeaderboardCache) Top(ctx context.Context, offset, limit int) ([]query.LeaderboardEntry, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		return []query.LeaderboardEntry{}, nil
	}

	var ids []string
	var raw []interface{}

	err := l.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		ids, err = l.cache.Client().ZRevRange(ctx,
			keyLeaderboardBalance,
			int64(offset),
			int64(offset+limit-1),
		).Result()
		if err != nil {
			return fmt.Errorf("failed to read leaderboard range: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}

		raw, err = l.cache.Client().HMGet(ctx, keyLeaderboardInfo, ids...).Result()
		if err != nil {
			return fmt.Errorf("failed to read leaderboard entries: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []query.LeaderboardEntry{}, nil
	}

	entries := make([]query.LeaderboardEntry, 0, len(ids))
	for i, id := range ids {
		entry := query.LeaderboardEntry{
			Rank:      offset + i + 1,
			StudentID: id,
		}

		if s, ok := raw[i].(string); ok {
			var info entryInfo
			if err := json.Unmarshal([]byte(s), &info); err == nil {
				entry.Name = info.Name
				entry.Balance = info.Balance
			}
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// Size returns the number of ranked students, 0 when the cache is cold.
func (l *LeaderboardCache) Size(ctx context.Context) (int, error) {
	var count int64
	err := l.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		count, err = l.cache.Client().ZCard(ctx, keyLeaderboardBalance).Result()
		if err != nil {
			return fmt.Errorf("failed to read leaderboard size: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// Rank returns the 1-based rank of a student, 0 when not ranked.
func (l *LeaderboardCache) Rank(ctx context.Context, studentID string) (int, error) {
	rank, err := l.cache.Client().ZRevRank(ctx, keyLeaderboardBalance, studentID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read leaderboard rank: %w", err)
	}
	return int(rank) + 1, nil
}
