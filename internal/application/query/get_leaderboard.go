package query

import (
	"context"

	"github.com/akbarkhojayev/coinMarkaz/internal/domain/student"
	"github.com/akbarkhojayev/coinMarkaz/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// Students ranked by point balance. Served from the Redis sorted-set cache
// when available; rebuilt lazily from postgres on a miss. Postgres stays
// authoritative - the cache is only a read model.
// ══════════════════════════════════════════════════════════════════════════════

// LeaderboardEntry is one row of the points leaderboard.
type LeaderboardEntry struct {
	// Rank is the 1-based position.
	Rank int `json:"rank"`

	// StudentID is the internal ID of the student.
	StudentID string `json:"student_id"`

	// Name is the student's display name.
	Name string `json:"name"`

	// Balance is the current point balance.
	Balance int `json:"balance"`
}

// LeaderboardCache is the cached read model for the leaderboard.
type LeaderboardCache interface {
	// Top returns entries ranked best-first for the given window.
	Top(ctx context.Context, offset, limit int) ([]LeaderboardEntry, error)

	// Size returns the number of ranked students, 0 when the cache is cold.
	Size(ctx context.Context) (int, error)

	// Rebuild replaces the cached ranking wholesale.
	Rebuild(ctx context.Context, entries []LeaderboardEntry) error
}

// GetLeaderboardQuery contains the parameters for a leaderboard page.
type GetLeaderboardQuery struct {
	// Limit is the page size (default 20).
	Limit int

	// Offset is the pagination offset.
	Offset int
}

// LeaderboardResult is a page of the leaderboard.
type LeaderboardResult struct {
	Entries    []LeaderboardEntry `json:"entries"`
	TotalCount int                `json:"total_count"`
}

// GetLeaderboardHandler handles leaderboard queries.
type GetLeaderboardHandler struct {
	students student.Repository
	cache    LeaderboardCache
	log      *logger.Logger
}

// NewGetLeaderboardHandler creates a new GetLeaderboardHandler.
// cache may be nil; the handler then always reads from the repository.
func NewGetLeaderboardHandler(students student.Repository, cache LeaderboardCache, log *logger.Logger) *GetLeaderboardHandler {
	if log == nil {
		log = logger.Default()
	}
	return &GetLeaderboardHandler{
		students: students,
		cache:    cache,
		log:      log.With(logger.Component("leaderboard")),
	}
}

// Handle executes the query.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, q GetLeaderboardQuery) (*LeaderboardResult, error) {
	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	if h.cache != nil {
		size, err := h.cache.Size(ctx)
		if err != nil {
			h.log.Warn("leaderboard cache unavailable", logger.Err(err))
		} else if size > 0 {
			entries, err := h.cache.Top(ctx, offset, limit)
			if err == nil {
				return &LeaderboardResult{Entries: entries, TotalCount: size}, nil
			}
			h.log.Warn("leaderboard cache read failed", logger.Err(err))
		}
	}

	return h.fromRepository(ctx, offset, limit)
}

// fromRepository builds the page from postgres and warms the cache.
func (h *GetLeaderboardHandler) fromRepository(ctx context.Context, offset, limit int) (*LeaderboardResult, error) {
	total, err := h.students.Count(ctx)
	if err != nil {
		return nil, err
	}

	// Full ranking, so the cache rebuild covers every student; the page is
	// sliced afterwards.
	all, err := h.students.GetTopByBalance(ctx, student.ListOptions{Offset: 0, Limit: total})
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(all))
	for i, s := range all {
		entries = append(entries, LeaderboardEntry{
			Rank:      i + 1,
			StudentID: s.ID,
			Name:      s.Name,
			Balance:   s.Balance.Int(),
		})
	}

	if h.cache != nil && len(entries) > 0 {
		if err := h.cache.Rebuild(ctx, entries); err != nil {
			h.log.Warn("leaderboard cache rebuild failed", logger.Err(err))
		}
	}

	if offset >= len(entries) {
		return &LeaderboardResult{Entries: []LeaderboardEntry{}, TotalCount: total}, nil
	}

	end := offset + limit
	if end > len(entries) {
		end = len(entries)
	}

	return &LeaderboardResult{Entries: entries[offset:end], TotalCount: total}, nil
}
