// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"

	"github.com/akbarkhojayev/coinMarkaz/internal/application/ledger"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/assessment"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/mentor"
)

// ══════════════════════════════════════════════════════════════════════════════
// UNIT OF WORK
// Commands that touch the point economy must commit every write through one
// transaction: attempt rows, ledger events and balance updates are never
// persisted separately.
// ══════════════════════════════════════════════════════════════════════════════

// UnitOfWork represents a transaction spanning all write-side repositories.
type UnitOfWork interface {
	ledger.Repos

	// Attempts returns the attempt repository within the transaction.
	Attempts() assessment.AttemptRepository

	// GivePoints returns the grant audit repository within the transaction.
	GivePoints() mentor.GivePointRepository

	// Commit commits the transaction.
	Commit(ctx context.Context) error

	// Rollback aborts the transaction. Safe to call after Commit.
	Rollback(ctx context.Context) error
}

// UnitOfWorkFactory starts new units of work.
type UnitOfWorkFactory interface {
	// Begin starts a new transaction.
	Begin(ctx context.Context) (UnitOfWork, error)
}

// LeaderboardUpdater pushes fresh balances into the leaderboard read model.
// Implementations live in infrastructure (Redis sorted sets). Updates run
// after commit and are best effort: a failed update only degrades the cache,
// postgres stays authoritative.
type LeaderboardUpdater interface {
	UpdateScore(ctx context.Context, studentID, name string, balance int) error
}
