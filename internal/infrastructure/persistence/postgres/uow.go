package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/akbarkhojayev/coinMarkaz/internal/application/command"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/assessment"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/mentor"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// UNIT OF WORK IMPLEMENTATION
// All repositories returned by a unit of work are bound to the same pgx
// transaction. Commit makes every write visible at once, Rollback discards
// them all.
// ══════════════════════════════════════════════════════════════════════════════

// UnitOfWorkFactory implements command.UnitOfWorkFactory for PostgreSQL.
type UnitOfWorkFactory struct {
	conn *Connection
}

// NewUnitOfWorkFactory creates a new UnitOfWorkFactory.
func NewUnitOfWorkFactory(conn *Connection) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{conn: conn}
}

// Begin starts a new transaction and returns repositories bound to it.
func (f *UnitOfWorkFactory) Begin(ctx context.Context) (command.UnitOfWork, error) {
	tx, err := f.conn.BeginTx(ctx)
	if err != nil {
		return nil, err
	}

	return &unitOfWork{
		tx:         tx,
		students:   newStudentRepositoryWithQuerier(tx),
		ledger:     newLedgerRepositoryWithQuerier(tx),
		attempts:   newAttemptRepositoryWithQuerier(tx),
		givePoints: newGivePointRepositoryWithQuerier(tx),
	}, nil
}

type unitOfWork struct {
	tx         pgx.Tx
	done       bool
	students   *StudentRepository
	ledger     *LedgerRepository
	attempts   *AttemptRepository
	givePoints *GivePointRepository
}

// Students returns the student repository within the transaction.
func (u *unitOfWork) Students() student.Repository {
	return u.students
}

// Ledger returns the point ledger repository within the transaction.
func (u *unitOfWork) Ledger() student.LedgerRepository {
	return u.ledger
}

// Attempts returns the attempt repository within the transaction.
func (u *unitOfWork) Attempts() assessment.AttemptRepository {
	return u.attempts
}

// GivePoints returns the grant audit repository within the transaction.
func (u *unitOfWork) GivePoints() mentor.GivePointRepository {
	return u.givePoints
}

// Commit commits the transaction.
func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.done {
		return ErrTransactionFailed
	}

	if err := u.tx.Commit(ctx); err != nil {
		return errors.Join(ErrTransactionFailed, err)
	}

	u.done = true
	return nil
}

// Rollback aborts the transaction. Safe to call after Commit.
func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.done {
		return nil
	}

	if err := u.tx.Rollback(ctx); err != nil {
		if errors.Is(err, pgx.ErrTxClosed) {
			return nil
		}
		return err
	}

	u.done = true
	return nil
}
