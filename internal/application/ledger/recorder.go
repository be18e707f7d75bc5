// Package ledger implements the point ledger recorder: the single write path
// for student balances. Every credit mutates the balance and appends a history
// event through repositories bound to one transaction, so neither effect can
// be observed without the other.
package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/akbarkhojayev/coinMarkaz/internal/domain/student"
	"github.com/akbarkhojayev/coinMarkaz/pkg/logger"
)

// Repos provides the repositories the recorder writes through. Both must be
// bound to the same unit of work: the recorder never commits by itself.
type Repos interface {
	// Students returns the student repository within the transaction.
	Students() student.Repository

	// Ledger returns the ledger repository within the transaction.
	Ledger() student.LedgerRepository
}

// Recorder appends point events and keeps the running balance in sync.
type Recorder struct {
	log *logger.Logger
}

// NewRecorder creates a new Recorder.
func NewRecorder(log *logger.Logger) *Recorder {
	if log == nil {
		log = logger.Default()
	}
	return &Recorder{log: log.With(logger.Component("ledger"))}
}

// Record credits amount to the student and appends a matching history event.
// The caller owns the transaction: on error the caller must roll back so the
// balance update and the event stay all-or-nothing.
//
// Preconditions: amount >= 1 and a valid event type; violations surface as
// student.ErrInvalidAmount / student.ErrInvalidEventType before any write.
func (r *Recorder) Record(ctx context.Context, repos Repos, s *student.Student, amount int, eventType student.PointEventType, description string, at time.Time) (*student.PointEvent, error) {
	event, err := s.Credit(uuid.New().String(), amount, eventType, description, at)
	if err != nil {
		return nil, err
	}

	if err := repos.Students().Update(ctx, s); err != nil {
		return nil, err
	}

	if err := repos.Ledger().Append(ctx, event); err != nil {
		return nil, err
	}

	r.log.Debug("point event recorded",
		logger.StudentID(s.ID),
		logger.Amount(amount),
		logger.String("event_type", string(eventType)),
		logger.Int("balance", s.Balance.Int()),
	)

	return event, nil
}
