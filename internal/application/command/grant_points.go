package command

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/akbarkhojayev/coinMarkaz/internal/application/ledger"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/mentor"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/shared"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/student"
	"github.com/akbarkhojayev/coinMarkaz/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GRANT POINTS COMMAND
// A mentor-initiated point grant, gated by the mentor's per-grant ceiling.
// On success the grant audit row, the ledger event and the balance increment
// commit in one transaction; on a policy violation nothing is written.
// ══════════════════════════════════════════════════════════════════════════════

// GrantPointsCommand contains the data for a mentor point grant.
type GrantPointsCommand struct {
	// MentorID is the internal ID of the granting mentor.
	MentorID string

	// StudentID is the internal ID of the receiving student.
	StudentID string

	// Amount is the number of points to grant.
	Amount int

	// Description is the reason for the grant.
	Description string
}

// Validate validates the command shape. Shape violations carry the
// ErrInvalidInput kind, so the transport maps them to a client error.
func (c GrantPointsCommand) Validate() error {
	if c.MentorID == "" {
		return shared.NewDomainError("mentor", "Grant", shared.ErrInvalidInput, "mentor_id is required")
	}

	if c.StudentID == "" {
		return shared.NewDomainError("mentor", "Grant", shared.ErrInvalidInput, "student_id is required")
	}

	if c.Amount < 1 {
		return student.ErrInvalidAmount
	}

	return nil
}

// GrantPointsResult contains the outcome of a successful grant.
type GrantPointsResult struct {
	// GrantID is the ID of the audit record.
	GrantID string

	// Amount is the granted amount.
	Amount int

	// Balance is the student's balance after the grant.
	Balance int

	// Date is when the grant was recorded.
	Date time.Time
}

// GrantPointsHandler orchestrates mentor point grants.
type GrantPointsHandler struct {
	mentors     mentor.Repository
	uow         UnitOfWorkFactory
	recorder    *ledger.Recorder
	leaderboard LeaderboardUpdater
	log         *logger.Logger
}

// NewGrantPointsHandler creates a new GrantPointsHandler.
// leaderboard may be nil when the cache is disabled.
func NewGrantPointsHandler(
	mentors mentor.Repository,
	uow UnitOfWorkFactory,
	recorder *ledger.Recorder,
	leaderboard LeaderboardUpdater,
	log *logger.Logger,
) *GrantPointsHandler {
	if log == nil {
		log = logger.Default()
	}
	return &GrantPointsHandler{
		mentors:     mentors,
		uow:         uow,
		recorder:    recorder,
		leaderboard: leaderboard,
		log:         log.With(logger.Component("grant_points")),
	}
}

// Handle executes the grant. An amount above the mentor's point limit fails
// with mentor.LimitExceededError before any write; an amount equal to the
// limit succeeds.
func (h *GrantPointsHandler) Handle(ctx context.Context, cmd GrantPointsCommand) (*GrantPointsResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	m, err := h.mentors.GetByID(ctx, cmd.MentorID)
	if err != nil {
		return nil, err
	}

	// Policy gate before the transaction: a rejected grant must leave no
	// trace in storage.
	if err := m.CheckGrant(cmd.Amount); err != nil {
		return nil, err
	}

	uow, err := h.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	// Lock the student row for the rest of the transaction so a concurrent
	// credit cannot read the same balance snapshot.
	stu, err := uow.Students().GetForUpdate(ctx, cmd.StudentID)
	if err != nil {
		return nil, err
	}

	grant, err := mentor.NewGivePoint(uuid.New().String(), m, stu.ID, cmd.Amount, cmd.Description, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := uow.GivePoints().Create(ctx, grant); err != nil {
		return nil, err
	}

	if _, err := h.recorder.Record(ctx, uow, stu, grant.Amount, student.EventTypeMentor, grant.Description, grant.Date); err != nil {
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.log.Info("points granted",
		logger.MentorID(m.ID),
		logger.StudentID(stu.ID),
		logger.Amount(grant.Amount),
		logger.Int("balance", stu.Balance.Int()),
	)

	if h.leaderboard != nil {
		if err := h.leaderboard.UpdateScore(ctx, stu.ID, stu.Name, stu.Balance.Int()); err != nil {
			h.log.Warn("leaderboard update failed", logger.Err(err), logger.StudentID(stu.ID))
		}
	}

	return &GrantPointsResult{
		GrantID: grant.ID,
		Amount:  grant.Amount,
		Balance: stu.Balance.Int(),
		Date:    grant.Date,
	}, nil
}
