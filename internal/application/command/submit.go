package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/akbarkhojayev/coinMarkaz/internal/application/ledger"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/assessment"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/shared"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/student"
	"github.com/akbarkhojayev/coinMarkaz/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMIT TEST COMMAND
// One-shot submission of a whole test: validates the answer batch, evaluates
// each answer, computes the score and commits the attempt, its answers, the
// ledger credit and the balance increment in a single transaction.
// ══════════════════════════════════════════════════════════════════════════════

// AnswerInput is one (question, chosen option) pair of a submission.
type AnswerInput struct {
	// QuestionID is the ID of the answered question.
	QuestionID string

	// OptionID is the ID of the chosen answer option.
	OptionID string
}

// SubmitTestCommand contains the data for a test submission.
type SubmitTestCommand struct {
	// StudentID is the internal ID of the submitting student.
	StudentID string

	// TestID is the ID of the test being submitted.
	TestID string

	// Answers is the full answer set. A test is submitted exactly once,
	// with all answers in one batch.
	Answers []AnswerInput
}

// Validate validates the command shape. Fails fast: the first violation wins.
// Shape violations carry the ErrInvalidInput kind, so the transport maps
// them to a client error rather than an internal one.
func (c SubmitTestCommand) Validate() error {
	if c.StudentID == "" {
		return shared.NewDomainError("assessment", "Submit", shared.ErrInvalidInput, "student_id is required")
	}

	if c.TestID == "" {
		return shared.NewDomainError("assessment", "Submit", shared.ErrInvalidInput, "test_id is required")
	}

	if len(c.Answers) == 0 {
		return assessment.ErrEmptyAnswerSet
	}

	for _, a := range c.Answers {
		if a.QuestionID == "" || a.OptionID == "" {
			return shared.NewDomainError("assessment", "Submit", shared.ErrInvalidInput, "every answer needs question_id and option_id")
		}
	}

	return nil
}

// SubmitTestResult contains the outcome of a successful submission.
type SubmitTestResult struct {
	// AttemptID is the ID of the created attempt.
	AttemptID string

	// Score is the final score of the attempt.
	Score int

	// CorrectCount is the number of correctly answered questions.
	CorrectCount int

	// TotalQuestions is the number of answers evaluated.
	TotalQuestions int

	// Balance is the student's balance after crediting.
	Balance int

	// TakenAt is when the attempt was recorded.
	TakenAt time.Time
}

// SubmitTestHandler orchestrates test submissions.
type SubmitTestHandler struct {
	tests       assessment.Repository
	uow         UnitOfWorkFactory
	recorder    *ledger.Recorder
	leaderboard LeaderboardUpdater
	log         *logger.Logger
}

// NewSubmitTestHandler creates a new SubmitTestHandler.
// leaderboard may be nil when the cache is disabled.
func NewSubmitTestHandler(
	tests assessment.Repository,
	uow UnitOfWorkFactory,
	recorder *ledger.Recorder,
	leaderboard LeaderboardUpdater,
	log *logger.Logger,
) *SubmitTestHandler {
	if log == nil {
		log = logger.Default()
	}
	return &SubmitTestHandler{
		tests:       tests,
		uow:         uow,
		recorder:    recorder,
		leaderboard: leaderboard,
		log:         log.With(logger.Component("submit_test")),
	}
}

// Handle executes the submission.
//
// Validation order (first failure wins): non-empty answer set, test exists,
// every question belongs to the test and every option belongs to its
// question, no prior attempt for (student, test). The uniqueness of the
// attempt is ultimately enforced by the storage layer's unique index; the
// application-level check only provides the early error.
func (h *SubmitTestHandler) Handle(ctx context.Context, cmd SubmitTestCommand) (*SubmitTestResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	test, err := h.tests.GetTest(ctx, cmd.TestID)
	if err != nil {
		return nil, err
	}

	// Evaluate the whole batch before opening a transaction: evaluation is
	// pure and any reference mismatch must reject the submission with no
	// ledger mutation at all.
	now := time.Now().UTC()
	attempt, err := assessment.NewAttempt(uuid.New().String(), cmd.StudentID, cmd.TestID, now)
	if err != nil {
		return nil, err
	}

	for _, in := range cmd.Answers {
		question, err := test.QuestionByID(in.QuestionID)
		if err != nil {
			return nil, err
		}

		correct, err := assessment.Evaluate(question, in.OptionID)
		if err != nil {
			return nil, err
		}

		answer := assessment.SubmittedAnswer{
			ID:         uuid.New().String(),
			QuestionID: in.QuestionID,
			OptionID:   in.OptionID,
			IsCorrect:  correct,
			CreatedAt:  now,
		}
		if err := attempt.AddAnswer(answer); err != nil {
			return nil, err
		}
	}

	attempt.Recompute()

	uow, err := h.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	exists, err := uow.Attempts().ExistsByStudentAndTest(ctx, cmd.StudentID, cmd.TestID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, assessment.ErrAttemptExists
	}

	// Lock the student row for the rest of the transaction so a concurrent
	// credit cannot read the same balance snapshot.
	stu, err := uow.Students().GetForUpdate(ctx, cmd.StudentID)
	if err != nil {
		return nil, err
	}

	if err := uow.Attempts().Create(ctx, attempt); err != nil {
		return nil, err
	}

	// Credit only the not-yet-credited part of the score. For a fresh attempt
	// the delta equals the full score; recomputations after that credit zero,
	// so repeated recomputes can never inflate the balance.
	if delta := attempt.CreditDelta(); delta > 0 {
		description := fmt.Sprintf("Points earned from test '%s'", test.Title)
		if _, err := h.recorder.Record(ctx, uow, stu, delta, student.EventTypeTest, description, attempt.TakenAt); err != nil {
			return nil, err
		}

		attempt.MarkCredited()
		if err := uow.Attempts().UpdateScore(ctx, attempt); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.log.Info("test submitted",
		logger.StudentID(stu.ID),
		logger.TestID(test.ID),
		logger.Int("score", attempt.Score),
		logger.Int("balance", stu.Balance.Int()),
	)

	if h.leaderboard != nil {
		if err := h.leaderboard.UpdateScore(ctx, stu.ID, stu.Name, stu.Balance.Int()); err != nil {
			h.log.Warn("leaderboard update failed", logger.Err(err), logger.StudentID(stu.ID))
		}
	}

	return &SubmitTestResult{
		AttemptID:      attempt.ID,
		Score:          attempt.Score,
		CorrectCount:   attempt.CorrectCount(),
		TotalQuestions: len(attempt.Answers),
		Balance:        stu.Balance.Int(),
		TakenAt:        attempt.TakenAt,
	}, nil
}
