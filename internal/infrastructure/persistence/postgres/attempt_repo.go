package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/akbarkhojayev/coinMarkaz/internal/domain/assessment"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// ATTEMPT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// AttemptRepository implements assessment.AttemptRepository for PostgreSQL.
// The one-attempt-per-student-per-test invariant is enforced by the unique
// index uq_attempt_student_test, not by application checks alone.
type AttemptRepository struct {
	db Querier
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(conn *Connection) *AttemptRepository {
	return &AttemptRepository{db: conn}
}

func newAttemptRepositoryWithQuerier(q Querier) *AttemptRepository {
	return &AttemptRepository{db: q}
}

// Create saves an attempt together with all its answers.
func (r *AttemptRepository) Create(ctx context.Context, a *assessment.Attempt) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO test_attempts (id, student_id, test_id, score, credited_score, taken_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		a.ID, a.StudentID, a.TestID, a.Score, a.CreditedScore, a.TakenAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return assessment.ErrAttemptExists
		}
		return fmt.Errorf("failed to create attempt: %w", err)
	}

	for _, answer := range a.Answers {
		_, err := r.db.Exec(ctx, `
			INSERT INTO submitted_answers (id, attempt_id, question_id, option_id, is_correct, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`,
			answer.ID, a.ID, answer.QuestionID, answer.OptionID, answer.IsCorrect, answer.CreatedAt,
		)
		if err != nil {
			if IsUniqueViolation(err) {
				return assessment.ErrDuplicateAnswer
			}
			return fmt.Errorf("failed to insert submitted answer: %w", err)
		}
	}

	return nil
}

// GetByID returns an attempt with its answers.
func (r *AttemptRepository) GetByID(ctx context.Context, id string) (*assessment.Attempt, error) {
	var a assessment.Attempt

	err := r.db.QueryRow(ctx, `
		SELECT id, student_id, test_id, score, credited_score, taken_at
		FROM test_attempts
		WHERE id = $1
	`, id).Scan(&a.ID, &a.StudentID, &a.TestID, &a.Score, &a.CreditedScore, &a.TakenAt)

	if IsNoRows(err) {
		return nil, assessment.ErrAttemptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan attempt: %w", err)
	}

	if err := r.loadAnswers(ctx, &a); err != nil {
		return nil, err
	}

	return &a, nil
}

// GetByStudentAndTest returns the attempt for a (student, test) pair.
func (r *AttemptRepository) GetByStudentAndTest(ctx context.Context, studentID, testID string) (*assessment.Attempt, error) {
	var a assessment.Attempt

	err := r.db.QueryRow(ctx, `
		SELECT id, student_id, test_id, score, credited_score, taken_at
		FROM test_attempts
		WHERE student_id = $1 AND test_id = $2
	`, studentID, testID).Scan(&a.ID, &a.StudentID, &a.TestID, &a.Score, &a.CreditedScore, &a.TakenAt)

	if IsNoRows(err) {
		return nil, assessment.ErrAttemptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan attempt: %w", err)
	}

	if err := r.loadAnswers(ctx, &a); err != nil {
		return nil, err
	}

	return &a, nil
}

// ExistsByStudentAndTest checks if an attempt exists for the pair.
func (r *AttemptRepository) ExistsByStudentAndTest(ctx context.Context, studentID, testID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM test_attempts WHERE student_id = $1 AND test_id = $2)",
		studentID, testID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check attempt existence: %w", err)
	}
	return exists, nil
}

// GetByStudent returns a student's attempts, newest first. Answers not loaded.
func (r *AttemptRepository) GetByStudent(ctx context.Context, studentID string, opts student.ListOptions) ([]*assessment.Attempt, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, student_id, test_id, score, credited_score, taken_at
		FROM test_attempts
		WHERE student_id = $1
		ORDER BY taken_at DESC
		LIMIT $2 OFFSET $3
	`, studentID, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempts: %w", err)
	}
	defer rows.Close()

	return scanAttempts(rows)
}

// GetByStudents returns attempts for a set of students. Answers not loaded.
func (r *AttemptRepository) GetByStudents(ctx context.Context, studentIDs []string, opts student.ListOptions) ([]*assessment.Attempt, error) {
	if len(studentIDs) == 0 {
		return []*assessment.Attempt{}, nil
	}

	placeholders := make([]string, len(studentIDs))
	args := make([]interface{}, 0, len(studentIDs)+2)
	for i, id := range studentIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args = append(args, id)
	}
	args = append(args, opts.Limit, opts.Offset)

	query := fmt.Sprintf(`
		SELECT id, student_id, test_id, score, credited_score, taken_at
		FROM test_attempts
		WHERE student_id IN (%s)
		ORDER BY taken_at DESC
		LIMIT $%d OFFSET $%d
	`, strings.Join(placeholders, ", "), len(studentIDs)+1, len(studentIDs)+2)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempts by students: %w", err)
	}
	defer rows.Close()

	return scanAttempts(rows)
}

// UpdateScore updates the score and credited amount of an attempt.
func (r *AttemptRepository) UpdateScore(ctx context.Context, a *assessment.Attempt) error {
	result, err := r.db.Exec(ctx, `
		UPDATE test_attempts SET score = $1, credited_score = $2
		WHERE id = $3
	`,
		a.Score, a.CreditedScore, a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attempt score: %w", err)
	}
	if result.RowsAffected() == 0 {
		return assessment.ErrAttemptNotFound
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *AttemptRepository) loadAnswers(ctx context.Context, a *assessment.Attempt) error {
	rows, err := r.db.Query(ctx, `
		SELECT id, attempt_id, question_id, option_id, is_correct, created_at
		FROM submitted_answers
		WHERE attempt_id = $1
		ORDER BY created_at ASC
	`, a.ID)
	if err != nil {
		return fmt.Errorf("failed to query submitted answers: %w", err)
	}
	defer rows.Close()

	a.Answers = nil
	for rows.Next() {
		var answer assessment.SubmittedAnswer
		err := rows.Scan(
			&answer.ID,
			&answer.AttemptID,
			&answer.QuestionID,
			&answer.OptionID,
			&answer.IsCorrect,
			&answer.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to scan submitted answer: %w", err)
		}
		a.Answers = append(a.Answers, answer)
	}

	return rows.Err()
}

func scanAttempts(rows pgx.Rows) ([]*assessment.Attempt, error) {
	var attempts []*assessment.Attempt
	for rows.Next() {
		var a assessment.Attempt
		err := rows.Scan(&a.ID, &a.StudentID, &a.TestID, &a.Score, &a.CreditedScore, &a.TakenAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		attempts = append(attempts, &a)
	}
	return attempts, rows.Err()
}
