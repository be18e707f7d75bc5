package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/akbarkhojayev/coinMarkaz/internal/domain/assessment"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// TEST REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// TestRepository implements assessment.Repository for PostgreSQL.
type TestRepository struct {
	db Querier
}

// NewTestRepository creates a new TestRepository.
func NewTestRepository(conn *Connection) *TestRepository {
	return &TestRepository{db: conn}
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

// CreateTest creates a new test together with its questions.
func (r *TestRepository) CreateTest(ctx context.Context, t *assessment.Test) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO tests (id, title, description, created_by, duration_seconds, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		t.ID, t.Title, t.Description, t.CreatedBy, int64(t.Duration.Seconds()), t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create test: %w", err)
	}

	for i := range t.Questions {
		if err := r.insertQuestion(ctx, &t.Questions[i]); err != nil {
			return err
		}
	}

	return nil
}

// GetTest returns a test with all questions and options.
func (r *TestRepository) GetTest(ctx context.Context, id string) (*assessment.Test, error) {
	var t assessment.Test
	var durationSeconds int64

	err := r.db.QueryRow(ctx, `
		SELECT id, title, description, created_by, duration_seconds, created_at
		FROM tests
		WHERE id = $1
	`, id).Scan(&t.ID, &t.Title, &t.Description, &t.CreatedBy, &durationSeconds, &t.CreatedAt)

	if IsNoRows(err) {
		return nil, assessment.ErrTestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan test: %w", err)
	}

	t.Duration = time.Duration(durationSeconds) * time.Second

	if err := r.loadQuestions(ctx, &t); err != nil {
		return nil, err
	}

	return &t, nil
}

// GetAllTests returns tests with pagination, questions not loaded.
func (r *TestRepository) GetAllTests(ctx context.Context, opts student.ListOptions) ([]*assessment.Test, error) {
	return r.queryTests(ctx, `
		SELECT id, title, description, created_by, duration_seconds, created_at
		FROM tests
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, opts.Limit, opts.Offset)
}

// GetTestsByAuthor returns tests created by a mentor, questions not loaded.
func (r *TestRepository) GetTestsByAuthor(ctx context.Context, mentorID string, opts student.ListOptions) ([]*assessment.Test, error) {
	return r.queryTests(ctx, `
		SELECT id, title, description, created_by, duration_seconds, created_at
		FROM tests
		WHERE created_by = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, mentorID, opts.Limit, opts.Offset)
}

// UpdateTest updates test title, description and duration.
func (r *TestRepository) UpdateTest(ctx context.Context, t *assessment.Test) error {
	result, err := r.db.Exec(ctx, `
		UPDATE tests SET title = $1, description = $2, duration_seconds = $3
		WHERE id = $4
	`,
		t.Title, t.Description, int64(t.Duration.Seconds()), t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update test: %w", err)
	}
	if result.RowsAffected() == 0 {
		return assessment.ErrTestNotFound
	}
	return nil
}

// DeleteTest removes a test. Questions and options cascade.
func (r *TestRepository) DeleteTest(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM tests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete test: %w", err)
	}
	if result.RowsAffected() == 0 {
		return assessment.ErrTestNotFound
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Questions
// ─────────────────────────────────────────────────────────────────────────────

// AddQuestion adds a question with its options to a test.
func (r *TestRepository) AddQuestion(ctx context.Context, q *assessment.Question) error {
	return r.insertQuestion(ctx, q)
}

// DeleteQuestion removes a question. Options cascade.
func (r *TestRepository) DeleteQuestion(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if result.RowsAffected() == 0 {
		return assessment.ErrQuestionNotFound
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *TestRepository) insertQuestion(ctx context.Context, q *assessment.Question) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO questions (id, test_id, text) VALUES ($1, $2, $3)`,
		q.ID, q.TestID, q.Text,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return assessment.ErrTestNotFound
		}
		return fmt.Errorf("failed to insert question: %w", err)
	}

	for _, opt := range q.Options {
		_, err := r.db.Exec(ctx, `
			INSERT INTO answer_options (id, question_id, label, text, is_correct)
			VALUES ($1, $2, $3, $4, $5)
		`,
			opt.ID, q.ID, string(opt.Label), opt.Text, opt.IsCorrect,
		)
		if err != nil {
			if IsUniqueViolation(err) {
				return assessment.ErrDuplicateLabel
			}
			return fmt.Errorf("failed to insert answer option: %w", err)
		}
	}

	return nil
}

func (r *TestRepository) queryTests(ctx context.Context, query string, args ...interface{}) ([]*assessment.Test, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tests: %w", err)
	}
	defer rows.Close()

	var tests []*assessment.Test
	for rows.Next() {
		var t assessment.Test
		var durationSeconds int64

		err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.CreatedBy, &durationSeconds, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan test: %w", err)
		}

		t.Duration = time.Duration(durationSeconds) * time.Second
		tests = append(tests, &t)
	}

	return tests, rows.Err()
}

// loadQuestions loads questions and options preserving label order.
func (r *TestRepository) loadQuestions(ctx context.Context, t *assessment.Test) error {
	rows, err := r.db.Query(ctx, `
		SELECT q.id, q.text, o.id, o.label, o.text, o.is_correct
		FROM questions q
		JOIN answer_options o ON o.question_id = q.id
		WHERE q.test_id = $1
		ORDER BY q.created_at ASC, o.label ASC
	`, t.ID)
	if err != nil {
		return fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	index := make(map[string]int)
	t.Questions = nil

	for rows.Next() {
		var questionID, questionText string
		var opt assessment.AnswerOption
		var label string

		err := rows.Scan(&questionID, &questionText, &opt.ID, &label, &opt.Text, &opt.IsCorrect)
		if err != nil {
			return fmt.Errorf("failed to scan question row: %w", err)
		}

		opt.QuestionID = questionID
		opt.Label = assessment.OptionLabel(label)

		i, ok := index[questionID]
		if !ok {
			t.Questions = append(t.Questions, assessment.Question{
				ID:     questionID,
				TestID: t.ID,
				Text:   questionText,
			})
			i = len(t.Questions) - 1
			index[questionID] = i
		}

		t.Questions[i].Options = append(t.Questions[i].Options, opt)
	}

	return rows.Err()
}
