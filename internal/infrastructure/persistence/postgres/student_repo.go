package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/akbarkhojayev/coinMarkaz/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements student.Repository for PostgreSQL.
type StudentRepository struct {
	db Querier
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(conn *Connection) *StudentRepository {
	return &StudentRepository{db: conn}
}

func newStudentRepositoryWithQuerier(q Querier) *StudentRepository {
	return &StudentRepository{db: q}
}

const studentColumns = `id, user_id, name, birth_date, bio, group_id, balance, created_at, updated_at`

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create creates a new student.
func (r *StudentRepository) Create(ctx context.Context, s *student.Student) error {
	query := `
		INSERT INTO students (id, user_id, name, birth_date, bio, group_id, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		s.ID,
		s.UserID,
		s.Name,
		nullableTime(s.BirthDate),
		s.Bio,
		nullableString(s.GroupID),
		s.Balance.Int(),
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return student.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create student: %w", err)
	}

	return nil
}

// GetByID returns a student by internal ID.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`

	row := r.db.QueryRow(ctx, query, id)
	return scanStudent(row)
}

// GetForUpdate returns a student by internal ID with the row locked until
// the surrounding transaction ends. Credits read the balance through this,
// so two concurrent credits to one student serialize instead of both
// writing a balance computed from the same snapshot.
func (r *StudentRepository) GetForUpdate(ctx context.Context, id string) (*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1 FOR UPDATE`

	row := r.db.QueryRow(ctx, query, id)
	return scanStudent(row)
}

// GetByUserID returns a student by account ID.
func (r *StudentRepository) GetByUserID(ctx context.Context, userID string) (*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE user_id = $1`

	row := r.db.QueryRow(ctx, query, userID)
	return scanStudent(row)
}

// Update updates a student including the balance.
func (r *StudentRepository) Update(ctx context.Context, s *student.Student) error {
	query := `
		UPDATE students SET
			name = $1,
			birth_date = $2,
			bio = $3,
			group_id = $4,
			balance = $5,
			updated_at = $6
		WHERE id = $7
	`

	result, err := r.db.Exec(ctx, query,
		s.Name,
		nullableTime(s.BirthDate),
		s.Bio,
		nullableString(s.GroupID),
		s.Balance.Int(),
		time.Now().UTC(),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}

	if result.RowsAffected() == 0 {
		return student.ErrNotFound
	}

	return nil
}

// Delete removes a student.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}

	if result.RowsAffected() == 0 {
		return student.ErrNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Bulk Operations
// ─────────────────────────────────────────────────────────────────────────────

// GetAll returns all students with pagination.
func (r *StudentRepository) GetAll(ctx context.Context, opts student.ListOptions) ([]*student.Student, error) {
	query := `
		SELECT ` + studentColumns + `
		FROM students
		ORDER BY name ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

// GetByGroup returns students belonging to a group.
func (r *StudentRepository) GetByGroup(ctx context.Context, groupID string, opts student.ListOptions) ([]*student.Student, error) {
	query := `
		SELECT ` + studentColumns + `
		FROM students
		WHERE group_id = $1
		ORDER BY name ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, groupID, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query students by group: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

// GetTopByBalance returns students ordered by balance descending.
// Ties are broken by name so the ranking is stable.
func (r *StudentRepository) GetTopByBalance(ctx context.Context, opts student.ListOptions) ([]*student.Student, error) {
	query := `
		SELECT ` + studentColumns + `
		FROM students
		ORDER BY balance DESC, name ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query top students: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

// Count returns the total number of students.
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM students").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return count, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// LEDGER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// LedgerRepository implements student.LedgerRepository for PostgreSQL.
// The point_events table is append-only: there are no UPDATE or DELETE paths.
type LedgerRepository struct {
	db Querier
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(conn *Connection) *LedgerRepository {
	return &LedgerRepository{db: conn}
}

func newLedgerRepositoryWithQuerier(q Querier) *LedgerRepository {
	return &LedgerRepository{db: q}
}

// Append appends a point event to the student's history.
func (r *LedgerRepository) Append(ctx context.Context, event *student.PointEvent) error {
	query := `
		INSERT INTO point_events (id, student_id, amount, event_type, description, occurred_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		event.ID,
		event.StudentID,
		event.Amount,
		string(event.Type),
		event.Description,
		event.OccurredAt,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append point event: %w", err)
	}

	return nil
}

// GetHistory returns the student's point history, newest first.
func (r *LedgerRepository) GetHistory(ctx context.Context, studentID string, opts student.ListOptions) ([]*student.PointEvent, error) {
	query := `
		SELECT id, student_id, amount, event_type, description, occurred_at, created_at
		FROM point_events
		WHERE student_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, studentID, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query point events: %w", err)
	}
	defer rows.Close()

	var events []*student.PointEvent
	for rows.Next() {
		var e student.PointEvent
		var eventType string

		err := rows.Scan(
			&e.ID,
			&e.StudentID,
			&e.Amount,
			&eventType,
			&e.Description,
			&e.OccurredAt,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan point event: %w", err)
		}

		e.Type = student.PointEventType(eventType)
		events = append(events, &e)
	}

	return events, rows.Err()
}

// CountByStudent returns the number of point events for a student.
func (r *LedgerRepository) CountByStudent(ctx context.Context, studentID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM point_events WHERE student_id = $1",
		studentID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count point events: %w", err)
	}
	return count, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPER METHODS
// ══════════════════════════════════════════════════════════════════════════════

// scanStudent scans a single student from a row.
func scanStudent(row pgx.Row) (*student.Student, error) {
	var s student.Student
	var birthDate *time.Time
	var groupID *string
	var balance int

	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.Name,
		&birthDate,
		&s.Bio,
		&groupID,
		&balance,
		&s.CreatedAt,
		&s.UpdatedAt,
	)

	if IsNoRows(err) {
		return nil, student.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan student: %w", err)
	}

	if birthDate != nil {
		s.BirthDate = *birthDate
	}
	if groupID != nil {
		s.GroupID = *groupID
	}
	s.Balance = student.Points(balance)

	return &s, nil
}

// scanStudents scans multiple students from rows.
func scanStudents(rows pgx.Rows) ([]*student.Student, error) {
	var students []*student.Student

	for rows.Next() {
		var s student.Student
		var birthDate *time.Time
		var groupID *string
		var balance int

		err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.Name,
			&birthDate,
			&s.Bio,
			&groupID,
			&balance,
			&s.CreatedAt,
			&s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}

		if birthDate != nil {
			s.BirthDate = *birthDate
		}
		if groupID != nil {
			s.GroupID = *groupID
		}
		s.Balance = student.Points(balance)

		students = append(students, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return students, nil
}

// nullableString maps an empty string to SQL NULL.
func nullableString(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// nullableTime maps a zero time to SQL NULL.
func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
