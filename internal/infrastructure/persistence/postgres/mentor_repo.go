package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/akbarkhojayev/coinMarkaz/internal/domain/mentor"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// MENTOR REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// MentorRepository implements mentor.Repository for PostgreSQL.
type MentorRepository struct {
	db Querier
}

// NewMentorRepository creates a new MentorRepository.
func NewMentorRepository(conn *Connection) *MentorRepository {
	return &MentorRepository{db: conn}
}

// Create creates a new mentor with course links.
func (r *MentorRepository) Create(ctx context.Context, m *mentor.Mentor) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO mentors (id, user_id, name, point_limit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		m.ID, m.UserID, m.Name, m.PointLimit, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create mentor: %w", err)
	}

	return r.replaceCourses(ctx, m)
}

// GetByID returns a mentor by internal ID.
func (r *MentorRepository) GetByID(ctx context.Context, id string) (*mentor.Mentor, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, user_id, name, point_limit, created_at, updated_at
		FROM mentors
		WHERE id = $1
	`, id)

	return r.scanMentor(ctx, row)
}

// GetByUserID returns a mentor by account ID.
func (r *MentorRepository) GetByUserID(ctx context.Context, userID string) (*mentor.Mentor, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, user_id, name, point_limit, created_at, updated_at
		FROM mentors
		WHERE user_id = $1
	`, userID)

	return r.scanMentor(ctx, row)
}

// GetAll returns all mentors with pagination.
func (r *MentorRepository) GetAll(ctx context.Context, opts student.ListOptions) ([]*mentor.Mentor, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, point_limit, created_at, updated_at
		FROM mentors
		ORDER BY name ASC
		LIMIT $1 OFFSET $2
	`, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query mentors: %w", err)
	}
	defer rows.Close()

	var mentors []*mentor.Mentor
	for rows.Next() {
		var m mentor.Mentor
		err := rows.Scan(&m.ID, &m.UserID, &m.Name, &m.PointLimit, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mentor: %w", err)
		}
		mentors = append(mentors, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, m := range mentors {
		if err := r.loadCourses(ctx, m); err != nil {
			return nil, err
		}
	}

	return mentors, nil
}

// Update updates a mentor and rewrites course links.
func (r *MentorRepository) Update(ctx context.Context, m *mentor.Mentor) error {
	result, err := r.db.Exec(ctx, `
		UPDATE mentors SET name = $1, point_limit = $2, updated_at = $3
		WHERE id = $4
	`,
		m.Name, m.PointLimit, time.Now().UTC(), m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update mentor: %w", err)
	}
	if result.RowsAffected() == 0 {
		return mentor.ErrNotFound
	}

	if _, err := r.db.Exec(ctx, `DELETE FROM mentor_courses WHERE mentor_id = $1`, m.ID); err != nil {
		return fmt.Errorf("failed to clear mentor courses: %w", err)
	}

	return r.replaceCourses(ctx, m)
}

// Delete removes a mentor.
func (r *MentorRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM mentors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete mentor: %w", err)
	}
	if result.RowsAffected() == 0 {
		return mentor.ErrNotFound
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Course link helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *MentorRepository) replaceCourses(ctx context.Context, m *mentor.Mentor) error {
	for _, courseID := range m.CourseIDs {
		_, err := r.db.Exec(ctx,
			`INSERT INTO mentor_courses (mentor_id, course_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			m.ID, courseID,
		)
		if err != nil {
			return fmt.Errorf("failed to link mentor course: %w", err)
		}
	}
	return nil
}

func (r *MentorRepository) loadCourses(ctx context.Context, m *mentor.Mentor) error {
	rows, err := r.db.Query(ctx,
		`SELECT course_id FROM mentor_courses WHERE mentor_id = $1`, m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to query mentor courses: %w", err)
	}
	defer rows.Close()

	m.CourseIDs = nil
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan mentor course: %w", err)
		}
		m.CourseIDs = append(m.CourseIDs, id)
	}

	return rows.Err()
}

func (r *MentorRepository) scanMentor(ctx context.Context, row pgx.Row) (*mentor.Mentor, error) {
	var m mentor.Mentor

	err := row.Scan(&m.ID, &m.UserID, &m.Name, &m.PointLimit, &m.CreatedAt, &m.UpdatedAt)
	if IsNoRows(err) {
		return nil, mentor.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan mentor: %w", err)
	}

	if err := r.loadCourses(ctx, &m); err != nil {
		return nil, err
	}

	return &m, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// GIVE POINT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// GivePointRepository implements mentor.GivePointRepository for PostgreSQL.
// The give_points table is append-only.
type GivePointRepository struct {
	db Querier
}

// NewGivePointRepository creates a new GivePointRepository.
func NewGivePointRepository(conn *Connection) *GivePointRepository {
	return &GivePointRepository{db: conn}
}

func newGivePointRepositoryWithQuerier(q Querier) *GivePointRepository {
	return &GivePointRepository{db: q}
}

// Create records a manual point grant.
func (r *GivePointRepository) Create(ctx context.Context, gp *mentor.GivePoint) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO give_points (id, mentor_id, student_id, amount, description, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		gp.ID, gp.MentorID, gp.StudentID, gp.Amount, gp.Description, gp.Date, gp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create give point: %w", err)
	}
	return nil
}

// GetAll returns all grants, newest first.
func (r *GivePointRepository) GetAll(ctx context.Context, opts student.ListOptions) ([]*mentor.GivePoint, error) {
	return r.query(ctx, `
		SELECT id, mentor_id, student_id, amount, description, date, created_at
		FROM give_points
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, opts.Limit, opts.Offset)
}

// GetByStudent returns grants received by a student, newest first.
func (r *GivePointRepository) GetByStudent(ctx context.Context, studentID string, opts student.ListOptions) ([]*mentor.GivePoint, error) {
	return r.query(ctx, `
		SELECT id, mentor_id, student_id, amount, description, date, created_at
		FROM give_points
		WHERE student_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, studentID, opts.Limit, opts.Offset)
}

// GetByMentor returns grants issued by a mentor, newest first.
func (r *GivePointRepository) GetByMentor(ctx context.Context, mentorID string, opts student.ListOptions) ([]*mentor.GivePoint, error) {
	return r.query(ctx, `
		SELECT id, mentor_id, student_id, amount, description, date, created_at
		FROM give_points
		WHERE mentor_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, mentorID, opts.Limit, opts.Offset)
}

func (r *GivePointRepository) query(ctx context.Context, query string, args ...interface{}) ([]*mentor.GivePoint, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query give points: %w", err)
	}
	defer rows.Close()

	var grants []*mentor.GivePoint
	for rows.Next() {
		var gp mentor.GivePoint
		err := rows.Scan(&gp.ID, &gp.MentorID, &gp.StudentID, &gp.Amount, &gp.Description, &gp.Date, &gp.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan give point: %w", err)
		}
		grants = append(grants, &gp)
	}

	return grants, rows.Err()
}
