package postgres

import (
	"context"
	"fmt"

	"github.com/akbarkhojayev/coinMarkaz/internal/domain/catalog"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// COURSE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// CourseRepository implements catalog.CourseRepository for PostgreSQL.
type CourseRepository struct {
	db Querier
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(conn *Connection) *CourseRepository {
	return &CourseRepository{db: conn}
}

// Create creates a new course.
func (r *CourseRepository) Create(ctx context.Context, c *catalog.Course) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO courses (id, name, created_at) VALUES ($1, $2, $3)`,
		c.ID, c.Name, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	return nil
}

// GetByID returns a course by ID.
func (r *CourseRepository) GetByID(ctx context.Context, id string) (*catalog.Course, error) {
	var c catalog.Course
	err := r.db.QueryRow(ctx,
		`SELECT id, name, created_at FROM courses WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.CreatedAt)

	if IsNoRows(err) {
		return nil, catalog.ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan course: %w", err)
	}

	return &c, nil
}

// GetAll returns all courses with pagination.
func (r *CourseRepository) GetAll(ctx context.Context, opts student.ListOptions) ([]*catalog.Course, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, created_at FROM courses ORDER BY name ASC LIMIT $1 OFFSET $2`,
		opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []*catalog.Course
	for rows.Next() {
		var c catalog.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, &c)
	}

	return courses, rows.Err()
}

// Update updates a course.
func (r *CourseRepository) Update(ctx context.Context, c *catalog.Course) error {
	result, err := r.db.Exec(ctx,
		`UPDATE courses SET name = $1 WHERE id = $2`,
		c.Name, c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	if result.RowsAffected() == 0 {
		return catalog.ErrCourseNotFound
	}
	return nil
}

// Delete removes a course.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	if result.RowsAffected() == 0 {
		return catalog.ErrCourseNotFound
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// GROUP REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// GroupRepository implements catalog.GroupRepository for PostgreSQL.
// Course and mentor links live in join tables and are rewritten on Update.
type GroupRepository struct {
	db Querier
}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository(conn *Connection) *GroupRepository {
	return &GroupRepository{db: conn}
}

// Create creates a new group with its links.
func (r *GroupRepository) Create(ctx context.Context, g *catalog.Group) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO groups (id, name, active, created_at) VALUES ($1, $2, $3, $4)`,
		g.ID, g.Name, g.Active, g.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}

	return r.replaceLinks(ctx, g)
}

// GetByID returns a group with its links.
func (r *GroupRepository) GetByID(ctx context.Context, id string) (*catalog.Group, error) {
	var g catalog.Group
	err := r.db.QueryRow(ctx,
		`SELECT id, name, active, created_at FROM groups WHERE id = $1`, id,
	).Scan(&g.ID, &g.Name, &g.Active, &g.CreatedAt)

	if IsNoRows(err) {
		return nil, catalog.ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan group: %w", err)
	}

	if err := r.loadLinks(ctx, &g); err != nil {
		return nil, err
	}

	return &g, nil
}

// GetAll returns all groups with pagination.
func (r *GroupRepository) GetAll(ctx context.Context, opts student.ListOptions) ([]*catalog.Group, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, active, created_at FROM groups ORDER BY name ASC LIMIT $1 OFFSET $2`,
		opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	var groups []*catalog.Group
	for rows.Next() {
		var g catalog.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Active, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, g := range groups {
		if err := r.loadLinks(ctx, g); err != nil {
			return nil, err
		}
	}

	return groups, nil
}

// GetByMentor returns groups the mentor is attached to.
func (r *GroupRepository) GetByMentor(ctx context.Context, mentorID string) ([]*catalog.Group, error) {
	rows, err := r.db.Query(ctx, `
		SELECT g.id, g.name, g.active, g.created_at
		FROM groups g
		JOIN group_mentors gm ON gm.group_id = g.id
		WHERE gm.mentor_id = $1
		ORDER BY g.name ASC
	`, mentorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups by mentor: %w", err)
	}
	defer rows.Close()

	var groups []*catalog.Group
	for rows.Next() {
		var g catalog.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Active, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, g := range groups {
		if err := r.loadLinks(ctx, g); err != nil {
			return nil, err
		}
	}

	return groups, nil
}

// Update updates a group and rewrites its links.
func (r *GroupRepository) Update(ctx context.Context, g *catalog.Group) error {
	result, err := r.db.Exec(ctx,
		`UPDATE groups SET name = $1, active = $2 WHERE id = $3`,
		g.Name, g.Active, g.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	if result.RowsAffected() == 0 {
		return catalog.ErrGroupNotFound
	}

	if _, err := r.db.Exec(ctx, `DELETE FROM group_courses WHERE group_id = $1`, g.ID); err != nil {
		return fmt.Errorf("failed to clear group courses: %w", err)
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM group_mentors WHERE group_id = $1`, g.ID); err != nil {
		return fmt.Errorf("failed to clear group mentors: %w", err)
	}

	return r.replaceLinks(ctx, g)
}

// Delete removes a group. Join table rows cascade.
func (r *GroupRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if result.RowsAffected() == 0 {
		return catalog.ErrGroupNotFound
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Link helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *GroupRepository) replaceLinks(ctx context.Context, g *catalog.Group) error {
	for _, courseID := range g.CourseIDs {
		_, err := r.db.Exec(ctx,
			`INSERT INTO group_courses (group_id, course_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			g.ID, courseID,
		)
		if err != nil {
			return fmt.Errorf("failed to link group course: %w", err)
		}
	}

	for _, mentorID := range g.MentorIDs {
		_, err := r.db.Exec(ctx,
			`INSERT INTO group_mentors (group_id, mentor_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			g.ID, mentorID,
		)
		if err != nil {
			return fmt.Errorf("failed to link group mentor: %w", err)
		}
	}

	return nil
}

func (r *GroupRepository) loadLinks(ctx context.Context, g *catalog.Group) error {
	courseRows, err := r.db.Query(ctx,
		`SELECT course_id FROM group_courses WHERE group_id = $1`, g.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to query group courses: %w", err)
	}
	defer courseRows.Close()

	g.CourseIDs = nil
	for courseRows.Next() {
		var id string
		if err := courseRows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan group course: %w", err)
		}
		g.CourseIDs = append(g.CourseIDs, id)
	}
	if err := courseRows.Err(); err != nil {
		return err
	}

	mentorRows, err := r.db.Query(ctx,
		`SELECT mentor_id FROM group_mentors WHERE group_id = $1`, g.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to query group mentors: %w", err)
	}
	defer mentorRows.Close()

	g.MentorIDs = nil
	for mentorRows.Next() {
		var id string
		if err := mentorRows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan group mentor: %w", err)
		}
		g.MentorIDs = append(g.MentorIDs, id)
	}

	return mentorRows.Err()
}
