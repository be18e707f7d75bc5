package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/akbarkhojayev/coinMarkaz/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATIONS
// ══════════════════════════════════════════════════════════════════════════════

// Migration represents a single schema migration.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations are applied in order by version. Versions must be unique and
// monotonically increasing; applied versions are recorded in schema_migrations.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_users",
		SQL: `
			CREATE TABLE IF NOT EXISTS users (
				id            UUID PRIMARY KEY,
				username      VARCHAR(50) NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				first_name    VARCHAR(100) NOT NULL DEFAULT '',
				last_name     VARCHAR(100) NOT NULL DEFAULT '',
				role          VARCHAR(20) NOT NULL CHECK (role IN ('admin', 'mentor', 'student')),
				created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);
		`,
	},
	{
		Version: 2,
		Name:    "create_courses_and_groups",
		SQL: `
			CREATE TABLE IF NOT EXISTS courses (
				id         UUID PRIMARY KEY,
				name       VARCHAR(100) NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS groups (
				id         UUID PRIMARY KEY,
				name       VARCHAR(100) NOT NULL,
				active     BOOLEAN NOT NULL DEFAULT TRUE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS group_courses (
				group_id  UUID NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
				course_id UUID NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
				PRIMARY KEY (group_id, course_id)
			);
		`,
	},
	{
		Version: 3,
		Name:    "create_mentors_and_students",
		SQL: `
			CREATE TABLE IF NOT EXISTS mentors (
				id          UUID PRIMARY KEY,
				user_id     UUID NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
				name        VARCHAR(100) NOT NULL,
				point_limit INTEGER NOT NULL CHECK (point_limit > 0),
				created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS mentor_courses (
				mentor_id UUID NOT NULL REFERENCES mentors(id) ON DELETE CASCADE,
				course_id UUID NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
				PRIMARY KEY (mentor_id, course_id)
			);

			CREATE TABLE IF NOT EXISTS group_mentors (
				group_id  UUID NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
				mentor_id UUID NOT NULL REFERENCES mentors(id) ON DELETE CASCADE,
				PRIMARY KEY (group_id, mentor_id)
			);

			CREATE TABLE IF NOT EXISTS students (
				id         UUID PRIMARY KEY,
				user_id    UUID NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
				name       VARCHAR(100) NOT NULL,
				birth_date DATE,
				bio        TEXT NOT NULL DEFAULT '',
				group_id   UUID REFERENCES groups(id) ON DELETE SET NULL,
				balance    INTEGER NOT NULL DEFAULT 0 CHECK (balance >= 0),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_students_group ON students(group_id);
			CREATE INDEX IF NOT EXISTS idx_students_balance ON students(balance DESC);
		`,
	},
	{
		Version: 4,
		Name:    "create_tests_questions_options",
		SQL: `
			CREATE TABLE IF NOT EXISTS tests (
				id               UUID PRIMARY KEY,
				title            VARCHAR(255) NOT NULL,
				description      TEXT NOT NULL DEFAULT '',
				created_by       UUID NOT NULL REFERENCES mentors(id) ON DELETE CASCADE,
				duration_seconds BIGINT NOT NULL DEFAULT 0 CHECK (duration_seconds >= 0),
				created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_tests_author ON tests(created_by);

			CREATE TABLE IF NOT EXISTS questions (
				id         UUID PRIMARY KEY,
				test_id    UUID NOT NULL REFERENCES tests(id) ON DELETE CASCADE,
				text       TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_questions_test ON questions(test_id);

			CREATE TABLE IF NOT EXISTS answer_options (
				id          UUID PRIMARY KEY,
				question_id UUID NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
				label       VARCHAR(1) NOT NULL CHECK (label IN ('A', 'B', 'C', 'D')),
				text        TEXT NOT NULL,
				is_correct  BOOLEAN NOT NULL DEFAULT FALSE,
				CONSTRAINT uq_option_label UNIQUE (question_id, label)
			);

			CREATE INDEX IF NOT EXISTS idx_options_question ON answer_options(question_id);
		`,
	},
	{
		Version: 5,
		Name:    "create_attempts_and_answers",
		SQL: `
			CREATE TABLE IF NOT EXISTS test_attempts (
				id             UUID PRIMARY KEY,
				student_id     UUID NOT NULL REFERENCES students(id) ON DELETE CASCADE,
				test_id        UUID NOT NULL REFERENCES tests(id) ON DELETE CASCADE,
				score          INTEGER NOT NULL DEFAULT 0 CHECK (score >= 0),
				credited_score INTEGER NOT NULL DEFAULT 0 CHECK (credited_score >= 0),
				taken_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				CONSTRAINT uq_attempt_student_test UNIQUE (student_id, test_id)
			);

			CREATE INDEX IF NOT EXISTS idx_attempts_student ON test_attempts(student_id);
			CREATE INDEX IF NOT EXISTS idx_attempts_test ON test_attempts(test_id);

			CREATE TABLE IF NOT EXISTS submitted_answers (
				id          UUID PRIMARY KEY,
				attempt_id  UUID NOT NULL REFERENCES test_attempts(id) ON DELETE CASCADE,
				question_id UUID NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
				option_id   UUID NOT NULL REFERENCES answer_options(id) ON DELETE CASCADE,
				is_correct  BOOLEAN NOT NULL,
				created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				CONSTRAINT uq_answer_per_question UNIQUE (attempt_id, question_id)
			);

			CREATE INDEX IF NOT EXISTS idx_answers_attempt ON submitted_answers(attempt_id);
		`,
	},
	{
		Version: 6,
		Name:    "create_point_ledger",
		SQL: `
			CREATE TABLE IF NOT EXISTS point_events (
				id          UUID PRIMARY KEY,
				student_id  UUID NOT NULL REFERENCES students(id) ON DELETE CASCADE,
				amount      INTEGER NOT NULL CHECK (amount > 0),
				event_type  VARCHAR(20) NOT NULL CHECK (event_type IN ('mentor', 'test')),
				description TEXT NOT NULL DEFAULT '',
				occurred_at TIMESTAMPTZ NOT NULL,
				created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_point_events_student ON point_events(student_id, created_at DESC);
		`,
	},
	{
		Version: 7,
		Name:    "create_give_points",
		SQL: `
			CREATE TABLE IF NOT EXISTS give_points (
				id          UUID PRIMARY KEY,
				mentor_id   UUID NOT NULL REFERENCES mentors(id) ON DELETE CASCADE,
				student_id  UUID NOT NULL REFERENCES students(id) ON DELETE CASCADE,
				amount      INTEGER NOT NULL CHECK (amount > 0),
				description TEXT NOT NULL DEFAULT '',
				date        TIMESTAMPTZ NOT NULL,
				created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_give_points_mentor ON give_points(mentor_id, created_at DESC);
			CREATE INDEX IF NOT EXISTS idx_give_points_student ON give_points(student_id, created_at DESC);
		`,
	},
}

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATOR
// ══════════════════════════════════════════════════════════════════════════════

// Migrator applies pending schema migrations.
type Migrator struct {
	conn *Connection
	log  *logger.Logger
}

// NewMigrator creates a new migrator.
func NewMigrator(conn *Connection, log *logger.Logger) *Migrator {
	return &Migrator{
		conn: conn,
		log:  log.With(logger.Component("migrator")),
	}
}

// Up applies all pending migrations in version order.
func (m *Migrator) Up(ctx context.Context) error {
	if err := m.ensureMigrationTable(ctx); err != nil {
		return err
	}

	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if applied[migration.Version] {
			continue
		}

		m.log.Info("applying migration",
			logger.Int("version", migration.Version),
			logger.String("name", migration.Name),
		)

		err := m.conn.WithTx(ctx, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, migration.SQL); err != nil {
				return fmt.Errorf("%w: version %d (%s): %v",
					ErrMigrationFailed, migration.Version, migration.Name, err)
			}

			_, err := tx.Exec(ctx,
				`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`,
				migration.Version, migration.Name,
			)
			return err
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (m *Migrator) ensureMigrationTable(ctx context.Context) error {
	_, err := m.conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       VARCHAR(255) NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("%w: failed to create schema_migrations: %v", ErrMigrationFailed, err)
	}
	return nil
}

func (m *Migrator) appliedVersions(ctx context.Context) (map[int]bool, error) {
	rows, err := m.conn.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read schema_migrations: %v", ErrMigrationFailed, err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMigrationFailed, err)
		}
		applied[version] = true
	}

	return applied, rows.Err()
}
