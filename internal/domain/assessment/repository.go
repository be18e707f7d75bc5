package assessment

import (
	"context"

	"github.com/akbarkhojayev/coinMarkaz/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции хранения тестов и вопросов.
type Repository interface {
	// CreateTest создаёт новый тест.
	CreateTest(ctx context.Context, test *Test) error

	// GetTest возвращает тест со всеми вопросами и вариантами.
	// Возвращает ErrTestNotFound, если тест не найден.
	GetTest(ctx context.Context, id string) (*Test, error)

	// GetAllTests возвращает все тесты с пагинацией (без вопросов).
	GetAllTests(ctx context.Context, opts student.ListOptions) ([]*Test, error)

	// GetTestsByAuthor возвращает тесты указанного ментора.
	GetTestsByAuthor(ctx context.Context, mentorID string, opts student.ListOptions) ([]*Test, error)

	// UpdateTest обновляет название, описание и длительность теста.
	UpdateTest(ctx context.Context, test *Test) error

	// DeleteTest удаляет тест вместе с вопросами.
	DeleteTest(ctx context.Context, id string) error

	// AddQuestion добавляет вопрос с вариантами к тесту.
	AddQuestion(ctx context.Context, q *Question) error

	// DeleteQuestion удаляет вопрос вместе с вариантами.
	DeleteQuestion(ctx context.Context, id string) error
}

// AttemptRepository определяет операции хранения попыток.
type AttemptRepository interface {
	// Create сохраняет попытку вместе со всеми её ответами.
	// Возвращает ErrAttemptExists при нарушении уникальности
	// пары (студент, тест) - гарантия обеспечивается уникальным
	// индексом хранилища, а не только проверкой в коде.
	Create(ctx context.Context, attempt *Attempt) error

	// GetByID возвращает попытку с ответами.
	// Возвращает ErrAttemptNotFound, если попытка не найдена.
	GetByID(ctx context.Context, id string) (*Attempt, error)

	// GetByStudentAndTest возвращает попытку по паре (студент, тест).
	// Возвращает ErrAttemptNotFound, если попытки нет.
	GetByStudentAndTest(ctx context.Context, studentID, testID string) (*Attempt, error)

	// ExistsByStudentAndTest проверяет существование попытки.
	ExistsByStudentAndTest(ctx context.Context, studentID, testID string) (bool, error)

	// GetByStudent возвращает попытки студента.
	GetByStudent(ctx context.Context, studentID string, opts student.ListOptions) ([]*Attempt, error)

	// GetByStudents возвращает попытки группы студентов (для менторов).
	GetByStudents(ctx context.Context, studentIDs []string, opts student.ListOptions) ([]*Attempt, error)

	// UpdateScore обновляет балл и начисленную сумму попытки.
	UpdateScore(ctx context.Context, attempt *Attempt) error
}
