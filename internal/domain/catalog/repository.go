package catalog

import (
	"context"

	"github.com/akbarkhojayev/coinMarkaz/internal/domain/student"
)

// CourseRepository определяет операции хранения курсов.
type CourseRepository interface {
	// Create создаёт курс.
	Create(ctx context.Context, c *Course) error

	// GetByID возвращает курс по ID.
	// Возвращает ErrCourseNotFound, если курс не найден.
	GetByID(ctx context.Context, id string) (*Course, error)

	// GetAll возвращает все курсы с пагинацией.
	GetAll(ctx context.Context, opts student.ListOptions) ([]*Course, error)

	// Update обновляет курс.
	Update(ctx context.Context, c *Course) error

	// Delete удаляет курс.
	Delete(ctx context.Context, id string) error
}

// GroupRepository определяет операции хранения групп.
type GroupRepository interface {
	// Create создаёт группу.
	Create(ctx context.Context, g *Group) error

	// GetByID возвращает группу по ID вместе со связями.
	// Возвращает ErrGroupNotFound, если группа не найдена.
	GetByID(ctx context.Context, id string) (*Group, error)

	// GetAll возвращает все группы с пагинацией.
	GetAll(ctx context.Context, opts student.ListOptions) ([]*Group, error)

	// GetByMentor возвращает группы, к которым прикреплён ментор.
	GetByMentor(ctx context.Context, mentorID string) ([]*Group, error)

	// Update обновляет группу и её связи.
	Update(ctx context.Context, g *Group) error

	// Delete удаляет группу.
	Delete(ctx context.Context, id string) error
}
