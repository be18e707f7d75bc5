package mentor

import (
	"context"

	"github.com/akbarkhojayev/coinMarkaz/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции хранения менторов.
type Repository interface {
	// Create создаёт нового ментора.
	Create(ctx context.Context, mentor *Mentor) error

	// GetByID возвращает ментора по внутреннему ID.
	// Возвращает ErrNotFound, если ментор не найден.
	GetByID(ctx context.Context, id string) (*Mentor, error)

	// GetByUserID возвращает ментора по ID учётной записи.
	// Возвращает ErrNotFound, если ментор не найден.
	GetByUserID(ctx context.Context, userID string) (*Mentor, error)

	// GetAll возвращает всех менторов с пагинацией.
	GetAll(ctx context.Context, opts student.ListOptions) ([]*Mentor, error)

	// Update обновляет данные ментора.
	Update(ctx context.Context, mentor *Mentor) error

	// Delete удаляет ментора.
	Delete(ctx context.Context, id string) error
}

// GivePointRepository определяет операции журнала ручных начислений.
// Журнал append-only.
type GivePointRepository interface {
	// Create записывает начисление.
	Create(ctx context.Context, gp *GivePoint) error

	// GetAll возвращает все начисления с пагинацией.
	GetAll(ctx context.Context, opts student.ListOptions) ([]*GivePoint, error)

	// GetByStudent возвращает начисления конкретного студента.
	GetByStudent(ctx context.Context, studentID string, opts student.ListOptions) ([]*GivePoint, error)

	// GetByMentor возвращает начисления, выданные конкретным ментором.
	GetByMentor(ctx context.Context, mentorID string, opts student.ListOptions) ([]*GivePoint, error)
}
