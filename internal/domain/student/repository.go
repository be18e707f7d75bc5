package student

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Эти интерфейсы определяют контракт для работы с хранилищем данных.
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции хранения студентов.
type Repository interface {
	// Create создаёт нового студента.
	// Возвращает ErrAlreadyExists, если студент уже существует.
	Create(ctx context.Context, student *Student) error

	// GetByID возвращает студента по внутреннему ID.
	// Возвращает ErrNotFound, если студент не найден.
	GetByID(ctx context.Context, id string) (*Student, error)

	// GetForUpdate возвращает студента по внутреннему ID и удерживает
	// блокировку строки до конца транзакции. Вызывается только внутри
	// UnitOfWork: параллельные начисления одному студенту выстраиваются
	// в очередь, и баланс никогда не теряет зачисление.
	// Возвращает ErrNotFound, если студент не найден.
	GetForUpdate(ctx context.Context, id string) (*Student, error)

	// GetByUserID возвращает студента по ID учётной записи.
	// Возвращает ErrNotFound, если студент не найден.
	GetByUserID(ctx context.Context, userID string) (*Student, error)

	// GetAll возвращает всех студентов с пагинацией.
	GetAll(ctx context.Context, opts ListOptions) ([]*Student, error)

	// GetByGroup возвращает студентов указанной группы.
	GetByGroup(ctx context.Context, groupID string, opts ListOptions) ([]*Student, error)

	// Update обновляет данные студента, включая баланс.
	// Возвращает ErrNotFound, если студент не найден.
	Update(ctx context.Context, student *Student) error

	// Delete удаляет студента.
	// Возвращает ErrNotFound, если студент не найден.
	Delete(ctx context.Context, id string) error

	// GetTopByBalance возвращает студентов в порядке убывания баланса.
	GetTopByBalance(ctx context.Context, opts ListOptions) ([]*Student, error)

	// Count возвращает общее количество студентов.
	Count(ctx context.Context) (int, error)
}

// LedgerRepository определяет операции журнала баллов.
// Журнал строго append-only: записи никогда не изменяются и не удаляются.
type LedgerRepository interface {
	// Append добавляет событие в историю баллов.
	Append(ctx context.Context, event *PointEvent) error

	// GetHistory возвращает историю баллов студента в порядке начисления.
	GetHistory(ctx context.Context, studentID string, opts ListOptions) ([]*PointEvent, error)

	// CountByStudent возвращает количество событий у студента.
	CountByStudent(ctx context.Context, studentID string) (int, error)
}

// ListOptions содержит параметры для пагинации.
type ListOptions struct {
	// Offset - смещение (для пагинации).
	Offset int

	// Limit - максимальное количество записей.
	Limit int
}

// DefaultListOptions возвращает параметры по умолчанию.
func DefaultListOptions() ListOptions {
	return ListOptions{
		Offset: 0,
		Limit:  50,
	}
}

// WithOffset устанавливает смещение.
func (o ListOptions) WithOffset(offset int) ListOptions {
	o.Offset = offset
	return o
}

// WithLimit устанавливает лимит.
func (o ListOptions) WithLimit(limit int) ListOptions {
	o.Limit = limit
	return o
}
