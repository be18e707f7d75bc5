package user

import "context"

// Repository определяет операции хранения учётных записей.
// Реализация находится в infrastructure/persistence.
type Repository interface {
	// Create создаёт учётную запись.
	// Возвращает ErrAlreadyExists при занятом имени пользователя.
	Create(ctx context.Context, u *User) error

	// GetByID возвращает учётную запись по ID.
	// Возвращает ErrNotFound, если запись не найдена.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByUsername возвращает учётную запись по имени пользователя.
	// Возвращает ErrNotFound, если запись не найдена.
	GetByUsername(ctx context.Context, username string) (*User, error)
}
