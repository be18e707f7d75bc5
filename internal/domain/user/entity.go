// Package user содержит учётные записи и явную модель ролей.
// Роль - тегированное перечисление {admin, mentor, student}: проверки
// доступа сопоставляются по нему исчерпывающе, без выведения роли
// из наличия связанных записей.
package user

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROLES
// ══════════════════════════════════════════════════════════════════════════════

// Role определяет роль учётной записи.
type Role string

const (
	// RoleAdmin - администратор центра.
	RoleAdmin Role = "admin"
	// RoleMentor - преподаватель.
	RoleMentor Role = "mentor"
	// RoleStudent - студент.
	RoleStudent Role = "student"
)

// IsValid проверяет, что роль корректна.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleMentor, RoleStudent:
		return true
	default:
		return false
	}
}

// CanAuthorTests возвращает true, если роль может создавать тесты и
// начислять баллы.
func (r Role) CanAuthorTests() bool {
	return r == RoleAdmin || r == RoleMentor
}

// String возвращает строковое представление роли.
func (r Role) String() string {
	return string(r)
}

// ParseRole разбирает строку в Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidUsername - невалидное имя пользователя.
	ErrInvalidUsername = errors.New("invalid username: must be 3-50 chars without whitespace")

	// ErrInvalidRole - неизвестная роль.
	ErrInvalidRole = errors.New("invalid role: must be admin, mentor or student")

	// ErrNotFound - пользователь не найден.
	ErrNotFound = errors.New("user not found")

	// ErrAlreadyExists - имя пользователя занято.
	ErrAlreadyExists = errors.New("username already taken")
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: USER
// ══════════════════════════════════════════════════════════════════════════════

// User - учётная запись для входа в систему.
type User struct {
	// ID - внутренний уникальный идентификатор (UUID).
	ID string

	// Username - уникальное имя для входа.
	Username string

	// PasswordHash - bcrypt-хеш пароля. Сырой пароль нигде не хранится.
	PasswordHash string

	// FirstName - имя.
	FirstName string

	// LastName - фамилия.
	LastName string

	// Role - роль учётной записи.
	Role Role

	// CreatedAt - время регистрации.
	CreatedAt time.Time
}

// NewUserParams содержит параметры для создания учётной записи.
type NewUserParams struct {
	ID           string
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         Role
}

// NewUser создаёт учётную запись с валидацией полей.
func NewUser(params NewUserParams) (*User, error) {
	if params.ID == "" {
		return nil, errors.New("user id is required")
	}

	username := strings.TrimSpace(params.Username)
	if len(username) < 3 || len(username) > 50 || strings.ContainsAny(username, " \t\n\r") {
		return nil, ErrInvalidUsername
	}

	if params.PasswordHash == "" {
		return nil, errors.New("user password hash is required")
	}

	if !params.Role.IsValid() {
		return nil, ErrInvalidRole
	}

	return &User{
		ID:           params.ID,
		Username:     username,
		PasswordHash: params.PasswordHash,
		FirstName:    strings.TrimSpace(params.FirstName),
		LastName:     strings.TrimSpace(params.LastName),
		Role:         params.Role,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// String возвращает строковое представление без чувствительных полей.
func (u *User) String() string {
	return fmt.Sprintf("User{ID: %s, Username: %s, Role: %s}", u.ID, u.Username, u.Role)
}
