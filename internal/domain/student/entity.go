// Package student содержит доменную модель студента учебного центра coinMarkaz.
// Это ядро экономики баллов - здесь нет внешних зависимостей.
package student

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Points представляет баланс баллов студента.
type Points int

// IsValid проверяет, что баланс неотрицательный.
func (p Points) IsValid() bool {
	return p >= 0
}

// Add складывает баллы.
func (p Points) Add(delta Points) Points {
	return p + delta
}

// Int возвращает числовое значение.
func (p Points) Int() int {
	return int(p)
}

// ══════════════════════════════════════════════════════════════════════════════
// POINT EVENTS (история баллов)
// ══════════════════════════════════════════════════════════════════════════════

// PointEventType определяет источник начисления баллов.
type PointEventType string

const (
	// EventTypeMentor - баллы начислены ментором вручную.
	EventTypeMentor PointEventType = "mentor"
	// EventTypeTest - баллы заработаны за прохождение теста.
	EventTypeTest PointEventType = "test"
)

// IsValid проверяет, что тип события корректен.
func (t PointEventType) IsValid() bool {
	switch t {
	case EventTypeMentor, EventTypeTest:
		return true
	default:
		return false
	}
}

// PointEvent - неизменяемая запись в истории баллов студента.
// После записи событие никогда не изменяется и не удаляется.
type PointEvent struct {
	// ID - уникальный идентификатор события (UUID).
	ID string

	// StudentID - студент, которому начислены баллы.
	StudentID string

	// Amount - количество начисленных баллов (строго положительное).
	Amount int

	// Type - источник начисления: mentor или test.
	Type PointEventType

	// Description - свободное описание начисления.
	Description string

	// OccurredAt - момент начисления.
	OccurredAt time.Time

	// CreatedAt - время записи события.
	CreatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidName - невалидное имя студента.
	ErrInvalidName = errors.New("invalid student name: must be 1-100 chars")

	// ErrInvalidAmount - сумма начисления должна быть положительной.
	ErrInvalidAmount = errors.New("invalid point amount: must be positive")

	// ErrInvalidEventType - неизвестный тип события баллов.
	ErrInvalidEventType = errors.New("invalid point event type")

	// ErrNotFound - студент не найден.
	ErrNotFound = errors.New("student not found")

	// ErrAlreadyExists - студент уже существует.
	ErrAlreadyExists = errors.New("student already exists")
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Student - центральная сущность экономики баллов.
// Баланс и история изменяются только через начисления (Credit):
// баланс никогда не мутируется в обход журнала событий.
type Student struct {
	// ID - внутренний уникальный идентификатор (UUID в строковом формате).
	ID string

	// UserID - идентификатор учётной записи (роль STUDENT).
	UserID string

	// Name - отображаемое имя студента.
	Name string

	// BirthDate - дата рождения.
	BirthDate time.Time

	// Bio - краткая информация о студенте.
	Bio string

	// GroupID - группа, к которой прикреплён студент.
	GroupID string

	// Balance - текущий баланс баллов.
	Balance Points

	// CreatedAt - время создания записи.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

// NewStudentParams содержит параметры для создания нового студента.
type NewStudentParams struct {
	ID        string
	UserID    string
	Name      string
	BirthDate time.Time
	Bio       string
	GroupID   string
}

// NewStudent создаёт нового студента с валидацией полей.
// Новый студент всегда начинает с нулевым балансом.
func NewStudent(params NewStudentParams) (*Student, error) {
	if params.ID == "" {
		return nil, errors.New("student id is required")
	}

	if params.UserID == "" {
		return nil, errors.New("student user id is required")
	}

	name := strings.TrimSpace(params.Name)
	if len(name) == 0 || len(name) > 100 {
		return nil, ErrInvalidName
	}

	if params.GroupID == "" {
		return nil, errors.New("student group id is required")
	}

	now := time.Now().UTC()

	return &Student{
		ID:        params.ID,
		UserID:    params.UserID,
		Name:      name,
		BirthDate: params.BirthDate,
		Bio:       strings.TrimSpace(params.Bio),
		GroupID:   params.GroupID,
		Balance:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS (Business Logic)
// ══════════════════════════════════════════════════════════════════════════════

// Credit начисляет баллы и формирует событие истории.
// Баланс и событие - единое целое: вызывающая сторона обязана
// зафиксировать обе записи в одной транзакции.
func (s *Student) Credit(eventID string, amount int, eventType PointEventType, description string, at time.Time) (*PointEvent, error) {
	if eventID == "" {
		return nil, errors.New("point event id is required")
	}

	if amount < 1 {
		return nil, ErrInvalidAmount
	}

	if !eventType.IsValid() {
		return nil, ErrInvalidEventType
	}

	if at.IsZero() {
		at = time.Now().UTC()
	}

	s.Balance = s.Balance.Add(Points(amount))
	s.UpdatedAt = time.Now().UTC()

	return &PointEvent{
		ID:          eventID,
		StudentID:   s.ID,
		Amount:      amount,
		Type:        eventType,
		Description: description,
		OccurredAt:  at,
		CreatedAt:   s.UpdatedAt,
	}, nil
}

// UpdateProfile обновляет изменяемые поля профиля.
func (s *Student) UpdateProfile(name, bio string) error {
	name = strings.TrimSpace(name)
	if len(name) == 0 || len(name) > 100 {
		return ErrInvalidName
	}

	s.Name = name
	s.Bio = strings.TrimSpace(bio)
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// String возвращает строковое представление студента для логирования.
func (s *Student) String() string {
	return fmt.Sprintf("Student{ID: %s, Name: %s, Balance: %d}", s.ID, s.Name, s.Balance)
}

// Clone создаёт копию студента.
func (s *Student) Clone() *Student {
	if s == nil {
		return nil
	}

	clone := *s
	return &clone
}
