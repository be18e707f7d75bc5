// Package mentor содержит доменную модель ментора и правила ручного
// начисления баллов. Ключевой инвариант: одно начисление не может
// превышать персональный лимит ментора.
package mentor

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akbarkhojayev/coinMarkaz/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidName - невалидное имя ментора.
	ErrInvalidName = errors.New("invalid mentor name: must be 1-100 chars")

	// ErrInvalidPointLimit - лимит начисления должен быть положительным.
	ErrInvalidPointLimit = errors.New("invalid point limit: must be positive")

	// ErrNotFound - ментор не найден.
	ErrNotFound = errors.New("mentor not found")
)

// LimitExceededError возвращается, когда запрошенная сумма превышает
// лимит ментора. Содержит обе величины для ответа клиенту.
type LimitExceededError struct {
	Requested int
	Limit     int
}

// Error implements the error interface.
func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("mentor can give max %d points, requested %d", e.Limit, e.Requested)
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: MENTOR
// ══════════════════════════════════════════════════════════════════════════════

// Mentor - преподаватель учебного центра с правом начислять баллы студентам.
type Mentor struct {
	// ID - внутренний уникальный идентификатор (UUID).
	ID string

	// UserID - идентификатор учётной записи (роль MENTOR).
	UserID string

	// Name - отображаемое имя ментора.
	Name string

	// PointLimit - максимальная сумма одного начисления.
	PointLimit int

	// CourseIDs - курсы, которые ведёт ментор.
	CourseIDs []string

	// CreatedAt - время создания записи.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

// NewMentorParams содержит параметры для создания ментора.
type NewMentorParams struct {
	ID         string
	UserID     string
	Name       string
	PointLimit int
	CourseIDs  []string
}

// NewMentor создаёт нового ментора с валидацией полей.
func NewMentor(params NewMentorParams) (*Mentor, error) {
	if params.ID == "" {
		return nil, errors.New("mentor id is required")
	}

	if params.UserID == "" {
		return nil, errors.New("mentor user id is required")
	}

	name := strings.TrimSpace(params.Name)
	if len(name) == 0 || len(name) > 100 {
		return nil, ErrInvalidName
	}

	if params.PointLimit < 1 {
		return nil, ErrInvalidPointLimit
	}

	now := time.Now().UTC()

	return &Mentor{
		ID:         params.ID,
		UserID:     params.UserID,
		Name:       name,
		PointLimit: params.PointLimit,
		CourseIDs:  append([]string(nil), params.CourseIDs...),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS (Award Policy)
// ══════════════════════════════════════════════════════════════════════════════

// CheckGrant проверяет допустимость начисления указанной суммы.
// Сумма, равная лимиту, допустима: нарушение только при strict greater.
func (m *Mentor) CheckGrant(amount int) error {
	if amount < 1 {
		return student.ErrInvalidAmount
	}

	if amount > m.PointLimit {
		return &LimitExceededError{Requested: amount, Limit: m.PointLimit}
	}

	return nil
}

// String возвращает строковое представление ментора для логирования.
func (m *Mentor) String() string {
	return fmt.Sprintf("Mentor{ID: %s, Name: %s, Limit: %d}", m.ID, m.Name, m.PointLimit)
}

// ══════════════════════════════════════════════════════════════════════════════
// GIVE POINT (журнал ручных начислений)
// ══════════════════════════════════════════════════════════════════════════════

// GivePoint - аудиторская запись ручного начисления баллов ментором.
// Хранится отдельно от общей истории баллов студента: фиксирует,
// какой именно ментор выдал начисление.
type GivePoint struct {
	// ID - уникальный идентификатор записи (UUID).
	ID string

	// MentorID - ментор, начисливший баллы.
	MentorID string

	// StudentID - студент-получатель.
	StudentID string

	// Amount - сумма начисления.
	Amount int

	// Description - причина начисления.
	Description string

	// Date - момент начисления.
	Date time.Time

	// CreatedAt - время записи.
	CreatedAt time.Time
}

// NewGivePoint формирует аудиторскую запись начисления.
// Политика лимита проверяется отдельно через Mentor.CheckGrant.
func NewGivePoint(id string, m *Mentor, studentID string, amount int, description string, date time.Time) (*GivePoint, error) {
	if id == "" {
		return nil, errors.New("give point id is required")
	}

	if m == nil {
		return nil, ErrNotFound
	}

	if studentID == "" {
		return nil, errors.New("give point student id is required")
	}

	if err := m.CheckGrant(amount); err != nil {
		return nil, err
	}

	if date.IsZero() {
		date = time.Now().UTC()
	}

	return &GivePoint{
		ID:          id,
		MentorID:    m.ID,
		StudentID:   studentID,
		Amount:      amount,
		Description: strings.TrimSpace(description),
		Date:        date,
		CreatedAt:   time.Now().UTC(),
	}, nil
}
