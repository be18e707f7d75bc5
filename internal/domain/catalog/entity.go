// Package catalog содержит справочные сущности учебного центра:
// курсы и группы студентов. Бизнес-правил здесь почти нет - только
// валидация полей.
package catalog

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrInvalidName - невалидное название курса или группы.
	ErrInvalidName = errors.New("invalid name: must be 1-100 chars")

	// ErrCourseNotFound - курс не найден.
	ErrCourseNotFound = errors.New("course not found")

	// ErrGroupNotFound - группа не найдена.
	ErrGroupNotFound = errors.New("group not found")
)

// Course - учебный курс.
type Course struct {
	// ID - уникальный идентификатор (UUID).
	ID string

	// Name - название курса.
	Name string

	// CreatedAt - время создания.
	CreatedAt time.Time
}

// NewCourse создаёт курс с валидацией названия.
func NewCourse(id, name string) (*Course, error) {
	if id == "" {
		return nil, errors.New("course id is required")
	}

	name = strings.TrimSpace(name)
	if len(name) == 0 || len(name) > 100 {
		return nil, ErrInvalidName
	}

	return &Course{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Group - группа студентов, прикреплённая к курсам и менторам.
type Group struct {
	// ID - уникальный идентификатор (UUID).
	ID string

	// Name - название группы.
	Name string

	// CourseIDs - курсы группы.
	CourseIDs []string

	// MentorIDs - менторы группы.
	MentorIDs []string

	// Active - активна ли группа.
	Active bool

	// CreatedAt - время создания.
	CreatedAt time.Time
}

// NewGroup создаёт группу с валидацией названия.
func NewGroup(id, name string, courseIDs, mentorIDs []string) (*Group, error) {
	if id == "" {
		return nil, errors.New("group id is required")
	}

	name = strings.TrimSpace(name)
	if len(name) == 0 || len(name) > 100 {
		return nil, ErrInvalidName
	}

	return &Group{
		ID:        id,
		Name:      name,
		CourseIDs: append([]string(nil), courseIDs...),
		MentorIDs: append([]string(nil), mentorIDs...),
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// HasMentor проверяет, прикреплён ли ментор к группе.
func (g *Group) HasMentor(mentorID string) bool {
	for _, id := range g.MentorIDs {
		if id == mentorID {
			return true
		}
	}
	return false
}
