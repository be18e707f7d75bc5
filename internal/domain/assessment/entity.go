// Package assessment содержит доменную модель тестов: вопросы с вариантами
// ответов A-D, попытки студентов и подсчёт баллов. Это чистая бизнес-логика
// без внешних зависимостей.
package assessment

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// PointsPerCorrectAnswer - фиксированная стоимость правильного ответа.
const PointsPerCorrectAnswer = 5

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// OptionLabel - буквенная метка варианта ответа, уникальная внутри вопроса.
type OptionLabel string

const (
	LabelA OptionLabel = "A"
	LabelB OptionLabel = "B"
	LabelC OptionLabel = "C"
	LabelD OptionLabel = "D"
)

// IsValid проверяет, что метка входит в диапазон A-D.
func (l OptionLabel) IsValid() bool {
	switch l {
	case LabelA, LabelB, LabelC, LabelD:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление метки.
func (l OptionLabel) String() string {
	return string(l)
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrTestNotFound - тест не найден.
	ErrTestNotFound = errors.New("test not found")

	// ErrQuestionNotFound - вопрос не найден в тесте.
	ErrQuestionNotFound = errors.New("question not found in test")

	// ErrOptionNotFound - вариант ответа не найден у вопроса.
	ErrOptionNotFound = errors.New("answer option not found in question")

	// ErrOptionMismatch - вариант ответа принадлежит другому вопросу.
	ErrOptionMismatch = errors.New("answer option does not belong to question")

	// ErrInvalidLabel - метка варианта вне диапазона A-D.
	ErrInvalidLabel = errors.New("invalid option label: must be A-D")

	// ErrDuplicateLabel - повторяющаяся метка внутри вопроса.
	ErrDuplicateLabel = errors.New("duplicate option label within question")

	// ErrNoCorrectOption - у вопроса нет правильного варианта.
	ErrNoCorrectOption = errors.New("question must have a correct option")

	// ErrMultipleCorrectOptions - у вопроса больше одного правильного варианта.
	// Политика системы: ровно один правильный вариант на вопрос.
	ErrMultipleCorrectOptions = errors.New("question must have exactly one correct option")

	// ErrTooFewOptions - у вопроса меньше двух вариантов.
	ErrTooFewOptions = errors.New("question must have at least two options")

	// ErrEmptyAnswerSet - попытка без единого ответа.
	ErrEmptyAnswerSet = errors.New("answer set is empty")

	// ErrAttemptExists - студент уже проходил этот тест.
	ErrAttemptExists = errors.New("attempt already exists for this student and test")

	// ErrAttemptNotFound - попытка не найдена.
	ErrAttemptNotFound = errors.New("attempt not found")

	// ErrDuplicateAnswer - два ответа на один вопрос в одной попытке.
	ErrDuplicateAnswer = errors.New("duplicate answer for question in attempt")
)

// ══════════════════════════════════════════════════════════════════════════════
// TEST AGGREGATE
// ══════════════════════════════════════════════════════════════════════════════

// AnswerOption - вариант ответа на вопрос.
type AnswerOption struct {
	// ID - уникальный идентификатор варианта (UUID).
	ID string

	// QuestionID - вопрос, к которому относится вариант.
	QuestionID string

	// Label - буквенная метка A-D, уникальная внутри вопроса.
	Label OptionLabel

	// Text - текст варианта.
	Text string

	// IsCorrect - флаг правильного варианта.
	IsCorrect bool
}

// Question - вопрос теста с упорядоченным набором вариантов.
type Question struct {
	// ID - уникальный идентификатор вопроса (UUID).
	ID string

	// TestID - тест, к которому относится вопрос.
	TestID string

	// Text - формулировка вопроса.
	Text string

	// Options - варианты ответа в порядке меток.
	Options []AnswerOption
}

// Validate проверяет инварианты вопроса: метки уникальны и в диапазоне A-D,
// вариантов не меньше двух, правильный вариант ровно один.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return errors.New("question text is required")
	}

	if len(q.Options) < 2 {
		return ErrTooFewOptions
	}

	seen := make(map[OptionLabel]bool, len(q.Options))
	correct := 0

	for _, opt := range q.Options {
		if !opt.Label.IsValid() {
			return ErrInvalidLabel
		}
		if seen[opt.Label] {
			return ErrDuplicateLabel
		}
		seen[opt.Label] = true

		if opt.IsCorrect {
			correct++
		}
	}

	if correct == 0 {
		return ErrNoCorrectOption
	}
	if correct > 1 {
		return ErrMultipleCorrectOptions
	}

	return nil
}

// OptionByID возвращает вариант ответа по его ID.
// Возвращает ErrOptionMismatch, если вариант не принадлежит вопросу.
func (q *Question) OptionByID(optionID string) (*AnswerOption, error) {
	for i := range q.Options {
		if q.Options[i].ID == optionID {
			return &q.Options[i], nil
		}
	}
	return nil, ErrOptionMismatch
}

// Test - тест, созданный ментором.
type Test struct {
	// ID - уникальный идентификатор теста (UUID).
	ID string

	// Title - название теста.
	Title string

	// Description - описание теста.
	Description string

	// CreatedBy - ментор-автор теста.
	CreatedBy string

	// Duration - отведённое на прохождение время.
	Duration time.Duration

	// Questions - вопросы теста в порядке добавления.
	Questions []Question

	// CreatedAt - время создания.
	CreatedAt time.Time
}

// NewTestParams содержит параметры для создания теста.
type NewTestParams struct {
	ID          string
	Title       string
	Description string
	CreatedBy   string
	Duration    time.Duration
}

// NewTest создаёт новый тест с валидацией полей.
func NewTest(params NewTestParams) (*Test, error) {
	if params.ID == "" {
		return nil, errors.New("test id is required")
	}

	title := strings.TrimSpace(params.Title)
	if len(title) == 0 || len(title) > 255 {
		return nil, errors.New("invalid test title: must be 1-255 chars")
	}

	if params.CreatedBy == "" {
		return nil, errors.New("test author is required")
	}

	if params.Duration < 0 {
		return nil, errors.New("test duration cannot be negative")
	}

	return &Test{
		ID:          params.ID,
		Title:       title,
		Description: strings.TrimSpace(params.Description),
		CreatedBy:   params.CreatedBy,
		Duration:    params.Duration,
		Questions:   nil,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// QuestionByID возвращает вопрос по его ID.
// Возвращает ErrQuestionNotFound, если вопрос не принадлежит тесту.
func (t *Test) QuestionByID(questionID string) (*Question, error) {
	for i := range t.Questions {
		if t.Questions[i].ID == questionID {
			return &t.Questions[i], nil
		}
	}
	return nil, ErrQuestionNotFound
}

// AddQuestion добавляет вопрос с проверкой его инвариантов.
func (t *Test) AddQuestion(q Question) error {
	if err := q.Validate(); err != nil {
		return err
	}

	q.TestID = t.ID
	t.Questions = append(t.Questions, q)
	return nil
}

// String возвращает строковое представление теста для логирования.
func (t *Test) String() string {
	return fmt.Sprintf("Test{ID: %s, Title: %s, Questions: %d}", t.ID, t.Title, len(t.Questions))
}

// ══════════════════════════════════════════════════════════════════════════════
// ATTEMPT AGGREGATE
// ══════════════════════════════════════════════════════════════════════════════

// SubmittedAnswer - ответ студента на один вопрос попытки.
// Правильность фиксируется в момент создания и больше не пересчитывается,
// даже если правильный вариант вопроса позже изменится.
type SubmittedAnswer struct {
	// ID - уникальный идентификатор ответа (UUID).
	ID string

	// AttemptID - попытка, к которой относится ответ.
	AttemptID string

	// QuestionID - вопрос, на который дан ответ.
	QuestionID string

	// OptionID - выбранный вариант.
	OptionID string

	// IsCorrect - зафиксированная правильность ответа.
	IsCorrect bool

	// CreatedAt - время записи ответа.
	CreatedAt time.Time
}

// Attempt - одна попытка студента по тесту.
// Инвариант: не более одной попытки на пару (студент, тест).
type Attempt struct {
	// ID - уникальный идентификатор попытки (UUID).
	ID string

	// StudentID - студент, проходивший тест.
	StudentID string

	// TestID - пройденный тест.
	TestID string

	// Score - подсчитанный балл попытки.
	Score int

	// CreditedScore - сумма, уже начисленная на баланс за эту попытку.
	// Используется для идемпотентного пересчёта: начисляется только дельта.
	CreditedScore int

	// TakenAt - время прохождения.
	TakenAt time.Time

	// Answers - ответы попытки.
	Answers []SubmittedAnswer
}

// NewAttempt создаёт новую попытку.
func NewAttempt(id, studentID, testID string, takenAt time.Time) (*Attempt, error) {
	if id == "" {
		return nil, errors.New("attempt id is required")
	}
	if studentID == "" {
		return nil, errors.New("attempt student id is required")
	}
	if testID == "" {
		return nil, errors.New("attempt test id is required")
	}

	if takenAt.IsZero() {
		takenAt = time.Now().UTC()
	}

	return &Attempt{
		ID:        id,
		StudentID: studentID,
		TestID:    testID,
		TakenAt:   takenAt,
	}, nil
}

// AddAnswer добавляет ответ в попытку.
// Возвращает ErrDuplicateAnswer при повторном ответе на тот же вопрос.
func (a *Attempt) AddAnswer(answer SubmittedAnswer) error {
	for i := range a.Answers {
		if a.Answers[i].QuestionID == answer.QuestionID {
			return ErrDuplicateAnswer
		}
	}

	answer.AttemptID = a.ID
	a.Answers = append(a.Answers, answer)
	return nil
}

// String возвращает строковое представление попытки для логирования.
func (a *Attempt) String() string {
	return fmt.Sprintf("Attempt{ID: %s, Student: %s, Test: %s, Score: %d}", a.ID, a.StudentID, a.TestID, a.Score)
}
