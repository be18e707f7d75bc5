package command

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akbarkhojayev/coinMarkaz/internal/application/ledger"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/assessment"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/mentor"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/shared"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/student"
)

// ─────────────────────────────────────────────────────────────────────────────
// In-memory fakes. Writes go straight to shared state; the handlers under
// test bail out before any write on every rejection path, which is exactly
// what the assertions below verify.
// ─────────────────────────────────────────────────────────────────────────────

type memState struct {
	students   map[string]*student.Student
	events     []*student.PointEvent
	attempts   map[string]*assessment.Attempt // key: studentID + "/" + testID
	givePoints []*mentor.GivePoint

	// lockedReads counts GetForUpdate calls: credits must load the student
	// through the row-locking read, never the plain one.
	lockedReads int
}

func newMemState() *memState {
	return &memState{
		students: make(map[string]*student.Student),
		attempts: make(map[string]*assessment.Attempt),
	}
}

type memStudentRepo struct{ s *memState }

func (r *memStudentRepo) Create(_ context.Context, st *student.Student) error {
	if _, ok := r.s.students[st.ID]; ok {
		return student.ErrAlreadyExists
	}
	r.s.students[st.ID] = st.Clone()
	return nil
}

func (r *memStudentRepo) GetByID(_ context.Context, id string) (*student.Student, error) {
	st, ok := r.s.students[id]
	if !ok {
		return nil, student.ErrNotFound
	}
	return st.Clone(), nil
}

func (r *memStudentRepo) GetForUpdate(_ context.Context, id string) (*student.Student, error) {
	st, ok := r.s.students[id]
	if !ok {
		return nil, student.ErrNotFound
	}
	r.s.lockedReads++
	return st.Clone(), nil
}

func (r *memStudentRepo) GetByUserID(_ context.Context, userID string) (*student.Student, error) {
	for _, st := range r.s.students {
		if st.UserID == userID {
			return st.Clone(), nil
		}
	}
	return nil, student.ErrNotFound
}

func (r *memStudentRepo) GetAll(_ context.Context, _ student.ListOptions) ([]*student.Student, error) {
	out := make([]*student.Student, 0, len(r.s.students))
	for _, st := range r.s.students {
		out = append(out, st.Clone())
	}
	return out, nil
}

func (r *memStudentRepo) GetByGroup(_ context.Context, groupID string, _ student.ListOptions) ([]*student.Student, error) {
	var out []*student.Student
	for _, st := range r.s.students {
		if st.GroupID == groupID {
			out = append(out, st.Clone())
		}
	}
	return out, nil
}

func (r *memStudentRepo) Update(_ context.Context, st *student.Student) error {
	if _, ok := r.s.students[st.ID]; !ok {
		return student.ErrNotFound
	}
	r.s.students[st.ID] = st.Clone()
	return nil
}

func (r *memStudentRepo) Delete(_ context.Context, id string) error {
	delete(r.s.students, id)
	return nil
}

func (r *memStudentRepo) GetTopByBalance(_ context.Context, _ student.ListOptions) ([]*student.Student, error) {
	out, _ := r.GetAll(context.Background(), student.ListOptions{})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Balance != out[j].Balance {
			return out[i].Balance > out[j].Balance
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *memStudentRepo) Count(_ context.Context) (int, error) {
	return len(r.s.students), nil
}

type memLedgerRepo struct{ s *memState }

func (r *memLedgerRepo) Append(_ context.Context, event *student.PointEvent) error {
	r.s.events = append(r.s.events, event)
	return nil
}

func (r *memLedgerRepo) GetHistory(_ context.Context, studentID string, _ student.ListOptions) ([]*student.PointEvent, error) {
	var out []*student.PointEvent
	for _, e := range r.s.events {
		if e.StudentID == studentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memLedgerRepo) CountByStudent(_ context.Context, studentID string) (int, error) {
	history, _ := r.GetHistory(context.Background(), studentID, student.ListOptions{})
	return len(history), nil
}

type memAttemptRepo struct{ s *memState }

func attemptKey(studentID, testID string) string { return studentID + "/" + testID }

func (r *memAttemptRepo) Create(_ context.Context, a *assessment.Attempt) error {
	key := attemptKey(a.StudentID, a.TestID)
	if _, ok := r.s.attempts[key]; ok {
		return assessment.ErrAttemptExists
	}
	r.s.attempts[key] = a
	return nil
}

func (r *memAttemptRepo) GetByID(_ context.Context, id string) (*assessment.Attempt, error) {
	for _, a := range r.s.attempts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, assessment.ErrAttemptNotFound
}

func (r *memAttemptRepo) GetByStudentAndTest(_ context.Context, studentID, testID string) (*assessment.Attempt, error) {
	a, ok := r.s.attempts[attemptKey(studentID, testID)]
	if !ok {
		return nil, assessment.ErrAttemptNotFound
	}
	return a, nil
}

func (r *memAttemptRepo) ExistsByStudentAndTest(_ context.Context, studentID, testID string) (bool, error) {
	_, ok := r.s.attempts[attemptKey(studentID, testID)]
	return ok, nil
}

func (r *memAttemptRepo) GetByStudent(_ context.Context, studentID string, _ student.ListOptions) ([]*assessment.Attempt, error) {
	var out []*assessment.Attempt
	for _, a := range r.s.attempts {
		if a.StudentID == studentID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAttemptRepo) GetByStudents(_ context.Context, studentIDs []string, _ student.ListOptions) ([]*assessment.Attempt, error) {
	var out []*assessment.Attempt
	for _, id := range studentIDs {
		byStudent, _ := r.GetByStudent(context.Background(), id, student.ListOptions{})
		out = append(out, byStudent...)
	}
	return out, nil
}

func (r *memAttemptRepo) UpdateScore(_ context.Context, a *assessment.Attempt) error {
	key := attemptKey(a.StudentID, a.TestID)
	if _, ok := r.s.attempts[key]; !ok {
		return assessment.ErrAttemptNotFound
	}
	r.s.attempts[key] = a
	return nil
}

type memGivePointRepo struct{ s *memState }

func (r *memGivePointRepo) Create(_ context.Context, gp *mentor.GivePoint) error {
	r.s.givePoints = append(r.s.givePoints, gp)
	return nil
}

func (r *memGivePointRepo) GetAll(_ context.Context, _ student.ListOptions) ([]*mentor.GivePoint, error) {
	return r.s.givePoints, nil
}

func (r *memGivePointRepo) GetByStudent(_ context.Context, studentID string, _ student.ListOptions) ([]*mentor.GivePoint, error) {
	var out []*mentor.GivePoint
	for _, gp := range r.s.givePoints {
		if gp.StudentID == studentID {
			out = append(out, gp)
		}
	}
	return out, nil
}

func (r *memGivePointRepo) GetByMentor(_ context.Context, mentorID string, _ student.ListOptions) ([]*mentor.GivePoint, error) {
	var out []*mentor.GivePoint
	for _, gp := range r.s.givePoints {
		if gp.MentorID == mentorID {
			out = append(out, gp)
		}
	}
	return out, nil
}

type memUnitOfWork struct {
	s          *memState
	committed  bool
	rolledBack bool
}

func (u *memUnitOfWork) Students() student.Repository              { return &memStudentRepo{s: u.s} }
func (u *memUnitOfWork) Ledger() student.LedgerRepository          { return &memLedgerRepo{s: u.s} }
func (u *memUnitOfWork) Attempts() assessment.AttemptRepository    { return &memAttemptRepo{s: u.s} }
func (u *memUnitOfWork) GivePoints() mentor.GivePointRepository    { return &memGivePointRepo{s: u.s} }
func (u *memUnitOfWork) Commit(_ context.Context) error            { u.committed = true; return nil }
func (u *memUnitOfWork) Rollback(_ context.Context) error          { u.rolledBack = true; return nil }

type memUoWFactory struct {
	s      *memState
	begun  int
	lastTx *memUnitOfWork
}

func (f *memUoWFactory) Begin(_ context.Context) (UnitOfWork, error) {
	f.begun++
	f.lastTx = &memUnitOfWork{s: f.s}
	return f.lastTx, nil
}

type memTestRepo struct {
	tests map[string]*assessment.Test
}

func (r *memTestRepo) CreateTest(_ context.Context, t *assessment.Test) error {
	r.tests[t.ID] = t
	return nil
}

func (r *memTestRepo) GetTest(_ context.Context, id string) (*assessment.Test, error) {
	t, ok := r.tests[id]
	if !ok {
		return nil, assessment.ErrTestNotFound
	}
	return t, nil
}

func (r *memTestRepo) GetAllTests(_ context.Context, _ student.ListOptions) ([]*assessment.Test, error) {
	var out []*assessment.Test
	for _, t := range r.tests {
		out = append(out, t)
	}
	return out, nil
}

func (r *memTestRepo) GetTestsByAuthor(_ context.Context, mentorID string, _ student.ListOptions) ([]*assessment.Test, error) {
	var out []*assessment.Test
	for _, t := range r.tests {
		if t.CreatedBy == mentorID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memTestRepo) UpdateTest(_ context.Context, t *assessment.Test) error {
	r.tests[t.ID] = t
	return nil
}

func (r *memTestRepo) DeleteTest(_ context.Context, id string) error {
	delete(r.tests, id)
	return nil
}

func (r *memTestRepo) AddQuestion(_ context.Context, q *assessment.Question) error {
	t, ok := r.tests[q.TestID]
	if !ok {
		return assessment.ErrTestNotFound
	}
	t.Questions = append(t.Questions, *q)
	return nil
}

func (r *memTestRepo) DeleteQuestion(_ context.Context, _ string) error { return nil }

type memMentorRepo struct {
	mentors map[string]*mentor.Mentor
}

func (r *memMentorRepo) Create(_ context.Context, m *mentor.Mentor) error {
	r.mentors[m.ID] = m
	return nil
}

func (r *memMentorRepo) GetByID(_ context.Context, id string) (*mentor.Mentor, error) {
	m, ok := r.mentors[id]
	if !ok {
		return nil, mentor.ErrNotFound
	}
	return m, nil
}

func (r *memMentorRepo) GetByUserID(_ context.Context, userID string) (*mentor.Mentor, error) {
	for _, m := range r.mentors {
		if m.UserID == userID {
			return m, nil
		}
	}
	return nil, mentor.ErrNotFound
}

func (r *memMentorRepo) GetAll(_ context.Context, _ student.ListOptions) ([]*mentor.Mentor, error) {
	var out []*mentor.Mentor
	for _, m := range r.mentors {
		out = append(out, m)
	}
	return out, nil
}

func (r *memMentorRepo) Update(_ context.Context, m *mentor.Mentor) error {
	r.mentors[m.ID] = m
	return nil
}

func (r *memMentorRepo) Delete(_ context.Context, id string) error {
	delete(r.mentors, id)
	return nil
}

type recordedUpdate struct {
	StudentID string
	Name      string
	Balance   int
}

type memLeaderboard struct {
	updates []recordedUpdate
}

func (l *memLeaderboard) UpdateScore(_ context.Context, studentID, name string, balance int) error {
	l.updates = append(l.updates, recordedUpdate{StudentID: studentID, Name: name, Balance: balance})
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Fixtures
// ─────────────────────────────────────────────────────────────────────────────

func seedStudent(t *testing.T, s *memState) *student.Student {
	t.Helper()
	st, err := student.NewStudent(student.NewStudentParams{
		ID:      "st1",
		UserID:  "u-student",
		Name:    "Aziz Karimov",
		GroupID: "g1",
	})
	require.NoError(t, err)
	s.students[st.ID] = st
	return st
}

// seedTest builds a three-question test where option "-ok" is correct.
func seedTest(t *testing.T, tests *memTestRepo) *assessment.Test {
	t.Helper()
	test, err := assessment.NewTest(assessment.NewTestParams{
		ID:        "test1",
		Title:     "Go basics",
		CreatedBy: "m1",
		Duration:  30 * time.Minute,
	})
	require.NoError(t, err)

	for _, qid := range []string{"q1", "q2", "q3"} {
		q := assessment.Question{
			ID:   qid,
			Text: "question " + qid,
			Options: []assessment.AnswerOption{
				{ID: qid + "-ok", Label: assessment.LabelA, Text: "right", IsCorrect: true},
				{ID: qid + "-no", Label: assessment.LabelB, Text: "wrong"},
			},
		}
		require.NoError(t, test.AddQuestion(q))
	}

	tests.tests[test.ID] = test
	return test
}

func seedMentor(t *testing.T, mentors *memMentorRepo, limit int) *mentor.Mentor {
	t.Helper()
	m, err := mentor.NewMentor(mentor.NewMentorParams{
		ID:         "m1",
		UserID:     "u-mentor",
		Name:       "Dilshod Rahimov",
		PointLimit: limit,
	})
	require.NoError(t, err)
	mentors.mentors[m.ID] = m
	return m
}

// ─────────────────────────────────────────────────────────────────────────────
// SubmitTestHandler
// ─────────────────────────────────────────────────────────────────────────────

func TestSubmitTestHandler_CreditsScore(t *testing.T) {
	state := newMemState()
	tests := &memTestRepo{tests: make(map[string]*assessment.Test)}
	factory := &memUoWFactory{s: state}
	board := &memLeaderboard{}

	seedStudent(t, state)
	seedTest(t, tests)

	h := NewSubmitTestHandler(tests, factory, ledger.NewRecorder(nil), board, nil)

	result, err := h.Handle(context.Background(), SubmitTestCommand{
		StudentID: "st1",
		TestID:    "test1",
		Answers: []AnswerInput{
			{QuestionID: "q1", OptionID: "q1-ok"},
			{QuestionID: "q2", OptionID: "q2-no"},
			{QuestionID: "q3", OptionID: "q3-ok"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2*assessment.PointsPerCorrectAnswer, result.Score)
	assert.Equal(t, 2, result.CorrectCount)
	assert.Equal(t, 3, result.TotalQuestions)
	assert.Equal(t, 2*assessment.PointsPerCorrectAnswer, result.Balance)

	// Balance, attempt, ledger event committed together.
	assert.Equal(t, 10, state.students["st1"].Balance.Int())
	require.Len(t, state.events, 1)
	assert.Equal(t, student.EventTypeTest, state.events[0].Type)
	assert.Equal(t, 10, state.events[0].Amount)

	attempt := state.attempts["st1/test1"]
	require.NotNil(t, attempt)
	assert.Equal(t, attempt.Score, attempt.CreditedScore)
	assert.True(t, factory.lastTx.committed)

	// The student is loaded through the row-locking read inside the
	// transaction, never the plain one.
	assert.Equal(t, 1, state.lockedReads)

	// Post-commit read-model refresh.
	require.Len(t, board.updates, 1)
	assert.Equal(t, recordedUpdate{StudentID: "st1", Name: "Aziz Karimov", Balance: 10}, board.updates[0])
}

func TestSubmitTestHandler_DuplicateSubmission(t *testing.T) {
	state := newMemState()
	tests := &memTestRepo{tests: make(map[string]*assessment.Test)}
	factory := &memUoWFactory{s: state}

	seedStudent(t, state)
	seedTest(t, tests)

	h := NewSubmitTestHandler(tests, factory, ledger.NewRecorder(nil), nil, nil)

	cmd := SubmitTestCommand{
		StudentID: "st1",
		TestID:    "test1",
		Answers: []AnswerInput{
			{QuestionID: "q1", OptionID: "q1-ok"},
			{QuestionID: "q2", OptionID: "q2-ok"},
			{QuestionID: "q3", OptionID: "q3-ok"},
		},
	}

	_, err := h.Handle(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, 15, state.students["st1"].Balance.Int())

	// A repeat submission is rejected and changes nothing.
	_, err = h.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, assessment.ErrAttemptExists)

	assert.Equal(t, 15, state.students["st1"].Balance.Int())
	assert.Len(t, state.events, 1)
	assert.Len(t, state.attempts, 1)
	assert.False(t, factory.lastTx.committed)
}

func TestSubmitTestHandler_OptionMismatch(t *testing.T) {
	state := newMemState()
	tests := &memTestRepo{tests: make(map[string]*assessment.Test)}
	factory := &memUoWFactory{s: state}

	seedStudent(t, state)
	seedTest(t, tests)

	h := NewSubmitTestHandler(tests, factory, ledger.NewRecorder(nil), nil, nil)

	_, err := h.Handle(context.Background(), SubmitTestCommand{
		StudentID: "st1",
		TestID:    "test1",
		Answers: []AnswerInput{
			{QuestionID: "q1", OptionID: "q2-ok"}, // option of another question
			{QuestionID: "q2", OptionID: "q2-no"},
			{QuestionID: "q3", OptionID: "q3-ok"},
		},
	})
	assert.ErrorIs(t, err, assessment.ErrOptionMismatch)

	// Rejected before the transaction: no writes at all.
	assert.Equal(t, 0, state.students["st1"].Balance.Int())
	assert.Empty(t, state.events)
	assert.Empty(t, state.attempts)
	assert.Zero(t, factory.begun)
}

func TestSubmitTestHandler_UnknownQuestion(t *testing.T) {
	state := newMemState()
	tests := &memTestRepo{tests: make(map[string]*assessment.Test)}
	factory := &memUoWFactory{s: state}

	seedStudent(t, state)
	seedTest(t, tests)

	h := NewSubmitTestHandler(tests, factory, ledger.NewRecorder(nil), nil, nil)

	_, err := h.Handle(context.Background(), SubmitTestCommand{
		StudentID: "st1",
		TestID:    "test1",
		Answers:   []AnswerInput{{QuestionID: "q99", OptionID: "q1-ok"}},
	})
	assert.ErrorIs(t, err, assessment.ErrQuestionNotFound)
	assert.Zero(t, factory.begun)
}

func TestSubmitTestHandler_EmptyAnswerSet(t *testing.T) {
	h := NewSubmitTestHandler(&memTestRepo{tests: map[string]*assessment.Test{}}, &memUoWFactory{s: newMemState()}, ledger.NewRecorder(nil), nil, nil)

	_, err := h.Handle(context.Background(), SubmitTestCommand{StudentID: "st1", TestID: "test1"})
	assert.ErrorIs(t, err, assessment.ErrEmptyAnswerSet)
}

// ─────────────────────────────────────────────────────────────────────────────
// GrantPointsHandler
// ─────────────────────────────────────────────────────────────────────────────

func TestGrantPointsHandler_AtLimitSucceeds(t *testing.T) {
	state := newMemState()
	mentors := &memMentorRepo{mentors: make(map[string]*mentor.Mentor)}
	factory := &memUoWFactory{s: state}
	board := &memLeaderboard{}

	seedStudent(t, state)
	seedMentor(t, mentors, 50)

	h := NewGrantPointsHandler(mentors, factory, ledger.NewRecorder(nil), board, nil)

	result, err := h.Handle(context.Background(), GrantPointsCommand{
		MentorID:    "m1",
		StudentID:   "st1",
		Amount:      50,
		Description: "hackathon winner",
	})
	require.NoError(t, err)

	assert.Equal(t, 50, result.Amount)
	assert.Equal(t, 50, result.Balance)
	assert.Equal(t, 50, state.students["st1"].Balance.Int())

	require.Len(t, state.givePoints, 1)
	assert.Equal(t, "m1", state.givePoints[0].MentorID)

	require.Len(t, state.events, 1)
	assert.Equal(t, student.EventTypeMentor, state.events[0].Type)

	require.Len(t, board.updates, 1)
	assert.Equal(t, 50, board.updates[0].Balance)
}

func TestGrantPointsHandler_AboveLimitFails(t *testing.T) {
	state := newMemState()
	mentors := &memMentorRepo{mentors: make(map[string]*mentor.Mentor)}
	factory := &memUoWFactory{s: state}

	seedStudent(t, state)
	seedMentor(t, mentors, 50)

	h := NewGrantPointsHandler(mentors, factory, ledger.NewRecorder(nil), nil, nil)

	_, err := h.Handle(context.Background(), GrantPointsCommand{
		MentorID:  "m1",
		StudentID: "st1",
		Amount:    51,
	})

	var limitErr *mentor.LimitExceededError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 51, limitErr.Requested)
	assert.Equal(t, 50, limitErr.Limit)

	// Policy gate fires before the transaction.
	assert.Equal(t, 0, state.students["st1"].Balance.Int())
	assert.Empty(t, state.givePoints)
	assert.Empty(t, state.events)
	assert.Zero(t, factory.begun)
}

func TestGrantPointsHandler_InvalidAmount(t *testing.T) {
	mentors := &memMentorRepo{mentors: make(map[string]*mentor.Mentor)}
	h := NewGrantPointsHandler(mentors, &memUoWFactory{s: newMemState()}, ledger.NewRecorder(nil), nil, nil)

	_, err := h.Handle(context.Background(), GrantPointsCommand{MentorID: "m1", StudentID: "st1", Amount: 0})
	assert.ErrorIs(t, err, student.ErrInvalidAmount)
}

func TestGrantPointsHandler_UnknownMentor(t *testing.T) {
	mentors := &memMentorRepo{mentors: make(map[string]*mentor.Mentor)}
	h := NewGrantPointsHandler(mentors, &memUoWFactory{s: newMemState()}, ledger.NewRecorder(nil), nil, nil)

	_, err := h.Handle(context.Background(), GrantPointsCommand{MentorID: "missing", StudentID: "st1", Amount: 10})
	assert.ErrorIs(t, err, mentor.ErrNotFound)
}

func TestGrantPointsHandler_BackToBackGrantsAccumulate(t *testing.T) {
	state := newMemState()
	mentors := &memMentorRepo{mentors: make(map[string]*mentor.Mentor)}
	factory := &memUoWFactory{s: state}

	seedStudent(t, state)
	seedMentor(t, mentors, 50)

	h := NewGrantPointsHandler(mentors, factory, ledger.NewRecorder(nil), nil, nil)

	for _, amount := range []int{20, 30} {
		_, err := h.Handle(context.Background(), GrantPointsCommand{
			MentorID:    "m1",
			StudentID:   "st1",
			Amount:      amount,
			Description: "good work",
		})
		require.NoError(t, err)
	}

	// Neither credit may be lost: the balance equals the ledger sum.
	assert.Equal(t, 50, state.students["st1"].Balance.Int())
	require.Len(t, state.events, 2)
	assert.Equal(t, 50, state.events[0].Amount+state.events[1].Amount)

	// Each credit loads the student through the row-locking read, so
	// concurrent grants serialize instead of sharing a balance snapshot.
	assert.Equal(t, 2, state.lockedReads)
}

func TestGrantPointsCommand_Validate(t *testing.T) {
	tests := []struct {
		name string
		cmd  GrantPointsCommand
		want error
	}{
		{"missing mentor", GrantPointsCommand{StudentID: "st1", Amount: 10}, shared.ErrInvalidInput},
		{"missing student", GrantPointsCommand{MentorID: "m1", Amount: 10}, shared.ErrInvalidInput},
		{"zero amount", GrantPointsCommand{MentorID: "m1", StudentID: "st1"}, student.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.cmd.Validate(), tt.want)
		})
	}
}

func TestSubmitTestCommand_Validate(t *testing.T) {
	answers := []AnswerInput{{QuestionID: "q1", OptionID: "o1"}}

	tests := []struct {
		name string
		cmd  SubmitTestCommand
		want error
	}{
		{"missing student", SubmitTestCommand{TestID: "t1", Answers: answers}, shared.ErrInvalidInput},
		{"missing test", SubmitTestCommand{StudentID: "st1", Answers: answers}, shared.ErrInvalidInput},
		{"no answers", SubmitTestCommand{StudentID: "st1", TestID: "t1"}, assessment.ErrEmptyAnswerSet},
		{"blank option", SubmitTestCommand{StudentID: "st1", TestID: "t1", Answers: []AnswerInput{{QuestionID: "q1"}}}, shared.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.cmd.Validate(), tt.want)
		})
	}
}
