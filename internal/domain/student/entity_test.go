package student

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStudent(t *testing.T) *Student {
	t.Helper()
	st, err := NewStudent(NewStudentParams{
		ID:      "st1",
		UserID:  "u1",
		Name:    "Aziz Karimov",
		GroupID: "g1",
	})
	require.NoError(t, err)
	return st
}

func TestNewStudent_StartsWithZeroBalance(t *testing.T) {
	st := newTestStudent(t)
	assert.Equal(t, 0, st.Balance.Int())
}

func TestNewStudent_Validation(t *testing.T) {
	_, err := NewStudent(NewStudentParams{ID: "st1", UserID: "u1", Name: "", GroupID: "g1"})
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = NewStudent(NewStudentParams{ID: "st1", UserID: "", Name: "Aziz", GroupID: "g1"})
	assert.Error(t, err)

	_, err = NewStudent(NewStudentParams{ID: "st1", UserID: "u1", Name: "Aziz", GroupID: ""})
	assert.Error(t, err)
}

func TestCredit(t *testing.T) {
	st := newTestStudent(t)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	event, err := st.Credit("ev1", 25, EventTypeMentor, "great homework", at)
	require.NoError(t, err)

	assert.Equal(t, 25, st.Balance.Int())
	assert.Equal(t, st.ID, event.StudentID)
	assert.Equal(t, 25, event.Amount)
	assert.Equal(t, EventTypeMentor, event.Type)
	assert.Equal(t, at, event.OccurredAt)

	// Balance accumulates across credits.
	_, err = st.Credit("ev2", 10, EventTypeTest, "test points", at)
	require.NoError(t, err)
	assert.Equal(t, 35, st.Balance.Int())
}

func TestCredit_RejectsInvalidAmount(t *testing.T) {
	st := newTestStudent(t)

	_, err := st.Credit("ev1", 0, EventTypeMentor, "zero", time.Now())
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = st.Credit("ev1", -5, EventTypeMentor, "negative", time.Now())
	assert.ErrorIs(t, err, ErrInvalidAmount)

	assert.Equal(t, 0, st.Balance.Int())
}

func TestCredit_RejectsInvalidEventType(t *testing.T) {
	st := newTestStudent(t)

	_, err := st.Credit("ev1", 5, PointEventType("bonus"), "unknown source", time.Now())
	assert.ErrorIs(t, err, ErrInvalidEventType)
	assert.Equal(t, 0, st.Balance.Int())
}

func TestPointEventTypeIsValid(t *testing.T) {
	assert.True(t, EventTypeMentor.IsValid())
	assert.True(t, EventTypeTest.IsValid())
	assert.False(t, PointEventType("admin").IsValid())
	assert.False(t, PointEventType("").IsValid())
}

func TestPoints(t *testing.T) {
	var p Points
	assert.True(t, p.IsValid())

	p = p.Add(15)
	assert.Equal(t, 15, p.Int())

	assert.False(t, Points(-1).IsValid())
}
