package assessment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuestion(correctLabel OptionLabel) Question {
	q := Question{
		ID:     "q1",
		TestID: "t1",
		Text:   "What is the capital of Uzbekistan?",
	}
	for _, label := range []OptionLabel{LabelA, LabelB, LabelC, LabelD} {
		q.Options = append(q.Options, AnswerOption{
			ID:         "opt-" + label.String(),
			QuestionID: q.ID,
			Label:      label,
			Text:       "Option " + label.String(),
			IsCorrect:  label == correctLabel,
		})
	}
	return q
}

func TestQuestionValidate(t *testing.T) {
	q := newQuestion(LabelB)
	assert.NoError(t, q.Validate())
}

func TestQuestionValidate_TooFewOptions(t *testing.T) {
	q := Question{
		ID:   "q1",
		Text: "lonely question",
		Options: []AnswerOption{
			{ID: "o1", Label: LabelA, IsCorrect: true},
		},
	}
	assert.ErrorIs(t, q.Validate(), ErrTooFewOptions)
}

func TestQuestionValidate_DuplicateLabel(t *testing.T) {
	q := newQuestion(LabelA)
	q.Options[1].Label = LabelA
	assert.ErrorIs(t, q.Validate(), ErrDuplicateLabel)
}

func TestQuestionValidate_InvalidLabel(t *testing.T) {
	q := newQuestion(LabelA)
	q.Options[3].Label = OptionLabel("E")
	assert.ErrorIs(t, q.Validate(), ErrInvalidLabel)
}

func TestQuestionValidate_NoCorrectOption(t *testing.T) {
	q := newQuestion(LabelA)
	q.Options[0].IsCorrect = false
	assert.ErrorIs(t, q.Validate(), ErrNoCorrectOption)
}

func TestQuestionValidate_MultipleCorrectOptions(t *testing.T) {
	q := newQuestion(LabelA)
	q.Options[1].IsCorrect = true
	assert.ErrorIs(t, q.Validate(), ErrMultipleCorrectOptions)
}

func TestEvaluate(t *testing.T) {
	q := newQuestion(LabelC)

	correct, err := Evaluate(&q, "opt-C")
	require.NoError(t, err)
	assert.True(t, correct)

	correct, err = Evaluate(&q, "opt-A")
	require.NoError(t, err)
	assert.False(t, correct)
}

func TestEvaluate_OptionMismatch(t *testing.T) {
	q := newQuestion(LabelA)

	_, err := Evaluate(&q, "opt-from-another-question")
	assert.ErrorIs(t, err, ErrOptionMismatch)
}

func TestAttemptScoring(t *testing.T) {
	attempt, err := NewAttempt("a1", "s1", "t1", time.Now())
	require.NoError(t, err)

	require.NoError(t, attempt.AddAnswer(SubmittedAnswer{ID: "ans1", QuestionID: "q1", OptionID: "o1", IsCorrect: true}))
	require.NoError(t, attempt.AddAnswer(SubmittedAnswer{ID: "ans2", QuestionID: "q2", OptionID: "o2", IsCorrect: false}))
	require.NoError(t, attempt.AddAnswer(SubmittedAnswer{ID: "ans3", QuestionID: "q3", OptionID: "o3", IsCorrect: true}))

	score := attempt.Recompute()
	assert.Equal(t, 2*PointsPerCorrectAnswer, score)
	assert.Equal(t, 2, attempt.CorrectCount())
}

func TestAttemptAddAnswer_DuplicateQuestion(t *testing.T) {
	attempt, err := NewAttempt("a1", "s1", "t1", time.Now())
	require.NoError(t, err)

	require.NoError(t, attempt.AddAnswer(SubmittedAnswer{ID: "ans1", QuestionID: "q1", OptionID: "o1"}))
	assert.ErrorIs(t, attempt.AddAnswer(SubmittedAnswer{ID: "ans2", QuestionID: "q1", OptionID: "o2"}), ErrDuplicateAnswer)
}

func TestAttemptCreditDelta_Idempotent(t *testing.T) {
	attempt, err := NewAttempt("a1", "s1", "t1", time.Now())
	require.NoError(t, err)

	for i, questionID := range []string{"q1", "q2", "q3", "q4"} {
		require.NoError(t, attempt.AddAnswer(SubmittedAnswer{
			ID:         "ans" + questionID,
			QuestionID: questionID,
			OptionID:   "o1",
			IsCorrect:  i%2 == 0,
		}))
	}

	attempt.Recompute()
	assert.Equal(t, 2*PointsPerCorrectAnswer, attempt.CreditDelta())

	attempt.MarkCredited()
	assert.Equal(t, 0, attempt.CreditDelta())

	// Recomputing an unchanged attempt must never credit again.
	attempt.Recompute()
	assert.Equal(t, 0, attempt.CreditDelta())
}

func TestNewTestValidation(t *testing.T) {
	_, err := NewTest(NewTestParams{ID: "t1", Title: "  ", CreatedBy: "m1"})
	assert.Error(t, err)

	_, err = NewTest(NewTestParams{ID: "t1", Title: "Go basics", CreatedBy: ""})
	assert.Error(t, err)

	test, err := NewTest(NewTestParams{
		ID:        "t1",
		Title:     "Go basics",
		CreatedBy: "m1",
		Duration:  30 * time.Minute,
	})
	require.NoError(t, err)
	assert.Equal(t, "Go basics", test.Title)
	assert.Empty(t, test.Questions)
}

func TestTestAddQuestion_RejectsInvalid(t *testing.T) {
	test, err := NewTest(NewTestParams{ID: "t1", Title: "Go basics", CreatedBy: "m1"})
	require.NoError(t, err)

	bad := newQuestion(LabelA)
	bad.Options = bad.Options[:1]
	assert.ErrorIs(t, test.AddQuestion(bad), ErrTooFewOptions)
	assert.Empty(t, test.Questions)

	good := newQuestion(LabelA)
	require.NoError(t, test.AddQuestion(good))
	assert.Len(t, test.Questions, 1)
	assert.Equal(t, test.ID, test.Questions[0].TestID)
}
