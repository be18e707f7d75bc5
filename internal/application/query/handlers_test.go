package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akbarkhojayev/coinMarkaz/internal/domain/assessment"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/catalog"
	"github.com/akbarkhojayev/coinMarkaz/internal/domain/student"
)

// ─────────────────────────────────────────────────────────────────────────────
// Read-side stubs
// ─────────────────────────────────────────────────────────────────────────────

type stubStudents struct {
	byID   map[string]*student.Student
	byGrp  map[string][]*student.Student
	ranked []*student.Student
}

func (s *stubStudents) Create(_ context.Context, _ *student.Student) error { return nil }

func (s *stubStudents) GetByID(_ context.Context, id string) (*student.Student, error) {
	st, ok := s.byID[id]
	if !ok {
		return nil, student.ErrNotFound
	}
	return st, nil
}

func (s *stubStudents) GetForUpdate(ctx context.Context, id string) (*student.Student, error) {
	return s.GetByID(ctx, id)
}

func (s *stubStudents) GetByUserID(_ context.Context, _ string) (*student.Student, error) {
	return nil, student.ErrNotFound
}

func (s *stubStudents) GetAll(_ context.Context, _ student.ListOptions) ([]*student.Student, error) {
	return s.ranked, nil
}

func (s *stubStudents) GetByGroup(_ context.Context, groupID string, _ student.ListOptions) ([]*student.Student, error) {
	return s.byGrp[groupID], nil
}

func (s *stubStudents) Update(_ context.Context, _ *student.Student) error { return nil }
func (s *stubStudents) Delete(_ context.Context, _ string) error           { return nil }

func (s *stubStudents) GetTopByBalance(_ context.Context, _ student.ListOptions) ([]*student.Student, error) {
	return s.ranked, nil
}

func (s *stubStudents) Count(_ context.Context) (int, error) { return len(s.ranked), nil }

type stubLedger struct {
	events []*student.PointEvent
	total  int
}

func (l *stubLedger) Append(_ context.Context, _ *student.PointEvent) error { return nil }

func (l *stubLedger) GetHistory(_ context.Context, _ string, _ student.ListOptions) ([]*student.PointEvent, error) {
	return l.events, nil
}

func (l *stubLedger) CountByStudent(_ context.Context, _ string) (int, error) {
	return l.total, nil
}

type stubAttempts struct {
	byStudent map[string][]*assessment.Attempt

	lastStudentIDs []string
}

func (a *stubAttempts) Create(_ context.Context, _ *assessment.Attempt) error { return nil }

func (a *stubAttempts) GetByID(_ context.Context, _ string) (*assessment.Attempt, error) {
	return nil, assessment.ErrAttemptNotFound
}

func (a *stubAttempts) GetByStudentAndTest(_ context.Context, _, _ string) (*assessment.Attempt, error) {
	return nil, assessment.ErrAttemptNotFound
}

func (a *stubAttempts) ExistsByStudentAndTest(_ context.Context, _, _ string) (bool, error) {
	return false, nil
}

func (a *stubAttempts) GetByStudent(_ context.Context, studentID string, _ student.ListOptions) ([]*assessment.Attempt, error) {
	return a.byStudent[studentID], nil
}

func (a *stubAttempts) GetByStudents(_ context.Context, studentIDs []string, _ student.ListOptions) ([]*assessment.Attempt, error) {
	a.lastStudentIDs = studentIDs
	var out []*assessment.Attempt
	for _, id := range studentIDs {
		out = append(out, a.byStudent[id]...)
	}
	return out, nil
}

func (a *stubAttempts) UpdateScore(_ context.Context, _ *assessment.Attempt) error { return nil }

type stubGroups struct {
	byMentor map[string][]*catalog.Group
}

func (g *stubGroups) Create(_ context.Context, _ *catalog.Group) error { return nil }

func (g *stubGroups) GetByID(_ context.Context, _ string) (*catalog.Group, error) {
	return nil, catalog.ErrGroupNotFound
}

func (g *stubGroups) GetAll(_ context.Context, _ student.ListOptions) ([]*catalog.Group, error) {
	return nil, nil
}

func (g *stubGroups) GetByMentor(_ context.Context, mentorID string) ([]*catalog.Group, error) {
	return g.byMentor[mentorID], nil
}

func (g *stubGroups) Update(_ context.Context, _ *catalog.Group) error { return nil }
func (g *stubGroups) Delete(_ context.Context, _ string) error         { return nil }

type stubCache struct {
	entries  []LeaderboardEntry
	topErr   error
	sizeErr  error
	rebuilds [][]LeaderboardEntry
}

func (c *stubCache) Top(_ context.Context, offset, limit int) ([]LeaderboardEntry, error) {
	if c.topErr != nil {
		return nil, c.topErr
	}
	if offset >= len(c.entries) {
		return []LeaderboardEntry{}, nil
	}
	end := offset + limit
	if end > len(c.entries) {
		end = len(c.entries)
	}
	return c.entries[offset:end], nil
}

func (c *stubCache) Size(_ context.Context) (int, error) {
	if c.sizeErr != nil {
		return 0, c.sizeErr
	}
	return len(c.entries), nil
}

func (c *stubCache) Rebuild(_ context.Context, entries []LeaderboardEntry) error {
	c.rebuilds = append(c.rebuilds, entries)
	return nil
}

func rankedStudent(t *testing.T, id, name string, balance int) *student.Student {
	t.Helper()
	st, err := student.NewStudent(student.NewStudentParams{
		ID:      id,
		UserID:  "u-" + id,
		Name:    name,
		GroupID: "g1",
	})
	require.NoError(t, err)
	if balance > 0 {
		_, err = st.Credit("ev-"+id, balance, student.EventTypeMentor, "seed", time.Now().UTC())
		require.NoError(t, err)
	}
	return st
}

// ─────────────────────────────────────────────────────────────────────────────
// GetPointHistoryHandler
// ─────────────────────────────────────────────────────────────────────────────

func TestGetPointHistory(t *testing.T) {
	occurred := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	students := &stubStudents{byID: map[string]*student.Student{
		"st1": rankedStudent(t, "st1", "Aziz Karimov", 40),
	}}
	ledgerRepo := &stubLedger{
		events: []*student.PointEvent{
			{ID: "e1", StudentID: "st1", Amount: 25, Type: student.EventTypeTest, Description: "Points earned from test 'Go basics'", OccurredAt: occurred},
			{ID: "e2", StudentID: "st1", Amount: 15, Type: student.EventTypeMentor, Description: "code review", OccurredAt: occurred.Add(time.Hour)},
		},
		total: 7,
	}

	h := NewGetPointHistoryHandler(students, ledgerRepo)

	result, err := h.Handle(context.Background(), GetPointHistoryQuery{StudentID: "st1"})
	require.NoError(t, err)

	assert.Equal(t, "st1", result.StudentID)
	assert.Equal(t, "Aziz Karimov", result.Name)
	assert.Equal(t, 40, result.Balance)
	assert.Equal(t, 7, result.TotalCount)

	require.Len(t, result.Events, 2)
	assert.Equal(t, PointEventView{
		ID:          "e1",
		Amount:      25,
		Type:        "test",
		Description: "Points earned from test 'Go basics'",
		Date:        occurred,
	}, result.Events[0])
}

func TestGetPointHistory_UnknownStudent(t *testing.T) {
	h := NewGetPointHistoryHandler(&stubStudents{byID: map[string]*student.Student{}}, &stubLedger{})

	_, err := h.Handle(context.Background(), GetPointHistoryQuery{StudentID: "missing"})
	assert.ErrorIs(t, err, student.ErrNotFound)
}

func TestGetPointHistory_RequiresStudentID(t *testing.T) {
	h := NewGetPointHistoryHandler(&stubStudents{}, &stubLedger{})

	_, err := h.Handle(context.Background(), GetPointHistoryQuery{})
	assert.Error(t, err)
}

// ─────────────────────────────────────────────────────────────────────────────
// GetLeaderboardHandler
// ─────────────────────────────────────────────────────────────────────────────

func TestGetLeaderboard_ColdCacheRebuilds(t *testing.T) {
	students := &stubStudents{ranked: []*student.Student{
		rankedStudent(t, "st1", "Aziz Karimov", 120),
		rankedStudent(t, "st2", "Malika Yusupova", 95),
		rankedStudent(t, "st3", "Timur Nazarov", 40),
	}}
	cache := &stubCache{}

	h := NewGetLeaderboardHandler(students, cache, nil)

	result, err := h.Handle(context.Background(), GetLeaderboardQuery{Limit: 2})
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalCount)
	require.Len(t, result.Entries, 2)
	assert.Equal(t, LeaderboardEntry{Rank: 1, StudentID: "st1", Name: "Aziz Karimov", Balance: 120}, result.Entries[0])
	assert.Equal(t, LeaderboardEntry{Rank: 2, StudentID: "st2", Name: "Malika Yusupova", Balance: 95}, result.Entries[1])

	// The rebuild covers the full ranking, not just the requested page.
	require.Len(t, cache.rebuilds, 1)
	assert.Len(t, cache.rebuilds[0], 3)
	assert.Equal(t, 3, cache.rebuilds[0][2].Rank)
}

func TestGetLeaderboard_WarmCacheSkipsRepository(t *testing.T) {
	cache := &stubCache{entries: []LeaderboardEntry{
		{Rank: 1, StudentID: "st1", Name: "Aziz Karimov", Balance: 120},
		{Rank: 2, StudentID: "st2", Name: "Malika Yusupova", Balance: 95},
	}}

	// A nil map in the stub would panic on access, proving the repository
	// path is never taken.
	h := NewGetLeaderboardHandler(&stubStudents{}, cache, nil)

	result, err := h.Handle(context.Background(), GetLeaderboardQuery{Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalCount)
	require.Len(t, result.Entries, 2)
	assert.Equal(t, "st1", result.Entries[0].StudentID)
	assert.Empty(t, cache.rebuilds)
}

func TestGetLeaderboard_CacheErrorFallsBack(t *testing.T) {
	students := &stubStudents{ranked: []*student.Student{
		rankedStudent(t, "st1", "Aziz Karimov", 120),
	}}
	cache := &stubCache{sizeErr: errors.New("connection refused")}

	h := NewGetLeaderboardHandler(students, cache, nil)

	result, err := h.Handle(context.Background(), GetLeaderboardQuery{})
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, "st1", result.Entries[0].StudentID)
}

func TestGetLeaderboard_NoCache(t *testing.T) {
	students := &stubStudents{ranked: []*student.Student{
		rankedStudent(t, "st1", "Aziz Karimov", 120),
		rankedStudent(t, "st2", "Malika Yusupova", 95),
	}}

	h := NewGetLeaderboardHandler(students, nil, nil)

	result, err := h.Handle(context.Background(), GetLeaderboardQuery{Limit: 1, Offset: 1})
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalCount)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, LeaderboardEntry{Rank: 2, StudentID: "st2", Name: "Malika Yusupova", Balance: 95}, result.Entries[0])
}

func TestGetLeaderboard_OffsetPastEnd(t *testing.T) {
	students := &stubStudents{ranked: []*student.Student{
		rankedStudent(t, "st1", "Aziz Karimov", 120),
	}}

	h := NewGetLeaderboardHandler(students, nil, nil)

	result, err := h.Handle(context.Background(), GetLeaderboardQuery{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, result.Entries)
	assert.Equal(t, 1, result.TotalCount)
}

// ─────────────────────────────────────────────────────────────────────────────
// GetTestResultsHandler
// ─────────────────────────────────────────────────────────────────────────────

func TestGetTestResults_ForStudent(t *testing.T) {
	takenAt := time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)
	attempts := &stubAttempts{byStudent: map[string][]*assessment.Attempt{
		"st1": {{ID: "a1", StudentID: "st1", TestID: "t1", Score: 25, TakenAt: takenAt}},
	}}

	h := NewGetTestResultsHandler(attempts, &stubStudents{}, &stubGroups{})

	result, err := h.Handle(context.Background(), GetTestResultsQuery{StudentID: "st1"})
	require.NoError(t, err)

	require.Len(t, result.Attempts, 1)
	assert.Equal(t, AttemptView{ID: "a1", StudentID: "st1", TestID: "t1", Score: 25, TakenAt: takenAt}, result.Attempts[0])
}

func TestGetTestResults_ForMentorCollectsGroupStudents(t *testing.T) {
	groups := &stubGroups{byMentor: map[string][]*catalog.Group{
		"m1": {{ID: "g1"}, {ID: "g2"}},
	}}
	students := &stubStudents{byGrp: map[string][]*student.Student{
		"g1": {rankedStudent(t, "st1", "Aziz Karimov", 0)},
		"g2": {rankedStudent(t, "st2", "Malika Yusupova", 0)},
	}}
	attempts := &stubAttempts{byStudent: map[string][]*assessment.Attempt{
		"st1": {{ID: "a1", StudentID: "st1", TestID: "t1", Score: 15}},
		"st2": {{ID: "a2", StudentID: "st2", TestID: "t1", Score: 30}},
	}}

	h := NewGetTestResultsHandler(attempts, students, groups)

	result, err := h.Handle(context.Background(), GetTestResultsQuery{MentorID: "m1"})
	require.NoError(t, err)

	assert.Equal(t, []string{"st1", "st2"}, attempts.lastStudentIDs)
	assert.Len(t, result.Attempts, 2)
}

func TestGetTestResults_MentorWithoutGroups(t *testing.T) {
	h := NewGetTestResultsHandler(&stubAttempts{}, &stubStudents{}, &stubGroups{})

	result, err := h.Handle(context.Background(), GetTestResultsQuery{MentorID: "m1"})
	require.NoError(t, err)
	assert.Empty(t, result.Attempts)
}

func TestGetTestResults_RequiresScope(t *testing.T) {
	h := NewGetTestResultsHandler(&stubAttempts{}, &stubStudents{}, &stubGroups{})

	_, err := h.Handle(context.Background(), GetTestResultsQuery{})
	assert.Error(t, err)
}
