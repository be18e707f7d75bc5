// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"errors"
	"time"

	"github.com/akbarkhojayev/coinMarkaz/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET POINT HISTORY QUERY
// Returns a student's balance together with the append-only event history,
// in call order.
// ══════════════════════════════════════════════════════════════════════════════

// GetPointHistoryQuery contains the parameters for a history lookup.
type GetPointHistoryQuery struct {
	// StudentID is the internal ID of the student.
	StudentID string

	// Limit is the maximum number of events to return (default 50).
	Limit int

	// Offset is the pagination offset.
	Offset int
}

// PointEventView is a single history entry as exposed to clients.
type PointEventView struct {
	ID          string    `json:"id"`
	Amount      int       `json:"amount"`
	Type        string    `json:"point_type"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

// PointHistoryResult contains the balance and history of a student.
type PointHistoryResult struct {
	StudentID  string           `json:"student_id"`
	Name       string           `json:"name"`
	Balance    int              `json:"balance"`
	Events     []PointEventView `json:"events"`
	TotalCount int              `json:"total_count"`
}

// GetPointHistoryHandler handles point history queries.
type GetPointHistoryHandler struct {
	students student.Repository
	ledger   student.LedgerRepository
}

// NewGetPointHistoryHandler creates a new GetPointHistoryHandler.
func NewGetPointHistoryHandler(students student.Repository, ledger student.LedgerRepository) *GetPointHistoryHandler {
	return &GetPointHistoryHandler{students: students, ledger: ledger}
}

// Handle executes the query.
func (h *GetPointHistoryHandler) Handle(ctx context.Context, q GetPointHistoryQuery) (*PointHistoryResult, error) {
	if q.StudentID == "" {
		return nil, errors.New("get_point_history: student_id is required")
	}

	opts := student.DefaultListOptions()
	if q.Limit > 0 {
		opts = opts.WithLimit(q.Limit)
	}
	if q.Offset > 0 {
		opts = opts.WithOffset(q.Offset)
	}

	stu, err := h.students.GetByID(ctx, q.StudentID)
	if err != nil {
		return nil, err
	}

	events, err := h.ledger.GetHistory(ctx, stu.ID, opts)
	if err != nil {
		return nil, err
	}

	total, err := h.ledger.CountByStudent(ctx, stu.ID)
	if err != nil {
		return nil, err
	}

	views := make([]PointEventView, 0, len(events))
	for _, e := range events {
		views = append(views, PointEventView{
			ID:          e.ID,
			Amount:      e.Amount,
			Type:        string(e.Type),
			Description: e.Description,
			Date:        e.OccurredAt,
		})
	}

	return &PointHistoryResult{
		StudentID:  stu.ID,
		Name:       stu.Name,
		Balance:    stu.Balance.Int(),
		Events:     views,
		TotalCount: total,
	}, nil
}
