package scheduler

import (
	"fmt"
	"time"

	"github.com/akbarkhojayev/coinMarkaz/pkg/timeutil"
)

// IntervalSchedule запускает задачу с фиксированным интервалом.
type IntervalSchedule struct {
	Interval time.Duration
}

// NewIntervalSchedule создаёт расписание с фиксированным интервалом.
func NewIntervalSchedule(interval time.Duration) *IntervalSchedule {
	return &IntervalSchedule{Interval: interval}
}

// Next возвращает следующий момент запуска.
func (s *IntervalSchedule) Next(t time.Time) time.Time {
	return t.Add(s.Interval)
}

// String возвращает строковое представление расписания.
func (s *IntervalSchedule) String() string {
	return fmt.Sprintf("@every %s", s.Interval.String())
}

// DailySchedule запускает задачу раз в сутки в заданное местное время.
type DailySchedule struct {
	clock string
}

// NewDailySchedule создаёт расписание по времени суток в формате HH:MM
// (часовой пояс Ташкента).
func NewDailySchedule(clock string) (*DailySchedule, error) {
	if _, err := timeutil.ParseClock(clock, time.Now()); err != nil {
		return nil, fmt.Errorf("scheduler: invalid daily time %q: %w", clock, err)
	}
	return &DailySchedule{clock: clock}, nil
}

// Next возвращает ближайшее наступление заданного времени суток после t.
func (s *DailySchedule) Next(t time.Time) time.Time {
	next, err := timeutil.ParseClock(s.clock, t)
	if err != nil {
		return time.Time{}
	}
	return next
}

// String возвращает строковое представление расписания.
func (s *DailySchedule) String() string {
	return fmt.Sprintf("@daily %s", s.clock)
}
