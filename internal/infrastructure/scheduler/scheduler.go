// Package scheduler implements background job scheduling for coinMarkaz.
// The worker process uses it for periodic maintenance: rebuilding the Redis
// leaderboard from postgres and auditing ledger balances.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/akbarkhojayev/coinMarkaz/pkg/logger"
)

var (
	// ErrNilJob - попытка зарегистрировать nil-задачу.
	ErrNilJob = errors.New("scheduler: job cannot be nil")

	// ErrNilSchedule - попытка зарегистрировать задачу без расписания.
	ErrNilSchedule = errors.New("scheduler: schedule cannot be nil")

	// ErrJobAlreadyExists - задача с таким именем уже зарегистрирована.
	ErrJobAlreadyExists = errors.New("scheduler: job already exists")

	// ErrJobNotFound - задача не найдена.
	ErrJobNotFound = errors.New("scheduler: job not found")

	// ErrAlreadyRunning - планировщик уже запущен.
	ErrAlreadyRunning = errors.New("scheduler: already running")

	// ErrNotRunning - планировщик не запущен.
	ErrNotRunning = errors.New("scheduler: not running")
)

// Job определяет интерфейс фоновой задачи.
type Job interface {
	// Name возвращает уникальное имя задачи.
	Name() string

	// Run выполняет задачу. Контекст отменяется при остановке планировщика.
	Run(ctx context.Context) error
}

// Schedule определяет, когда задача должна выполняться.
type Schedule interface {
	// Next возвращает следующий момент запуска после t.
	Next(t time.Time) time.Time

	// String возвращает человекочитаемое описание расписания.
	String() string
}

// JobResult содержит итог одного выполнения задачи.
type JobResult struct {
	JobName     string
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration
	Err         error
}

// scheduledJob связывает задачу с расписанием и статистикой запусков.
type scheduledJob struct {
	job       Job
	schedule  Schedule
	nextRun   time.Time
	lastRun   time.Time
	runCount  int64
	failCount int64
}

// Scheduler управляет зарегистрированными задачами и выполняет их по
// расписанию. Проверка выполняется раз в секунду; каждая задача запускается
// в своей горутине, Stop дожидается завершения всех запущенных задач.
type Scheduler struct {
	mu sync.RWMutex

	log  *logger.Logger
	jobs map[string]*scheduledJob

	running  bool
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	lastRuns map[string]JobResult
}

// NewScheduler создаёт планировщик.
func NewScheduler(log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Default()
	}
	return &Scheduler{
		log:      log.With(logger.Component("scheduler")),
		jobs:     make(map[string]*scheduledJob),
		lastRuns: make(map[string]JobResult),
	}
}

// Register добавляет задачу с расписанием.
func (s *Scheduler) Register(job Job, schedule Schedule) error {
	if job == nil {
		return ErrNilJob
	}
	if schedule == nil {
		return ErrNilSchedule
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := job.Name()
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("%w: %s", ErrJobAlreadyExists, name)
	}

	next := schedule.Next(time.Now())
	s.jobs[name] = &scheduledJob{
		job:      job,
		schedule: schedule,
		nextRun:  next,
	}

	s.log.Info("job registered",
		logger.String("job", name),
		logger.String("schedule", schedule.String()),
		logger.Time("next_run", next),
	)

	return nil
}

// Start запускает цикл планировщика.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.running = true
	s.mu.Unlock()

	s.log.Info("scheduler started", logger.Int("jobs", len(s.jobs)))

	s.wg.Add(1)
	go s.runLoop()

	return nil
}

// Stop останавливает планировщик и дожидается завершения запущенных задач.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrNotRunning
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info("scheduler stopped")

	return nil
}

// IsRunning сообщает, запущен ли планировщик.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func (s *Scheduler) runLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.runDueJobs()
		}
	}
}

func (s *Scheduler) runDueJobs() {
	now := time.Now()

	s.mu.Lock()
	var due []*scheduledJob
	for _, sj := range s.jobs {
		if !sj.nextRun.IsZero() && now.After(sj.nextRun) {
			sj.nextRun = sj.schedule.Next(now)
			sj.lastRun = now
			sj.runCount++
			due = append(due, sj)
		}
	}
	s.mu.Unlock()

	for _, sj := range due {
		s.wg.Add(1)
		go s.runJob(sj)
	}
}

func (s *Scheduler) runJob(sj *scheduledJob) {
	defer s.wg.Done()

	name := sj.job.Name()
	startedAt := time.Now()
	s.log.Info("job started", logger.String("job", name))

	err := sj.job.Run(s.ctx)
	completedAt := time.Now()

	result := JobResult{
		JobName:     name,
		StartedAt:   startedAt,
		CompletedAt: completedAt,
		Duration:    completedAt.Sub(startedAt),
		Err:         err,
	}

	s.mu.Lock()
	if err != nil {
		sj.failCount++
	}
	s.lastRuns[name] = result
	s.mu.Unlock()

	if err != nil {
		s.log.Error("job failed",
			logger.String("job", name),
			logger.Duration("duration", result.Duration),
			logger.Err(err),
		)
	} else {
		s.log.Info("job completed",
			logger.String("job", name),
			logger.Duration("duration", result.Duration),
		)
	}
}

// RunNow немедленно выполняет задачу по имени, игнорируя расписание.
func (s *Scheduler) RunNow(ctx context.Context, jobName string) (JobResult, error) {
	s.mu.RLock()
	sj, exists := s.jobs[jobName]
	s.mu.RUnlock()

	if !exists {
		return JobResult{}, fmt.Errorf("%w: %s", ErrJobNotFound, jobName)
	}

	startedAt := time.Now()
	err := sj.job.Run(ctx)
	completedAt := time.Now()

	result := JobResult{
		JobName:     jobName,
		StartedAt:   startedAt,
		CompletedAt: completedAt,
		Duration:    completedAt.Sub(startedAt),
		Err:         err,
	}

	s.mu.Lock()
	if err != nil {
		sj.failCount++
	}
	sj.runCount++
	s.lastRuns[jobName] = result
	s.mu.Unlock()

	return result, err
}

// JobInfo содержит состояние зарегистрированной задачи.
type JobInfo struct {
	Name      string
	Schedule  string
	LastRun   time.Time
	NextRun   time.Time
	RunCount  int64
	FailCount int64
}

// ListJobs возвращает состояние всех зарегистрированных задач.
func (s *Scheduler) ListJobs() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]JobInfo, 0, len(s.jobs))
	for name, sj := range s.jobs {
		infos = append(infos, JobInfo{
			Name:      name,
			Schedule:  sj.schedule.String(),
			LastRun:   sj.lastRun,
			NextRun:   sj.nextRun,
			RunCount:  sj.runCount,
			FailCount: sj.failCount,
		})
	}
	return infos
}

// LastResult возвращает итог последнего выполнения задачи.
func (s *Scheduler) LastResult(jobName string) (JobResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.lastRuns[jobName]
	return result, ok
}
