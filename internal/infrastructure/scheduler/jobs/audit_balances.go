package jobs

import (
	"context"
	"fmt"

	"github.com/akbarkhojayev/coinMarkaz/internal/domain/student"
	"github.com/akbarkhojayev/coinMarkaz/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUDIT BALANCES JOB
// Сверяет баланс каждого студента с суммой его журнала баллов. Расхождение
// означает запись мимо транзакционного пути и логируется как ошибка; сама
// задача ничего не исправляет.
// ══════════════════════════════════════════════════════════════════════════════

// auditPageSize - размер страницы при обходе студентов.
const auditPageSize = 200

// auditHistoryLimit - верхняя граница числа событий на студента за один аудит.
const auditHistoryLimit = 10000

// AuditBalancesJob сверяет балансы с журналом баллов.
type AuditBalancesJob struct {
	students student.Repository
	ledger   student.LedgerRepository
	log      *logger.Logger
}

// NewAuditBalancesJob создаёт задачу аудита балансов.
func NewAuditBalancesJob(
	students student.Repository,
	ledger student.LedgerRepository,
	log *logger.Logger,
) *AuditBalancesJob {
	if log == nil {
		log = logger.Default()
	}
	return &AuditBalancesJob{
		students: students,
		ledger:   ledger,
		log:      log.With(logger.Component("audit_balances")),
	}
}

// Name возвращает имя задачи.
func (j *AuditBalancesJob) Name() string {
	return "audit_balances"
}

// Run выполняет аудит.
func (j *AuditBalancesJob) Run(ctx context.Context) error {
	var audited, mismatched int

	for offset := 0; ; offset += auditPageSize {
		page, err := j.students.GetAll(ctx, student.ListOptions{Offset: offset, Limit: auditPageSize})
		if err != nil {
			return fmt.Errorf("failed to load students page at offset %d: %w", offset, err)
		}
		if len(page) == 0 {
			break
		}

		for _, s := range page {
			if err := ctx.Err(); err != nil {
				return err
			}

			expected, err := j.ledgerSum(ctx, s.ID)
			if err != nil {
				return err
			}

			audited++
			if s.Balance.Int() != expected {
				mismatched++
				j.log.Error("balance does not match ledger",
					logger.StudentID(s.ID),
					logger.Int("balance", s.Balance.Int()),
					logger.Int("ledger_sum", expected),
				)
			}
		}

		if len(page) < auditPageSize {
			break
		}
	}

	j.log.Info("balance audit finished",
		logger.Int("audited", audited),
		logger.Int("mismatched", mismatched),
	)

	if mismatched > 0 {
		return fmt.Errorf("found %d students with balances diverging from the ledger", mismatched)
	}
	return nil
}

// ledgerSum возвращает сумму всех событий журнала студента.
func (j *AuditBalancesJob) ledgerSum(ctx context.Context, studentID string) (int, error) {
	events, err := j.ledger.GetHistory(ctx, studentID, student.ListOptions{Limit: auditHistoryLimit})
	if err != nil {
		return 0, fmt.Errorf("failed to load ledger for student %s: %w", studentID, err)
	}

	sum := 0
	for _, e := range events {
		sum += e.Amount
	}
	return sum, nil
}
