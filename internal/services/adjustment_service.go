package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rohitjain-pio/hrms-leave-api/internal/jobs"
	"github.com/rohitjain-pio/hrms-leave-api/internal/models"
	"github.com/rohitjain-pio/hrms-leave-api/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AdjustmentInput carries a manual balance correction
type AdjustmentInput struct {
	EmployeeID  uint
	LeaveTypeID uint
	NewOpening  decimal.Decimal
	IsActive    bool
	Actor       uint
	Note        string
	IP          string
	UserAgent   string
}

// AdjustmentService applies manual balance corrections. Every correction is
// recorded as a ledger entry before the balance row itself moves.
type AdjustmentService struct {
	uow             repository.UnitOfWork
	balanceRepo     repository.BalanceRepository
	notificationSvc *NotificationService
	auditSvc        AuditLogger
	worker          *jobs.Worker
}

// NewAdjustmentService creates a new adjustment service
func NewAdjustmentService(
	uow repository.UnitOfWork,
	balanceRepo repository.BalanceRepository,
	notificationSvc *NotificationService,
	auditSvc AuditLogger,
	worker *jobs.Worker,
) *AdjustmentService {
	return &AdjustmentService{
		uow:             uow,
		balanceRepo:     balanceRepo,
		notificationSvc: notificationSvc,
		auditSvc:        auditSvc,
		worker:          worker,
	}
}

// AdjustOpeningBalance updates the baseline row and appends one ledger entry
// whose closing balance moves by delta = newOpening - oldOpening. Toggling
// IsActive with an unchanged amount appends an entry with an unchanged
// closing balance, so availability changes are auditable without fabricating
// a balance movement.
func (s *AdjustmentService) AdjustOpeningBalance(ctx context.Context, in AdjustmentInput) (*models.LeaveTypeBalance, error) {
	if _, err := s.balanceRepo.Find(ctx, in.EmployeeID, in.LeaveTypeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find balance: %w", err)
	}

	var adjusted *models.LeaveTypeBalance
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		balance, err := repos.Balance.FindForUpdate(ctx, in.EmployeeID, in.LeaveTypeID)
		if err != nil {
			return fmt.Errorf("lock balance: %w", err)
		}

		delta := in.NewOpening.Sub(balance.OpeningBalance)

		// The entry is appended before the baseline row moves, so a fresh
		// chain seeds from the old opening and closes at the new one.
		entry := repository.LedgerAppend{
			EmployeeID:    in.EmployeeID,
			LeaveTypeID:   in.LeaveTypeID,
			EffectiveDate: time.Now(),
			Description:   adjustmentDescription(in.Note, delta),
			CreatedBy:     in.Actor,
		}
		switch {
		case delta.IsPositive():
			entry.Accrued = decimal.NewNullDecimal(delta)
		case delta.IsNegative():
			entry.Utilized = decimal.NewNullDecimal(delta.Neg())
		}
		if _, err := repos.Ledger.AppendEntry(ctx, entry); err != nil {
			return fmt.Errorf("append adjustment entry: %w", err)
		}

		balance.OpeningBalance = in.NewOpening
		balance.IsActive = in.IsActive
		balance.LastModifiedBy = in.Actor
		balance.LastModifiedAt = time.Now()
		if err := repos.Balance.Update(ctx, balance); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}
		adjusted = balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	employeeID := in.EmployeeID
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyEmployee(ctx, employeeID,
			"Leave balance adjusted",
			"An administrator adjusted your leave balance",
			models.NotificationTypeBalanceAdjusted)
	})
	s.auditSvc.Log(ctx, in.Actor, "ADJUST", "LeaveTypeBalance", adjusted.ID,
		fmt.Sprintf("Opening balance set to %s, active=%t", in.NewOpening.String(), in.IsActive), in.IP, in.UserAgent)

	return adjusted, nil
}

func adjustmentDescription(note string, delta decimal.Decimal) string {
	if note != "" {
		return note
	}
	if delta.IsZero() {
		return "Balance availability toggled"
	}
	return fmt.Sprintf("Manual balance adjustment (%s)", delta.String())
}
