package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rohitjain-pio/hrms-leave-api/internal/repository"
	"github.com/rohitjain-pio/hrms-leave-api/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccrualParams are the operational parameters of one monthly credit run.
// They are supplied by the caller (the job scheduler reads them from the
// leave type row); the engine never reads them as ambient state.
type AccrualParams struct {
	LeaveTypeID    uint
	CreditAmount   decimal.Decimal
	CarryOverLimit decimal.Decimal
	CarryOverMonth int // 1-12, 0 = none
	AsOfDate       time.Time
	Actor          uint
}

// AccrualService is the periodic credit hook. It is invoked by an external
// scheduler and never self-triggers.
type AccrualService struct {
	leaveTypeRepo repository.LeaveTypeRepository
	balanceRepo   repository.BalanceRepository
	uow           repository.UnitOfWork
}

// NewAccrualService creates a new accrual service
func NewAccrualService(
	leaveTypeRepo repository.LeaveTypeRepository,
	balanceRepo repository.BalanceRepository,
	uow repository.UnitOfWork,
) *AccrualService {
	return &AccrualService{
		leaveTypeRepo: leaveTypeRepo,
		balanceRepo:   balanceRepo,
		uow:           uow,
	}
}

// CreditMonthly credits every eligible active employee for one leave type.
// Outside the carry-over month the closing balance is capped at
// CarryOverLimit; during the carry-over month the cap is lifted. The whole
// batch is one transaction: a mid-batch failure credits nobody, because the
// batch represents one payroll-period event. A cycle that already ran is
// skipped, so a rerun for the same month credits nobody. Returns the number
// of ledger entries written.
func (s *AccrualService) CreditMonthly(ctx context.Context, params AccrualParams) (int, error) {
	if !params.CreditAmount.IsPositive() {
		return 0, ErrInvalidRange
	}

	leaveType, err := s.leaveTypeRepo.FindByID(ctx, params.LeaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("find leave type: %w", err)
	}

	employeeIDs, err := s.balanceRepo.EligibleEmployeeIDs(ctx, params.LeaveTypeID, leaveType.GenderRestriction)
	if err != nil {
		return 0, fmt.Errorf("eligible employees: %w", err)
	}

	capLifted := params.CarryOverMonth != 0 && int(params.AsOfDate.Month()) == params.CarryOverMonth
	description := fmt.Sprintf("Monthly %s accrual for %s", leaveType.Code, params.AsOfDate.Format("2006-01"))

	credited := 0
	err = s.uow.Do(ctx, func(repos *repository.Repositories) error {
		// The description carries the cycle month, so a rerun of the same
		// cycle credits nobody instead of doubling everyone.
		ran, err := repos.Ledger.HasMonthlyAccrual(ctx, params.LeaveTypeID, description)
		if err != nil {
			return fmt.Errorf("check accrual cycle: %w", err)
		}
		if ran {
			logger.Info("Monthly accrual cycle already ran, skipping",
				"leave_type", leaveType.Code, "cycle", params.AsOfDate.Format("2006-01"))
			return nil
		}

		for _, employeeID := range employeeIDs {
			current, err := repos.Ledger.CurrentClosing(ctx, employeeID, params.LeaveTypeID)
			if err != nil {
				return fmt.Errorf("current closing for employee %d: %w", employeeID, err)
			}

			credit := params.CreditAmount
			if !capLifted {
				// newClosing = min(current + credit, limit); employees at or
				// above the cap are skipped, never debited.
				headroom := params.CarryOverLimit.Sub(current)
				if headroom.LessThanOrEqual(decimal.Zero) {
					continue
				}
				if credit.GreaterThan(headroom) {
					credit = headroom
				}
			}

			_, err = repos.Ledger.AppendEntry(ctx, repository.LedgerAppend{
				EmployeeID:    employeeID,
				LeaveTypeID:   params.LeaveTypeID,
				EffectiveDate: params.AsOfDate,
				Description:   description,
				Accrued:       decimal.NewNullDecimal(credit),
				CreatedBy:     params.Actor,
			})
			if err != nil {
				return fmt.Errorf("append accrual for employee %d: %w", employeeID, err)
			}
			credited++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return credited, nil
}

// RunScheduledAccruals is the scheduler-facing entry point: it reads the
// per-type accrual policy and invokes the hook for each accruing leave type.
// Runs only on the first day of the month; the interval timer that calls it
// fires more often than that.
func (s *AccrualService) RunScheduledAccruals(ctx context.Context, asOf time.Time) error {
	if asOf.Day() != 1 {
		return nil
	}

	leaveTypes, err := s.leaveTypeRepo.FindAccruing(ctx)
	if err != nil {
		return fmt.Errorf("find accruing leave types: %w", err)
	}

	for _, leaveType := range leaveTypes {
		count, err := s.CreditMonthly(ctx, AccrualParams{
			LeaveTypeID:    leaveType.ID,
			CreditAmount:   leaveType.MonthlyCredit,
			CarryOverLimit: leaveType.CarryOverLimit,
			CarryOverMonth: leaveType.CarryOverMonth,
			AsOfDate:       asOf,
		})
		if err != nil {
			logger.Error("Monthly accrual run failed", "leave_type", leaveType.Code, "error", err)
			return err
		}
		logger.Info("Monthly accrual run completed", "leave_type", leaveType.Code, "employees_credited", count)
	}
	return nil
}
