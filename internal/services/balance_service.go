package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rohitjain-pio/hrms-leave-api/internal/models"
	"github.com/rohitjain-pio/hrms-leave-api/internal/repository"
	"gorm.io/gorm"
)

// BalanceService is the balance resolver: it composes ledger reads with the
// leave-type applicability rules. Every mutating caller checks Eligible
// before writing; an ineligible request is rejected at validation time, not
// silently written.
type BalanceService struct {
	ledgerRepo    repository.LedgerRepository
	balanceRepo   repository.BalanceRepository
	leaveTypeRepo repository.LeaveTypeRepository
	employeeRepo  repository.EmployeeRepository
}

// NewBalanceService creates a new balance service
func NewBalanceService(
	ledgerRepo repository.LedgerRepository,
	balanceRepo repository.BalanceRepository,
	leaveTypeRepo repository.LeaveTypeRepository,
	employeeRepo repository.EmployeeRepository,
) *BalanceService {
	return &BalanceService{
		ledgerRepo:    ledgerRepo,
		balanceRepo:   balanceRepo,
		leaveTypeRepo: leaveTypeRepo,
		employeeRepo:  employeeRepo,
	}
}

// Eligible validates that the leave type may be consumed by the employee:
// the type must be active, any gender restriction must match, and an
// existing balance row must not be deactivated. A missing balance row is
// allowed - the ledger chain then seeds from a zero baseline.
func (s *BalanceService) Eligible(ctx context.Context, employeeID, leaveTypeID uint) error {
	employee, err := s.employeeRepo.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("find employee: %w", err)
	}

	leaveType, err := s.leaveTypeRepo.FindByID(ctx, leaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("find leave type: %w", err)
	}

	if !leaveType.Active {
		return ErrIneligible
	}
	if !leaveType.AllowsGender(employee.Gender) {
		return ErrIneligible
	}

	balance, err := s.balanceRepo.Find(ctx, employeeID, leaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("find balance: %w", err)
	}
	if !balance.IsActive {
		return ErrIneligible
	}
	return nil
}

// GetBalance returns the opening baseline, the latest ledger closing balance
// and the utilization summed over the current calendar year.
func (s *BalanceService) GetBalance(ctx context.Context, employeeID, leaveTypeID uint) (*models.BalanceSummary, error) {
	summary := &models.BalanceSummary{
		EmployeeID:  employeeID,
		LeaveTypeID: leaveTypeID,
	}

	balance, err := s.balanceRepo.Find(ctx, employeeID, leaveTypeID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find balance: %w", err)
	}
	if balance != nil {
		summary.OpeningBalance = balance.OpeningBalance
	}

	closing, err := s.ledgerRepo.CurrentClosing(ctx, employeeID, leaveTypeID)
	if err != nil {
		return nil, fmt.Errorf("current closing: %w", err)
	}
	summary.ClosingBalance = closing

	utilized, err := s.ledgerRepo.YearToDateUtilized(ctx, employeeID, leaveTypeID, time.Now().Year())
	if err != nil {
		return nil, fmt.Errorf("year to date utilized: %w", err)
	}
	summary.YearToDateUtilized = utilized

	return summary, nil
}

// GetEmployeeBalances returns the balance rows for an employee
func (s *BalanceService) GetEmployeeBalances(ctx context.Context, employeeID uint) ([]models.LeaveTypeBalance, error) {
	return s.balanceRepo.FindByEmployee(ctx, employeeID)
}

// GetLedgerHistory returns the paginated ledger history for an employee,
// with optional leave-type and date filters ANDed together.
func (s *BalanceService) GetLedgerHistory(ctx context.Context, employeeID uint, query *repository.ListQuery) ([]models.LeaveLedgerEntry, int64, error) {
	return s.ledgerRepo.History(ctx, employeeID, query)
}
