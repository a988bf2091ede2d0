package repository

import (
	"context"
	"time"

	"github.com/rohitjain-pio/hrms-leave-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BalanceRepository defines the interface for LeaveTypeBalance data access
type BalanceRepository interface {
	Find(ctx context.Context, employeeID, leaveTypeID uint) (*models.LeaveTypeBalance, error)
	// FindForUpdate takes a row-level lock on the balance row so that
	// concurrent ledger writers for the same key serialize on the store.
	// Only valid inside a transaction.
	FindForUpdate(ctx context.Context, employeeID, leaveTypeID uint) (*models.LeaveTypeBalance, error)
	FindByEmployee(ctx context.Context, employeeID uint) ([]models.LeaveTypeBalance, error)
	Create(ctx context.Context, balance *models.LeaveTypeBalance) error
	Update(ctx context.Context, balance *models.LeaveTypeBalance) error
	// FirstOrCreate returns the balance row for the key, creating an empty
	// active row when none exists. The upsert is idempotent: a concurrent
	// first use never produces a duplicate-key failure.
	FirstOrCreate(ctx context.Context, employeeID, leaveTypeID, actor uint) (*models.LeaveTypeBalance, error)
	// EligibleEmployeeIDs returns the ids of active employees holding an
	// active balance row for the leave type, honoring an optional gender
	// restriction. Used by the monthly accrual batch.
	EligibleEmployeeIDs(ctx context.Context, leaveTypeID uint, genderRestriction string) ([]uint, error)
}

type balanceRepository struct {
	db *gorm.DB
}

// NewBalanceRepository creates a new balance repository
func NewBalanceRepository(db *gorm.DB) BalanceRepository {
	return &balanceRepository{db: db}
}

func (r *balanceRepository) Find(ctx context.Context, employeeID, leaveTypeID uint) (*models.LeaveTypeBalance, error) {
	var balance models.LeaveTypeBalance
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND leave_type_id = ?", employeeID, leaveTypeID).
		First(&balance).Error
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

func (r *balanceRepository) FindForUpdate(ctx context.Context, employeeID, leaveTypeID uint) (*models.LeaveTypeBalance, error) {
	var balance models.LeaveTypeBalance
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("employee_id = ? AND leave_type_id = ?", employeeID, leaveTypeID).
		First(&balance).Error
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

func (r *balanceRepository) FindByEmployee(ctx context.Context, employeeID uint) ([]models.LeaveTypeBalance, error) {
	var balances []models.LeaveTypeBalance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Preload("LeaveType").
		Order("leave_type_id ASC").
		Find(&balances).Error
	return balances, err
}

func (r *balanceRepository) Create(ctx context.Context, balance *models.LeaveTypeBalance) error {
	return r.db.WithContext(ctx).Create(balance).Error
}

func (r *balanceRepository) Update(ctx context.Context, balance *models.LeaveTypeBalance) error {
	return r.db.WithContext(ctx).Save(balance).Error
}

func (r *balanceRepository) FirstOrCreate(ctx context.Context, employeeID, leaveTypeID, actor uint) (*models.LeaveTypeBalance, error) {
	balance := models.LeaveTypeBalance{
		EmployeeID:  employeeID,
		LeaveTypeID: leaveTypeID,
	}
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND leave_type_id = ?", employeeID, leaveTypeID).
		Attrs(models.LeaveTypeBalance{
			IsActive:       true,
			LastModifiedBy: actor,
			LastModifiedAt: time.Now(),
		}).
		FirstOrCreate(&balance).Error
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

func (r *balanceRepository) EligibleEmployeeIDs(ctx context.Context, leaveTypeID uint, genderRestriction string) ([]uint, error) {
	var ids []uint
	db := r.db.WithContext(ctx).
		Model(&models.LeaveTypeBalance{}).
		Joins("JOIN employees ON employees.id = leave_type_balances.employee_id").
		Where("leave_type_balances.leave_type_id = ?", leaveTypeID).
		Where("leave_type_balances.is_active = ?", true).
		Where("employees.active = ?", true)

	if genderRestriction != "" {
		db = db.Where("employees.gender = ?", genderRestriction)
	}

	err := db.Order("leave_type_balances.employee_id ASC").
		Pluck("leave_type_balances.employee_id", &ids).Error
	return ids, err
}
