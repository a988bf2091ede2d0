package repository

import (
	"context"

	"github.com/rohitjain-pio/hrms-leave-api/internal/models"
	"gorm.io/gorm"
)

// LeaveTypeRepository defines the interface for leave type data access
type LeaveTypeRepository interface {
	FindByID(ctx context.Context, id uint) (*models.LeaveType, error)
	FindByCode(ctx context.Context, code string) (*models.LeaveType, error)
	FindAll(ctx context.Context) ([]models.LeaveType, error)
	FindAccruing(ctx context.Context) ([]models.LeaveType, error)
}

type leaveTypeRepository struct {
	db *gorm.DB
}

// NewLeaveTypeRepository creates a new leave type repository
func NewLeaveTypeRepository(db *gorm.DB) LeaveTypeRepository {
	return &leaveTypeRepository{db: db}
}

func (r *leaveTypeRepository) FindByID(ctx context.Context, id uint) (*models.LeaveType, error) {
	var leaveType models.LeaveType
	err := r.db.WithContext(ctx).First(&leaveType, id).Error
	if err != nil {
		return nil, err
	}
	return &leaveType, nil
}

func (r *leaveTypeRepository) FindByCode(ctx context.Context, code string) (*models.LeaveType, error) {
	var leaveType models.LeaveType
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&leaveType).Error
	if err != nil {
		return nil, err
	}
	return &leaveType, nil
}

func (r *leaveTypeRepository) FindAll(ctx context.Context) ([]models.LeaveType, error) {
	var leaveTypes []models.LeaveType
	err := r.db.WithContext(ctx).Order("id ASC").Find(&leaveTypes).Error
	return leaveTypes, err
}

// FindAccruing returns the active leave types with a positive monthly credit,
// i.e. the ones the scheduled accrual run covers.
func (r *leaveTypeRepository) FindAccruing(ctx context.Context) ([]models.LeaveType, error) {
	var leaveTypes []models.LeaveType
	err := r.db.WithContext(ctx).
		Where("active = ? AND monthly_credit > 0", true).
		Order("id ASC").
		Find(&leaveTypes).Error
	return leaveTypes, err
}
