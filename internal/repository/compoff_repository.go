package repository

import (
	"context"
	"time"

	"github.com/rohitjain-pio/hrms-leave-api/internal/models"
	"gorm.io/gorm"
)

// CompOffSwapRepository defines the interface for comp-off and swap request
// data access. Every query excludes soft-deleted rows.
type CompOffSwapRepository interface {
	FindByID(ctx context.Context, id uint) (*models.CompOffSwapRequest, error)
	Create(ctx context.Context, request *models.CompOffSwapRequest) error
	Update(ctx context.Context, request *models.CompOffSwapRequest) error
	SoftDelete(ctx context.Context, id uint) error
	// HasCompOffForWorkingDate reports whether a pending or accepted comp-off
	// already exists for the employee and working date.
	HasCompOffForWorkingDate(ctx context.Context, employeeID uint, workingDate time.Time) (bool, error)
	// HasSwapForLeaveDate reports whether a pending or accepted swap already
	// exists for the employee and leave date.
	HasSwapForLeaveDate(ctx context.Context, employeeID uint, leaveDate time.Time) (bool, error)
	List(ctx context.Context, query *CompOffSwapQuery) ([]models.CompOffSwapRequest, int64, error)
}

// CompOffSwapQuery extends ListQuery with comp-off/swap filters
type CompOffSwapQuery struct {
	*ListQuery
	EmployeeID  uint
	RequestType string
	Status      string
}

type compOffSwapRepository struct {
	db *gorm.DB
}

// NewCompOffSwapRepository creates a new comp-off/swap repository
func NewCompOffSwapRepository(db *gorm.DB) CompOffSwapRepository {
	return &compOffSwapRepository{db: db}
}

func (r *compOffSwapRepository) FindByID(ctx context.Context, id uint) (*models.CompOffSwapRequest, error) {
	var request models.CompOffSwapRequest
	err := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		First(&request, id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *compOffSwapRepository) Create(ctx context.Context, request *models.CompOffSwapRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *compOffSwapRepository) Update(ctx context.Context, request *models.CompOffSwapRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

func (r *compOffSwapRepository) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.CompOffSwapRequest{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}

func (r *compOffSwapRepository) HasCompOffForWorkingDate(ctx context.Context, employeeID uint, workingDate time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CompOffSwapRequest{}).
		Where("employee_id = ? AND request_type = ?", employeeID, models.RequestTypeCompOff).
		Where("working_date = ?", workingDate).
		Where("status IN ?", []string{models.CompOffStatusPending, models.CompOffStatusAccepted}).
		Where("is_deleted = ?", false).
		Count(&count).Error
	return count > 0, err
}

func (r *compOffSwapRepository) HasSwapForLeaveDate(ctx context.Context, employeeID uint, leaveDate time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CompOffSwapRequest{}).
		Where("employee_id = ? AND request_type = ?", employeeID, models.RequestTypeSwap).
		Where("leave_date = ?", leaveDate).
		Where("status IN ?", []string{models.CompOffStatusPending, models.CompOffStatusAccepted}).
		Where("is_deleted = ?", false).
		Count(&count).Error
	return count > 0, err
}

func (r *compOffSwapRepository) List(ctx context.Context, query *CompOffSwapQuery) ([]models.CompOffSwapRequest, int64, error) {
	var requests []models.CompOffSwapRequest
	var total int64

	db := r.db.WithContext(ctx).
		Model(&models.CompOffSwapRequest{}).
		Where("is_deleted = ?", false)

	if query.EmployeeID > 0 {
		db = db.Where("employee_id = ?", query.EmployeeID)
	}
	if query.RequestType != "" {
		db = db.Where("request_type = ?", query.RequestType)
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = db.Order("created_at DESC")
	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Employee").Find(&requests).Error
	return requests, total, err
}
