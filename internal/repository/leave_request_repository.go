package repository

import (
	"context"
	"time"

	"github.com/rohitjain-pio/hrms-leave-api/internal/models"
	"gorm.io/gorm"
)

// LeaveRequestRepository defines the interface for leave request data access
type LeaveRequestRepository interface {
	FindByID(ctx context.Context, id uint) (*models.LeaveRequest, error)
	Create(ctx context.Context, request *models.LeaveRequest) error
	Update(ctx context.Context, request *models.LeaveRequest) error
	// HasOverlapping reports whether the employee already holds a pending or
	// approved request whose date range intersects [start, end].
	HasOverlapping(ctx context.Context, employeeID uint, start, end time.Time) (bool, error)
	List(ctx context.Context, query *LeaveRequestQuery) ([]models.LeaveRequest, int64, error)
}

// LeaveRequestQuery extends ListQuery with leave-specific filters
type LeaveRequestQuery struct {
	*ListQuery
	EmployeeID  uint
	ManagerID   uint
	LeaveTypeID uint
	Status      string
}

type leaveRequestRepository struct {
	db *gorm.DB
}

// NewLeaveRequestRepository creates a new leave request repository
func NewLeaveRequestRepository(db *gorm.DB) LeaveRequestRepository {
	return &leaveRequestRepository{db: db}
}

func (r *leaveRequestRepository) FindByID(ctx context.Context, id uint) (*models.LeaveRequest, error) {
	var request models.LeaveRequest
	err := r.db.WithContext(ctx).First(&request, id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *leaveRequestRepository) Create(ctx context.Context, request *models.LeaveRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *leaveRequestRepository) Update(ctx context.Context, request *models.LeaveRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

func (r *leaveRequestRepository) HasOverlapping(ctx context.Context, employeeID uint, start, end time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.LeaveRequest{}).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{models.LeaveStatusPending, models.LeaveStatusApproved}).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Count(&count).Error
	return count > 0, err
}

func (r *leaveRequestRepository) List(ctx context.Context, query *LeaveRequestQuery) ([]models.LeaveRequest, int64, error) {
	var requests []models.LeaveRequest
	var total int64

	db := r.db.WithContext(ctx).Model(&models.LeaveRequest{})

	if query.EmployeeID > 0 {
		db = db.Where("employee_id = ?", query.EmployeeID)
	}
	if query.ManagerID > 0 {
		db = db.Where("reporting_manager_id = ?", query.ManagerID)
	}
	if query.LeaveTypeID > 0 {
		db = db.Where("leave_type_id = ?", query.LeaveTypeID)
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.Filters != nil {
		if val, ok := query.Filters["start_date"]; ok && val != "" {
			db = db.Where("start_date >= ?", val)
		}
		if val, ok := query.Filters["end_date"]; ok && val != "" {
			db = db.Where("end_date <= ?", val)
		}
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = db.Order("created_at DESC")
	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("LeaveType").Preload("Employee").Find(&requests).Error
	return requests, total, err
}
