package repository

import (
	"context"

	"github.com/rohitjain-pio/hrms-leave-api/internal/models"
	"gorm.io/gorm"
)

// EmployeeRepository defines the read-only interface to the employment master
// data. The leave engine never mutates employees.
type EmployeeRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Employee, error)
	FindAdmins(ctx context.Context) ([]models.Employee, error)
	IsActive(ctx context.Context, id uint) (bool, error)
}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) FindByID(ctx context.Context, id uint) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).First(&employee, id).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) FindAdmins(ctx context.Context) ([]models.Employee, error) {
	var admins []models.Employee
	err := r.db.WithContext(ctx).
		Where("role = ? AND active = ?", models.RoleAdmin, true).
		Find(&admins).Error
	return admins, err
}

func (r *employeeRepository) IsActive(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("id = ? AND active = ?", id, true).
		Count(&count).Error
	return count > 0, err
}

// ListQuery represents common query parameters
type ListQuery struct {
	Page    int
	PerPage int
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}
