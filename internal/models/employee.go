package models

import (
	"time"
)

// Employee gender constants
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Employee role constants
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// Employee represents the employment master record. It is owned by the HR
// module and treated as read-only here; the leave engine only resolves the
// reporting manager and the active flag from it.
type Employee struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	FullName           string     `gorm:"size:120;not null" json:"full_name"`
	Email              string     `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Gender             string     `gorm:"size:10;not null" json:"gender"`
	Role               string     `gorm:"size:20;not null;default:employee" json:"role"`
	ReportingManagerID *uint      `gorm:"index" json:"reporting_manager_id,omitempty"`
	Active             bool       `gorm:"not null;default:true" json:"active"`
	JoinedAt           time.Time  `json:"joined_at"`
	DeactivatedAt      *time.Time `json:"deactivated_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	// Associations
	ReportingManager *Employee `gorm:"foreignKey:ReportingManagerID" json:"reporting_manager,omitempty"`
}

// TableName specifies the table name for Employee
func (Employee) TableName() string {
	return "employees"
}

// IsAdmin returns true if the employee has the admin role
func (e *Employee) IsAdmin() bool {
	return e.Role == RoleAdmin
}

// EmployeeResponse is the JSON response format for employees
type EmployeeResponse struct {
	ID                 uint   `json:"id"`
	FullName           string `json:"full_name"`
	Email              string `json:"email"`
	Gender             string `json:"gender"`
	Role               string `json:"role"`
	ReportingManagerID *uint  `json:"reporting_manager_id,omitempty"`
	Active             bool   `json:"active"`
}

// ToResponse converts Employee to EmployeeResponse
func (e *Employee) ToResponse() EmployeeResponse {
	return EmployeeResponse{
		ID:                 e.ID,
		FullName:           e.FullName,
		Email:              e.Email,
		Gender:             e.Gender,
		Role:               e.Role,
		ReportingManagerID: e.ReportingManagerID,
		Active:             e.Active,
	}
}
