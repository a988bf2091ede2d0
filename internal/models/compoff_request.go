package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CompOffSwapRequest covers both compensatory-off and swap applications.
// Accepting a comp-off credits the compensatory leave balance; accepting a
// swap only remaps the attendance calendar and never writes to the ledger.
// Rows are soft-deleted via IsDeleted, never physically removed.
type CompOffSwapRequest struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	GUID         string          `gorm:"size:36;uniqueIndex;not null" json:"guid"`
	EmployeeID   uint            `gorm:"not null;index" json:"employee_id"`
	RequestType  string          `gorm:"size:10;not null;index" json:"request_type"`
	WorkingDate  time.Time       `gorm:"type:date;not null;index" json:"working_date"`
	LeaveDate    *time.Time      `gorm:"type:date;index" json:"leave_date,omitempty"` // swap only
	Status       string          `gorm:"size:20;default:pending;not null;index" json:"status"`
	NumberOfDays decimal.Decimal `gorm:"type:numeric(4,2);not null" json:"number_of_days"`
	Reason       string          `gorm:"type:text" json:"reason"`
	RejectReason *string         `gorm:"type:text" json:"reject_reason,omitempty"`
	IsDeleted    bool            `gorm:"not null;default:false;index" json:"-"`
	DecidedAt    *time.Time      `json:"decided_at,omitempty"`
	DecidedBy    *uint           `json:"decided_by,omitempty"`
	CreatedAt    time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	// Associations
	Employee *Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}

// TableName specifies the table name for CompOffSwapRequest
func (CompOffSwapRequest) TableName() string {
	return "comp_off_swap_requests"
}

// Request type constants
const (
	RequestTypeCompOff = "comp_off"
	RequestTypeSwap    = "swap"
)

// Comp-off/swap status constants
const (
	CompOffStatusPending  = "pending"
	CompOffStatusAccepted = "accepted"
	CompOffStatusRejected = "rejected"
)

// MayAccept returns true if the request can be accepted
func (r *CompOffSwapRequest) MayAccept() bool {
	return r.Status == CompOffStatusPending && !r.IsDeleted
}

// MayReject returns true if the request can be rejected
func (r *CompOffSwapRequest) MayReject() bool {
	return r.Status == CompOffStatusPending && !r.IsDeleted
}

// CompOffSwapRequestResponse is the JSON response format
type CompOffSwapRequestResponse struct {
	ID           uint            `json:"id"`
	GUID         string          `json:"guid"`
	EmployeeID   uint            `json:"employee_id"`
	RequestType  string          `json:"request_type"`
	WorkingDate  time.Time       `json:"working_date"`
	LeaveDate    *time.Time      `json:"leave_date,omitempty"`
	Status       string          `json:"status"`
	NumberOfDays decimal.Decimal `json:"number_of_days"`
	Reason       string          `json:"reason"`
	RejectReason *string         `json:"reject_reason,omitempty"`
	DecidedAt    *time.Time      `json:"decided_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToResponse converts CompOffSwapRequest to CompOffSwapRequestResponse
func (r *CompOffSwapRequest) ToResponse() CompOffSwapRequestResponse {
	return CompOffSwapRequestResponse{
		ID:           r.ID,
		GUID:         r.GUID,
		EmployeeID:   r.EmployeeID,
		RequestType:  r.RequestType,
		WorkingDate:  r.WorkingDate,
		LeaveDate:    r.LeaveDate,
		Status:       r.Status,
		NumberOfDays: r.NumberOfDays,
		Reason:       r.Reason,
		RejectReason: r.RejectReason,
		DecidedAt:    r.DecidedAt,
		CreatedAt:    r.CreatedAt,
	}
}
