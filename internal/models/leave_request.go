package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeaveRequest represents an employee's leave application. The balance debit
// happens at submission; approval never touches the ledger and rejection
// credits the days back. Terminal states are final.
type LeaveRequest struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	GUID               string          `gorm:"size:36;uniqueIndex;not null" json:"guid"`
	EmployeeID         uint            `gorm:"not null;index" json:"employee_id"`
	LeaveTypeID        uint            `gorm:"not null;index" json:"leave_type_id"`
	ReportingManagerID uint            `gorm:"not null;index" json:"reporting_manager_id"` // resolved at submission, never re-resolved
	Status             string          `gorm:"size:20;default:pending;not null;index" json:"status"`
	StartDate          time.Time       `gorm:"type:date;not null;index" json:"start_date"`
	StartSlot          string          `gorm:"size:10;default:full;not null" json:"start_slot"`
	EndDate            time.Time       `gorm:"type:date;not null;index" json:"end_date"`
	EndSlot            string          `gorm:"size:10;default:full;not null" json:"end_slot"`
	TotalDays          decimal.Decimal `gorm:"type:numeric(6,2);not null" json:"total_days"` // pre-computed at submission
	Reason             string          `gorm:"type:text" json:"reason"`
	RejectReason       *string         `gorm:"type:text" json:"reject_reason,omitempty"`
	AttachmentPath     *string         `json:"-"`
	DecidedAt          *time.Time      `json:"decided_at,omitempty"`
	DecidedBy          *uint           `json:"decided_by,omitempty"`
	CreatedAt          time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`

	// Associations
	Employee  *Employee  `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	LeaveType *LeaveType `gorm:"foreignKey:LeaveTypeID" json:"leave_type,omitempty"`
}

// TableName specifies the table name for LeaveRequest
func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// Leave request status constants
const (
	LeaveStatusPending  = "pending"
	LeaveStatusApproved = "approved"
	LeaveStatusRejected = "rejected"
)

// Day slot constants (half-day support)
const (
	SlotFullDay    = "full"
	SlotFirstHalf  = "first_half"
	SlotSecondHalf = "second_half"
)

// MayApprove returns true if the request can be approved
func (r *LeaveRequest) MayApprove() bool {
	return r.Status == LeaveStatusPending
}

// MayReject returns true if the request can be rejected
func (r *LeaveRequest) MayReject() bool {
	return r.Status == LeaveStatusPending
}

// Overlaps reports whether [r.StartDate, r.EndDate] intersects the given
// range, using the closed-interval test existing.start <= new.end AND
// existing.end >= new.start.
func (r *LeaveRequest) Overlaps(start, end time.Time) bool {
	return !r.StartDate.After(end) && !r.EndDate.Before(start)
}

// LeaveRequestResponse is the JSON response format for leave requests
type LeaveRequestResponse struct {
	ID                 uint            `json:"id"`
	GUID               string          `json:"guid"`
	EmployeeID         uint            `json:"employee_id"`
	LeaveTypeID        uint            `json:"leave_type_id"`
	ReportingManagerID uint            `json:"reporting_manager_id"`
	Status             string          `json:"status"`
	StartDate          time.Time       `json:"start_date"`
	StartSlot          string          `json:"start_slot"`
	EndDate            time.Time       `json:"end_date"`
	EndSlot            string          `json:"end_slot"`
	TotalDays          decimal.Decimal `json:"total_days"`
	Reason             string          `json:"reason"`
	RejectReason       *string         `json:"reject_reason,omitempty"`
	DecidedAt          *time.Time      `json:"decided_at,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// ToResponse converts LeaveRequest to LeaveRequestResponse
func (r *LeaveRequest) ToResponse() LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:                 r.ID,
		GUID:               r.GUID,
		EmployeeID:         r.EmployeeID,
		LeaveTypeID:        r.LeaveTypeID,
		ReportingManagerID: r.ReportingManagerID,
		Status:             r.Status,
		StartDate:          r.StartDate,
		StartSlot:          r.StartSlot,
		EndDate:            r.EndDate,
		EndSlot:            r.EndSlot,
		TotalDays:          r.TotalDays,
		Reason:             r.Reason,
		RejectReason:       r.RejectReason,
		DecidedAt:          r.DecidedAt,
		CreatedAt:          r.CreatedAt,
	}
}
