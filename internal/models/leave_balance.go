package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeaveTypeBalance is the administratively-set baseline for one
// (employee, leave type) pair. The opening balance only seeds a fresh ledger
// chain; once entries exist the ledger is the source of truth. Rows are never
// deleted, only deactivated.
type LeaveTypeBalance struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	EmployeeID     uint            `gorm:"not null;uniqueIndex:idx_balance_employee_type" json:"employee_id"`
	LeaveTypeID    uint            `gorm:"not null;uniqueIndex:idx_balance_employee_type" json:"leave_type_id"`
	OpeningBalance decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0" json:"opening_balance"`
	IsActive       bool            `gorm:"not null;default:true" json:"is_active"`
	LastModifiedBy uint            `json:"last_modified_by"`
	LastModifiedAt time.Time       `json:"last_modified_at"`
	CreatedAt      time.Time       `json:"created_at"`

	// Associations
	Employee  *Employee  `gorm:"foreignKey:EmployeeID" json:"-"`
	LeaveType *LeaveType `gorm:"foreignKey:LeaveTypeID" json:"leave_type,omitempty"`
}

// TableName specifies the table name for LeaveTypeBalance
func (LeaveTypeBalance) TableName() string {
	return "leave_type_balances"
}

// BalanceSummary is the read-only composition returned by the balance query:
// the administratively-set opening baseline, the latest ledger closing
// balance and the utilization summed over the current calendar year. The
// year-to-date figure is display-only and never drives the next write.
type BalanceSummary struct {
	EmployeeID         uint            `json:"employee_id"`
	LeaveTypeID        uint            `json:"leave_type_id"`
	OpeningBalance     decimal.Decimal `json:"opening_balance"`
	ClosingBalance     decimal.Decimal `json:"closing_balance"`
	YearToDateUtilized decimal.Decimal `json:"year_to_date_utilized"`
}
