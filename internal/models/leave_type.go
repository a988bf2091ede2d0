package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Well-known leave type codes
const (
	LeaveTypeCodeCasual       = "CL"
	LeaveTypeCodeEarned       = "EL"
	LeaveTypeCodeBereavement  = "BL"
	LeaveTypeCodeParental     = "PL"
	LeaveTypeCodeCompensatory = "CO"
	LeaveTypeCodeAdvance      = "AL"
	LeaveTypeCodeBucket       = "BK"
)

// LeaveType defines one category of leave and its accrual policy. The accrual
// columns are operational parameters: the scheduler reads them and passes them
// explicitly into the monthly credit run, they are never read as ambient state
// by the engine itself.
type LeaveType struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:60;not null" json:"name"`
	Code string `gorm:"size:4;uniqueIndex;not null" json:"code"`

	// Optional gender restriction (e.g. maternity/paternity). Empty = any.
	GenderRestriction string `gorm:"size:10" json:"gender_restriction,omitempty"`

	// Accrual policy. MonthlyCredit zero means the type is never auto-credited.
	MonthlyCredit  decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0" json:"monthly_credit"`
	CarryOverLimit decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0" json:"carry_over_limit"`
	CarryOverMonth int             `gorm:"not null;default:0" json:"carry_over_month"` // 1-12, 0 = none

	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for LeaveType
func (LeaveType) TableName() string {
	return "leave_types"
}

// AllowsGender returns true if the leave type is consumable by the given gender
func (t *LeaveType) AllowsGender(gender string) bool {
	return t.GenderRestriction == "" || t.GenderRestriction == gender
}

// Accrues returns true if the type participates in the monthly credit run
func (t *LeaveType) Accrues() bool {
	return t.Active && t.MonthlyCredit.IsPositive()
}
