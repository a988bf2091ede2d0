package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeaveLedgerEntry is one immutable row in the append-only balance ledger.
// Every accrual, utilization, reversal and manual adjustment is recorded here
// together with a snapshot of the balance immediately after the entry.
//
// Chain invariant per (employee_id, leave_type_id), ordered by id:
//
//	closing(n) = closing(n-1) + accrued(n) - utilized(n)
//
// with the opening balance of the LeaveTypeBalance row seeding the first
// entry. Rows are never updated or deleted; corrections are new entries.
type LeaveLedgerEntry struct {
	ID            uint                `gorm:"primaryKey" json:"id"`
	EmployeeID    uint                `gorm:"not null;index:idx_ledger_employee_type" json:"employee_id"`
	LeaveTypeID   uint                `gorm:"not null;index:idx_ledger_employee_type" json:"leave_type_id"`
	EffectiveDate time.Time           `gorm:"not null;index" json:"effective_date"`
	Description   string              `gorm:"size:255;not null" json:"description"`
	Accrued       decimal.NullDecimal `gorm:"type:numeric(8,2)" json:"accrued"`
	// Utilized is positive for a debit (leave taken) and negative for a
	// credit-back (rejection reversal).
	Utilized       decimal.NullDecimal `gorm:"type:numeric(8,2)" json:"utilized"`
	ClosingBalance decimal.Decimal     `gorm:"type:numeric(8,2);not null" json:"closing_balance"`
	CreatedBy      uint                `gorm:"not null" json:"created_by"`
	CreatedAt      time.Time           `gorm:"index" json:"created_at"`

	// Associations
	Employee  *Employee  `gorm:"foreignKey:EmployeeID" json:"-"`
	LeaveType *LeaveType `gorm:"foreignKey:LeaveTypeID" json:"leave_type,omitempty"`
}

// TableName specifies the table name for LeaveLedgerEntry
func (LeaveLedgerEntry) TableName() string {
	return "leave_ledger_entries"
}

// AccruedAmount returns the accrued amount or zero when the column is null
func (e *LeaveLedgerEntry) AccruedAmount() decimal.Decimal {
	if !e.Accrued.Valid {
		return decimal.Zero
	}
	return e.Accrued.Decimal
}

// UtilizedAmount returns the utilized amount or zero when the column is null
func (e *LeaveLedgerEntry) UtilizedAmount() decimal.Decimal {
	if !e.Utilized.Valid {
		return decimal.Zero
	}
	return e.Utilized.Decimal
}

// LeaveLedgerEntryResponse is the JSON response format for ledger entries
type LeaveLedgerEntryResponse struct {
	ID             uint                `json:"id"`
	EmployeeID     uint                `json:"employee_id"`
	LeaveTypeID    uint                `json:"leave_type_id"`
	EffectiveDate  time.Time           `json:"effective_date"`
	Description    string              `json:"description"`
	Accrued        decimal.NullDecimal `json:"accrued"`
	Utilized       decimal.NullDecimal `json:"utilized"`
	ClosingBalance decimal.Decimal     `json:"closing_balance"`
	CreatedBy      uint                `json:"created_by"`
	CreatedAt      time.Time           `json:"created_at"`
}

// ToResponse converts LeaveLedgerEntry to LeaveLedgerEntryResponse
func (e *LeaveLedgerEntry) ToResponse() LeaveLedgerEntryResponse {
	return LeaveLedgerEntryResponse{
		ID:             e.ID,
		EmployeeID:     e.EmployeeID,
		LeaveTypeID:    e.LeaveTypeID,
		EffectiveDate:  e.EffectiveDate,
		Description:    e.Description,
		Accrued:        e.Accrued,
		Utilized:       e.Utilized,
		ClosingBalance: e.ClosingBalance,
		CreatedBy:      e.CreatedBy,
		CreatedAt:      e.CreatedAt,
	}
}
