package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Employee     EmployeeRepository
	LeaveType    LeaveTypeRepository
	Balance      BalanceRepository
	Ledger       LedgerRepository
	LeaveRequest LeaveRequestRepository
	CompOffSwap  CompOffSwapRepository
	Notification NotificationRepository
}

// NewRepositories creates all repository instances bound to the given handle,
// which may be the root connection or a transaction.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Employee:     NewEmployeeRepository(db),
		LeaveType:    NewLeaveTypeRepository(db),
		Balance:      NewBalanceRepository(db),
		Ledger:       NewLedgerRepository(db),
		LeaveRequest: NewLeaveRequestRepository(db),
		CompOffSwap:  NewCompOffSwapRepository(db),
		Notification: NewNotificationRepository(db),
	}
}

// UnitOfWork scopes a group of repository writes to one atomic transaction.
// The callback receives repositories bound to the transaction; returning an
// error rolls everything back, so a failed unit leaves no partial state.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos *Repositories) error) error
}

type gormUnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates a transaction-backed unit of work
func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func (u *gormUnitOfWork) Do(ctx context.Context, fn func(repos *Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
