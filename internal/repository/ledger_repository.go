package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rohitjain-pio/hrms-leave-api/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerAppend carries the inputs for one ledger entry. Accrued must be
// positive when set; Utilized is positive for a debit and negative for a
// credit-back. The closing balance is never supplied by the caller - it is
// computed from the chain inside the same transaction as the insert.
type LedgerAppend struct {
	EmployeeID    uint
	LeaveTypeID   uint
	EffectiveDate time.Time
	Description   string
	Accrued       decimal.NullDecimal
	Utilized      decimal.NullDecimal
	CreatedBy     uint
}

// LedgerRepository defines the interface for the append-only leave ledger.
// There is no update or delete: corrections are new entries.
type LedgerRepository interface {
	// AppendEntry reads the latest closing balance for the key inside the
	// caller's transaction, computes the new closing balance and inserts
	// exactly one row. It must run inside a UnitOfWork; it never opens its
	// own transaction.
	AppendEntry(ctx context.Context, in LedgerAppend) (*models.LeaveLedgerEntry, error)
	LatestEntry(ctx context.Context, employeeID, leaveTypeID uint) (*models.LeaveLedgerEntry, error)
	CurrentClosing(ctx context.Context, employeeID, leaveTypeID uint) (decimal.Decimal, error)
	YearToDateUtilized(ctx context.Context, employeeID, leaveTypeID uint, year int) (decimal.Decimal, error)
	// HasMonthlyAccrual reports whether an accrual entry with the given
	// description already exists for the leave type. The monthly credit run
	// embeds the cycle month in its description, so this is its idempotence
	// check.
	HasMonthlyAccrual(ctx context.Context, leaveTypeID uint, description string) (bool, error)
	History(ctx context.Context, employeeID uint, query *ListQuery) ([]models.LeaveLedgerEntry, int64, error)
}

// NextClosing applies one entry's movement to the prior closing balance. A
// chain with no prior entry starts from the opening balance, or zero when no
// balance row exists.
func NextClosing(prior decimal.Decimal, accrued, utilized decimal.NullDecimal) decimal.Decimal {
	if accrued.Valid {
		prior = prior.Add(accrued.Decimal)
	}
	if utilized.Valid {
		prior = prior.Sub(utilized.Decimal)
	}
	return prior
}

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) AppendEntry(ctx context.Context, in LedgerAppend) (*models.LeaveLedgerEntry, error) {
	// Lock the baseline row for the key so concurrent writers serialize on
	// the store instead of computing the same stale closing balance. A key
	// without a row yet gets a zero-opening row seeded here, so every append
	// has something to lock.
	lock := clause.Locking{Strength: "UPDATE"}
	var balance models.LeaveTypeBalance
	err := r.db.WithContext(ctx).
		Clauses(lock).
		Where("employee_id = ? AND leave_type_id = ?", in.EmployeeID, in.LeaveTypeID).
		First(&balance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		seed := models.LeaveTypeBalance{
			EmployeeID:     in.EmployeeID,
			LeaveTypeID:    in.LeaveTypeID,
			OpeningBalance: decimal.Zero,
			IsActive:       true,
			LastModifiedBy: in.CreatedBy,
			LastModifiedAt: time.Now(),
		}
		// A concurrent append may win the insert; fall through to the lock
		// either way.
		if err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&seed).Error; err != nil {
			return nil, err
		}
		err = r.db.WithContext(ctx).
			Clauses(lock).
			Where("employee_id = ? AND leave_type_id = ?", in.EmployeeID, in.LeaveTypeID).
			First(&balance).Error
	}
	if err != nil {
		return nil, err
	}

	prior := balance.OpeningBalance
	last, err := r.LatestEntry(ctx, in.EmployeeID, in.LeaveTypeID)
	if err != nil {
		return nil, err
	}
	if last != nil {
		prior = last.ClosingBalance
	}

	closing := NextClosing(prior, in.Accrued, in.Utilized)

	entry := &models.LeaveLedgerEntry{
		EmployeeID:     in.EmployeeID,
		LeaveTypeID:    in.LeaveTypeID,
		EffectiveDate:  in.EffectiveDate,
		Description:    in.Description,
		Accrued:        in.Accrued,
		Utilized:       in.Utilized,
		ClosingBalance: closing,
		CreatedBy:      in.CreatedBy,
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// LatestEntry returns the most recent entry for the key, or nil when the
// chain is empty.
func (r *ledgerRepository) LatestEntry(ctx context.Context, employeeID, leaveTypeID uint) (*models.LeaveLedgerEntry, error) {
	var entry models.LeaveLedgerEntry
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND leave_type_id = ?", employeeID, leaveTypeID).
		Order("id DESC").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *ledgerRepository) CurrentClosing(ctx context.Context, employeeID, leaveTypeID uint) (decimal.Decimal, error) {
	last, err := r.LatestEntry(ctx, employeeID, leaveTypeID)
	if err != nil {
		return decimal.Zero, err
	}
	if last != nil {
		return last.ClosingBalance, nil
	}

	// Cold start: the opening balance seeds a fresh chain.
	var balance models.LeaveTypeBalance
	err = r.db.WithContext(ctx).
		Where("employee_id = ? AND leave_type_id = ?", employeeID, leaveTypeID).
		First(&balance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return balance.OpeningBalance, nil
}

// YearToDateUtilized sums the utilized column for the calendar year. Display
// only; the next write never depends on it.
func (r *ledgerRepository) YearToDateUtilized(ctx context.Context, employeeID, leaveTypeID uint, year int) (decimal.Decimal, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	var result struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.LeaveLedgerEntry{}).
		Select("COALESCE(SUM(utilized), 0) as total").
		Where("employee_id = ? AND leave_type_id = ?", employeeID, leaveTypeID).
		Where("utilized IS NOT NULL").
		Where("created_at >= ? AND created_at < ?", from, to).
		Scan(&result).Error
	return result.Total, err
}

func (r *ledgerRepository) HasMonthlyAccrual(ctx context.Context, leaveTypeID uint, description string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.LeaveLedgerEntry{}).
		Where("leave_type_id = ? AND description = ?", leaveTypeID, description).
		Where("accrued IS NOT NULL").
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

// ledgerSortColumns whitelists the sortable history columns
var ledgerSortColumns = map[string]string{
	"id":             "id",
	"effective_date": "effective_date",
	"created_at":     "created_at",
}

func (r *ledgerRepository) History(ctx context.Context, employeeID uint, query *ListQuery) ([]models.LeaveLedgerEntry, int64, error) {
	var entries []models.LeaveLedgerEntry
	var total int64

	db := r.db.WithContext(ctx).
		Model(&models.LeaveLedgerEntry{}).
		Where("employee_id = ?", employeeID)

	// Optional filters are ANDed.
	if val, ok := query.Filters["leave_type_id"]; ok && val != "" {
		db = db.Where("leave_type_id = ?", val)
	}
	if val, ok := query.Filters["start_date"]; ok && val != "" {
		db = db.Where("effective_date >= ?", val)
	}
	if val, ok := query.Filters["end_date"]; ok && val != "" {
		// Include the full day if only a date is provided
		if len(val) == 10 { // YYYY-MM-DD
			val += " 23:59:59"
		}
		db = db.Where("effective_date <= ?", val)
	}

	countDB := db.Session(&gorm.Session{})
	if err := countDB.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Whitelisted sort; default is insertion order, newest first.
	order := "id DESC"
	if col, ok := ledgerSortColumns[query.SortBy]; ok {
		order = col
		if query.SortDir == "desc" {
			order += " DESC"
		}
	}
	db = db.Order(order)

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("LeaveType").Find(&entries).Error
	return entries, total, err
}
