package services

import (
	"context"
	"time"

	"github.com/rohitjain-pio/hrms-leave-api/internal/models"
	"github.com/rohitjain-pio/hrms-leave-api/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// fakeUnitOfWork runs the callback against the supplied repositories without
// a real transaction.
type fakeUnitOfWork struct {
	repos *repository.Repositories
	err   error
}

func (f *fakeUnitOfWork) Do(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(f.repos)
}

// Mock EmployeeRepository (using embedding to avoid implementing all methods)
type mockEmployeeRepository struct {
	repository.EmployeeRepository
	mockFindByID   func(ctx context.Context, id uint) (*models.Employee, error)
	mockFindAdmins func(ctx context.Context) ([]models.Employee, error)
	mockIsActive   func(ctx context.Context, id uint) (bool, error)
}

func (m *mockEmployeeRepository) FindByID(ctx context.Context, id uint) (*models.Employee, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, nil
}

func (m *mockEmployeeRepository) FindAdmins(ctx context.Context) ([]models.Employee, error) {
	if m.mockFindAdmins != nil {
		return m.mockFindAdmins(ctx)
	}
	return nil, nil
}

func (m *mockEmployeeRepository) IsActive(ctx context.Context, id uint) (bool, error) {
	if m.mockIsActive != nil {
		return m.mockIsActive(ctx, id)
	}
	return true, nil
}

// Mock LeaveTypeRepository
type mockLeaveTypeRepository struct {
	repository.LeaveTypeRepository
	mockFindByID     func(ctx context.Context, id uint) (*models.LeaveType, error)
	mockFindByCode   func(ctx context.Context, code string) (*models.LeaveType, error)
	mockFindAccruing func(ctx context.Context) ([]models.LeaveType, error)
}

func (m *mockLeaveTypeRepository) FindByID(ctx context.Context, id uint) (*models.LeaveType, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, nil
}

func (m *mockLeaveTypeRepository) FindByCode(ctx context.Context, code string) (*models.LeaveType, error) {
	if m.mockFindByCode != nil {
		return m.mockFindByCode(ctx, code)
	}
	return nil, nil
}

func (m *mockLeaveTypeRepository) FindAccruing(ctx context.Context) ([]models.LeaveType, error) {
	if m.mockFindAccruing != nil {
		return m.mockFindAccruing(ctx)
	}
	return nil, nil
}

// Mock BalanceRepository
type mockBalanceRepository struct {
	repository.BalanceRepository
	mockFind                func(ctx context.Context, employeeID, leaveTypeID uint) (*models.LeaveTypeBalance, error)
	mockFindForUpdate       func(ctx context.Context, employeeID, leaveTypeID uint) (*models.LeaveTypeBalance, error)
	mockFindByEmployee      func(ctx context.Context, employeeID uint) ([]models.LeaveTypeBalance, error)
	mockUpdate              func(ctx context.Context, balance *models.LeaveTypeBalance) error
	mockFirstOrCreate       func(ctx context.Context, employeeID, leaveTypeID, actor uint) (*models.LeaveTypeBalance, error)
	mockEligibleEmployeeIDs func(ctx context.Context, leaveTypeID uint, genderRestriction string) ([]uint, error)
}

func (m *mockBalanceRepository) Find(ctx context.Context, employeeID, leaveTypeID uint) (*models.LeaveTypeBalance, error) {
	if m.mockFind != nil {
		return m.mockFind(ctx, employeeID, leaveTypeID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBalanceRepository) FindForUpdate(ctx context.Context, employeeID, leaveTypeID uint) (*models.LeaveTypeBalance, error) {
	if m.mockFindForUpdate != nil {
		return m.mockFindForUpdate(ctx, employeeID, leaveTypeID)
	}
	return nil, nil
}

func (m *mockBalanceRepository) FindByEmployee(ctx context.Context, employeeID uint) ([]models.LeaveTypeBalance, error) {
	if m.mockFindByEmployee != nil {
		return m.mockFindByEmployee(ctx, employeeID)
	}
	return nil, nil
}

func (m *mockBalanceRepository) Update(ctx context.Context, balance *models.LeaveTypeBalance) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, balance)
	}
	return nil
}

func (m *mockBalanceRepository) FirstOrCreate(ctx context.Context, employeeID, leaveTypeID, actor uint) (*models.LeaveTypeBalance, error) {
	if m.mockFirstOrCreate != nil {
		return m.mockFirstOrCreate(ctx, employeeID, leaveTypeID, actor)
	}
	return &models.LeaveTypeBalance{EmployeeID: employeeID, LeaveTypeID: leaveTypeID, IsActive: true}, nil
}

func (m *mockBalanceRepository) EligibleEmployeeIDs(ctx context.Context, leaveTypeID uint, genderRestriction string) ([]uint, error) {
	if m.mockEligibleEmployeeIDs != nil {
		return m.mockEligibleEmployeeIDs(ctx, leaveTypeID, genderRestriction)
	}
	return nil, nil
}

// Mock LedgerRepository
type mockLedgerRepository struct {
	repository.LedgerRepository
	mockAppendEntry        func(ctx context.Context, in repository.LedgerAppend) (*models.LeaveLedgerEntry, error)
	mockLatestEntry        func(ctx context.Context, employeeID, leaveTypeID uint) (*models.LeaveLedgerEntry, error)
	mockCurrentClosing     func(ctx context.Context, employeeID, leaveTypeID uint) (decimal.Decimal, error)
	mockYearToDateUtilized func(ctx context.Context, employeeID, leaveTypeID uint, year int) (decimal.Decimal, error)
	mockHasMonthlyAccrual  func(ctx context.Context, leaveTypeID uint, description string) (bool, error)
}

func (m *mockLedgerRepository) AppendEntry(ctx context.Context, in repository.LedgerAppend) (*models.LeaveLedgerEntry, error) {
	if m.mockAppendEntry != nil {
		return m.mockAppendEntry(ctx, in)
	}
	return &models.LeaveLedgerEntry{}, nil
}

func (m *mockLedgerRepository) LatestEntry(ctx context.Context, employeeID, leaveTypeID uint) (*models.LeaveLedgerEntry, error) {
	if m.mockLatestEntry != nil {
		return m.mockLatestEntry(ctx, employeeID, leaveTypeID)
	}
	return nil, nil
}

func (m *mockLedgerRepository) CurrentClosing(ctx context.Context, employeeID, leaveTypeID uint) (decimal.Decimal, error) {
	if m.mockCurrentClosing != nil {
		return m.mockCurrentClosing(ctx, employeeID, leaveTypeID)
	}
	return decimal.Zero, nil
}

func (m *mockLedgerRepository) YearToDateUtilized(ctx context.Context, employeeID, leaveTypeID uint, year int) (decimal.Decimal, error) {
	if m.mockYearToDateUtilized != nil {
		return m.mockYearToDateUtilized(ctx, employeeID, leaveTypeID, year)
	}
	return decimal.Zero, nil
}

func (m *mockLedgerRepository) HasMonthlyAccrual(ctx context.Context, leaveTypeID uint, description string) (bool, error) {
	if m.mockHasMonthlyAccrual != nil {
		return m.mockHasMonthlyAccrual(ctx, leaveTypeID, description)
	}
	return false, nil
}

// Mock LeaveRequestRepository
type mockLeaveRequestRepository struct {
	repository.LeaveRequestRepository
	mockFindByID       func(ctx context.Context, id uint) (*models.LeaveRequest, error)
	mockCreate         func(ctx context.Context, request *models.LeaveRequest) error
	mockUpdate         func(ctx context.Context, request *models.LeaveRequest) error
	mockHasOverlapping func(ctx context.Context, employeeID uint, start, end time.Time) (bool, error)
}

func (m *mockLeaveRequestRepository) FindByID(ctx context.Context, id uint) (*models.LeaveRequest, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, nil
}

func (m *mockLeaveRequestRepository) Create(ctx context.Context, request *models.LeaveRequest) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, request)
	}
	return nil
}

func (m *mockLeaveRequestRepository) Update(ctx context.Context, request *models.LeaveRequest) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, request)
	}
	return nil
}

func (m *mockLeaveRequestRepository) HasOverlapping(ctx context.Context, employeeID uint, start, end time.Time) (bool, error) {
	if m.mockHasOverlapping != nil {
		return m.mockHasOverlapping(ctx, employeeID, start, end)
	}
	return false, nil
}

// Mock CompOffSwapRepository
type mockCompOffSwapRepository struct {
	repository.CompOffSwapRepository
	mockFindByID                 func(ctx context.Context, id uint) (*models.CompOffSwapRequest, error)
	mockCreate                   func(ctx context.Context, request *models.CompOffSwapRequest) error
	mockUpdate                   func(ctx context.Context, request *models.CompOffSwapRequest) error
	mockSoftDelete               func(ctx context.Context, id uint) error
	mockHasCompOffForWorkingDate func(ctx context.Context, employeeID uint, workingDate time.Time) (bool, error)
	mockHasSwapForLeaveDate      func(ctx context.Context, employeeID uint, leaveDate time.Time) (bool, error)
}

func (m *mockCompOffSwapRepository) FindByID(ctx context.Context, id uint) (*models.CompOffSwapRequest, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, nil
}

func (m *mockCompOffSwapRepository) Create(ctx context.Context, request *models.CompOffSwapRequest) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, request)
	}
	return nil
}

func (m *mockCompOffSwapRepository) Update(ctx context.Context, request *models.CompOffSwapRequest) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, request)
	}
	return nil
}

func (m *mockCompOffSwapRepository) SoftDelete(ctx context.Context, id uint) error {
	if m.mockSoftDelete != nil {
		return m.mockSoftDelete(ctx, id)
	}
	return nil
}

func (m *mockCompOffSwapRepository) HasCompOffForWorkingDate(ctx context.Context, employeeID uint, workingDate time.Time) (bool, error) {
	if m.mockHasCompOffForWorkingDate != nil {
		return m.mockHasCompOffForWorkingDate(ctx, employeeID, workingDate)
	}
	return false, nil
}

func (m *mockCompOffSwapRepository) HasSwapForLeaveDate(ctx context.Context, employeeID uint, leaveDate time.Time) (bool, error) {
	if m.mockHasSwapForLeaveDate != nil {
		return m.mockHasSwapForLeaveDate(ctx, employeeID, leaveDate)
	}
	return false, nil
}

// Mock NotificationRepository
type mockNotificationRepository struct {
	repository.NotificationRepository
	mockCreate func(ctx context.Context, notification *models.Notification) error
}

func (m *mockNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, notification)
	}
	return nil
}

// Mock AuditLogger
type mockAuditLogger struct {
	mockLog func(ctx context.Context, employeeID uint, action, entity string, entityID uint, details, ip, userAgent string) error
}

func (m *mockAuditLogger) Log(ctx context.Context, employeeID uint, action, entity string, entityID uint, details, ip, userAgent string) error {
	if m.mockLog != nil {
		return m.mockLog(ctx, employeeID, action, entity, entityID, details, ip, userAgent)
	}
	return nil
}
