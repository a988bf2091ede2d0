package services

import (
	"context"
	"testing"
	"time"

	"github.com/rohitjain-pio/hrms-leave-api/internal/jobs"
	"github.com/rohitjain-pio/hrms-leave-api/internal/models"
	"github.com/rohitjain-pio/hrms-leave-api/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type compOffServiceMocks struct {
	repo          *mockCompOffSwapRepository
	leaveTypeRepo *mockLeaveTypeRepository
	balanceRepo   *mockBalanceRepository
	ledgerRepo    *mockLedgerRepository
}

func newTestCompOffService(m *compOffServiceMocks) *CompOffService {
	if m.leaveTypeRepo == nil {
		m.leaveTypeRepo = &mockLeaveTypeRepository{
			mockFindByCode: func(ctx context.Context, code string) (*models.LeaveType, error) {
				return &models.LeaveType{ID: 9, Code: code, Name: "Compensatory Leave", Active: true}, nil
			},
		}
	}
	employeeRepo := &mockEmployeeRepository{}
	uow := &fakeUnitOfWork{repos: &repository.Repositories{
		CompOffSwap: m.repo,
		Balance:     m.balanceRepo,
		Ledger:      m.ledgerRepo,
	}}
	notifSvc := NewNotificationService(&mockNotificationRepository{}, employeeRepo)
	worker := jobs.NewWorker(0)

	return NewCompOffService(m.repo, employeeRepo, m.leaveTypeRepo, uow, notifSvc, &mockAuditLogger{}, worker)
}

func TestApplyCompOff_CreatesPendingRequest(t *testing.T) {
	var created *models.CompOffSwapRequest
	m := &compOffServiceMocks{
		repo: &mockCompOffSwapRepository{
			mockCreate: func(ctx context.Context, request *models.CompOffSwapRequest) error {
				created = request
				return nil
			},
		},
		balanceRepo: &mockBalanceRepository{},
		ledgerRepo:  &mockLedgerRepository{},
	}
	svc := newTestCompOffService(m)

	request, err := svc.ApplyCompOff(context.Background(), ApplyCompOffInput{
		EmployeeID:   7,
		WorkingDate:  date("2025-03-15"),
		NumberOfDays: decimal.NewFromInt(1),
		Reason:       "Worked on release weekend",
	})

	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.Equal(t, models.RequestTypeCompOff, request.RequestType)
	assert.Equal(t, models.CompOffStatusPending, request.Status)
	assert.Nil(t, request.LeaveDate)
}

func TestApplyCompOff_DuplicateWorkingDate(t *testing.T) {
	m := &compOffServiceMocks{
		repo: &mockCompOffSwapRepository{
			mockHasCompOffForWorkingDate: func(ctx context.Context, employeeID uint, workingDate time.Time) (bool, error) {
				return true, nil
			},
		},
		balanceRepo: &mockBalanceRepository{},
		ledgerRepo:  &mockLedgerRepository{},
	}
	svc := newTestCompOffService(m)

	_, err := svc.ApplyCompOff(context.Background(), ApplyCompOffInput{
		EmployeeID:   7,
		WorkingDate:  date("2025-03-15"),
		NumberOfDays: decimal.NewFromInt(1),
		Reason:       "Second claim for the same day",
	})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestApplyCompOff_InactiveEmployee(t *testing.T) {
	m := &compOffServiceMocks{
		repo:        &mockCompOffSwapRepository{},
		balanceRepo: &mockBalanceRepository{},
		ledgerRepo:  &mockLedgerRepository{},
	}
	svc := newTestCompOffService(m)
	svc.employeeRepo = &mockEmployeeRepository{
		mockIsActive: func(ctx context.Context, id uint) (bool, error) { return false, nil },
	}

	_, err := svc.ApplyCompOff(context.Background(), ApplyCompOffInput{
		EmployeeID:   7,
		WorkingDate:  date("2025-03-15"),
		NumberOfDays: decimal.NewFromInt(1),
		Reason:       "Former employee",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApplySwap_SetsLeaveDateAndSingleDay(t *testing.T) {
	var created *models.CompOffSwapRequest
	m := &compOffServiceMocks{
		repo: &mockCompOffSwapRepository{
			mockCreate: func(ctx context.Context, request *models.CompOffSwapRequest) error {
				created = request
				return nil
			},
		},
		balanceRepo: &mockBalanceRepository{},
		ledgerRepo:  &mockLedgerRepository{},
	}
	svc := newTestCompOffService(m)

	request, err := svc.ApplySwap(context.Background(), ApplySwapInput{
		EmployeeID:  7,
		WorkingDate: date("2025-03-15"),
		LeaveDate:   date("2025-03-21"),
		Reason:      "Festival",
	})

	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.Equal(t, models.RequestTypeSwap, request.RequestType)
	assert.True(t, request.NumberOfDays.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, date("2025-03-21"), *request.LeaveDate)
}

func pendingCompOff(id uint) *models.CompOffSwapRequest {
	return &models.CompOffSwapRequest{
		ID:           id,
		GUID:         "c9d2",
		EmployeeID:   7,
		RequestType:  models.RequestTypeCompOff,
		WorkingDate:  date("2025-03-15"),
		Status:       models.CompOffStatusPending,
		NumberOfDays: decimal.NewFromInt(1),
	}
}

func TestDecideCompOff_AcceptCreditsCompensatoryBalance(t *testing.T) {
	var appended *repository.LedgerAppend
	firstOrCreateCalled := false

	m := &compOffServiceMocks{
		repo: &mockCompOffSwapRepository{
			mockFindByID: func(ctx context.Context, id uint) (*models.CompOffSwapRequest, error) {
				return pendingCompOff(id), nil
			},
		},
		balanceRepo: &mockBalanceRepository{
			mockFirstOrCreate: func(ctx context.Context, employeeID, leaveTypeID, actor uint) (*models.LeaveTypeBalance, error) {
				firstOrCreateCalled = true
				assert.Equal(t, uint(9), leaveTypeID)
				return &models.LeaveTypeBalance{EmployeeID: employeeID, LeaveTypeID: leaveTypeID, IsActive: true}, nil
			},
		},
		ledgerRepo: &mockLedgerRepository{
			mockAppendEntry: func(ctx context.Context, in repository.LedgerAppend) (*models.LeaveLedgerEntry, error) {
				appended = &in
				return &models.LeaveLedgerEntry{}, nil
			},
		},
	}
	svc := newTestCompOffService(m)

	request, err := svc.Decide(context.Background(), 3, true, "", 42, "", "")

	assert.NoError(t, err)
	assert.Equal(t, models.CompOffStatusAccepted, request.Status)
	assert.True(t, firstOrCreateCalled, "balance row must be ensured before the credit")
	assert.NotNil(t, appended)
	assert.True(t, appended.Accrued.Valid)
	assert.True(t, appended.Accrued.Decimal.Equal(decimal.NewFromInt(1)))
	assert.False(t, appended.Utilized.Valid)
	assert.Equal(t, uint(9), appended.LeaveTypeID)
}

func TestDecideSwap_AcceptLeavesLedgerAlone(t *testing.T) {
	appendCalled := false

	m := &compOffServiceMocks{
		repo: &mockCompOffSwapRepository{
			mockFindByID: func(ctx context.Context, id uint) (*models.CompOffSwapRequest, error) {
				request := pendingCompOff(id)
				request.RequestType = models.RequestTypeSwap
				leaveDate := date("2025-03-21")
				request.LeaveDate = &leaveDate
				return request, nil
			},
		},
		balanceRepo: &mockBalanceRepository{},
		ledgerRepo: &mockLedgerRepository{
			mockAppendEntry: func(ctx context.Context, in repository.LedgerAppend) (*models.LeaveLedgerEntry, error) {
				appendCalled = true
				return &models.LeaveLedgerEntry{}, nil
			},
		},
	}
	svc := newTestCompOffService(m)

	request, err := svc.Decide(context.Background(), 3, true, "", 42, "", "")

	assert.NoError(t, err)
	assert.Equal(t, models.CompOffStatusAccepted, request.Status)
	assert.False(t, appendCalled, "swap acceptance must not write a ledger entry")
}

func TestDecideCompOff_RejectLeavesLedgerAlone(t *testing.T) {
	appendCalled := false

	m := &compOffServiceMocks{
		repo: &mockCompOffSwapRepository{
			mockFindByID: func(ctx context.Context, id uint) (*models.CompOffSwapRequest, error) {
				return pendingCompOff(id), nil
			},
		},
		balanceRepo: &mockBalanceRepository{},
		ledgerRepo: &mockLedgerRepository{
			mockAppendEntry: func(ctx context.Context, in repository.LedgerAppend) (*models.LeaveLedgerEntry, error) {
				appendCalled = true
				return &models.LeaveLedgerEntry{}, nil
			},
		},
	}
	svc := newTestCompOffService(m)

	request, err := svc.Decide(context.Background(), 3, false, "not verified", 42, "", "")

	assert.NoError(t, err)
	assert.Equal(t, models.CompOffStatusRejected, request.Status)
	assert.Equal(t, "not verified", *request.RejectReason)
	assert.False(t, appendCalled, "rejection must not write a ledger entry")
}

func TestDecideCompOff_AlreadyDecided(t *testing.T) {
	m := &compOffServiceMocks{
		repo: &mockCompOffSwapRepository{
			mockFindByID: func(ctx context.Context, id uint) (*models.CompOffSwapRequest, error) {
				request := pendingCompOff(id)
				request.Status = models.CompOffStatusAccepted
				return request, nil
			},
		},
		balanceRepo: &mockBalanceRepository{},
		ledgerRepo:  &mockLedgerRepository{},
	}
	svc := newTestCompOffService(m)

	_, err := svc.Decide(context.Background(), 3, true, "", 42, "", "")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestDeleteCompOff_SoftDeletes(t *testing.T) {
	softDeleted := false
	m := &compOffServiceMocks{
		repo: &mockCompOffSwapRepository{
			mockFindByID: func(ctx context.Context, id uint) (*models.CompOffSwapRequest, error) {
				return pendingCompOff(id), nil
			},
			mockSoftDelete: func(ctx context.Context, id uint) error {
				softDeleted = true
				return nil
			},
		},
		balanceRepo: &mockBalanceRepository{},
		ledgerRepo:  &mockLedgerRepository{},
	}
	svc := newTestCompOffService(m)

	assert.NoError(t, svc.Delete(context.Background(), 3))
	assert.True(t, softDeleted)
}
