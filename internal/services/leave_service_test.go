package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rohitjain-pio/hrms-leave-api/internal/jobs"
	"github.com/rohitjain-pio/hrms-leave-api/internal/models"
	"github.com/rohitjain-pio/hrms-leave-api/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func managedEmployee(id, managerID uint) *models.Employee {
	return &models.Employee{
		ID:                 id,
		FullName:           "Priya Sharma",
		Gender:             models.GenderFemale,
		Role:               models.RoleEmployee,
		ReportingManagerID: &managerID,
		Active:             true,
	}
}

func activeLeaveType(id uint) *models.LeaveType {
	return &models.LeaveType{ID: id, Code: models.LeaveTypeCodeCasual, Name: "Casual Leave", Active: true}
}

type leaveServiceMocks struct {
	requestRepo *mockLeaveRequestRepository
	ledgerRepo  *mockLedgerRepository
	balanceRepo *mockBalanceRepository
}

func newTestLeaveService(m *leaveServiceMocks) *LeaveService {
	employeeRepo := &mockEmployeeRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Employee, error) {
			return managedEmployee(id, 42), nil
		},
	}
	leaveTypeRepo := &mockLeaveTypeRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.LeaveType, error) {
			return activeLeaveType(id), nil
		},
	}
	balanceSvc := NewBalanceService(m.ledgerRepo, m.balanceRepo, leaveTypeRepo, employeeRepo)
	uow := &fakeUnitOfWork{repos: &repository.Repositories{
		LeaveRequest: m.requestRepo,
		Ledger:       m.ledgerRepo,
		Balance:      m.balanceRepo,
	}}
	notifSvc := NewNotificationService(&mockNotificationRepository{}, employeeRepo)
	worker := jobs.NewWorker(0)

	return NewLeaveService(m.requestRepo, employeeRepo, balanceSvc, uow, notifSvc, &mockAuditLogger{}, worker)
}

func TestComputeTotalDays(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		startSlot string
		endSlot   string
		expected  string
	}{
		{"Single full day", "2025-03-10", "2025-03-10", models.SlotFullDay, models.SlotFullDay, "1"},
		{"Single half day", "2025-03-10", "2025-03-10", models.SlotFirstHalf, models.SlotFirstHalf, "0.5"},
		{"Three full days", "2025-03-10", "2025-03-12", models.SlotFullDay, models.SlotFullDay, "3"},
		{"Second half start", "2025-03-10", "2025-03-12", models.SlotSecondHalf, models.SlotFullDay, "2.5"},
		{"First half end", "2025-03-10", "2025-03-12", models.SlotFullDay, models.SlotFirstHalf, "2.5"},
		{"Half on both ends", "2025-03-10", "2025-03-12", models.SlotSecondHalf, models.SlotFirstHalf, "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotalDays(date(tt.start), date(tt.end), tt.startSlot, tt.endSlot)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.expected)),
				"expected %s, got %s", tt.expected, got.String())
		})
	}
}

func TestSubmit_DebitsLedgerAtSubmission(t *testing.T) {
	var created *models.LeaveRequest
	var appended *repository.LedgerAppend

	m := &leaveServiceMocks{
		requestRepo: &mockLeaveRequestRepository{
			mockCreate: func(ctx context.Context, request *models.LeaveRequest) error {
				created = request
				return nil
			},
		},
		ledgerRepo: &mockLedgerRepository{
			mockAppendEntry: func(ctx context.Context, in repository.LedgerAppend) (*models.LeaveLedgerEntry, error) {
				appended = &in
				return &models.LeaveLedgerEntry{}, nil
			},
		},
		balanceRepo: &mockBalanceRepository{},
	}
	svc := newTestLeaveService(m)

	request, err := svc.Submit(context.Background(), SubmitLeaveInput{
		EmployeeID:  7,
		LeaveTypeID: 1,
		StartDate:   date("2025-03-10"),
		StartSlot:   models.SlotFullDay,
		EndDate:     date("2025-03-12"),
		EndSlot:     models.SlotFullDay,
		Reason:      "Family function",
	})

	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.Equal(t, models.LeaveStatusPending, request.Status)
	assert.Equal(t, uint(42), request.ReportingManagerID)
	assert.NotEmpty(t, request.GUID)

	// The debit lands in the same unit of work as the request row.
	assert.NotNil(t, appended)
	assert.True(t, appended.Utilized.Valid)
	assert.True(t, appended.Utilized.Decimal.Equal(decimal.NewFromInt(3)))
	assert.False(t, appended.Accrued.Valid)
	assert.Equal(t, uint(7), appended.EmployeeID)
}

func TestSubmit_EndBeforeStart(t *testing.T) {
	m := &leaveServiceMocks{
		requestRepo: &mockLeaveRequestRepository{},
		ledgerRepo:  &mockLedgerRepository{},
		balanceRepo: &mockBalanceRepository{},
	}
	svc := newTestLeaveService(m)

	_, err := svc.Submit(context.Background(), SubmitLeaveInput{
		EmployeeID:  7,
		LeaveTypeID: 1,
		StartDate:   date("2025-03-12"),
		EndDate:     date("2025-03-10"),
		Reason:      "Backwards",
	})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestSubmit_NoReportingManager(t *testing.T) {
	m := &leaveServiceMocks{
		requestRepo: &mockLeaveRequestRepository{},
		ledgerRepo:  &mockLedgerRepository{},
		balanceRepo: &mockBalanceRepository{},
	}
	svc := newTestLeaveService(m)
	svc.employeeRepo = &mockEmployeeRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Employee, error) {
			return &models.Employee{ID: id, Active: true}, nil
		},
	}

	_, err := svc.Submit(context.Background(), SubmitLeaveInput{
		EmployeeID:  7,
		LeaveTypeID: 1,
		StartDate:   date("2025-03-10"),
		EndDate:     date("2025-03-10"),
		Reason:      "Orphan",
	})
	assert.ErrorIs(t, err, ErrNoManager)
}

func TestSubmit_OverlappingRequest(t *testing.T) {
	m := &leaveServiceMocks{
		requestRepo: &mockLeaveRequestRepository{
			mockHasOverlapping: func(ctx context.Context, employeeID uint, start, end time.Time) (bool, error) {
				return true, nil
			},
		},
		ledgerRepo:  &mockLedgerRepository{},
		balanceRepo: &mockBalanceRepository{},
	}
	svc := newTestLeaveService(m)

	_, err := svc.Submit(context.Background(), SubmitLeaveInput{
		EmployeeID:  7,
		LeaveTypeID: 1,
		StartDate:   date("2025-03-10"),
		EndDate:     date("2025-03-12"),
		Reason:      "Double booked",
	})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestSubmit_DeactivatedBalanceRow(t *testing.T) {
	m := &leaveServiceMocks{
		requestRepo: &mockLeaveRequestRepository{},
		ledgerRepo:  &mockLedgerRepository{},
		balanceRepo: &mockBalanceRepository{
			mockFind: func(ctx context.Context, employeeID, leaveTypeID uint) (*models.LeaveTypeBalance, error) {
				return &models.LeaveTypeBalance{EmployeeID: employeeID, LeaveTypeID: leaveTypeID, IsActive: false}, nil
			},
		},
	}
	svc := newTestLeaveService(m)

	_, err := svc.Submit(context.Background(), SubmitLeaveInput{
		EmployeeID:  7,
		LeaveTypeID: 1,
		StartDate:   date("2025-03-10"),
		EndDate:     date("2025-03-10"),
		Reason:      "Blocked type",
	})
	assert.ErrorIs(t, err, ErrIneligible)
}

func TestSubmit_LedgerFailureAbortsSubmission(t *testing.T) {
	m := &leaveServiceMocks{
		requestRepo: &mockLeaveRequestRepository{},
		ledgerRepo: &mockLedgerRepository{
			mockAppendEntry: func(ctx context.Context, in repository.LedgerAppend) (*models.LeaveLedgerEntry, error) {
				return nil, errors.New("write conflict")
			},
		},
		balanceRepo: &mockBalanceRepository{},
	}
	svc := newTestLeaveService(m)

	_, err := svc.Submit(context.Background(), SubmitLeaveInput{
		EmployeeID:  7,
		LeaveTypeID: 1,
		StartDate:   date("2025-03-10"),
		EndDate:     date("2025-03-10"),
		Reason:      "Conflict",
	})
	assert.Error(t, err)
}

func pendingLeaveRequest(id uint) *models.LeaveRequest {
	return &models.LeaveRequest{
		ID:                 id,
		GUID:               "a3b1",
		EmployeeID:         7,
		LeaveTypeID:        1,
		ReportingManagerID: 42,
		Status:             models.LeaveStatusPending,
		StartDate:          date("2025-03-10"),
		EndDate:            date("2025-03-12"),
		TotalDays:          decimal.NewFromInt(3),
	}
}

func TestDecide_ApproveIsLedgerNoOp(t *testing.T) {
	appendCalled := false
	var updated *models.LeaveRequest

	m := &leaveServiceMocks{
		requestRepo: &mockLeaveRequestRepository{
			mockFindByID: func(ctx context.Context, id uint) (*models.LeaveRequest, error) {
				return pendingLeaveRequest(id), nil
			},
			mockUpdate: func(ctx context.Context, request *models.LeaveRequest) error {
				updated = request
				return nil
			},
		},
		ledgerRepo: &mockLedgerRepository{
			mockAppendEntry: func(ctx context.Context, in repository.LedgerAppend) (*models.LeaveLedgerEntry, error) {
				appendCalled = true
				return &models.LeaveLedgerEntry{}, nil
			},
		},
		balanceRepo: &mockBalanceRepository{},
	}
	svc := newTestLeaveService(m)

	request, err := svc.Decide(context.Background(), 5, true, "", 42, "", "")

	assert.NoError(t, err)
	assert.Equal(t, models.LeaveStatusApproved, request.Status)
	assert.False(t, appendCalled, "approval must not write a ledger entry")
	assert.NotNil(t, updated.DecidedAt)
	assert.Equal(t, uint(42), *updated.DecidedBy)
}

func TestDecide_RejectReversesDebit(t *testing.T) {
	var appended *repository.LedgerAppend

	m := &leaveServiceMocks{
		requestRepo: &mockLeaveRequestRepository{
			mockFindByID: func(ctx context.Context, id uint) (*models.LeaveRequest, error) {
				return pendingLeaveRequest(id), nil
			},
		},
		ledgerRepo: &mockLedgerRepository{
			mockAppendEntry: func(ctx context.Context, in repository.LedgerAppend) (*models.LeaveLedgerEntry, error) {
				appended = &in
				return &models.LeaveLedgerEntry{}, nil
			},
		},
		balanceRepo: &mockBalanceRepository{},
	}
	svc := newTestLeaveService(m)

	request, err := svc.Decide(context.Background(), 5, false, "coverage gap", 42, "", "")

	assert.NoError(t, err)
	assert.Equal(t, models.LeaveStatusRejected, request.Status)
	assert.Equal(t, "coverage gap", *request.RejectReason)

	// Reversal is a negative utilization of exactly totalDays.
	assert.NotNil(t, appended)
	assert.True(t, appended.Utilized.Valid)
	assert.True(t, appended.Utilized.Decimal.Equal(decimal.NewFromInt(-3)))
	assert.False(t, appended.Accrued.Valid)
}

func TestDecide_AlreadyDecided(t *testing.T) {
	m := &leaveServiceMocks{
		requestRepo: &mockLeaveRequestRepository{
			mockFindByID: func(ctx context.Context, id uint) (*models.LeaveRequest, error) {
				request := pendingLeaveRequest(id)
				request.Status = models.LeaveStatusApproved
				return request, nil
			},
		},
		ledgerRepo:  &mockLedgerRepository{},
		balanceRepo: &mockBalanceRepository{},
	}
	svc := newTestLeaveService(m)

	_, err := svc.Decide(context.Background(), 5, false, "", 42, "", "")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestDecide_RequestNotFound(t *testing.T) {
	m := &leaveServiceMocks{
		requestRepo: &mockLeaveRequestRepository{
			mockFindByID: func(ctx context.Context, id uint) (*models.LeaveRequest, error) {
				return nil, gorm.ErrRecordNotFound
			},
		},
		ledgerRepo:  &mockLedgerRepository{},
		balanceRepo: &mockBalanceRepository{},
	}
	svc := newTestLeaveService(m)

	_, err := svc.Decide(context.Background(), 99, true, "", 42, "", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

// Submission then rejection against an empty ledger must walk the closing
// balance from 0 to -2 and back to 0, one entry per step.
func TestSubmitThenReject_RestoresClosingBalance(t *testing.T) {
	var chain []models.LeaveLedgerEntry
	var stored *models.LeaveRequest

	ledgerRepo := &mockLedgerRepository{}
	ledgerRepo.mockAppendEntry = func(ctx context.Context, in repository.LedgerAppend) (*models.LeaveLedgerEntry, error) {
		prior := decimal.Zero
		if len(chain) > 0 {
			prior = chain[len(chain)-1].ClosingBalance
		}
		entry := models.LeaveLedgerEntry{
			EmployeeID:     in.EmployeeID,
			LeaveTypeID:    in.LeaveTypeID,
			Accrued:        in.Accrued,
			Utilized:       in.Utilized,
			ClosingBalance: repository.NextClosing(prior, in.Accrued, in.Utilized),
		}
		chain = append(chain, entry)
		return &entry, nil
	}
	ledgerRepo.mockCurrentClosing = func(ctx context.Context, employeeID, leaveTypeID uint) (decimal.Decimal, error) {
		if len(chain) == 0 {
			return decimal.Zero, nil
		}
		return chain[len(chain)-1].ClosingBalance, nil
	}

	requestRepo := &mockLeaveRequestRepository{
		mockCreate: func(ctx context.Context, request *models.LeaveRequest) error {
			request.ID = 1
			stored = request
			return nil
		},
		mockFindByID: func(ctx context.Context, id uint) (*models.LeaveRequest, error) {
			return stored, nil
		},
		mockUpdate: func(ctx context.Context, request *models.LeaveRequest) error {
			stored = request
			return nil
		},
	}
	balanceRepo := &mockBalanceRepository{}
	svc := newTestLeaveService(&leaveServiceMocks{
		requestRepo: requestRepo,
		ledgerRepo:  ledgerRepo,
		balanceRepo: balanceRepo,
	})

	submitted, err := svc.Submit(context.Background(), SubmitLeaveInput{
		EmployeeID:  7,
		LeaveTypeID: 1,
		StartDate:   date("2025-04-07"),
		StartSlot:   models.SlotFullDay,
		EndDate:     date("2025-04-08"),
		EndSlot:     models.SlotFullDay,
		Reason:      "Family function",
	})
	assert.NoError(t, err)
	assert.Len(t, chain, 1)
	assert.True(t, chain[0].ClosingBalance.Equal(decimal.NewFromInt(-2)))

	_, err = svc.Decide(context.Background(), submitted.ID, false, "Project deadline", 42, "10.0.0.1", "test")
	assert.NoError(t, err)
	assert.Len(t, chain, 2)
	assert.True(t, chain[1].Utilized.Decimal.Equal(decimal.NewFromInt(-2)))
	assert.True(t, chain[1].ClosingBalance.Equal(decimal.Zero))
}
