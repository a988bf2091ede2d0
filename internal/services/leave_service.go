package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rohitjain-pio/hrms-leave-api/internal/jobs"
	"github.com/rohitjain-pio/hrms-leave-api/internal/models"
	"github.com/rohitjain-pio/hrms-leave-api/internal/repository"
	"github.com/rohitjain-pio/hrms-leave-api/internal/statemachine"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var half = decimal.NewFromFloat(0.5)

// SubmitLeaveInput carries the fields of a leave application
type SubmitLeaveInput struct {
	EmployeeID     uint
	LeaveTypeID    uint
	StartDate      time.Time
	StartSlot      string
	EndDate        time.Time
	EndSlot        string
	Reason         string
	AttachmentPath *string
}

// LeaveService owns the leave request lifecycle: submission debits the
// ledger, approval is a ledger no-op, rejection credits the days back.
type LeaveService struct {
	requestRepo     repository.LeaveRequestRepository
	employeeRepo    repository.EmployeeRepository
	balanceSvc      *BalanceService
	uow             repository.UnitOfWork
	notificationSvc *NotificationService
	auditSvc        AuditLogger
	worker          *jobs.Worker
}

// NewLeaveService creates a new leave service
func NewLeaveService(
	requestRepo repository.LeaveRequestRepository,
	employeeRepo repository.EmployeeRepository,
	balanceSvc *BalanceService,
	uow repository.UnitOfWork,
	notificationSvc *NotificationService,
	auditSvc AuditLogger,
	worker *jobs.Worker,
) *LeaveService {
	return &LeaveService{
		requestRepo:     requestRepo,
		employeeRepo:    employeeRepo,
		balanceSvc:      balanceSvc,
		uow:             uow,
		notificationSvc: notificationSvc,
		auditSvc:        auditSvc,
		worker:          worker,
	}
}

// ComputeTotalDays returns the day count for an inclusive date range with
// half-day slots on either end.
func ComputeTotalDays(start, end time.Time, startSlot, endSlot string) decimal.Decimal {
	if start.Equal(end) {
		if startSlot != models.SlotFullDay || endSlot != models.SlotFullDay {
			return half
		}
		return decimal.NewFromInt(1)
	}

	days := decimal.NewFromInt(int64(end.Sub(start).Hours()/24) + 1)
	if startSlot == models.SlotSecondHalf {
		days = days.Sub(half)
	}
	if endSlot == models.SlotFirstHalf {
		days = days.Sub(half)
	}
	return days
}

// Submit validates the application and atomically inserts the request row
// together with the ledger debit of totalDays. A failed submission leaves no
// trace: no request row, no ledger row.
func (s *LeaveService) Submit(ctx context.Context, in SubmitLeaveInput) (*models.LeaveRequest, error) {
	if in.EndDate.Before(in.StartDate) {
		return nil, ErrInvalidRange
	}

	// Manager is resolved once, at submission time, and frozen on the row.
	employee, err := s.employeeRepo.FindByID(ctx, in.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find employee: %w", err)
	}
	if employee.ReportingManagerID == nil {
		return nil, ErrNoManager
	}

	if err := s.balanceSvc.Eligible(ctx, in.EmployeeID, in.LeaveTypeID); err != nil {
		return nil, err
	}

	overlap, err := s.requestRepo.HasOverlapping(ctx, in.EmployeeID, in.StartDate, in.EndDate)
	if err != nil {
		return nil, fmt.Errorf("overlap check: %w", err)
	}
	if overlap {
		return nil, ErrDuplicate
	}

	totalDays := ComputeTotalDays(in.StartDate, in.EndDate, in.StartSlot, in.EndSlot)
	request := &models.LeaveRequest{
		GUID:               uuid.NewString(),
		EmployeeID:         in.EmployeeID,
		LeaveTypeID:        in.LeaveTypeID,
		ReportingManagerID: *employee.ReportingManagerID,
		Status:             models.LeaveStatusPending,
		StartDate:          in.StartDate,
		StartSlot:          in.StartSlot,
		EndDate:            in.EndDate,
		EndSlot:            in.EndSlot,
		TotalDays:          totalDays,
		Reason:             in.Reason,
		AttachmentPath:     in.AttachmentPath,
	}

	err = s.uow.Do(ctx, func(repos *repository.Repositories) error {
		if err := repos.LeaveRequest.Create(ctx, request); err != nil {
			return fmt.Errorf("create leave request: %w", err)
		}
		_, err := repos.Ledger.AppendEntry(ctx, repository.LedgerAppend{
			EmployeeID:    in.EmployeeID,
			LeaveTypeID:   in.LeaveTypeID,
			EffectiveDate: in.StartDate,
			Description:   fmt.Sprintf("Leave request %s (%s days)", request.GUID, totalDays.String()),
			Utilized:      decimal.NewNullDecimal(totalDays),
			CreatedBy:     in.EmployeeID,
		})
		if err != nil {
			return fmt.Errorf("append ledger debit: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Collaborators run only after the transaction committed.
	managerID := request.ReportingManagerID
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyEmployee(ctx, managerID,
			"Leave request submitted",
			fmt.Sprintf("%s applied for %s day(s) of leave", employee.FullName, totalDays.String()),
			models.NotificationTypeLeaveSubmitted)
	})
	s.auditSvc.Log(ctx, in.EmployeeID, "SUBMIT", "LeaveRequest", request.ID,
		fmt.Sprintf("Leave request for %s day(s) submitted", totalDays.String()), "", "")

	return request, nil
}

// Decide approves or rejects a pending request. Approval updates the status
// only - the debit already happened at submission. Rejection appends a
// credit-back of totalDays computed against the current closing balance, so
// drift between submission and decision is preserved, not corrected. Both
// writes share one transaction.
func (s *LeaveService) Decide(ctx context.Context, requestID uint, approve bool, rejectReason string, actorID uint, ip, userAgent string) (*models.LeaveRequest, error) {
	request, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find leave request: %w", err)
	}

	machine := statemachine.NewLeaveRequestFSM(request)
	if approve {
		if err := machine.Approve(ctx); err != nil {
			return nil, ErrInvalidState
		}
	} else {
		if err := machine.Reject(ctx); err != nil {
			return nil, ErrInvalidState
		}
		if rejectReason != "" {
			request.RejectReason = &rejectReason
		}
	}

	now := time.Now()
	request.DecidedAt = &now
	request.DecidedBy = &actorID

	err = s.uow.Do(ctx, func(repos *repository.Repositories) error {
		if err := repos.LeaveRequest.Update(ctx, request); err != nil {
			return fmt.Errorf("update leave request: %w", err)
		}
		if approve {
			return nil
		}
		// Credit-back: negative utilization against the latest closing
		// balance at reject time.
		_, err := repos.Ledger.AppendEntry(ctx, repository.LedgerAppend{
			EmployeeID:    request.EmployeeID,
			LeaveTypeID:   request.LeaveTypeID,
			EffectiveDate: request.StartDate,
			Description:   fmt.Sprintf("Leave request %s rejected, %s day(s) reversed", request.GUID, request.TotalDays.String()),
			Utilized:      decimal.NewNullDecimal(request.TotalDays.Neg()),
			CreatedBy:     actorID,
		})
		if err != nil {
			return fmt.Errorf("append ledger reversal: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	title, message, notifType := "Leave approved", "Your leave request has been approved", models.NotificationTypeLeaveApproved
	action := "APPROVE"
	if !approve {
		title, notifType = "Leave rejected", models.NotificationTypeLeaveRejected
		message = "Your leave request has been rejected"
		if rejectReason != "" {
			message = "Your leave request has been rejected. Reason: " + rejectReason
		}
		action = "REJECT"
	}
	employeeID := request.EmployeeID
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyEmployee(ctx, employeeID, title, message, notifType)
	})
	s.auditSvc.Log(ctx, actorID, action, "LeaveRequest", request.ID,
		fmt.Sprintf("Leave request %s moved to %s", request.GUID, request.Status), ip, userAgent)

	return request, nil
}

// FindByID returns one leave request
func (s *LeaveService) FindByID(ctx context.Context, id uint) (*models.LeaveRequest, error) {
	request, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return request, nil
}

// List returns leave requests matching the query
func (s *LeaveService) List(ctx context.Context, query *repository.LeaveRequestQuery) ([]models.LeaveRequest, int64, error) {
	return s.requestRepo.List(ctx, query)
}
