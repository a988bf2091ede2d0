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

// ApplyCompOffInput carries a compensatory-off application
type ApplyCompOffInput struct {
	EmployeeID   uint
	WorkingDate  time.Time
	NumberOfDays decimal.Decimal
	Reason       string
}

// ApplySwapInput carries a swap application
type ApplySwapInput struct {
	EmployeeID  uint
	WorkingDate time.Time
	LeaveDate   time.Time
	Reason      string
}

// CompOffService owns the comp-off and swap request lifecycle. Accepting a
// comp-off credits the compensatory leave balance; accepting a swap only
// remaps the attendance calendar. Rejection never touches the ledger -
// nothing was debited for these request types.
type CompOffService struct {
	repo            repository.CompOffSwapRepository
	employeeRepo    repository.EmployeeRepository
	leaveTypeRepo   repository.LeaveTypeRepository
	uow             repository.UnitOfWork
	notificationSvc *NotificationService
	auditSvc        AuditLogger
	worker          *jobs.Worker
}

// NewCompOffService creates a new comp-off/swap service
func NewCompOffService(
	repo repository.CompOffSwapRepository,
	employeeRepo repository.EmployeeRepository,
	leaveTypeRepo repository.LeaveTypeRepository,
	uow repository.UnitOfWork,
	notificationSvc *NotificationService,
	auditSvc AuditLogger,
	worker *jobs.Worker,
) *CompOffService {
	return &CompOffService{
		repo:            repo,
		employeeRepo:    employeeRepo,
		leaveTypeRepo:   leaveTypeRepo,
		uow:             uow,
		notificationSvc: notificationSvc,
		auditSvc:        auditSvc,
		worker:          worker,
	}
}

// ApplyCompOff inserts a pending comp-off request, guarded against a second
// pending or accepted request for the same working date.
func (s *CompOffService) ApplyCompOff(ctx context.Context, in ApplyCompOffInput) (*models.CompOffSwapRequest, error) {
	if err := s.checkEmployeeActive(ctx, in.EmployeeID); err != nil {
		return nil, err
	}
	if !in.NumberOfDays.IsPositive() {
		return nil, ErrInvalidRange
	}

	exists, err := s.repo.HasCompOffForWorkingDate(ctx, in.EmployeeID, in.WorkingDate)
	if err != nil {
		return nil, fmt.Errorf("duplicate check: %w", err)
	}
	if exists {
		return nil, ErrDuplicate
	}

	request := &models.CompOffSwapRequest{
		GUID:         uuid.NewString(),
		EmployeeID:   in.EmployeeID,
		RequestType:  models.RequestTypeCompOff,
		WorkingDate:  in.WorkingDate,
		Status:       models.CompOffStatusPending,
		NumberOfDays: in.NumberOfDays,
		Reason:       in.Reason,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("create comp-off request: %w", err)
	}

	s.auditSvc.Log(ctx, in.EmployeeID, "SUBMIT", "CompOffSwapRequest", request.ID,
		fmt.Sprintf("Comp-off for %s requested", in.WorkingDate.Format("2006-01-02")), "", "")
	return request, nil
}

// ApplySwap inserts a pending swap request, guarded against a second pending
// or accepted swap for the same leave date.
func (s *CompOffService) ApplySwap(ctx context.Context, in ApplySwapInput) (*models.CompOffSwapRequest, error) {
	if err := s.checkEmployeeActive(ctx, in.EmployeeID); err != nil {
		return nil, err
	}

	exists, err := s.repo.HasSwapForLeaveDate(ctx, in.EmployeeID, in.LeaveDate)
	if err != nil {
		return nil, fmt.Errorf("duplicate check: %w", err)
	}
	if exists {
		return nil, ErrDuplicate
	}

	leaveDate := in.LeaveDate
	request := &models.CompOffSwapRequest{
		GUID:         uuid.NewString(),
		EmployeeID:   in.EmployeeID,
		RequestType:  models.RequestTypeSwap,
		WorkingDate:  in.WorkingDate,
		LeaveDate:    &leaveDate,
		Status:       models.CompOffStatusPending,
		NumberOfDays: decimal.NewFromInt(1),
		Reason:       in.Reason,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("create swap request: %w", err)
	}

	s.auditSvc.Log(ctx, in.EmployeeID, "SUBMIT", "CompOffSwapRequest", request.ID,
		fmt.Sprintf("Swap of %s for %s requested", in.WorkingDate.Format("2006-01-02"), leaveDate.Format("2006-01-02")), "", "")
	return request, nil
}

// Decide accepts or rejects a pending comp-off or swap request. Comp-off
// acceptance credits the compensatory leave type, creating the balance row
// on first use; swap acceptance and every rejection leave the ledger alone.
func (s *CompOffService) Decide(ctx context.Context, requestID uint, accept bool, rejectReason string, actorID uint, ip, userAgent string) (*models.CompOffSwapRequest, error) {
	request, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find request: %w", err)
	}

	machine := statemachine.NewCompOffSwapFSM(request)
	if accept {
		if err := machine.Accept(ctx); err != nil {
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

	if accept && request.RequestType == models.RequestTypeCompOff {
		// The compensatory type is resolved before the transaction opens.
		compType, err := s.leaveTypeRepo.FindByCode(ctx, models.LeaveTypeCodeCompensatory)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("find compensatory leave type: %w", err)
		}

		err = s.uow.Do(ctx, func(repos *repository.Repositories) error {
			// Idempotent first use: the balance row is created once, then
			// reused by every later comp-off credit.
			if _, err := repos.Balance.FirstOrCreate(ctx, request.EmployeeID, compType.ID, actorID); err != nil {
				return fmt.Errorf("ensure balance row: %w", err)
			}
			if err := repos.CompOffSwap.Update(ctx, request); err != nil {
				return fmt.Errorf("update request: %w", err)
			}
			_, err := repos.Ledger.AppendEntry(ctx, repository.LedgerAppend{
				EmployeeID:    request.EmployeeID,
				LeaveTypeID:   compType.ID,
				EffectiveDate: request.WorkingDate,
				Description:   fmt.Sprintf("Comp-off credit for working on %s", request.WorkingDate.Format("2006-01-02")),
				Accrued:       decimal.NewNullDecimal(request.NumberOfDays),
				CreatedBy:     actorID,
			})
			if err != nil {
				return fmt.Errorf("append comp-off accrual: %w", err)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		if err := s.repo.Update(ctx, request); err != nil {
			return nil, fmt.Errorf("update request: %w", err)
		}
	}

	s.notifyDecision(request, rejectReason)
	s.auditSvc.Log(ctx, actorID, decisionAction(accept), "CompOffSwapRequest", request.ID,
		fmt.Sprintf("%s request %s moved to %s", request.RequestType, request.GUID, request.Status), ip, userAgent)

	return request, nil
}

// Delete soft-deletes a request; the row is kept for audit
func (s *CompOffService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}

// List returns comp-off/swap requests matching the query
func (s *CompOffService) List(ctx context.Context, query *repository.CompOffSwapQuery) ([]models.CompOffSwapRequest, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *CompOffService) checkEmployeeActive(ctx context.Context, employeeID uint) error {
	active, err := s.employeeRepo.IsActive(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("check employee: %w", err)
	}
	if !active {
		return ErrNotFound
	}
	return nil
}

func (s *CompOffService) notifyDecision(request *models.CompOffSwapRequest, rejectReason string) {
	accepted := request.Status == models.CompOffStatusAccepted

	var title, message, notifType string
	switch {
	case request.RequestType == models.RequestTypeCompOff && accepted:
		title, notifType = "Comp-off accepted", models.NotificationTypeCompOffAccepted
		message = fmt.Sprintf("%s compensatory day(s) credited to your balance", request.NumberOfDays.String())
	case request.RequestType == models.RequestTypeCompOff:
		title, notifType = "Comp-off rejected", models.NotificationTypeCompOffRejected
		message = "Your comp-off request has been rejected"
	case accepted:
		title, notifType = "Swap accepted", models.NotificationTypeSwapAccepted
		message = "Your swap request has been accepted"
	default:
		title, notifType = "Swap rejected", models.NotificationTypeSwapRejected
		message = "Your swap request has been rejected"
	}
	if !accepted && rejectReason != "" {
		message += ". Reason: " + rejectReason
	}

	employeeID := request.EmployeeID
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyEmployee(ctx, employeeID, title, message, notifType)
	})
}

func decisionAction(accept bool) string {
	if accept {
		return "ACCEPT"
	}
	return "REJECT"
}
