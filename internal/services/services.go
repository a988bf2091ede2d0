package services

import (
	"github.com/rohitjain-pio/hrms-leave-api/internal/jobs"
	"github.com/rohitjain-pio/hrms-leave-api/internal/repository"
	"gorm.io/gorm"
)

// Services holds all service instances
type Services struct {
	Balance      *BalanceService
	Leave        *LeaveService
	CompOff      *CompOffService
	Accrual      *AccrualService
	Adjustment   *AdjustmentService
	Notification *NotificationService
	Audit        *AuditService
	Job          *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, uow repository.UnitOfWork, worker *jobs.Worker, db *gorm.DB) *Services {
	notificationSvc := NewNotificationService(repos.Notification, repos.Employee)
	auditSvc := NewAuditService(db)
	balanceSvc := NewBalanceService(repos.Ledger, repos.Balance, repos.LeaveType, repos.Employee)
	jobSvc := NewJobService(worker)

	return &Services{
		Balance:      balanceSvc,
		Leave:        NewLeaveService(repos.LeaveRequest, repos.Employee, balanceSvc, uow, notificationSvc, auditSvc, worker),
		CompOff:      NewCompOffService(repos.CompOffSwap, repos.Employee, repos.LeaveType, uow, notificationSvc, auditSvc, worker),
		Accrual:      NewAccrualService(repos.LeaveType, repos.Balance, uow),
		Adjustment:   NewAdjustmentService(uow, repos.Balance, notificationSvc, auditSvc, worker),
		Notification: notificationSvc,
		Audit:        auditSvc,
		Job:          jobSvc,
	}
}
