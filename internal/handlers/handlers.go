package handlers

import (
	"github.com/rohitjain-pio/hrms-leave-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	Leave        *LeaveHandler
	CompOff      *CompOffHandler
	Balance      *BalanceHandler
	Admin        *AdminHandler
	Notification *NotificationHandler
	Audit        *AuditHandler
	Job          *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(),
		Leave:        NewLeaveHandler(svcs.Leave),
		CompOff:      NewCompOffHandler(svcs.CompOff),
		Balance:      NewBalanceHandler(svcs.Balance),
		Admin:        NewAdminHandler(svcs.Adjustment, svcs.Accrual),
		Notification: NewNotificationHandler(svcs.Notification),
		Audit:        NewAuditHandler(svcs.Audit),
		Job:          NewJobHandler(svcs.Job),
	}
}
