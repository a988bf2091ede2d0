package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/rohitjain-pio/hrms-leave-api/internal/models"
)

// LeaveRequestFSM wraps a leave request with its state machine. Approved and
// rejected are terminal: no event leads out of them.
type LeaveRequestFSM struct {
	request *models.LeaveRequest
	fsm     *fsm.FSM
}

// NewLeaveRequestFSM creates a new leave request state machine
func NewLeaveRequestFSM(request *models.LeaveRequest) *LeaveRequestFSM {
	lfsm := &LeaveRequestFSM{
		request: request,
	}

	lfsm.fsm = fsm.NewFSM(
		request.Status,
		fsm.Events{
			// pending → approved
			{Name: "approve", Src: []string{models.LeaveStatusPending}, Dst: models.LeaveStatusApproved},

			// pending → rejected
			{Name: "reject", Src: []string{models.LeaveStatusPending}, Dst: models.LeaveStatusRejected},
		},
		fsm.Callbacks{},
	)

	return lfsm
}

// Approve transitions the request to approved
func (l *LeaveRequestFSM) Approve(ctx context.Context) error {
	if !l.request.MayApprove() {
		return fmt.Errorf("leave request cannot be approved in current state: %s", l.request.Status)
	}

	if err := l.fsm.Event(ctx, "approve"); err != nil {
		return fmt.Errorf("failed to approve leave request: %w", err)
	}

	l.request.Status = l.fsm.Current()
	return nil
}

// Reject transitions the request to rejected
func (l *LeaveRequestFSM) Reject(ctx context.Context) error {
	if !l.request.MayReject() {
		return fmt.Errorf("leave request cannot be rejected in current state: %s", l.request.Status)
	}

	if err := l.fsm.Event(ctx, "reject"); err != nil {
		return fmt.Errorf("failed to reject leave request: %w", err)
	}

	l.request.Status = l.fsm.Current()
	return nil
}

// Current returns the current state
func (l *LeaveRequestFSM) Current() string {
	return l.fsm.Current()
}

// Can checks if a transition is possible
func (l *LeaveRequestFSM) Can(event string) bool {
	return l.fsm.Can(event)
}
