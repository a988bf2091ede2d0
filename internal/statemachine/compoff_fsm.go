package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/rohitjain-pio/hrms-leave-api/internal/models"
)

// CompOffSwapFSM wraps a comp-off or swap request with its state machine
type CompOffSwapFSM struct {
	request *models.CompOffSwapRequest
	fsm     *fsm.FSM
}

// NewCompOffSwapFSM creates a new comp-off/swap state machine
func NewCompOffSwapFSM(request *models.CompOffSwapRequest) *CompOffSwapFSM {
	cfsm := &CompOffSwapFSM{
		request: request,
	}

	cfsm.fsm = fsm.NewFSM(
		request.Status,
		fsm.Events{
			// pending → accepted
			{Name: "accept", Src: []string{models.CompOffStatusPending}, Dst: models.CompOffStatusAccepted},

			// pending → rejected
			{Name: "reject", Src: []string{models.CompOffStatusPending}, Dst: models.CompOffStatusRejected},
		},
		fsm.Callbacks{},
	)

	return cfsm
}

// Accept transitions the request to accepted
func (c *CompOffSwapFSM) Accept(ctx context.Context) error {
	if !c.request.MayAccept() {
		return fmt.Errorf("request cannot be accepted in current state: %s", c.request.Status)
	}

	if err := c.fsm.Event(ctx, "accept"); err != nil {
		return fmt.Errorf("failed to accept request: %w", err)
	}

	c.request.Status = c.fsm.Current()
	return nil
}

// Reject transitions the request to rejected
func (c *CompOffSwapFSM) Reject(ctx context.Context) error {
	if !c.request.MayReject() {
		return fmt.Errorf("request cannot be rejected in current state: %s", c.request.Status)
	}

	if err := c.fsm.Event(ctx, "reject"); err != nil {
		return fmt.Errorf("failed to reject request: %w", err)
	}

	c.request.Status = c.fsm.Current()
	return nil
}

// Current returns the current state
func (c *CompOffSwapFSM) Current() string {
	return c.fsm.Current()
}
