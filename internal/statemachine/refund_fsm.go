package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/nagarseva/nagarseva-api/internal/models"
)

// RefundFSM wraps a refund request with its state machine
type RefundFSM struct {
	refund *models.RefundRequest
	fsm    *fsm.FSM
}

// NewRefundFSM creates a new refund state machine
func NewRefundFSM(refund *models.RefundRequest) *RefundFSM {
	rfsm := &RefundFSM{
		refund: refund,
	}

	rfsm.fsm = fsm.NewFSM(
		refund.Status,
		fsm.Events{
			// REQUESTED → APPROVED / REJECTED
			{Name: "approve", Src: []string{models.RefundStatusRequested}, Dst: models.RefundStatusApproved},
			{Name: "reject", Src: []string{models.RefundStatusRequested}, Dst: models.RefundStatusRejected},

			// APPROVED → PROCESSED (terminal)
			{Name: "process", Src: []string{models.RefundStatusApproved}, Dst: models.RefundStatusProcessed},
		},
		fsm.Callbacks{},
	)

	return rfsm
}

// Approve transitions the refund to approved
func (r *RefundFSM) Approve(ctx context.Context) error {
	if !r.refund.MayApprove() {
		return fmt.Errorf("refund cannot be approved in current state: %s", r.refund.Status)
	}

	if err := r.fsm.Event(ctx, "approve"); err != nil {
		return fmt.Errorf("failed to approve refund: %w", err)
	}

	r.refund.Status = r.fsm.Current()
	return nil
}

// Reject transitions the refund to rejected
func (r *RefundFSM) Reject(ctx context.Context) error {
	if !r.refund.MayReject() {
		return fmt.Errorf("refund cannot be rejected in current state: %s", r.refund.Status)
	}

	if err := r.fsm.Event(ctx, "reject"); err != nil {
		return fmt.Errorf("failed to reject refund: %w", err)
	}

	r.refund.Status = r.fsm.Current()
	return nil
}

// Process transitions the approved refund to processed
func (r *RefundFSM) Process(ctx context.Context) error {
	if !r.refund.MayProcess() {
		return fmt.Errorf("refund cannot be processed in current state: %s", r.refund.Status)
	}

	if err := r.fsm.Event(ctx, "process"); err != nil {
		return fmt.Errorf("failed to process refund: %w", err)
	}

	r.refund.Status = r.fsm.Current()
	return nil
}

// Current returns the current state
func (r *RefundFSM) Current() string {
	return r.fsm.Current()
}

// Can checks if a transition is possible
func (r *RefundFSM) Can(event string) bool {
	return r.fsm.Can(event)
}
