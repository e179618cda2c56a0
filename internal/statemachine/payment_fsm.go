package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/nagarseva/nagarseva-api/internal/models"
)

// PaymentFSM wraps a payment with its state machine
type PaymentFSM struct {
	payment *models.Payment
	fsm     *fsm.FSM
}

// NewPaymentFSM creates a new payment state machine
func NewPaymentFSM(payment *models.Payment) *PaymentFSM {
	pfsm := &PaymentFSM{
		payment: payment,
	}

	pfsm.fsm = fsm.NewFSM(
		payment.Status,
		fsm.Events{
			// INITIATED → VERIFIED on a valid signed gateway callback
			{Name: "verify", Src: []string{models.PaymentStatusInitiated}, Dst: models.PaymentStatusVerified},

			// INITIATED → FAILED on a declared gateway failure
			{Name: "fail", Src: []string{models.PaymentStatusInitiated}, Dst: models.PaymentStatusFailed},
		},
		fsm.Callbacks{},
	)

	return pfsm
}

// Verify transitions the payment to verified after signature checks pass
func (p *PaymentFSM) Verify(ctx context.Context) error {
	if !p.payment.MayVerify() {
		return fmt.Errorf("payment cannot be verified in current state: %s", p.payment.Status)
	}

	if err := p.fsm.Event(ctx, "verify"); err != nil {
		return fmt.Errorf("failed to verify payment: %w", err)
	}

	p.payment.Status = p.fsm.Current()
	return nil
}

// Fail transitions the payment to failed
func (p *PaymentFSM) Fail(ctx context.Context) error {
	if !p.payment.MayVerify() {
		return fmt.Errorf("payment cannot be failed in current state: %s", p.payment.Status)
	}

	if err := p.fsm.Event(ctx, "fail"); err != nil {
		return fmt.Errorf("failed to mark payment failed: %w", err)
	}

	p.payment.Status = p.fsm.Current()
	return nil
}

// Current returns the current state
func (p *PaymentFSM) Current() string {
	return p.fsm.Current()
}

// Can checks if a transition is possible
func (p *PaymentFSM) Can(event string) bool {
	return p.fsm.Can(event)
}
