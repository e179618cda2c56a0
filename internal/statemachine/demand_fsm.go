package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/nagarseva/nagarseva-api/internal/models"
)

// DemandFSM wraps a demand with its state machine
type DemandFSM struct {
	demand *models.Demand
	fsm    *fsm.FSM
}

// NewDemandFSM creates a new demand state machine
func NewDemandFSM(demand *models.Demand) *DemandFSM {
	dfsm := &DemandFSM{
		demand: demand,
	}

	dfsm.fsm = fsm.NewFSM(
		demand.Status,
		fsm.Events{
			// PENDING → PAID once recorded payments cover the total
			{Name: "pay", Src: []string{models.DemandStatusPending}, Dst: models.DemandStatusPaid},

			// PENDING → WAIVED / CANCELLED; both terminal
			{Name: "waive", Src: []string{models.DemandStatusPending}, Dst: models.DemandStatusWaived},
			{Name: "cancel", Src: []string{models.DemandStatusPending}, Dst: models.DemandStatusCancelled},
		},
		fsm.Callbacks{},
	)

	return dfsm
}

// Pay transitions the demand to paid
func (d *DemandFSM) Pay(ctx context.Context) error {
	if !d.demand.MayPay() {
		return fmt.Errorf("demand cannot be settled in current state: %s", d.demand.Status)
	}

	if err := d.fsm.Event(ctx, "pay"); err != nil {
		return fmt.Errorf("failed to settle demand: %w", err)
	}

	d.demand.Status = d.fsm.Current()
	return nil
}

// Waive transitions the demand to waived
func (d *DemandFSM) Waive(ctx context.Context) error {
	if !d.demand.MayWaive() {
		return fmt.Errorf("demand cannot be waived in current state: %s", d.demand.Status)
	}

	if err := d.fsm.Event(ctx, "waive"); err != nil {
		return fmt.Errorf("failed to waive demand: %w", err)
	}

	d.demand.Status = d.fsm.Current()
	return nil
}

// Cancel transitions the demand to cancelled
func (d *DemandFSM) Cancel(ctx context.Context) error {
	if !d.demand.MayCancel() {
		return fmt.Errorf("demand cannot be cancelled in current state: %s", d.demand.Status)
	}

	if err := d.fsm.Event(ctx, "cancel"); err != nil {
		return fmt.Errorf("failed to cancel demand: %w", err)
	}

	d.demand.Status = d.fsm.Current()
	return nil
}

// Current returns the current state
func (d *DemandFSM) Current() string {
	return d.fsm.Current()
}

// Can checks if a transition is possible
func (d *DemandFSM) Can(event string) bool {
	return d.fsm.Can(event)
}
