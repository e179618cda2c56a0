package handlers

import (
	"github.com/nagarseva/nagarseva-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health  *HealthHandler
	Fee     *FeeHandler
	Demand  *DemandHandler
	Payment *PaymentHandler
	Refund  *RefundHandler
	Dues    *DuesHandler
	Audit   *AuditHandler
	Job     *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(),
		Fee:     NewFeeHandler(svcs.Fee),
		Demand:  NewDemandHandler(svcs.Demand),
		Payment: NewPaymentHandler(svcs.Payment, svcs.Receipt),
		Refund:  NewRefundHandler(svcs.Refund),
		Dues:    NewDuesHandler(svcs.Dues),
		Audit:   NewAuditHandler(svcs.Audit),
		Job:     NewJobHandler(svcs.Job),
	}
}
