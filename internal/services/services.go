package services

import (
	"github.com/nagarseva/nagarseva-api/internal/config"
	"github.com/nagarseva/nagarseva-api/internal/dues"
	"github.com/nagarseva/nagarseva-api/internal/jobs"
	"github.com/nagarseva/nagarseva-api/internal/repository"
	"gorm.io/gorm"
)

// Services holds all service instances
type Services struct {
	Fee     *FeeService
	Demand  *DemandService
	Payment *PaymentService
	Refund  *RefundService
	Dues    *DuesService
	Receipt *ReceiptService
	Audit   *AuditService
	Job     *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, cfg *config.Config, db *gorm.DB) *Services {
	auditSvc := NewAuditService(db)
	notifier := NewLogNotifier()
	resolver := NewScheduleResolver(repos.Schedule)
	verifier := NewSignatureVerifier(cfg.GatewayWebhookSecret)
	calculator := dues.NewCalculator(dues.Config{
		AnnualInterestRatePct: cfg.AnnualInterestRatePct,
		DCFRatePct:            cfg.DCFRatePct,
	})

	return &Services{
		Fee:     NewFeeService(repos.Application, repos.Fee, resolver, auditSvc),
		Demand:  NewDemandService(repos.Application, repos.Demand, repos.Fee, repos, notifier, auditSvc, worker, cfg.DemandDueDays),
		Payment: NewPaymentService(repos.Payment, repos.Demand, repos.Application, repos, verifier, notifier, auditSvc, worker),
		Refund:  NewRefundService(repos.Refund, repos.Payment, repos, notifier, auditSvc, worker),
		Dues:    NewDuesService(repos.Property, calculator, repos, notifier, auditSvc, worker),
		Receipt: NewReceiptService(repos.Payment),
		Audit:   auditSvc,
		Job:     NewJobService(worker),
	}
}
