package services

import (
	"context"
	"fmt"
	"time"

	"github.com/nagarseva/nagarseva-api/internal/dues"
	"github.com/nagarseva/nagarseva-api/internal/jobs"
	"github.com/nagarseva/nagarseva-api/internal/models"
	"github.com/nagarseva/nagarseva-api/internal/repository"
	"github.com/nagarseva/nagarseva-api/pkg/money"
)

// PostDuePaymentInput posts a settlement against a due code. PaymentDate
// defaults to today; the owed amount is computed as of that date.
type PostDuePaymentInput struct {
	DueCode     string  `json:"dueCode" binding:"required"`
	PaymentDate *string `json:"paymentDate,omitempty"` // YYYY-MM-DD
	Mode        string  `json:"mode"`
}

// DuesService serves the property dues ledger and posts payments into the
// append-only log the ledger is derived from.
type DuesService struct {
	propertyRepo repository.PropertyRepository
	calculator   *dues.Calculator
	txm          repository.TxManager
	notifier     Notifier
	auditSvc     *AuditService
	worker       *jobs.Worker
}

// NewDuesService creates a new dues service
func NewDuesService(
	propertyRepo repository.PropertyRepository,
	calculator *dues.Calculator,
	txm repository.TxManager,
	notifier Notifier,
	auditSvc *AuditService,
	worker *jobs.Worker,
) *DuesService {
	return &DuesService{
		propertyRepo: propertyRepo,
		calculator:   calculator,
		txm:          txm,
		notifier:     notifier,
		auditSvc:     auditSvc,
		worker:       worker,
	}
}

// GetLedger computes the dues ledger for a property as of today.
func (s *DuesService) GetLedger(ctx context.Context, upn string) (*dues.Ledger, error) {
	property, err := s.propertyRepo.FindByUPN(ctx, upn)
	if err != nil {
		return nil, ErrPropertyNotFound.Wrap(err)
	}
	ledger := s.calculator.Build(toDuesProperty(property), toDuesPayments(property.Payments), money.Today())
	return &ledger, nil
}

// PostDuePayment settles a due by appending to the property's payment log.
// The amount is the due's outstanding balance as of the payment date, so a
// late payment carries the interest accrued up to that date.
func (s *DuesService) PostDuePayment(ctx context.Context, upn string, input PostDuePaymentInput, actor, ip, userAgent string) (*dues.Ledger, error) {
	paymentDate := money.Today()
	if input.PaymentDate != nil && *input.PaymentDate != "" {
		parsed, err := money.ParseDate(*input.PaymentDate)
		if err != nil {
			return nil, ErrInvalidPaymentDate.Wrap(err)
		}
		paymentDate = parsed
	}

	var ledger dues.Ledger
	err := s.txm.Atomic(ctx, func(txr *repository.Repositories) error {
		property, err := txr.Property.FindByUPNForUpdate(ctx, upn)
		if err != nil {
			return ErrPropertyNotFound.Wrap(err)
		}

		seed := toDuesProperty(property)
		log := toDuesPayments(property.Payments)

		atPayment := s.calculator.Build(seed, log, paymentDate)
		line := atPayment.Line(input.DueCode)
		if line == nil {
			return ErrDueNotFound
		}
		if line.Status == dues.StatusPaid {
			return ErrDueAlreadyPaid
		}

		amount := line.BalanceAmount
		property.Payments = append(property.Payments, models.DuePaymentRecord{
			DueCode:     input.DueCode,
			Amount:      amount,
			PaymentDate: paymentDate.String(),
			Mode:        input.Mode,
			RecordedBy:  actor,
			RecordedAt:  time.Now().UTC(),
		})
		if err := txr.Property.Update(ctx, property); err != nil {
			return ErrStorageUnavailable.Wrap(err)
		}

		ledger = s.calculator.Build(seed, toDuesPayments(property.Payments), paymentDate)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if ledger.AllDuesPaid {
		s.worker.EnqueueAsync(func(ctx context.Context) error {
			return s.notifier.Notify(ctx, upn, EventDuesCleared,
				"All dues cleared",
				fmt.Sprintf("Property %s has no outstanding dues; No Due Certificate may be issued", upn))
		})
	}

	s.auditSvc.Log(ctx, actor, "POST_DUE_PAYMENT", "Property", upn,
		fmt.Sprintf("Due %s settled as of %s", input.DueCode, paymentDate), ip, userAgent)

	return &ledger, nil
}

func toDuesProperty(p *models.Property) dues.Property {
	seed := dues.Property{
		UPN:                      p.UPN,
		AuthorityID:              p.AuthorityID,
		AllotmentDate:            money.DateOf(p.AllotmentDate),
		UsageType:                p.UsageType,
		AreaSqm:                  p.AreaSqm,
		PropertyValue:            p.PropertyValue,
		AnnualInterestRatePct:    p.AnnualInterestRatePct,
		DCFRatePct:               p.DCFRatePct,
		InstallmentSchedule:      p.InstallmentSchedule,
		AdditionalAreaSqm:        p.AdditionalAreaSqm,
		AdditionalAreaRatePerSqm: p.AdditionalAreaRatePerSqm,
	}
	if p.ConstructionCompletedOn != nil {
		completed := money.DateOf(*p.ConstructionCompletedOn)
		seed.ConstructionCompletedOn = &completed
	}
	return seed
}

func toDuesPayments(records []models.DuePaymentRecord) []dues.Payment {
	payments := make([]dues.Payment, 0, len(records))
	for _, rec := range records {
		date, err := money.ParseDate(rec.PaymentDate)
		if err != nil {
			// Log entries are written by PostDuePayment with a validated
			// date; skip anything unparseable rather than poison the ledger.
			continue
		}
		payments = append(payments, dues.Payment{
			DueCode:     rec.DueCode,
			Amount:      rec.Amount,
			PaymentDate: date,
		})
	}
	return payments
}
