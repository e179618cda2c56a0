package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nagarseva/nagarseva-api/internal/jobs"
	"github.com/nagarseva/nagarseva-api/internal/models"
	"github.com/nagarseva/nagarseva-api/internal/repository"
	"github.com/nagarseva/nagarseva-api/internal/statemachine"
	"github.com/nagarseva/nagarseva-api/pkg/logger"
	"github.com/nagarseva/nagarseva-api/pkg/money"
)

// RecordPaymentInput carries a payment posting against a demand.
type RecordPaymentInput struct {
	DemandID uint    `json:"demand_id" binding:"required"`
	Mode     string  `json:"mode" binding:"required"`
	Amount   float64 `json:"amount" binding:"required"`
}

// GatewayCallback is the payload the payment gateway posts after a citizen
// completes (or abandons) a checkout.
type GatewayCallback struct {
	GatewayOrderID   string  `json:"gatewayOrderId" binding:"required"`
	GatewayPaymentID string  `json:"gatewayPaymentId"`
	GatewaySignature string  `json:"gatewaySignature"`
	Status           string  `json:"status" binding:"required"`
	FailureReason    *string `json:"failureReason,omitempty"`
}

// PaymentService records payments against demands and verifies gateway
// callbacks. All monetary mutations run inside one transaction with the
// demand row locked, so balance checks hold under concurrent postings.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	demandRepo  repository.DemandRepository
	appRepo     repository.ApplicationRepository
	txm         repository.TxManager
	verifier    *SignatureVerifier
	notifier    Notifier
	auditSvc    *AuditService
	worker      *jobs.Worker
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	demandRepo repository.DemandRepository,
	appRepo repository.ApplicationRepository,
	txm repository.TxManager,
	verifier *SignatureVerifier,
	notifier Notifier,
	auditSvc *AuditService,
	worker *jobs.Worker,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		demandRepo:  demandRepo,
		appRepo:     appRepo,
		txm:         txm,
		verifier:    verifier,
		notifier:    notifier,
		auditSvc:    auditSvc,
		worker:      worker,
	}
}

// RecordPayment posts a payment against a demand. Manual modes (CHALLAN,
// NEFT, COUNTER) settle immediately as SUCCESS; gateway modes start
// INITIATED with a generated order id and settle through the signed
// callback.
func (s *PaymentService) RecordPayment(ctx context.Context, arn string, input RecordPaymentInput, actor, ip, userAgent string) (*models.Payment, error) {
	if input.Amount <= 0 {
		return nil, ErrPaymentAmountInvalid
	}
	if !models.IsGatewayMode(input.Mode) && !models.IsManualMode(input.Mode) {
		return nil, ErrPaymentModeInvalid
	}

	app, err := s.appRepo.FindByARN(ctx, arn)
	if err != nil {
		return nil, ErrApplicationNotFound.Wrap(err)
	}

	var payment *models.Payment
	err = s.txm.Atomic(ctx, func(txr *repository.Repositories) error {
		demand, err := txr.Demand.FindByIDForUpdate(ctx, input.DemandID)
		if err != nil {
			return ErrDemandNotFoundOrNotPending.Wrap(err)
		}
		if demand.ApplicationID != app.ID {
			return ErrDemandARNMismatch
		}
		if demand.Status == models.DemandStatusPaid {
			return ErrDemandAlreadyPaid
		}
		if !demand.MayPay() {
			return ErrDemandNotPayable
		}

		settled, err := txr.Payment.SumSettled(ctx, demand.ID)
		if err != nil {
			return ErrStorageUnavailable.Wrap(err)
		}
		remaining := money.Round2(demand.TotalAmount - settled)
		if remaining <= 0 {
			return ErrDemandAlreadyPaid
		}
		if money.Round2(input.Amount) > remaining {
			return ErrPaymentExceedsBalance.Wrap(
				fmt.Errorf("amount %.2f exceeds remaining %.2f on demand %d", input.Amount, remaining, demand.ID))
		}

		payment = &models.Payment{
			ApplicationID: app.ID,
			DemandID:      &demand.ID,
			Mode:          input.Mode,
			Amount:        money.Round2(input.Amount),
			Currency:      demand.Currency,
			RecordedBy:    actor,
		}

		if models.IsGatewayMode(input.Mode) {
			orderID := "ORD-" + uuid.NewString()
			payment.GatewayOrderID = &orderID
			payment.Status = models.PaymentStatusInitiated
		} else {
			payment.Status = models.PaymentStatusSuccess
			issueReceipt(payment)
		}

		if err := txr.Payment.Create(ctx, payment); err != nil {
			if err == repository.ErrDuplicateGatewayOrder {
				return ErrPaymentReplayDetected.Wrap(err)
			}
			return ErrStorageUnavailable.Wrap(err)
		}

		if payment.IsSettled() {
			return s.settleDemand(ctx, txr, demand, settled+payment.Amount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if payment.IsSettled() {
		s.worker.EnqueueAsync(func(ctx context.Context) error {
			return s.notifier.Notify(ctx, arn, EventPaymentSuccess,
				"Payment received",
				fmt.Sprintf("Payment of %.2f %s received via %s", payment.Amount, payment.Currency, payment.Mode))
		})
	}

	s.auditSvc.Log(ctx, actor, "RECORD", "Payment", fmt.Sprintf("%d", payment.ID),
		fmt.Sprintf("Payment of %.2f recorded for %s via %s (status %s)", payment.Amount, arn, payment.Mode, payment.Status),
		ip, userAgent)

	return payment, nil
}

// VerifyGatewayCallback decides an INITIATED gateway payment from the signed
// callback. A replayed callback for an already settled order fails with
// PAYMENT_REPLAY_DETECTED and changes nothing; a declared failure marks the
// payment FAILED without touching demand balances.
func (s *PaymentService) VerifyGatewayCallback(ctx context.Context, cb GatewayCallback, ip, userAgent string) (*models.Payment, error) {
	if cb.GatewayOrderID == "" || cb.GatewayPaymentID == "" || cb.GatewaySignature == "" {
		return nil, ErrCallbackFieldsRequired
	}
	if !s.verifier.Configured() {
		logger.Error("Gateway callback received but no signature secret is configured")
		return nil, ErrSignatureSecretNotConfigured
	}
	if !s.verifier.Verify(cb.GatewayOrderID, cb.GatewayPaymentID, cb.GatewaySignature) {
		logger.Error("Gateway signature mismatch", "gateway_order_id", cb.GatewayOrderID)
		return nil, ErrInvalidGatewaySignature
	}

	var payment *models.Payment
	err := s.txm.Atomic(ctx, func(txr *repository.Repositories) error {
		var err error
		payment, err = txr.Payment.FindByGatewayOrderIDForUpdate(ctx, cb.GatewayOrderID)
		if err != nil {
			return ErrPaymentNotFound.Wrap(err)
		}
		if payment.IsSettled() {
			return ErrPaymentReplayDetected
		}
		if !payment.MayVerify() {
			return ErrPaymentNotFound.Wrap(
				fmt.Errorf("payment %d already decided as %s", payment.ID, payment.Status))
		}

		pfsm := statemachine.NewPaymentFSM(payment)
		switch cb.Status {
		case models.PaymentStatusSuccess:
			if err := pfsm.Verify(ctx); err != nil {
				return ErrPaymentNotFound.Wrap(err)
			}
			payment.GatewayPaymentID = &cb.GatewayPaymentID
			payment.GatewaySignature = &cb.GatewaySignature
			issueReceipt(payment)
		case models.PaymentStatusFailed:
			if err := pfsm.Fail(ctx); err != nil {
				return ErrPaymentNotFound.Wrap(err)
			}
			payment.FailureReason = cb.FailureReason
		default:
			return ErrCallbackFieldsRequired.Wrap(
				fmt.Errorf("unknown callback status %q", cb.Status))
		}

		if err := txr.Payment.Update(ctx, payment); err != nil {
			return ErrStorageUnavailable.Wrap(err)
		}

		if payment.IsSettled() && payment.DemandID != nil {
			demand, err := txr.Demand.FindByIDForUpdate(ctx, *payment.DemandID)
			if err != nil {
				return ErrStorageUnavailable.Wrap(err)
			}
			settled, err := txr.Payment.SumSettled(ctx, demand.ID)
			if err != nil {
				return ErrStorageUnavailable.Wrap(err)
			}
			return s.settleDemand(ctx, txr, demand, settled)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Reload with associations; the locked read above skips preloads.
	if full, err := s.paymentRepo.FindByID(ctx, payment.ID); err == nil {
		payment = full
	}

	event, subject := EventPaymentSuccess, "Payment verified"
	if payment.Status == models.PaymentStatusFailed {
		event, subject = EventPaymentFailed, "Payment failed"
	}
	arn := payment.Application.ARN
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notifier.Notify(ctx, arn, event, subject,
			fmt.Sprintf("Gateway payment %s is %s", cb.GatewayOrderID, payment.Status))
	})

	s.auditSvc.Log(ctx, "gateway", "VERIFY", "Payment", fmt.Sprintf("%d", payment.ID),
		fmt.Sprintf("Gateway callback for order %s decided payment as %s", cb.GatewayOrderID, payment.Status),
		ip, userAgent)

	return payment, nil
}

// settleDemand flips the demand to PAID once settled payments cover the
// total. The demand row is already locked by the caller.
func (s *PaymentService) settleDemand(ctx context.Context, txr *repository.Repositories, demand *models.Demand, settled float64) error {
	if money.Round2(demand.TotalAmount-settled) > 0 {
		return nil
	}

	dfsm := statemachine.NewDemandFSM(demand)
	if err := dfsm.Pay(ctx); err != nil {
		return ErrDemandNotPayable.Wrap(err)
	}
	now := time.Now().UTC()
	demand.SettledAt = &now
	if err := txr.Demand.Update(ctx, demand); err != nil {
		return ErrStorageUnavailable.Wrap(err)
	}
	return txr.Fee.UpdateStatusByDemand(ctx, demand.ID, models.FeeLineItemStatusPaid)
}

func issueReceipt(payment *models.Payment) {
	number := "RCPT-" + uuid.NewString()
	now := time.Now().UTC()
	payment.ReceiptNumber = &number
	payment.ReceiptIssuedAt = &now
}

// FindByID loads a payment with its application and demand.
func (s *PaymentService) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrPaymentNotFound.Wrap(err)
	}
	return payment, nil
}

// ListByApplication returns payments recorded for an application.
func (s *PaymentService) ListByApplication(ctx context.Context, arn string, query *repository.ListQuery) ([]models.Payment, int64, error) {
	app, err := s.appRepo.FindByARN(ctx, arn)
	if err != nil {
		return nil, 0, ErrApplicationNotFound.Wrap(err)
	}
	payments, total, err := s.paymentRepo.FindByApplication(ctx, app.ID, query)
	if err != nil {
		return nil, 0, ErrStorageUnavailable.Wrap(err)
	}
	return payments, total, nil
}
