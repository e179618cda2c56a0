package services

import (
	"context"
	"fmt"
	"time"

	"github.com/nagarseva/nagarseva-api/internal/jobs"
	"github.com/nagarseva/nagarseva-api/internal/models"
	"github.com/nagarseva/nagarseva-api/internal/repository"
	"github.com/nagarseva/nagarseva-api/internal/statemachine"
	"github.com/nagarseva/nagarseva-api/pkg/money"
)

// CreateRefundInput carries a refund request against a settled payment.
type CreateRefundInput struct {
	Reason      string  `json:"reason" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	BankAccount string  `json:"bank_account"`
	BankIFSC    string  `json:"bank_ifsc"`
	BankHolder  string  `json:"bank_holder"`
}

// RefundService moves refund requests through the
// REQUESTED→APPROVED→PROCESSED workflow.
type RefundService struct {
	refundRepo  repository.RefundRepository
	paymentRepo repository.PaymentRepository
	txm         repository.TxManager
	notifier    Notifier
	auditSvc    *AuditService
	worker      *jobs.Worker
}

// NewRefundService creates a new refund service
func NewRefundService(
	refundRepo repository.RefundRepository,
	paymentRepo repository.PaymentRepository,
	txm repository.TxManager,
	notifier Notifier,
	auditSvc *AuditService,
	worker *jobs.Worker,
) *RefundService {
	return &RefundService{
		refundRepo:  refundRepo,
		paymentRepo: paymentRepo,
		txm:         txm,
		notifier:    notifier,
		auditSvc:    auditSvc,
		worker:      worker,
	}
}

// Create opens a REQUESTED refund against a settled payment. At most one
// active request (REQUESTED or APPROVED) may exist per payment.
func (s *RefundService) Create(ctx context.Context, paymentID uint, input CreateRefundInput, actor, ip, userAgent string) (*models.RefundRequest, error) {
	if input.Amount <= 0 {
		return nil, ErrPaymentAmountInvalid
	}

	var refund *models.RefundRequest
	err := s.txm.Atomic(ctx, func(txr *repository.Repositories) error {
		payment, err := txr.Payment.FindByID(ctx, paymentID)
		if err != nil {
			return ErrPaymentNotFound.Wrap(err)
		}
		if !payment.IsSettled() {
			return ErrRefundPaymentNotSettled
		}
		if money.Round2(input.Amount) > payment.Amount {
			return ErrRefundExceedsPayment.Wrap(
				fmt.Errorf("refund %.2f exceeds payment %.2f", input.Amount, payment.Amount))
		}

		active, err := txr.Refund.FindActiveByPayment(ctx, payment.ID)
		if err != nil {
			return ErrStorageUnavailable.Wrap(err)
		}
		if len(active) > 0 {
			return ErrRefundAlreadyActive
		}

		refund = &models.RefundRequest{
			ApplicationID: payment.ApplicationID,
			PaymentID:     payment.ID,
			Reason:        input.Reason,
			Amount:        money.Round2(input.Amount),
			Currency:      payment.Currency,
			BankAccount:   input.BankAccount,
			BankIFSC:      input.BankIFSC,
			BankHolder:    input.BankHolder,
			Status:        models.RefundStatusRequested,
			RequestedBy:   actor,
		}
		if err := txr.Refund.Create(ctx, refund); err != nil {
			return ErrStorageUnavailable.Wrap(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actor, "CREATE", "RefundRequest", fmt.Sprintf("%d", refund.ID),
		fmt.Sprintf("Refund of %.2f requested against payment %d", refund.Amount, paymentID),
		ip, userAgent)

	return refund, nil
}

// Approve moves a REQUESTED refund to APPROVED.
func (s *RefundService) Approve(ctx context.Context, id uint, actor, ip, userAgent string) (*models.RefundRequest, error) {
	refund, err := s.transition(ctx, id, actor, func(fsm *statemachine.RefundFSM, r *models.RefundRequest) error {
		if err := fsm.Approve(ctx); err != nil {
			return err
		}
		now := time.Now().UTC()
		r.DecidedBy = &actor
		r.DecidedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyDecision(refund, EventRefundApproved, "Refund approved")
	s.auditSvc.Log(ctx, actor, "APPROVE", "RefundRequest", fmt.Sprintf("%d", id),
		fmt.Sprintf("Refund %d approved", id), ip, userAgent)
	return refund, nil
}

// Reject moves a REQUESTED refund to REJECTED (terminal).
func (s *RefundService) Reject(ctx context.Context, id uint, actor, ip, userAgent string) (*models.RefundRequest, error) {
	refund, err := s.transition(ctx, id, actor, func(fsm *statemachine.RefundFSM, r *models.RefundRequest) error {
		if err := fsm.Reject(ctx); err != nil {
			return err
		}
		now := time.Now().UTC()
		r.DecidedBy = &actor
		r.DecidedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyDecision(refund, EventRefundRejected, "Refund rejected")
	s.auditSvc.Log(ctx, actor, "REJECT", "RefundRequest", fmt.Sprintf("%d", id),
		fmt.Sprintf("Refund %d rejected", id), ip, userAgent)
	return refund, nil
}

// Process moves an APPROVED refund to PROCESSED (terminal) once the payout
// has been executed.
func (s *RefundService) Process(ctx context.Context, id uint, actor, ip, userAgent string) (*models.RefundRequest, error) {
	refund, err := s.transition(ctx, id, actor, func(fsm *statemachine.RefundFSM, r *models.RefundRequest) error {
		if err := fsm.Process(ctx); err != nil {
			return err
		}
		now := time.Now().UTC()
		r.ProcessedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyDecision(refund, EventRefundProcessed, "Refund processed")
	s.auditSvc.Log(ctx, actor, "PROCESS", "RefundRequest", fmt.Sprintf("%d", id),
		fmt.Sprintf("Refund %d processed", id), ip, userAgent)
	return refund, nil
}

// transition loads the request row-locked, applies the event and persists.
// Not-found and wrong-state share one error shape.
func (s *RefundService) transition(ctx context.Context, id uint, actor string, event func(*statemachine.RefundFSM, *models.RefundRequest) error) (*models.RefundRequest, error) {
	var refund *models.RefundRequest
	err := s.txm.Atomic(ctx, func(txr *repository.Repositories) error {
		var err error
		refund, err = txr.Refund.FindByIDForUpdate(ctx, id)
		if err != nil {
			return ErrRefundNotFoundOrWrongState.Wrap(err)
		}

		fsm := statemachine.NewRefundFSM(refund)
		if err := event(fsm, refund); err != nil {
			return ErrRefundNotFoundOrWrongState.Wrap(err)
		}

		if err := txr.Refund.Update(ctx, refund); err != nil {
			return ErrStorageUnavailable.Wrap(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refund, nil
}

func (s *RefundService) notifyDecision(refund *models.RefundRequest, event, subject string) {
	arn := refund.Application.ARN
	amount, currency, status := refund.Amount, refund.Currency, refund.Status
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notifier.Notify(ctx, arn, event, subject,
			fmt.Sprintf("Refund of %.2f %s is %s", amount, currency, status))
	})
}

// FindByID loads a refund request with its payment.
func (s *RefundService) FindByID(ctx context.Context, id uint) (*models.RefundRequest, error) {
	refund, err := s.refundRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrRefundNotFoundOrWrongState.Wrap(err)
	}
	return refund, nil
}
