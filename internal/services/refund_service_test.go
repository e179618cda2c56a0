package services

import (
	"context"
	"testing"

	"github.com/nagarseva/nagarseva-api/internal/jobs"
	"github.com/nagarseva/nagarseva-api/internal/models"
	"github.com/nagarseva/nagarseva-api/internal/repository"
	"github.com/stretchr/testify/assert"
)

func refundServiceFixture(refundRepo *mockRefundRepo, paymentRepo *mockPaymentRepo) *RefundService {
	txm := &fakeTxManager{repos: &repository.Repositories{
		Refund:  refundRepo,
		Payment: paymentRepo,
	}}
	return NewRefundService(refundRepo, paymentRepo, txm, noopNotifier{},
		NewAuditService(nil), jobs.NewWorker(1))
}

func settledPayment() *models.Payment {
	return &models.Payment{ID: 11, ApplicationID: 7, Amount: 1000, Currency: "INR", Status: models.PaymentStatusSuccess}
}

func TestRefundService_Create_Success(t *testing.T) {
	paymentRepo := &mockPaymentRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Payment, error) {
			return settledPayment(), nil
		},
	}
	svc := refundServiceFixture(&mockRefundRepo{}, paymentRepo)

	refund, err := svc.Create(context.Background(), 11,
		CreateRefundInput{Reason: "duplicate payment", Amount: 1000}, "citizen-1", "", "")

	assert.NoError(t, err)
	assert.Equal(t, models.RefundStatusRequested, refund.Status)
	assert.Equal(t, 1000.0, refund.Amount)
	assert.Equal(t, uint(11), refund.PaymentID)
}

func TestRefundService_Create_ExceedsPaymentAmount(t *testing.T) {
	paymentRepo := &mockPaymentRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Payment, error) {
			return settledPayment(), nil
		},
	}
	svc := refundServiceFixture(&mockRefundRepo{}, paymentRepo)

	_, err := svc.Create(context.Background(), 11,
		CreateRefundInput{Reason: "overcharged", Amount: 1000.01}, "citizen-1", "", "")

	assert.ErrorIs(t, err, ErrRefundExceedsPayment)
}

func TestRefundService_Create_UnsettledPayment(t *testing.T) {
	paymentRepo := &mockPaymentRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Payment, error) {
			p := settledPayment()
			p.Status = models.PaymentStatusInitiated
			return p, nil
		},
	}
	svc := refundServiceFixture(&mockRefundRepo{}, paymentRepo)

	_, err := svc.Create(context.Background(), 11,
		CreateRefundInput{Reason: "changed mind", Amount: 100}, "citizen-1", "", "")

	assert.ErrorIs(t, err, ErrRefundPaymentNotSettled)
}

func TestRefundService_Create_OneActivePerPayment(t *testing.T) {
	paymentRepo := &mockPaymentRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.Payment, error) {
			return settledPayment(), nil
		},
	}
	refundRepo := &mockRefundRepo{
		mockFindActiveByPayment: func(ctx context.Context, paymentID uint) ([]models.RefundRequest, error) {
			return []models.RefundRequest{{ID: 1, Status: models.RefundStatusRequested}}, nil
		},
	}
	svc := refundServiceFixture(refundRepo, paymentRepo)

	_, err := svc.Create(context.Background(), 11,
		CreateRefundInput{Reason: "duplicate", Amount: 100}, "citizen-1", "", "")

	assert.ErrorIs(t, err, ErrRefundAlreadyActive)
}

func TestRefundService_ApproveThenProcess(t *testing.T) {
	refund := &models.RefundRequest{ID: 1, PaymentID: 11, Amount: 1000, Status: models.RefundStatusRequested}
	refundRepo := &mockRefundRepo{
		mockFindByIDForUpdate: func(ctx context.Context, id uint) (*models.RefundRequest, error) {
			return refund, nil
		},
	}
	svc := refundServiceFixture(refundRepo, &mockPaymentRepo{})

	approved, err := svc.Approve(context.Background(), 1, "officer-1", "", "")
	assert.NoError(t, err)
	assert.Equal(t, models.RefundStatusApproved, approved.Status)
	assert.NotNil(t, approved.DecidedAt)

	processed, err := svc.Process(context.Background(), 1, "officer-1", "", "")
	assert.NoError(t, err)
	assert.Equal(t, models.RefundStatusProcessed, processed.Status)
	assert.NotNil(t, processed.ProcessedAt)

	// A second approve on the processed request fails with the unified
	// not-found/wrong-state shape.
	_, err = svc.Approve(context.Background(), 1, "officer-1", "", "")
	svcErr, ok := AsServiceError(err)
	assert.True(t, ok)
	assert.Equal(t, ErrRefundNotFoundOrWrongState.Code, svcErr.Code)
}

func TestRefundService_Reject_IsTerminal(t *testing.T) {
	refund := &models.RefundRequest{ID: 1, PaymentID: 11, Amount: 1000, Status: models.RefundStatusRequested}
	refundRepo := &mockRefundRepo{
		mockFindByIDForUpdate: func(ctx context.Context, id uint) (*models.RefundRequest, error) {
			return refund, nil
		},
	}
	svc := refundServiceFixture(refundRepo, &mockPaymentRepo{})

	rejected, err := svc.Reject(context.Background(), 1, "officer-1", "", "")
	assert.NoError(t, err)
	assert.Equal(t, models.RefundStatusRejected, rejected.Status)

	_, err = svc.Process(context.Background(), 1, "officer-1", "", "")
	assert.ErrorIs(t, err, ErrRefundNotFoundOrWrongState)
}

func TestRefundService_Process_RequiresApproved(t *testing.T) {
	refund := &models.RefundRequest{ID: 1, Status: models.RefundStatusRequested}
	refundRepo := &mockRefundRepo{
		mockFindByIDForUpdate: func(ctx context.Context, id uint) (*models.RefundRequest, error) {
			return refund, nil
		},
	}
	svc := refundServiceFixture(refundRepo, &mockPaymentRepo{})

	_, err := svc.Process(context.Background(), 1, "officer-1", "", "")
	assert.ErrorIs(t, err, ErrRefundNotFoundOrWrongState)
}
