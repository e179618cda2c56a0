package services

import (
	"context"

	"github.com/nagarseva/nagarseva-api/internal/models"
	"github.com/nagarseva/nagarseva-api/internal/repository"
)

// fakeTxManager runs the atomic block directly against the given repos.
type fakeTxManager struct {
	repos *repository.Repositories
}

func (f *fakeTxManager) Atomic(ctx context.Context, fn func(r *repository.Repositories) error) error {
	return fn(f.repos)
}

type mockApplicationRepo struct {
	repository.ApplicationRepository
	mockFindByARN func(ctx context.Context, arn string) (*models.Application, error)
}

func (m *mockApplicationRepo) FindByARN(ctx context.Context, arn string) (*models.Application, error) {
	return m.mockFindByARN(ctx, arn)
}

type mockFeeRepo struct {
	repository.FeeRepository
	mockCreateAll            func(ctx context.Context, items []models.FeeLineItem) error
	mockFindByIDsForUpdate   func(ctx context.Context, ids []uint) ([]models.FeeLineItem, error)
	mockFindByApplication    func(ctx context.Context, applicationID uint) ([]models.FeeLineItem, error)
	mockFindByDemand         func(ctx context.Context, demandID uint) ([]models.FeeLineItem, error)
	mockUpdate               func(ctx context.Context, item *models.FeeLineItem) error
	mockUpdateStatusByDemand func(ctx context.Context, demandID uint, status string) error
}

func (m *mockFeeRepo) CreateAll(ctx context.Context, items []models.FeeLineItem) error {
	if m.mockCreateAll != nil {
		return m.mockCreateAll(ctx, items)
	}
	return nil
}

func (m *mockFeeRepo) FindByIDsForUpdate(ctx context.Context, ids []uint) ([]models.FeeLineItem, error) {
	return m.mockFindByIDsForUpdate(ctx, ids)
}

func (m *mockFeeRepo) FindByApplication(ctx context.Context, applicationID uint) ([]models.FeeLineItem, error) {
	return m.mockFindByApplication(ctx, applicationID)
}

func (m *mockFeeRepo) FindByDemand(ctx context.Context, demandID uint) ([]models.FeeLineItem, error) {
	if m.mockFindByDemand != nil {
		return m.mockFindByDemand(ctx, demandID)
	}
	return nil, nil
}

func (m *mockFeeRepo) Update(ctx context.Context, item *models.FeeLineItem) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, item)
	}
	return nil
}

func (m *mockFeeRepo) UpdateStatusByDemand(ctx context.Context, demandID uint, status string) error {
	if m.mockUpdateStatusByDemand != nil {
		return m.mockUpdateStatusByDemand(ctx, demandID, status)
	}
	return nil
}

type mockScheduleRepo struct {
	repository.FeeScheduleRepository
	mockFindActive func(ctx context.Context, serviceKey, authorityID string) ([]models.FeeSchedule, error)
}

func (m *mockScheduleRepo) FindActive(ctx context.Context, serviceKey, authorityID string) ([]models.FeeSchedule, error) {
	return m.mockFindActive(ctx, serviceKey, authorityID)
}

type mockDemandRepo struct {
	repository.DemandRepository
	mockCreate            func(ctx context.Context, demand *models.Demand) error
	mockFindByID          func(ctx context.Context, id uint) (*models.Demand, error)
	mockFindByIDForUpdate func(ctx context.Context, id uint) (*models.Demand, error)
	mockFindOverdue       func(ctx context.Context) ([]models.Demand, error)
	mockUpdate            func(ctx context.Context, demand *models.Demand) error
}

func (m *mockDemandRepo) Create(ctx context.Context, demand *models.Demand) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, demand)
	}
	demand.ID = 1
	return nil
}

func (m *mockDemandRepo) FindByID(ctx context.Context, id uint) (*models.Demand, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockDemandRepo) FindByIDForUpdate(ctx context.Context, id uint) (*models.Demand, error) {
	return m.mockFindByIDForUpdate(ctx, id)
}

func (m *mockDemandRepo) FindOverdue(ctx context.Context) ([]models.Demand, error) {
	return m.mockFindOverdue(ctx)
}

func (m *mockDemandRepo) Update(ctx context.Context, demand *models.Demand) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, demand)
	}
	return nil
}

type mockPaymentRepo struct {
	repository.PaymentRepository
	mockCreate                        func(ctx context.Context, payment *models.Payment) error
	mockFindByID                      func(ctx context.Context, id uint) (*models.Payment, error)
	mockFindByGatewayOrderIDForUpdate func(ctx context.Context, orderID string) (*models.Payment, error)
	mockSumSettled                    func(ctx context.Context, demandID uint) (float64, error)
	mockUpdate                        func(ctx context.Context, payment *models.Payment) error
}

func (m *mockPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, payment)
	}
	payment.ID = 1
	return nil
}

func (m *mockPaymentRepo) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockPaymentRepo) FindByGatewayOrderIDForUpdate(ctx context.Context, orderID string) (*models.Payment, error) {
	return m.mockFindByGatewayOrderIDForUpdate(ctx, orderID)
}

func (m *mockPaymentRepo) SumSettled(ctx context.Context, demandID uint) (float64, error) {
	if m.mockSumSettled != nil {
		return m.mockSumSettled(ctx, demandID)
	}
	return 0, nil
}

func (m *mockPaymentRepo) Update(ctx context.Context, payment *models.Payment) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, payment)
	}
	return nil
}

type mockRefundRepo struct {
	repository.RefundRepository
	mockCreate              func(ctx context.Context, refund *models.RefundRequest) error
	mockFindByIDForUpdate   func(ctx context.Context, id uint) (*models.RefundRequest, error)
	mockFindActiveByPayment func(ctx context.Context, paymentID uint) ([]models.RefundRequest, error)
	mockUpdate              func(ctx context.Context, refund *models.RefundRequest) error
}

func (m *mockRefundRepo) Create(ctx context.Context, refund *models.RefundRequest) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, refund)
	}
	refund.ID = 1
	return nil
}

func (m *mockRefundRepo) FindByIDForUpdate(ctx context.Context, id uint) (*models.RefundRequest, error) {
	return m.mockFindByIDForUpdate(ctx, id)
}

func (m *mockRefundRepo) FindActiveByPayment(ctx context.Context, paymentID uint) ([]models.RefundRequest, error) {
	if m.mockFindActiveByPayment != nil {
		return m.mockFindActiveByPayment(ctx, paymentID)
	}
	return nil, nil
}

func (m *mockRefundRepo) Update(ctx context.Context, refund *models.RefundRequest) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, refund)
	}
	return nil
}

type mockPropertyRepo struct {
	repository.PropertyRepository
	mockFindByUPN          func(ctx context.Context, upn string) (*models.Property, error)
	mockFindByUPNForUpdate func(ctx context.Context, upn string) (*models.Property, error)
	mockUpdate             func(ctx context.Context, property *models.Property) error
}

func (m *mockPropertyRepo) FindByUPN(ctx context.Context, upn string) (*models.Property, error) {
	return m.mockFindByUPN(ctx, upn)
}

func (m *mockPropertyRepo) FindByUPNForUpdate(ctx context.Context, upn string) (*models.Property, error) {
	return m.mockFindByUPNForUpdate(ctx, upn)
}

func (m *mockPropertyRepo) Update(ctx context.Context, property *models.Property) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, property)
	}
	return nil
}

// noopNotifier swallows notifications in tests.
type noopNotifier struct{}

func (noopNotifier) Notify(ctx context.Context, arn, event, subject, message string) error {
	return nil
}
