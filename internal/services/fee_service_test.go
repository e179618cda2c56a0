package services

import (
	"context"
	"testing"

	"github.com/nagarseva/nagarseva-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func feeServiceFixture() (*FeeService, *mockApplicationRepo, *mockFeeRepo, *mockScheduleRepo) {
	appRepo := &mockApplicationRepo{
		mockFindByARN: func(ctx context.Context, arn string) (*models.Application, error) {
			return &models.Application{ID: 7, ARN: arn, ServiceKey: "WATER_CONN", AuthorityID: "AUTH-1"}, nil
		},
	}
	feeRepo := &mockFeeRepo{}
	schedRepo := &mockScheduleRepo{
		mockFindActive: func(ctx context.Context, serviceKey, authorityID string) ([]models.FeeSchedule, error) {
			return []models.FeeSchedule{
				{FeeHeadCode: "APP_FEE", Description: "Application fee", Amount: 500, Currency: "INR"},
				{FeeHeadCode: "CONN_FEE", Description: "Connection fee", Amount: 750, Currency: "INR"},
			}, nil
		},
	}
	svc := NewFeeService(appRepo, feeRepo, NewScheduleResolver(schedRepo), NewAuditService(nil))
	return svc, appRepo, feeRepo, schedRepo
}

func TestFeeService_Assess_Success(t *testing.T) {
	svc, _, feeRepo, _ := feeServiceFixture()

	var persisted []models.FeeLineItem
	feeRepo.mockCreateAll = func(ctx context.Context, items []models.FeeLineItem) error {
		persisted = items
		return nil
	}

	items, err := svc.Assess(context.Background(), "ARN-100", []SubmittedFeeItem{
		{FeeHeadCode: "APP_FEE", Amount: 500},
		{FeeHeadCode: "CONN_FEE", Amount: 750},
	}, "officer-1", "127.0.0.1", "test")

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Len(t, persisted, 2)
	for _, item := range items {
		assert.Equal(t, models.FeeLineItemStatusAssessed, item.Status)
		assert.Equal(t, item.BaseAmount, item.FinalAmount)
		assert.Equal(t, 0.0, item.WaiverAdjustment)
		assert.Equal(t, uint(7), item.ApplicationID)
	}
}

func TestFeeService_Assess_AmountMismatch(t *testing.T) {
	svc, _, _, _ := feeServiceFixture()

	_, err := svc.Assess(context.Background(), "ARN-100", []SubmittedFeeItem{
		{FeeHeadCode: "APP_FEE", Amount: 500},
		{FeeHeadCode: "CONN_FEE", Amount: 700}, // schedule says 750
	}, "officer-1", "", "")

	svcErr, ok := AsServiceError(err)
	assert.True(t, ok)
	assert.Equal(t, ErrFeeItemsMismatch.Code, svcErr.Code)
}

func TestFeeService_Assess_MissingHead(t *testing.T) {
	svc, _, _, _ := feeServiceFixture()

	_, err := svc.Assess(context.Background(), "ARN-100", []SubmittedFeeItem{
		{FeeHeadCode: "APP_FEE", Amount: 500},
	}, "officer-1", "", "")

	assert.ErrorIs(t, err, ErrFeeItemsMismatch)
}

func TestFeeService_Assess_DuplicateHead(t *testing.T) {
	svc, _, _, _ := feeServiceFixture()

	_, err := svc.Assess(context.Background(), "ARN-100", []SubmittedFeeItem{
		{FeeHeadCode: "APP_FEE", Amount: 500},
		{FeeHeadCode: "APP_FEE", Amount: 500},
	}, "officer-1", "", "")

	assert.ErrorIs(t, err, ErrFeeItemsMismatch)
}

func TestFeeService_Assess_UnknownHead(t *testing.T) {
	svc, _, _, _ := feeServiceFixture()

	_, err := svc.Assess(context.Background(), "ARN-100", []SubmittedFeeItem{
		{FeeHeadCode: "APP_FEE", Amount: 500},
		{FeeHeadCode: "OTHER_FEE", Amount: 750},
	}, "officer-1", "", "")

	assert.ErrorIs(t, err, ErrFeeItemsMismatch)
}

func TestFeeService_Assess_NoScheduleConfigured(t *testing.T) {
	svc, _, _, schedRepo := feeServiceFixture()
	schedRepo.mockFindActive = func(ctx context.Context, serviceKey, authorityID string) ([]models.FeeSchedule, error) {
		return nil, nil
	}

	_, err := svc.Assess(context.Background(), "ARN-100", []SubmittedFeeItem{
		{FeeHeadCode: "APP_FEE", Amount: 500},
	}, "officer-1", "", "")

	assert.ErrorIs(t, err, ErrFeeScheduleNotConfigured)
}

func TestFeeService_Assess_NothingPersistedOnMismatch(t *testing.T) {
	svc, _, feeRepo, _ := feeServiceFixture()

	called := false
	feeRepo.mockCreateAll = func(ctx context.Context, items []models.FeeLineItem) error {
		called = true
		return nil
	}

	_, err := svc.Assess(context.Background(), "ARN-100", []SubmittedFeeItem{
		{FeeHeadCode: "APP_FEE", Amount: 1},
		{FeeHeadCode: "CONN_FEE", Amount: 750},
	}, "officer-1", "", "")

	assert.Error(t, err)
	assert.False(t, called)
}
