package repository

import (
	"context"

	"github.com/nagarseva/nagarseva-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RefundRepository defines the interface for refund request data access
type RefundRepository interface {
	Create(ctx context.Context, refund *models.RefundRequest) error
	FindByID(ctx context.Context, id uint) (*models.RefundRequest, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.RefundRequest, error)
	// FindActiveByPayment returns refunds still blocking a new request
	// against the payment (REQUESTED or APPROVED).
	FindActiveByPayment(ctx context.Context, paymentID uint) ([]models.RefundRequest, error)
	Update(ctx context.Context, refund *models.RefundRequest) error
}

type refundRepository struct {
	db *gorm.DB
}

// NewRefundRepository creates a new refund repository
func NewRefundRepository(db *gorm.DB) RefundRepository {
	return &refundRepository{db: db}
}

func (r *refundRepository) Create(ctx context.Context, refund *models.RefundRequest) error {
	return r.db.WithContext(ctx).Create(refund).Error
}

func (r *refundRepository) FindByID(ctx context.Context, id uint) (*models.RefundRequest, error) {
	var refund models.RefundRequest
	err := r.db.WithContext(ctx).
		Preload("Application").
		Preload("Payment").
		First(&refund, id).Error
	if err != nil {
		return nil, err
	}
	return &refund, nil
}

func (r *refundRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.RefundRequest, error) {
	var refund models.RefundRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&refund, id).Error
	if err != nil {
		return nil, err
	}
	return &refund, nil
}

func (r *refundRepository) FindActiveByPayment(ctx context.Context, paymentID uint) ([]models.RefundRequest, error) {
	var refunds []models.RefundRequest
	err := r.db.WithContext(ctx).
		Where("payment_id = ? AND status IN ?", paymentID,
			[]string{models.RefundStatusRequested, models.RefundStatusApproved}).
		Find(&refunds).Error
	return refunds, err
}

func (r *refundRepository) Update(ctx context.Context, refund *models.RefundRequest) error {
	return r.db.WithContext(ctx).Save(refund).Error
}
