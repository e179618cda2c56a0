package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nagarseva/nagarseva-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicateGatewayOrder is returned when a second payment row claims an
// existing gateway order id. The unique constraint, not an in-process check,
// is what makes replay detection hold under concurrent callbacks.
var ErrDuplicateGatewayOrder = errors.New("gateway order id already recorded")

// PaymentRepository defines the interface for payment data access
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByID(ctx context.Context, id uint) (*models.Payment, error)
	// FindByGatewayOrderIDForUpdate locks the payment row for the duration
	// of callback verification.
	FindByGatewayOrderIDForUpdate(ctx context.Context, orderID string) (*models.Payment, error)
	FindByApplication(ctx context.Context, applicationID uint, query *ListQuery) ([]models.Payment, int64, error)
	// SumSettled returns the sum of SUCCESS/VERIFIED payment amounts
	// recorded against a demand.
	SumSettled(ctx context.Context, demandID uint) (float64, error)
	Update(ctx context.Context, payment *models.Payment) error
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		if isUniqueViolation(err, "uidx_payments_gateway_order") {
			return ErrDuplicateGatewayOrder
		}
		return err
	}
	return nil
}

func isUniqueViolation(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == constraintName
	}
	return false
}

func (r *paymentRepository) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Preload("Application").
		Preload("Demand").
		First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByGatewayOrderIDForUpdate(ctx context.Context, orderID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("gateway_order_id = ?", orderID).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByApplication(ctx context.Context, applicationID uint, query *ListQuery) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Payment{}).Where("application_id = ?", applicationID)
	if query.Status != "" {
		q = q.Where("status = ?", query.Status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("created_at DESC").
		Limit(query.PerPage).
		Offset(query.Offset()).
		Find(&payments).Error
	return payments, total, err
}

func (r *paymentRepository) SumSettled(ctx context.Context, demandID uint) (float64, error) {
	var result struct {
		Total float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("demand_id = ? AND status IN ?", demandID,
			[]string{models.PaymentStatusSuccess, models.PaymentStatusVerified}).
		Scan(&result).Error
	return result.Total, err
}

func (r *paymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}
