package repository

import (
	"context"

	"github.com/nagarseva/nagarseva-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FeeRepository defines the interface for fee line item data access
type FeeRepository interface {
	CreateAll(ctx context.Context, items []models.FeeLineItem) error
	FindByIDsForUpdate(ctx context.Context, ids []uint) ([]models.FeeLineItem, error)
	FindByApplication(ctx context.Context, applicationID uint) ([]models.FeeLineItem, error)
	FindByDemand(ctx context.Context, demandID uint) ([]models.FeeLineItem, error)
	Update(ctx context.Context, item *models.FeeLineItem) error
	UpdateStatusByDemand(ctx context.Context, demandID uint, status string) error
}

type feeRepository struct {
	db *gorm.DB
}

// NewFeeRepository creates a new fee line item repository
func NewFeeRepository(db *gorm.DB) FeeRepository {
	return &feeRepository{db: db}
}

// CreateAll persists a batch of line items in one statement so assessment
// is all-or-nothing.
func (r *feeRepository) CreateAll(ctx context.Context, items []models.FeeLineItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// FindByIDsForUpdate loads line items with a row lock so demand creation is
// serialized against concurrent grouping of the same items.
func (r *feeRepository) FindByIDsForUpdate(ctx context.Context, ids []uint) ([]models.FeeLineItem, error) {
	var items []models.FeeLineItem
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Find(&items).Error
	return items, err
}

func (r *feeRepository) FindByApplication(ctx context.Context, applicationID uint) ([]models.FeeLineItem, error) {
	var items []models.FeeLineItem
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *feeRepository) FindByDemand(ctx context.Context, demandID uint) ([]models.FeeLineItem, error) {
	var items []models.FeeLineItem
	err := r.db.WithContext(ctx).
		Where("demand_id = ?", demandID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *feeRepository) Update(ctx context.Context, item *models.FeeLineItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *feeRepository) UpdateStatusByDemand(ctx context.Context, demandID uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.FeeLineItem{}).
		Where("demand_id = ?", demandID).
		Update("status", status).Error
}

// FeeScheduleRepository defines the interface for fee schedule lookups
type FeeScheduleRepository interface {
	FindActive(ctx context.Context, serviceKey, authorityID string) ([]models.FeeSchedule, error)
	Create(ctx context.Context, entry *models.FeeSchedule) error
}

type feeScheduleRepository struct {
	db *gorm.DB
}

// NewFeeScheduleRepository creates a new fee schedule repository
func NewFeeScheduleRepository(db *gorm.DB) FeeScheduleRepository {
	return &feeScheduleRepository{db: db}
}

func (r *feeScheduleRepository) FindActive(ctx context.Context, serviceKey, authorityID string) ([]models.FeeSchedule, error) {
	var entries []models.FeeSchedule
	err := r.db.WithContext(ctx).
		Where("service_key = ? AND authority_id = ? AND active = ?", serviceKey, authorityID, true).
		Order("fee_head_code ASC").
		Find(&entries).Error
	return entries, err
}

func (r *feeScheduleRepository) Create(ctx context.Context, entry *models.FeeSchedule) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
