package repository

import (
	"context"

	"github.com/nagarseva/nagarseva-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DemandRepository defines the interface for demand data access
type DemandRepository interface {
	Create(ctx context.Context, demand *models.Demand) error
	FindByID(ctx context.Context, id uint) (*models.Demand, error)
	// FindByIDForUpdate locks the demand row so balance checks and
	// settlement updates serialize per demand.
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Demand, error)
	FindByApplication(ctx context.Context, applicationID uint, query *ListQuery) ([]models.Demand, int64, error)
	FindOverdue(ctx context.Context) ([]models.Demand, error)
	Update(ctx context.Context, demand *models.Demand) error
}

type demandRepository struct {
	db *gorm.DB
}

// NewDemandRepository creates a new demand repository
func NewDemandRepository(db *gorm.DB) DemandRepository {
	return &demandRepository{db: db}
}

func (r *demandRepository) Create(ctx context.Context, demand *models.Demand) error {
	return r.db.WithContext(ctx).Create(demand).Error
}

func (r *demandRepository) FindByID(ctx context.Context, id uint) (*models.Demand, error) {
	var demand models.Demand
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		Preload("Application").
		First(&demand, id).Error
	if err != nil {
		return nil, err
	}
	return &demand, nil
}

func (r *demandRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Demand, error) {
	var demand models.Demand
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&demand, id).Error
	if err != nil {
		return nil, err
	}
	return &demand, nil
}

func (r *demandRepository) FindByApplication(ctx context.Context, applicationID uint, query *ListQuery) ([]models.Demand, int64, error) {
	var demands []models.Demand
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Demand{}).Where("application_id = ?", applicationID)
	if query.Status != "" {
		q = q.Where("status = ?", query.Status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("LineItems").
		Order("created_at DESC").
		Limit(query.PerPage).
		Offset(query.Offset()).
		Find(&demands).Error
	return demands, total, err
}

func (r *demandRepository) FindOverdue(ctx context.Context) ([]models.Demand, error) {
	var demands []models.Demand
	err := r.db.WithContext(ctx).
		Preload("Application").
		Where("status = ? AND due_date < CURRENT_DATE", models.DemandStatusPending).
		Order("due_date ASC").
		Find(&demands).Error
	return demands, err
}

func (r *demandRepository) Update(ctx context.Context, demand *models.Demand) error {
	return r.db.WithContext(ctx).Save(demand).Error
}
