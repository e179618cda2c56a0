package repository

import (
	"context"

	"github.com/nagarseva/nagarseva-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PropertyRepository defines the interface for property data access.
// The dues ledger itself is never stored; only the seed configuration and
// its append-only payment log live here.
type PropertyRepository interface {
	FindByUPN(ctx context.Context, upn string) (*models.Property, error)
	// FindByUPNForUpdate locks the property row so concurrent due postings
	// against the same property serialize.
	FindByUPNForUpdate(ctx context.Context, upn string) (*models.Property, error)
	Create(ctx context.Context, property *models.Property) error
	Update(ctx context.Context, property *models.Property) error
}

type propertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository creates a new property repository
func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) FindByUPN(ctx context.Context, upn string) (*models.Property, error) {
	var property models.Property
	err := r.db.WithContext(ctx).
		Where("upn = ?", upn).
		First(&property).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *propertyRepository) FindByUPNForUpdate(ctx context.Context, upn string) (*models.Property, error) {
	var property models.Property
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("upn = ?", upn).
		First(&property).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *propertyRepository) Create(ctx context.Context, property *models.Property) error {
	return r.db.WithContext(ctx).Create(property).Error
}

func (r *propertyRepository) Update(ctx context.Context, property *models.Property) error {
	return r.db.WithContext(ctx).Save(property).Error
}
