package repository

import (
	"context"

	"github.com/nagarseva/nagarseva-api/internal/models"

	"gorm.io/gorm"
)

// ApplicationRepository defines the interface for application data access
type ApplicationRepository interface {
	FindByARN(ctx context.Context, arn string) (*models.Application, error)
	Create(ctx context.Context, app *models.Application) error
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) FindByARN(ctx context.Context, arn string) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Where("arn = ?", arn).
		First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) Create(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}
