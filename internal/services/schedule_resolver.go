package services

import (
	"context"
	"fmt"

	"github.com/nagarseva/nagarseva-api/internal/models"
	"github.com/nagarseva/nagarseva-api/internal/repository"
)

// ScheduleResolver returns the authoritative {fee head, amount} list a
// citizen must pay for a service under an authority. Schedule storage is an
// external collaborator; the repository-backed resolver is the default.
type ScheduleResolver interface {
	ResolveSchedule(ctx context.Context, serviceKey, authorityID string) ([]models.FeeSchedule, error)
}

type repositoryScheduleResolver struct {
	repo repository.FeeScheduleRepository
}

// NewScheduleResolver creates the repository-backed schedule resolver
func NewScheduleResolver(repo repository.FeeScheduleRepository) ScheduleResolver {
	return &repositoryScheduleResolver{repo: repo}
}

func (r *repositoryScheduleResolver) ResolveSchedule(ctx context.Context, serviceKey, authorityID string) ([]models.FeeSchedule, error) {
	entries, err := r.repo.FindActive(ctx, serviceKey, authorityID)
	if err != nil {
		return nil, fmt.Errorf("resolve fee schedule for %s/%s: %w", serviceKey, authorityID, err)
	}
	return entries, nil
}
