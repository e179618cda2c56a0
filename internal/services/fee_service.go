package services

import (
	"context"
	"fmt"

	"github.com/nagarseva/nagarseva-api/internal/models"
	"github.com/nagarseva/nagarseva-api/internal/repository"
)

// SubmittedFeeItem is one {fee head, amount} pair a caller submits for
// assessment. Amounts are compared with exact equality; schedules are
// pre-rounded.
type SubmittedFeeItem struct {
	FeeHeadCode string  `json:"fee_head_code" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
}

// FeeService assesses fee line items against the authoritative schedule.
type FeeService struct {
	appRepo  repository.ApplicationRepository
	feeRepo  repository.FeeRepository
	resolver ScheduleResolver
	auditSvc *AuditService
}

// NewFeeService creates a new fee service
func NewFeeService(
	appRepo repository.ApplicationRepository,
	feeRepo repository.FeeRepository,
	resolver ScheduleResolver,
	auditSvc *AuditService,
) *FeeService {
	return &FeeService{
		appRepo:  appRepo,
		feeRepo:  feeRepo,
		resolver: resolver,
		auditSvc: auditSvc,
	}
}

// Assess validates the submitted items against the resolved schedule and
// persists one ASSESSED line item per schedule entry. Any mismatch fails the
// whole call; nothing is persisted partially.
func (s *FeeService) Assess(ctx context.Context, arn string, submitted []SubmittedFeeItem, actor, ip, userAgent string) ([]models.FeeLineItem, error) {
	app, err := s.appRepo.FindByARN(ctx, arn)
	if err != nil {
		return nil, ErrApplicationNotFound.Wrap(err)
	}

	schedule, err := s.resolver.ResolveSchedule(ctx, app.ServiceKey, app.AuthorityID)
	if err != nil {
		return nil, ErrStorageUnavailable.Wrap(err)
	}
	if len(schedule) == 0 {
		return nil, ErrFeeScheduleNotConfigured
	}

	if len(submitted) != len(schedule) {
		return nil, ErrFeeItemsMismatch
	}

	// Every submitted {feeHeadCode, amount} must exactly match one distinct
	// schedule entry.
	byHead := make(map[string]models.FeeSchedule, len(schedule))
	for _, entry := range schedule {
		byHead[entry.FeeHeadCode] = entry
	}
	matched := make(map[string]bool, len(submitted))
	for _, item := range submitted {
		entry, ok := byHead[item.FeeHeadCode]
		if !ok || matched[item.FeeHeadCode] || entry.Amount != item.Amount {
			return nil, ErrFeeItemsMismatch
		}
		matched[item.FeeHeadCode] = true
	}

	items := make([]models.FeeLineItem, 0, len(schedule))
	for _, entry := range schedule {
		items = append(items, models.FeeLineItem{
			ApplicationID:    app.ID,
			FeeHeadCode:      entry.FeeHeadCode,
			Description:      entry.Description,
			BaseAmount:       entry.Amount,
			WaiverAdjustment: 0,
			FinalAmount:      entry.Amount,
			Currency:         entry.Currency,
			Status:           models.FeeLineItemStatusAssessed,
			AssessedBy:       actor,
		})
	}

	if err := s.feeRepo.CreateAll(ctx, items); err != nil {
		return nil, ErrStorageUnavailable.Wrap(err)
	}

	s.auditSvc.Log(ctx, actor, "ASSESS", "FeeLineItem", arn,
		fmt.Sprintf("Assessed %d fee line items for %s", len(items), arn), ip, userAgent)

	return items, nil
}

// ListByApplication returns all line items assessed for an application.
func (s *FeeService) ListByApplication(ctx context.Context, arn string) ([]models.FeeLineItem, error) {
	app, err := s.appRepo.FindByARN(ctx, arn)
	if err != nil {
		return nil, ErrApplicationNotFound.Wrap(err)
	}
	items, err := s.feeRepo.FindByApplication(ctx, app.ID)
	if err != nil {
		return nil, ErrStorageUnavailable.Wrap(err)
	}
	return items, nil
}
