package services

import (
	"context"
	"fmt"
	"time"

	"github.com/nagarseva/nagarseva-api/internal/jobs"
	"github.com/nagarseva/nagarseva-api/internal/models"
	"github.com/nagarseva/nagarseva-api/internal/repository"
	"github.com/nagarseva/nagarseva-api/internal/statemachine"
	"github.com/nagarseva/nagarseva-api/pkg/logger"
	"github.com/nagarseva/nagarseva-api/pkg/money"
)

// DefaultDemandDueDays is the due-date window when neither the caller nor
// the configuration specifies one.
const DefaultDemandDueDays = 15

// DemandService groups assessed line items into payable demands.
type DemandService struct {
	appRepo    repository.ApplicationRepository
	demandRepo repository.DemandRepository
	feeRepo    repository.FeeRepository
	txm        repository.TxManager
	notifier   Notifier
	auditSvc   *AuditService
	worker     *jobs.Worker
	dueDays    int
}

// NewDemandService creates a new demand service
func NewDemandService(
	appRepo repository.ApplicationRepository,
	demandRepo repository.DemandRepository,
	feeRepo repository.FeeRepository,
	txm repository.TxManager,
	notifier Notifier,
	auditSvc *AuditService,
	worker *jobs.Worker,
	dueDays int,
) *DemandService {
	if dueDays <= 0 {
		dueDays = DefaultDemandDueDays
	}
	return &DemandService{
		appRepo:    appRepo,
		demandRepo: demandRepo,
		feeRepo:    feeRepo,
		txm:        txm,
		notifier:   notifier,
		auditSvc:   auditSvc,
		worker:     worker,
		dueDays:    dueDays,
	}
}

// CreateDemand groups the referenced ASSESSED line items into one PENDING
// demand. Total is the sum of the line item amounts; the referenced items
// flip to DEMANDED in the same transaction.
func (s *DemandService) CreateDemand(ctx context.Context, arn string, lineItemIDs []uint, dueDate *money.Date, actor, ip, userAgent string) (*models.Demand, error) {
	if len(lineItemIDs) == 0 {
		return nil, ErrLineItemsNotDemandable
	}

	app, err := s.appRepo.FindByARN(ctx, arn)
	if err != nil {
		return nil, ErrApplicationNotFound.Wrap(err)
	}

	due := money.Today().AddDays(s.dueDays)
	if dueDate != nil && !dueDate.IsZero() {
		due = *dueDate
	}

	var demand *models.Demand
	err = s.txm.Atomic(ctx, func(txr *repository.Repositories) error {
		items, err := txr.Fee.FindByIDsForUpdate(ctx, lineItemIDs)
		if err != nil {
			return ErrStorageUnavailable.Wrap(err)
		}
		if len(items) != len(lineItemIDs) {
			return ErrLineItemsNotDemandable.Wrap(
				fmt.Errorf("requested %d line items, found %d", len(lineItemIDs), len(items)))
		}

		var total float64
		for i := range items {
			item := &items[i]
			if item.ApplicationID != app.ID || !item.MayDemand() {
				return ErrLineItemsNotDemandable.Wrap(
					fmt.Errorf("line item %d is not demandable (status %s)", item.ID, item.Status))
			}
			total += item.FinalAmount
		}

		demand = &models.Demand{
			ApplicationID: app.ID,
			DueDate:       due.Time(),
			TotalAmount:   money.Round2(total),
			Currency:      items[0].Currency,
			Status:        models.DemandStatusPending,
			CreatedBy:     actor,
		}
		if err := txr.Demand.Create(ctx, demand); err != nil {
			return ErrStorageUnavailable.Wrap(err)
		}

		for i := range items {
			item := &items[i]
			item.Status = models.FeeLineItemStatusDemanded
			item.DemandID = &demand.ID
			if err := txr.Fee.Update(ctx, item); err != nil {
				return ErrStorageUnavailable.Wrap(err)
			}
		}
		demand.LineItems = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notifier.Notify(ctx, arn, EventDemandCreated,
			"Demand raised",
			fmt.Sprintf("A demand of %.2f %s is payable by %s", demand.TotalAmount, demand.Currency, due))
	})

	s.auditSvc.Log(ctx, actor, "CREATE", "Demand", fmt.Sprintf("%d", demand.ID),
		fmt.Sprintf("Demand of %.2f created for %s with %d line items", demand.TotalAmount, arn, len(demand.LineItems)),
		ip, userAgent)

	return demand, nil
}

// WaiveDemand waives a PENDING demand; its line items become WAIVED.
// Not-found and wrong-state collapse into one error so callers cannot probe
// which demand ids exist.
func (s *DemandService) WaiveDemand(ctx context.Context, id uint, actor, ip, userAgent string) (*models.Demand, error) {
	demand, err := s.transition(ctx, id, func(fsm *statemachine.DemandFSM) error {
		return fsm.Waive(ctx)
	}, models.FeeLineItemStatusWaived)
	if err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actor, "WAIVE", "Demand", fmt.Sprintf("%d", id),
		fmt.Sprintf("Demand %d waived", id), ip, userAgent)
	return demand, nil
}

// CancelDemand cancels a PENDING demand; its line items return to ASSESSED
// so they can be re-demanded.
func (s *DemandService) CancelDemand(ctx context.Context, id uint, actor, ip, userAgent string) (*models.Demand, error) {
	demand, err := s.transition(ctx, id, func(fsm *statemachine.DemandFSM) error {
		return fsm.Cancel(ctx)
	}, models.FeeLineItemStatusAssessed)
	if err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actor, "CANCEL", "Demand", fmt.Sprintf("%d", id),
		fmt.Sprintf("Demand %d cancelled", id), ip, userAgent)
	return demand, nil
}

func (s *DemandService) transition(ctx context.Context, id uint, event func(*statemachine.DemandFSM) error, itemStatus string) (*models.Demand, error) {
	var demand *models.Demand
	err := s.txm.Atomic(ctx, func(txr *repository.Repositories) error {
		var err error
		demand, err = txr.Demand.FindByIDForUpdate(ctx, id)
		if err != nil {
			return ErrDemandNotFoundOrNotPending.Wrap(err)
		}

		fsm := statemachine.NewDemandFSM(demand)
		if err := event(fsm); err != nil {
			return ErrDemandNotFoundOrNotPending.Wrap(err)
		}

		if err := txr.Demand.Update(ctx, demand); err != nil {
			return ErrStorageUnavailable.Wrap(err)
		}
		if itemStatus == models.FeeLineItemStatusAssessed {
			// Cancelled demands release their items for re-demanding.
			items, err := txr.Fee.FindByDemand(ctx, demand.ID)
			if err != nil {
				return ErrStorageUnavailable.Wrap(err)
			}
			for i := range items {
				items[i].Status = models.FeeLineItemStatusAssessed
				items[i].DemandID = nil
				if err := txr.Fee.Update(ctx, &items[i]); err != nil {
					return ErrStorageUnavailable.Wrap(err)
				}
			}
			return nil
		}
		if err := txr.Fee.UpdateStatusByDemand(ctx, demand.ID, itemStatus); err != nil {
			return ErrStorageUnavailable.Wrap(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return demand, nil
}

// FindByID loads a demand with its line items.
func (s *DemandService) FindByID(ctx context.Context, id uint) (*models.Demand, error) {
	demand, err := s.demandRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrDemandNotFoundOrNotPending.Wrap(err)
	}
	return demand, nil
}

// ListByApplication returns demands for an application, newest first.
func (s *DemandService) ListByApplication(ctx context.Context, arn string, query *repository.ListQuery) ([]models.Demand, int64, error) {
	app, err := s.appRepo.FindByARN(ctx, arn)
	if err != nil {
		return nil, 0, ErrApplicationNotFound.Wrap(err)
	}
	demands, total, err := s.demandRepo.FindByApplication(ctx, app.ID, query)
	if err != nil {
		return nil, 0, ErrStorageUnavailable.Wrap(err)
	}
	return demands, total, nil
}

// NotifyOverdueDemands logs and notifies PENDING demands past their due
// date. Read-only; scheduled daily.
func (s *DemandService) NotifyOverdueDemands(ctx context.Context) error {
	demands, err := s.demandRepo.FindOverdue(ctx)
	if err != nil {
		return fmt.Errorf("find overdue demands: %w", err)
	}

	for i := range demands {
		d := &demands[i]
		overdueDays := int(time.Since(d.DueDate).Hours() / 24)
		logger.Warn("Demand overdue",
			"demand_id", d.ID,
			"arn", d.Application.ARN,
			"amount", d.TotalAmount,
			"days_overdue", overdueDays,
		)
		s.notifier.Notify(ctx, d.Application.ARN, EventDemandOverdue,
			"Demand overdue",
			fmt.Sprintf("Demand of %.2f %s is overdue by %d day(s)", d.TotalAmount, d.Currency, overdueDays))
	}

	if len(demands) > 0 {
		logger.Info(fmt.Sprintf("[Overdue scan] Notified %d overdue demand(s)", len(demands)))
	}
	return nil
}
