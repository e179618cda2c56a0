package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	db *gorm.DB

	Application ApplicationRepository
	Fee         FeeRepository
	Schedule    FeeScheduleRepository
	Demand      DemandRepository
	Payment     PaymentRepository
	Refund      RefundRepository
	Property    PropertyRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:          db,
		Application: NewApplicationRepository(db),
		Fee:         NewFeeRepository(db),
		Schedule:    NewFeeScheduleRepository(db),
		Demand:      NewDemandRepository(db),
		Payment:     NewPaymentRepository(db),
		Refund:      NewRefundRepository(db),
		Property:    NewPropertyRepository(db),
	}
}

// TxManager runs a function inside one storage transaction. Every monetary
// posting goes through Atomic so multi-row updates either all apply or none
// do.
type TxManager interface {
	Atomic(ctx context.Context, fn func(r *Repositories) error) error
}

// Atomic executes fn against transaction-scoped repositories. Rolls back on
// error, commits otherwise.
func (r *Repositories) Atomic(ctx context.Context, fn func(txRepos *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// ListQuery carries pagination for list endpoints.
type ListQuery struct {
	Page    int
	PerPage int
	Status  string
}

// NewListQuery returns a query with sane defaults.
func NewListQuery() *ListQuery {
	return &ListQuery{Page: 1, PerPage: 20}
}

// Offset returns the row offset for the current page.
func (q *ListQuery) Offset() int {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 || q.PerPage > 100 {
		q.PerPage = 20
	}
	return (q.Page - 1) * q.PerPage
}
