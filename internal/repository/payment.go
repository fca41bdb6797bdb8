package repository

import (
	"context"
	"time"

	"rentalapi/internal/model"
)

// PaymentOrder selects the ordering of payment listings.
type PaymentOrder int

const (
	// OrderByID lists payments by ascending id.
	OrderByID PaymentOrder = iota
	// OrderPeriodDesc lists the newest period first.
	OrderPeriodDesc
	// OrderPeriodAsc lists the oldest period first.
	OrderPeriodAsc
)

// PaymentFilter narrows a payment listing. Zero values leave a dimension unfiltered.
type PaymentFilter struct {
	ContractID int64
	// StateNames keeps payments whose state name is one of the values.
	StateNames []string
	// ExcludeState drops payments whose state has this name. Payments without
	// a state are kept.
	ExcludeState string
	// PeriodFrom and PeriodTo bound periodo as [PeriodFrom, PeriodTo).
	PeriodFrom time.Time
	PeriodTo   time.Time
	Order      PaymentOrder
}

// PaymentRepository defines data access for payments.
// Reads return the payment joined with its contract (tenant and apartment
// included), state and type.
type PaymentRepository interface {
	// Create inserts a payment and returns the stored row.
	Create(ctx context.Context, p *model.Payment) (*model.Payment, error)

	// Update overwrites every mutable column of the row identified by p.ID.
	Update(ctx context.Context, p *model.Payment) (*model.Payment, error)

	// FindByID returns a payment by its ID.
	FindByID(ctx context.Context, id int64) (*model.Payment, error)

	// List returns payments matching the filter.
	List(ctx context.Context, f PaymentFilter) ([]model.Payment, error)

	// Delete removes a payment by ID.
	Delete(ctx context.Context, id int64) error
}
