package repository

import (
	"context"
	"time"

	"rentalapi/internal/model"
)

// ContractScope selects a lifecycle bucket of contracts.
type ContractScope int

const (
	// ScopeAll lists every contract.
	ScopeAll ContractScope = iota
	// ScopeActive keeps contracts whose status is "activo", regardless of dates.
	ScopeActive
	// ScopeCurrent keeps active contracts that are open-ended or end on or after Now.
	ScopeCurrent
	// ScopeExpired keeps contracts that ended before Now or are no longer active.
	ScopeExpired
	// ScopeExpiring keeps active contracts ending within [Now, Until].
	ScopeExpiring
)

// ContractQuery selects contracts by scope. Now and Until are compared as dates.
type ContractQuery struct {
	Scope ContractScope
	Now   time.Time
	Until time.Time
}

// ContractRepository defines data access for contracts. Reads include the
// tenant and apartment.
type ContractRepository interface {
	Create(ctx context.Context, c *model.Contract) (*model.Contract, error)
	Update(ctx context.Context, c *model.Contract) (*model.Contract, error)
	FindByID(ctx context.Context, id int64) (*model.Contract, error)
	List(ctx context.Context, q ContractQuery) ([]model.Contract, error)
	Delete(ctx context.Context, id int64) error

	// Summary counts contracts per bucket using the same rules as List.
	Summary(ctx context.Context, now, until time.Time) (*model.ContractSummary, error)
}
