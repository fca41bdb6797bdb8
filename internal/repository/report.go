package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"rentalapi/internal/model"
)

// ReportRepository runs read-only aggregates over payments and contracts.
type ReportRepository interface {
	// SumAmounts returns the sum of expected and paid amounts for payments whose
	// period is in [from, to). Zero bounds are open.
	SumAmounts(ctx context.Context, from, to time.Time) (expected, paid decimal.Decimal, err error)

	// Dashboard counts active contracts and payments by the given state names,
	// and sums every paid amount.
	Dashboard(ctx context.Context, pendingState, overdueState string) (*model.Dashboard, error)
}
