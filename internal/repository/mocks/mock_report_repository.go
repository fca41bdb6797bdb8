package mocks

import (
	"context"
	"time"

	"rentalapi/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) SumAmounts(ctx context.Context, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockReportRepository) Dashboard(ctx context.Context, pendingState, overdueState string) (*model.Dashboard, error) {
	args := m.Called(ctx, pendingState, overdueState)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dashboard), args.Error(1)
}
