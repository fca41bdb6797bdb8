package mocks

import (
	"context"

	"rentalapi/internal/model"
	"rentalapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) GeneralSummary(ctx context.Context) (*model.GeneralSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GeneralSummary), args.Error(1)
}

func (m *MockReportService) MonthlySummary(ctx context.Context, year, month int) (*model.MonthlySummary, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MonthlySummary), args.Error(1)
}

func (m *MockReportService) PaymentsByPeriod(ctx context.Context, year, month int) ([]model.Payment, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Payment), args.Error(1)
}

func (m *MockReportService) OverduePayments(ctx context.Context) ([]model.Payment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Payment), args.Error(1)
}

func (m *MockReportService) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dashboard), args.Error(1)
}

func (m *MockReportService) ActiveContracts(ctx context.Context) ([]model.Contract, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Contract), args.Error(1)
}

var _ service.ReportService = (*MockReportService)(nil)

type MockContractService struct {
	mock.Mock
}

func (m *MockContractService) Create(ctx context.Context, in service.ContractInput) (*model.Contract, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contract), args.Error(1)
}

func (m *MockContractService) Update(ctx context.Context, id int64, in service.ContractInput) (*model.Contract, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contract), args.Error(1)
}

func (m *MockContractService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContractService) Get(ctx context.Context, id int64) (*model.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contract), args.Error(1)
}

func (m *MockContractService) List(ctx context.Context) ([]model.Contract, error) {
	return m.contracts(m.Called(ctx))
}

func (m *MockContractService) ListCurrent(ctx context.Context) ([]model.Contract, error) {
	return m.contracts(m.Called(ctx))
}

func (m *MockContractService) ListExpired(ctx context.Context) ([]model.Contract, error) {
	return m.contracts(m.Called(ctx))
}

func (m *MockContractService) ListExpiring(ctx context.Context) ([]model.Contract, error) {
	return m.contracts(m.Called(ctx))
}

func (m *MockContractService) Summary(ctx context.Context) (*model.ContractSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContractSummary), args.Error(1)
}

func (m *MockContractService) contracts(args mock.Arguments) ([]model.Contract, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Contract), args.Error(1)
}

var _ service.ContractService = (*MockContractService)(nil)
