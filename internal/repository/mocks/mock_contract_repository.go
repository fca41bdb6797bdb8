package mocks

import (
	"context"
	"time"

	"rentalapi/internal/model"
	"rentalapi/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) Create(ctx context.Context, c *model.Contract) (*model.Contract, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contract), args.Error(1)
}

func (m *MockContractRepository) Update(ctx context.Context, c *model.Contract) (*model.Contract, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contract), args.Error(1)
}

func (m *MockContractRepository) FindByID(ctx context.Context, id int64) (*model.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contract), args.Error(1)
}

func (m *MockContractRepository) List(ctx context.Context, q repository.ContractQuery) ([]model.Contract, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Contract), args.Error(1)
}

func (m *MockContractRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContractRepository) Summary(ctx context.Context, now, until time.Time) (*model.ContractSummary, error) {
	args := m.Called(ctx, now, until)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ContractSummary), args.Error(1)
}
