package mocks

import (
	"context"

	"rentalapi/internal/model"
	"rentalapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockTenantService struct {
	mock.Mock
}

func (m *MockTenantService) Create(ctx context.Context, in service.TenantInput) (*model.Tenant, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tenant), args.Error(1)
}

func (m *MockTenantService) Update(ctx context.Context, id int64, in service.TenantInput) (*model.Tenant, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tenant), args.Error(1)
}

func (m *MockTenantService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTenantService) Get(ctx context.Context, id int64) (*model.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tenant), args.Error(1)
}

func (m *MockTenantService) List(ctx context.Context) ([]model.Tenant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tenant), args.Error(1)
}

type MockApartmentService struct {
	mock.Mock
}

func (m *MockApartmentService) Create(ctx context.Context, in service.ApartmentInput) (*model.Apartment, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Apartment), args.Error(1)
}

func (m *MockApartmentService) Update(ctx context.Context, id int64, in service.ApartmentInput) (*model.Apartment, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Apartment), args.Error(1)
}

func (m *MockApartmentService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockApartmentService) Get(ctx context.Context, id int64) (*model.Apartment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Apartment), args.Error(1)
}

func (m *MockApartmentService) List(ctx context.Context) ([]model.Apartment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Apartment), args.Error(1)
}

type MockPaymentStateService struct {
	mock.Mock
}

func (m *MockPaymentStateService) Create(ctx context.Context, in service.PaymentStateInput) (*model.PaymentState, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentState), args.Error(1)
}

func (m *MockPaymentStateService) Update(ctx context.Context, id int64, in service.PaymentStateInput) (*model.PaymentState, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentState), args.Error(1)
}

func (m *MockPaymentStateService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPaymentStateService) Get(ctx context.Context, id int64) (*model.PaymentState, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentState), args.Error(1)
}

func (m *MockPaymentStateService) List(ctx context.Context) ([]model.PaymentState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PaymentState), args.Error(1)
}

type MockPaymentTypeService struct {
	mock.Mock
}

func (m *MockPaymentTypeService) Create(ctx context.Context, in service.PaymentTypeInput) (*model.PaymentType, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentType), args.Error(1)
}

func (m *MockPaymentTypeService) Update(ctx context.Context, id int64, in service.PaymentTypeInput) (*model.PaymentType, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentType), args.Error(1)
}

func (m *MockPaymentTypeService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPaymentTypeService) Get(ctx context.Context, id int64) (*model.PaymentType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentType), args.Error(1)
}

func (m *MockPaymentTypeService) List(ctx context.Context) ([]model.PaymentType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PaymentType), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context) ([]model.UserSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UserSummary), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, id int64) (*model.UserSummary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserSummary), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, id int64, in service.UserUpdateInput) (*model.UserSummary, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserSummary), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*model.UserSummary, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserSummary), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, in service.LoginInput) (*service.LoginResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}
