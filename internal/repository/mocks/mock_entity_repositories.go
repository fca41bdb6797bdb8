package mocks

import (
	"context"

	"rentalapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) Create(ctx context.Context, v *model.Tenant) (*model.Tenant, error) {
	args := m.Called(ctx, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tenant), args.Error(1)
}

func (m *MockTenantRepository) Update(ctx context.Context, v *model.Tenant) (*model.Tenant, error) {
	args := m.Called(ctx, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id int64) (*model.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tenant), args.Error(1)
}

func (m *MockTenantRepository) List(ctx context.Context) ([]model.Tenant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tenant), args.Error(1)
}

func (m *MockTenantRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockApartmentRepository struct {
	mock.Mock
}

func (m *MockApartmentRepository) Create(ctx context.Context, v *model.Apartment) (*model.Apartment, error) {
	args := m.Called(ctx, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Apartment), args.Error(1)
}

func (m *MockApartmentRepository) Update(ctx context.Context, v *model.Apartment) (*model.Apartment, error) {
	args := m.Called(ctx, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Apartment), args.Error(1)
}

func (m *MockApartmentRepository) FindByID(ctx context.Context, id int64) (*model.Apartment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Apartment), args.Error(1)
}

func (m *MockApartmentRepository) List(ctx context.Context) ([]model.Apartment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Apartment), args.Error(1)
}

func (m *MockApartmentRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPaymentStateRepository struct {
	mock.Mock
}

func (m *MockPaymentStateRepository) Create(ctx context.Context, v *model.PaymentState) (*model.PaymentState, error) {
	args := m.Called(ctx, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentState), args.Error(1)
}

func (m *MockPaymentStateRepository) Update(ctx context.Context, v *model.PaymentState) (*model.PaymentState, error) {
	args := m.Called(ctx, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentState), args.Error(1)
}

func (m *MockPaymentStateRepository) FindByID(ctx context.Context, id int64) (*model.PaymentState, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentState), args.Error(1)
}

func (m *MockPaymentStateRepository) List(ctx context.Context) ([]model.PaymentState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PaymentState), args.Error(1)
}

func (m *MockPaymentStateRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPaymentTypeRepository struct {
	mock.Mock
}

func (m *MockPaymentTypeRepository) Create(ctx context.Context, v *model.PaymentType) (*model.PaymentType, error) {
	args := m.Called(ctx, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentType), args.Error(1)
}

func (m *MockPaymentTypeRepository) Update(ctx context.Context, v *model.PaymentType) (*model.PaymentType, error) {
	args := m.Called(ctx, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentType), args.Error(1)
}

func (m *MockPaymentTypeRepository) FindByID(ctx context.Context, id int64) (*model.PaymentType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentType), args.Error(1)
}

func (m *MockPaymentTypeRepository) List(ctx context.Context) ([]model.PaymentType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PaymentType), args.Error(1)
}

func (m *MockPaymentTypeRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, v *model.User) (*model.User, error) {
	args := m.Called(ctx, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, v *model.User) (*model.User, error) {
	args := m.Called(ctx, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
