package mocks

import (
	"context"
	"io"

	"rentalapi/internal/model"
	"rentalapi/internal/service"
	"rentalapi/internal/storage"
	"rentalapi/internal/upload"

	"github.com/stretchr/testify/mock"
)

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) Create(ctx context.Context, in service.PaymentInput, proof, receipt *upload.File) (*model.Payment, error) {
	args := m.Called(ctx, in, proof, receipt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentService) Update(ctx context.Context, id int64, in service.PaymentInput, proof, receipt *upload.File) (*model.Payment, error) {
	args := m.Called(ctx, id, in, proof, receipt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPaymentService) Get(ctx context.Context, id int64) (*model.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentService) List(ctx context.Context) ([]model.Payment, error) {
	return m.payments(m.Called(ctx))
}

func (m *MockPaymentService) ListByContract(ctx context.Context, contractID int64) ([]model.Payment, error) {
	return m.payments(m.Called(ctx, contractID))
}

func (m *MockPaymentService) ListDebts(ctx context.Context) ([]model.Payment, error) {
	return m.payments(m.Called(ctx))
}

func (m *MockPaymentService) ListGroupedByContract(ctx context.Context, baseURL string) ([]model.ContractPayments, error) {
	args := m.Called(ctx, baseURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ContractPayments), args.Error(1)
}

func (m *MockPaymentService) payments(args mock.Arguments) ([]model.Payment, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Payment), args.Error(1)
}

var _ service.PaymentService = (*MockPaymentService)(nil)

func (m *MockPaymentService) OpenFile(ctx context.Context, id int64, file string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, id, file)
	if args.Get(0) == nil {
		return nil, storage.ObjectInfo{}, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(storage.ObjectInfo), args.Error(2)
}
