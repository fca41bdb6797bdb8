package repository

import (
	"context"

	"rentalapi/internal/model"
)

// TenantRepository defines data access for tenants.
type TenantRepository interface {
	Create(ctx context.Context, t *model.Tenant) (*model.Tenant, error)
	Update(ctx context.Context, t *model.Tenant) (*model.Tenant, error)
	FindByID(ctx context.Context, id int64) (*model.Tenant, error)
	List(ctx context.Context) ([]model.Tenant, error)
	Delete(ctx context.Context, id int64) error
}

// ApartmentRepository defines data access for apartments. Reads include the owner.
type ApartmentRepository interface {
	Create(ctx context.Context, a *model.Apartment) (*model.Apartment, error)
	Update(ctx context.Context, a *model.Apartment) (*model.Apartment, error)
	FindByID(ctx context.Context, id int64) (*model.Apartment, error)
	List(ctx context.Context) ([]model.Apartment, error)
	Delete(ctx context.Context, id int64) error
}

// PaymentStateRepository defines data access for payment states, listed by orden.
type PaymentStateRepository interface {
	Create(ctx context.Context, s *model.PaymentState) (*model.PaymentState, error)
	Update(ctx context.Context, s *model.PaymentState) (*model.PaymentState, error)
	FindByID(ctx context.Context, id int64) (*model.PaymentState, error)
	List(ctx context.Context) ([]model.PaymentState, error)
	Delete(ctx context.Context, id int64) error
}

// PaymentTypeRepository defines data access for payment types, listed by id.
type PaymentTypeRepository interface {
	Create(ctx context.Context, t *model.PaymentType) (*model.PaymentType, error)
	Update(ctx context.Context, t *model.PaymentType) (*model.PaymentType, error)
	FindByID(ctx context.Context, id int64) (*model.PaymentType, error)
	List(ctx context.Context) ([]model.PaymentType, error)
	Delete(ctx context.Context, id int64) error
}

// UserRepository defines data access for operator accounts.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Update(ctx context.Context, u *model.User) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Delete(ctx context.Context, id int64) error
}
