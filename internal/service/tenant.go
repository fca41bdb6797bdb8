package service

import (
	"context"
	"strings"
	"time"

	"rentalapi/internal/model"
	"rentalapi/internal/repository"
)

// TenantInput carries tenant fields. Updates replace every field.
type TenantInput struct {
	FirstName string  `json:"nombre" validate:"required,max=100"`
	LastName  string  `json:"apellido" validate:"required,max=100"`
	DNI       *string `json:"dni" validate:"omitempty,max=20"`
	Phone     *string `json:"telefono" validate:"omitempty,max=30"`
	Email     *string `json:"correo" validate:"omitempty,email"`
	Address   *string `json:"direccion"`
}

// TenantService manages tenants.
type TenantService interface {
	Create(ctx context.Context, in TenantInput) (*model.Tenant, error)
	Update(ctx context.Context, id int64, in TenantInput) (*model.Tenant, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*model.Tenant, error)
	List(ctx context.Context) ([]model.Tenant, error)
}

type tenantService struct {
	repo repository.TenantRepository
	now  func() time.Time
}

// NewTenantService constructs a new TenantService.
func NewTenantService(repo repository.TenantRepository) TenantService {
	return &tenantService{repo: repo, now: time.Now}
}

// tenant validates in and builds the row. Blank optional fields become NULL
// before validation so an empty correo is not rejected.
func (in TenantInput) tenant() (*model.Tenant, error) {
	in.DNI = blankToNil(in.DNI)
	in.Phone = blankToNil(in.Phone)
	in.Email = blankToNil(in.Email)
	in.Address = blankToNil(in.Address)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	return &model.Tenant{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		DNI:       in.DNI,
		Phone:     in.Phone,
		Email:     in.Email,
		Address:   in.Address,
	}, nil
}

func (s *tenantService) Create(ctx context.Context, in TenantInput) (*model.Tenant, error) {
	t, err := in.tenant()
	if err != nil {
		return nil, err
	}
	out, err := s.repo.Create(ctx, t)
	if err != nil {
		return nil, classify("tenant", err)
	}
	return out, nil
}

func (s *tenantService) Update(ctx context.Context, id int64, in TenantInput) (*model.Tenant, error) {
	t, err := in.tenant()
	if err != nil {
		return nil, err
	}
	t.ID = id
	t.UpdatedAt = s.now().UTC()
	out, err := s.repo.Update(ctx, t)
	if err != nil {
		return nil, classify("tenant", err)
	}
	return out, nil
}

func (s *tenantService) Delete(ctx context.Context, id int64) error {
	return classifyDelete("tenant", s.repo.Delete(ctx, id))
}

func (s *tenantService) Get(ctx context.Context, id int64) (*model.Tenant, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, classify("tenant", err)
	}
	return t, nil
}

func (s *tenantService) List(ctx context.Context) ([]model.Tenant, error) {
	return s.repo.List(ctx)
}
