package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"rentalapi/internal/model"
	"rentalapi/internal/repository"
)

// ExpiringWindow is how far ahead a contract end date counts as expiring.
const ExpiringWindow = 30 * 24 * time.Hour

// ContractInput carries contract fields. Nil fields are absent; on update
// they keep the stored value.
type ContractInput struct {
	ApartmentID   *int64           `json:"departamento_id" validate:"required,gt=0"`
	TenantID      *int64           `json:"inquilino_id" validate:"required,gt=0"`
	StartDate     *time.Time       `json:"fecha_inicio" validate:"required"`
	EndDate       *time.Time       `json:"fecha_fin"`
	MonthlyAmount *decimal.Decimal `json:"monto_mensual" validate:"required"`
	DueDay        *int             `json:"dia_vencimiento" validate:"omitempty,min=1,max=31"`
	Status        *string          `json:"estado" validate:"omitempty,min=1,max=30"`

	// EndDateSet reports that fecha_fin was present, so a nil EndDate makes
	// the contract open-ended.
	EndDateSet bool `json:"-"`
}

// ContractService manages contracts and their lifecycle listings.
type ContractService interface {
	Create(ctx context.Context, in ContractInput) (*model.Contract, error)
	Update(ctx context.Context, id int64, in ContractInput) (*model.Contract, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*model.Contract, error)
	List(ctx context.Context) ([]model.Contract, error)
	ListCurrent(ctx context.Context) ([]model.Contract, error)
	ListExpired(ctx context.Context) ([]model.Contract, error)
	ListExpiring(ctx context.Context) ([]model.Contract, error)
	Summary(ctx context.Context) (*model.ContractSummary, error)
}

type contractService struct {
	repo repository.ContractRepository
	now  func() time.Time
}

// NewContractService constructs a new ContractService.
func NewContractService(repo repository.ContractRepository) ContractService {
	return &contractService{repo: repo, now: time.Now}
}

func (s *contractService) Create(ctx context.Context, in ContractInput) (*model.Contract, error) {
	if err := validateContract(in); err != nil {
		return nil, err
	}
	c := &model.Contract{
		ApartmentID:   *in.ApartmentID,
		TenantID:      *in.TenantID,
		StartDate:     *in.StartDate,
		EndDate:       in.EndDate,
		MonthlyAmount: *in.MonthlyAmount,
		DueDay:        model.DefaultDueDay,
		Status:        model.ContractActive,
	}
	if in.DueDay != nil {
		c.DueDay = *in.DueDay
	}
	if st := blankToNil(in.Status); st != nil {
		c.Status = *st
	}
	out, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, classify("contract", err)
	}
	return out, nil
}

func (s *contractService) Update(ctx context.Context, id int64, in ContractInput) (*model.Contract, error) {
	cur, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, classify("contract", err)
	}

	merged := ContractInput{
		ApartmentID:   &cur.ApartmentID,
		TenantID:      &cur.TenantID,
		StartDate:     &cur.StartDate,
		EndDate:       cur.EndDate,
		MonthlyAmount: &cur.MonthlyAmount,
		DueDay:        &cur.DueDay,
		Status:        &cur.Status,
	}
	if in.ApartmentID != nil {
		merged.ApartmentID = in.ApartmentID
	}
	if in.TenantID != nil {
		merged.TenantID = in.TenantID
	}
	if in.StartDate != nil {
		merged.StartDate = in.StartDate
	}
	if in.EndDateSet || in.EndDate != nil {
		merged.EndDate = in.EndDate
	}
	if in.MonthlyAmount != nil {
		merged.MonthlyAmount = in.MonthlyAmount
	}
	if in.DueDay != nil {
		merged.DueDay = in.DueDay
	}
	if st := blankToNil(in.Status); st != nil {
		merged.Status = st
	}
	if err := validateContract(merged); err != nil {
		return nil, err
	}

	out, err := s.repo.Update(ctx, &model.Contract{
		ID:            cur.ID,
		ApartmentID:   *merged.ApartmentID,
		TenantID:      *merged.TenantID,
		StartDate:     *merged.StartDate,
		EndDate:       merged.EndDate,
		MonthlyAmount: *merged.MonthlyAmount,
		DueDay:        *merged.DueDay,
		Status:        *merged.Status,
		UpdatedAt:     s.now().UTC(),
	})
	if err != nil {
		return nil, classify("contract", err)
	}
	return out, nil
}

func (s *contractService) Delete(ctx context.Context, id int64) error {
	return classifyDelete("contract", s.repo.Delete(ctx, id))
}

func (s *contractService) Get(ctx context.Context, id int64) (*model.Contract, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, classify("contract", err)
	}
	return c, nil
}

func (s *contractService) List(ctx context.Context) ([]model.Contract, error) {
	return s.repo.List(ctx, repository.ContractQuery{Scope: repository.ScopeAll})
}

func (s *contractService) ListCurrent(ctx context.Context) ([]model.Contract, error) {
	return s.repo.List(ctx, repository.ContractQuery{Scope: repository.ScopeCurrent, Now: today(s.now())})
}

func (s *contractService) ListExpired(ctx context.Context) ([]model.Contract, error) {
	return s.repo.List(ctx, repository.ContractQuery{Scope: repository.ScopeExpired, Now: today(s.now())})
}

func (s *contractService) ListExpiring(ctx context.Context) ([]model.Contract, error) {
	now := today(s.now())
	return s.repo.List(ctx, repository.ContractQuery{Scope: repository.ScopeExpiring, Now: now, Until: now.Add(ExpiringWindow)})
}

func (s *contractService) Summary(ctx context.Context) (*model.ContractSummary, error) {
	now := today(s.now())
	return s.repo.Summary(ctx, now, now.Add(ExpiringWindow))
}

func validateContract(in ContractInput) error {
	if err := validateStruct(in); err != nil {
		return err
	}
	if in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return invalid("fecha_fin", "must not be before fecha_inicio")
	}
	return nonNegative("monto_mensual", in.MonthlyAmount)
}
