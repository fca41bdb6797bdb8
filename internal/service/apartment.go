package service

import (
	"context"

	"github.com/shopspring/decimal"

	"rentalapi/internal/model"
	"rentalapi/internal/repository"
)

// ApartmentInput carries apartment fields. Updates replace every field; an
// empty estado falls back to "disponible".
type ApartmentInput struct {
	OwnerID      *int64           `json:"usuario_id" validate:"omitempty,gt=0"`
	Name         string           `json:"nombre" validate:"required,max=100"`
	Address      *string          `json:"direccion"`
	Description  *string          `json:"descripcion"`
	MonthlyPrice *decimal.Decimal `json:"precio_mensual" validate:"required"`
	Status       *string          `json:"estado" validate:"omitempty,max=30"`
}

// ApartmentService manages apartments.
type ApartmentService interface {
	Create(ctx context.Context, in ApartmentInput) (*model.Apartment, error)
	Update(ctx context.Context, id int64, in ApartmentInput) (*model.Apartment, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*model.Apartment, error)
	List(ctx context.Context) ([]model.Apartment, error)
}

type apartmentService struct {
	repo repository.ApartmentRepository
}

// NewApartmentService constructs a new ApartmentService.
func NewApartmentService(repo repository.ApartmentRepository) ApartmentService {
	return &apartmentService{repo: repo}
}

func (in ApartmentInput) apartment() (*model.Apartment, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := nonNegative("precio_mensual", in.MonthlyPrice); err != nil {
		return nil, err
	}
	a := &model.Apartment{
		OwnerID:      in.OwnerID,
		Name:         in.Name,
		Address:      blankToNil(in.Address),
		Description:  blankToNil(in.Description),
		MonthlyPrice: *in.MonthlyPrice,
		Status:       model.ApartmentAvailable,
	}
	if st := blankToNil(in.Status); st != nil {
		a.Status = *st
	}
	return a, nil
}

func (s *apartmentService) Create(ctx context.Context, in ApartmentInput) (*model.Apartment, error) {
	a, err := in.apartment()
	if err != nil {
		return nil, err
	}
	out, err := s.repo.Create(ctx, a)
	if err != nil {
		return nil, classify("apartment", err)
	}
	return out, nil
}

func (s *apartmentService) Update(ctx context.Context, id int64, in ApartmentInput) (*model.Apartment, error) {
	a, err := in.apartment()
	if err != nil {
		return nil, err
	}
	a.ID = id
	out, err := s.repo.Update(ctx, a)
	if err != nil {
		return nil, classify("apartment", err)
	}
	return out, nil
}

func (s *apartmentService) Delete(ctx context.Context, id int64) error {
	return classifyDelete("apartment", s.repo.Delete(ctx, id))
}

func (s *apartmentService) Get(ctx context.Context, id int64) (*model.Apartment, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, classify("apartment", err)
	}
	return a, nil
}

func (s *apartmentService) List(ctx context.Context) ([]model.Apartment, error) {
	return s.repo.List(ctx)
}
