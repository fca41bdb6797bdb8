package service

import (
	"context"

	"rentalapi/internal/model"
	"rentalapi/internal/repository"
)

// PaymentStateInput carries payment state fields.
type PaymentStateInput struct {
	Name        string  `json:"nombre" validate:"required,max=50"`
	Description *string `json:"descripcion"`
	ColorHex    *string `json:"color_hex" validate:"omitempty,hexcolor"`
	Order       *int    `json:"orden" validate:"omitempty,min=0"`
}

// PaymentTypeInput carries payment type fields.
type PaymentTypeInput struct {
	Name        string  `json:"nombre" validate:"required,max=50"`
	Description *string `json:"descripcion"`
}

// PaymentStateService manages the payment state catalog.
type PaymentStateService interface {
	Create(ctx context.Context, in PaymentStateInput) (*model.PaymentState, error)
	Update(ctx context.Context, id int64, in PaymentStateInput) (*model.PaymentState, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*model.PaymentState, error)
	List(ctx context.Context) ([]model.PaymentState, error)
}

// PaymentTypeService manages the payment type catalog.
type PaymentTypeService interface {
	Create(ctx context.Context, in PaymentTypeInput) (*model.PaymentType, error)
	Update(ctx context.Context, id int64, in PaymentTypeInput) (*model.PaymentType, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*model.PaymentType, error)
	List(ctx context.Context) ([]model.PaymentType, error)
}

type paymentStateService struct {
	repo repository.PaymentStateRepository
}

// NewPaymentStateService constructs a new PaymentStateService.
func NewPaymentStateService(repo repository.PaymentStateRepository) PaymentStateService {
	return &paymentStateService{repo: repo}
}

func (in PaymentStateInput) state() (*model.PaymentState, error) {
	in.ColorHex = blankToNil(in.ColorHex)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	s := &model.PaymentState{Name: in.Name, Description: blankToNil(in.Description), ColorHex: in.ColorHex}
	if in.Order != nil {
		s.Order = *in.Order
	}
	return s, nil
}

func (s *paymentStateService) Create(ctx context.Context, in PaymentStateInput) (*model.PaymentState, error) {
	st, err := in.state()
	if err != nil {
		return nil, err
	}
	out, err := s.repo.Create(ctx, st)
	if err != nil {
		return nil, classify("payment state", err)
	}
	return out, nil
}

func (s *paymentStateService) Update(ctx context.Context, id int64, in PaymentStateInput) (*model.PaymentState, error) {
	st, err := in.state()
	if err != nil {
		return nil, err
	}
	st.ID = id
	out, err := s.repo.Update(ctx, st)
	if err != nil {
		return nil, classify("payment state", err)
	}
	return out, nil
}

func (s *paymentStateService) Delete(ctx context.Context, id int64) error {
	return classifyDelete("payment state", s.repo.Delete(ctx, id))
}

func (s *paymentStateService) Get(ctx context.Context, id int64) (*model.PaymentState, error) {
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, classify("payment state", err)
	}
	return st, nil
}

func (s *paymentStateService) List(ctx context.Context) ([]model.PaymentState, error) {
	return s.repo.List(ctx)
}

type paymentTypeService struct {
	repo repository.PaymentTypeRepository
}

// NewPaymentTypeService constructs a new PaymentTypeService.
func NewPaymentTypeService(repo repository.PaymentTypeRepository) PaymentTypeService {
	return &paymentTypeService{repo: repo}
}

func (s *paymentTypeService) Create(ctx context.Context, in PaymentTypeInput) (*model.PaymentType, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	out, err := s.repo.Create(ctx, &model.PaymentType{Name: in.Name, Description: blankToNil(in.Description)})
	if err != nil {
		return nil, classify("payment type", err)
	}
	return out, nil
}

func (s *paymentTypeService) Update(ctx context.Context, id int64, in PaymentTypeInput) (*model.PaymentType, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	out, err := s.repo.Update(ctx, &model.PaymentType{ID: id, Name: in.Name, Description: blankToNil(in.Description)})
	if err != nil {
		return nil, classify("payment type", err)
	}
	return out, nil
}

func (s *paymentTypeService) Delete(ctx context.Context, id int64) error {
	return classifyDelete("payment type", s.repo.Delete(ctx, id))
}

func (s *paymentTypeService) Get(ctx context.Context, id int64) (*model.PaymentType, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, classify("payment type", err)
	}
	return t, nil
}

func (s *paymentTypeService) List(ctx context.Context) ([]model.PaymentType, error) {
	return s.repo.List(ctx)
}
