package service

import (
	"context"
	"strings"

	"rentalapi/internal/model"
	"rentalapi/internal/repository"
)

// UserUpdateInput carries the editable user fields.
type UserUpdateInput struct {
	Name  string `json:"nombre" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email"`
}

// UserService manages operator accounts. Results never carry password hashes.
type UserService interface {
	List(ctx context.Context) ([]model.UserSummary, error)
	Get(ctx context.Context, id int64) (*model.UserSummary, error)
	Update(ctx context.Context, id int64, in UserUpdateInput) (*model.UserSummary, error)
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService constructs a new UserService.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) List(ctx context.Context) ([]model.UserSummary, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.UserSummary, 0, len(users))
	for i := range users {
		out = append(out, users[i].Summary())
	}
	return out, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*model.UserSummary, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, classify("user", err)
	}
	sum := u.Summary()
	return &sum, nil
}

func (s *userService) Update(ctx context.Context, id int64, in UserUpdateInput) (*model.UserSummary, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	u, err := s.repo.Update(ctx, &model.User{ID: id, Name: in.Name, Email: in.Email})
	if err != nil {
		return nil, classify("user", err)
	}
	sum := u.Summary()
	return &sum, nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	return classifyDelete("user", s.repo.Delete(ctx, id))
}
