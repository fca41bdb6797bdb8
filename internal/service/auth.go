package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"rentalapi/internal/auth"
	"rentalapi/internal/model"
	"rentalapi/internal/repository"
)

// RegisterInput carries a new operator account.
type RegisterInput struct {
	Name     string `json:"nombre" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"rol" validate:"omitempty,max=30"`
}

// LoginInput carries credentials.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string            `json:"token"`
	User  model.UserSummary `json:"user"`
}

// AuthService registers accounts and exchanges credentials for tokens.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.UserSummary, error)
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
}

type authService struct {
	users  repository.UserRepository
	tokens auth.Issuer
	cost   int
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users repository.UserRepository, tokens auth.Issuer) AuthService {
	return &authService{users: users, tokens: tokens, cost: bcrypt.DefaultCost}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.UserSummary, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = model.DefaultRole
	}
	u, err := s.users.Create(ctx, &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		return nil, classify("user", err)
	}
	sum := u.Summary()
	return &sum, nil
}

// Login fails with ErrInvalidCredentials for both unknown emails and wrong
// passwords.
func (s *authService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if s.tokens == nil {
		return nil, ErrAuthDisabled
	}
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	u, err := s.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(auth.Principal{UserID: u.ID, Email: u.Email, Role: u.Role})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{Token: token, User: u.Summary()}, nil
}
