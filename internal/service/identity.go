// Package service holds the use cases of the marketplace. Each method that
// touches more than one row runs inside a single repository transaction.
package service

import (
	"context" // Request scoped cancellation
	"errors"  // Sentinel errors
	"fmt"     // Formatting
	"strings" // String manipulation

	"invest_platform/internal/domain"     // Importing domain models
	"invest_platform/internal/repository" // Persistence layer
	"invest_platform/internal/utils"      // Cache, JWT and password helpers

	"github.com/sirupsen/logrus" // Logging library
)

// IdentityService registers and authenticates users
type IdentityService struct {
	store     repository.Store
	jwtSecret string
}

// NewIdentityService builds an IdentityService signing tokens with jwtSecret
func NewIdentityService(store repository.Store, jwtSecret string) *IdentityService {
	return &IdentityService{store: store, jwtSecret: jwtSecret}
}

// RegisterInput carries the fields of a new account
type RegisterInput struct {
	TaxID    string
	Email    string
	Name     string
	Password string
}

// Register creates an active user with zero balance
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.TaxID = strings.TrimSpace(in.TaxID)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	for _, f := range []struct{ name, value string }{
		{"cpf", in.TaxID},
		{"email", in.Email},
		{"nome", in.Name},
		{"senha", in.Password},
	} {
		if f.value == "" {
			return nil, domain.Errorf(domain.ErrValidation, "Campo %s é obrigatório", f.name)
		}
	}

	exists, err := s.store.TaxIDExists(ctx, in.TaxID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.Errorf(domain.ErrConflict, "CPF já cadastrado")
	}
	exists, err = s.store.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.Errorf(domain.ErrConflict, "Email já cadastrado")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{
		TaxID:    in.TaxID,
		Email:    in.Email,
		Name:     in.Name,
		Password: hash,
		Active:   true,
		Role:     domain.RoleUser,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		// A concurrent registration won the race for the same CPF or email
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.Errorf(domain.ErrConflict, "CPF ou email já cadastrado")
		}
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID}).Info("User registered")
	return user, nil
}

// Authenticate checks credentials and issues a 24h bearer token
func (s *IdentityService) Authenticate(ctx context.Context, taxID, password string) (string, *domain.User, error) {
	taxID = strings.TrimSpace(taxID)
	if taxID == "" || password == "" {
		return "", nil, domain.Errorf(domain.ErrValidation, "CPF e senha são obrigatórios")
	}
	user, err := s.store.GetUserByTaxID(ctx, taxID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, domain.Errorf(domain.ErrUnauthorized, "CPF ou senha inválidos")
	}
	if err != nil {
		return "", nil, err
	}
	if !utils.CheckPassword(user.Password, password) {
		return "", nil, domain.Errorf(domain.ErrUnauthorized, "CPF ou senha inválidos")
	}
	if !user.Active {
		return "", nil, domain.Errorf(domain.ErrUnauthorized, "Usuário inativo")
	}
	token, err := utils.GenerateJWT(user.ID, s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	return token, user, nil
}

// Profile returns the user record of the caller
func (s *IdentityService) Profile(ctx context.Context, userID uint) (*domain.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, userLookupError(err)
	}
	return user, nil
}

// userLookupError turns a missing user into a domain not-found error
func userLookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Errorf(domain.ErrNotFound, "Usuário não encontrado")
	}
	return err
}
