package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/harentsoaR/appointment-intake/internal/models"
	"github.com/harentsoaR/appointment-intake/internal/store"
	"github.com/harentsoaR/appointment-intake/internal/utils"
)

const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

// CredentialService owns account creation and password verification.
type CredentialService struct {
	users store.UserStore

	adminUsername string
	adminPassword string

	adminMu          sync.Mutex
	adminProvisioned bool
}

// NewCredentialService returns a service whose default admin account uses the
// given credentials; empty values fall back to admin / admin123.
func NewCredentialService(users store.UserStore, adminUsername, adminPassword string) *CredentialService {
	if adminUsername == "" {
		adminUsername = DefaultAdminUsername
	}
	if adminPassword == "" {
		adminPassword = DefaultAdminPassword
	}
	return &CredentialService{
		users:         users,
		adminUsername: adminUsername,
		adminPassword: adminPassword,
	}
}

// CreateUser hashes password and stores a new account.
func (s *CredentialService) CreateUser(ctx context.Context, username, password string, isAdmin bool) (*models.User, error) {
	verr := &models.ValidationError{}
	if username == "" {
		verr.Add("username", "Required")
	}
	if password == "" {
		verr.Add("password", "Required")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	// Reject known duplicates before paying for the key derivation.
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, models.ErrDuplicateUsername
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("lookup user %q: %w", username, err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.users.Create(ctx, username, hash, isAdmin)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateUsername) {
			return nil, err
		}
		return nil, fmt.Errorf("create user %q: %w", username, err)
	}
	return u, nil
}

// Authenticate returns the account matching the credentials. Unknown users and
// wrong passwords both yield ErrInvalidCredentials.
func (s *CredentialService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user %q: %w", username, err)
	}
	if !utils.CheckPasswordHash(password, u.PasswordHash) {
		return nil, models.ErrInvalidCredentials
	}
	return u, nil
}

// User loads an account by ID.
func (s *CredentialService) User(ctx context.Context, id int) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// EnsureDefaultAdmin provisions the default admin account once per process.
// An account that already exists under the admin username counts as provisioned.
func (s *CredentialService) EnsureDefaultAdmin(ctx context.Context) error {
	s.adminMu.Lock()
	defer s.adminMu.Unlock()
	if s.adminProvisioned {
		return nil
	}

	_, err := s.CreateUser(ctx, s.adminUsername, s.adminPassword, true)
	switch {
	case err == nil:
		log.Info().Str("username", s.adminUsername).Msg("default admin user created")
	case errors.Is(err, models.ErrDuplicateUsername):
		log.Info().Str("username", s.adminUsername).Msg("default admin user already present")
	default:
		return fmt.Errorf("provision default admin: %w", err)
	}
	s.adminProvisioned = true
	return nil
}
