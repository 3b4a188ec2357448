package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/ahmetcoskunkizilkaya/community-admin/internal/models"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the account name is unknown so a failed
// login takes as long whether or not the name exists.
var dummyHash = sync.OnceValue(func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
})

type AuthService struct {
	accounts repository.AccountRepository
	fallback models.Role
}

// NewAuthService builds the authenticator. fallback is the role granted when
// a session's account row is missing; it is never allowed to be owner.
func NewAuthService(accounts repository.AccountRepository, fallback models.Role) *AuthService {
	if !fallback.Valid() || fallback == models.RoleOwner {
		if fallback != models.RoleAdmin {
			slog.Warn("fallback role coerced to admin", "configured", string(fallback))
		}
		fallback = models.RoleAdmin
	}
	return &AuthService{accounts: accounts, fallback: fallback}
}

func (s *AuthService) FallbackRole() models.Role {
	return s.fallback
}

// VerifyCredentials checks name and password against the credential store.
// Unknown names, inactive accounts and wrong passwords are indistinguishable.
func (s *AuthService) VerifyCredentials(ctx context.Context, name, password string) (*models.Identity, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return nil, invalid("name and password are required")
	}

	acc, err := s.accounts.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, storeFailure("find account", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !acc.Active {
		return nil, ErrInvalidCredentials
	}

	return &models.Identity{ID: acc.ID, Name: acc.Name, Role: acc.Role}, nil
}

// ResolveRole reads the account's current role from the store. Any role
// carried by the identity itself is ignored. A missing row yields the
// fallback role, a deactivated account is rejected and a failed lookup is
// ErrServer, never a role.
func (s *AuthService) ResolveRole(ctx context.Context, identity models.Identity) (models.Role, error) {
	if identity.ID == 0 {
		return "", ErrUnauthorized
	}

	acc, err := s.accounts.FindByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			slog.Warn("session account missing, using fallback role", "account_id", identity.ID, "role", string(s.fallback))
			return s.fallback, nil
		}
		return "", storeFailure("resolve role", err, "account_id", identity.ID)
	}
	if !acc.Active {
		return "", ErrUnauthorized
	}
	if !acc.Role.Valid() {
		slog.Warn("account has unknown role, using fallback role", "account_id", acc.ID, "stored", string(acc.Role))
		return s.fallback, nil
	}
	return acc.Role, nil
}
