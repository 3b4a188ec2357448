package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/community-admin/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/models"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxNameLen     = 100
	maxPasswordLen = 72 // bcrypt input limit
)

type UserService struct {
	accounts repository.AccountRepository
	cost     int
}

func NewUserService(accounts repository.AccountRepository, bcryptCost int) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{accounts: accounts, cost: bcryptCost}
}

// List returns every account, active or not, ordered by name.
func (s *UserService) List(ctx context.Context) ([]models.Account, error) {
	accounts, err := s.accounts.ListAll(ctx)
	if err != nil {
		return nil, storeFailure("list accounts", err)
	}
	return accounts, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.Account, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	return s.find(ctx, id)
}

// Save creates an active account. Only an owner may create another owner.
func (s *UserService) Save(ctx context.Context, actor models.Identity, req *dto.CreateUserRequest) (*models.Account, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.Password == "" {
		return nil, invalid("name and password are required")
	}
	if len(name) > maxNameLen {
		return nil, invalid("name is too long")
	}
	if err := checkPassword(req.Password); err != nil {
		return nil, err
	}

	role := models.RoleAdmin
	if r := strings.TrimSpace(req.Role); r != "" {
		role = models.Role(r)
		if !role.Valid() {
			return nil, invalid("role must be one of owner, admin, staff")
		}
	}
	if role == models.RoleOwner && actor.Role != models.RoleOwner {
		return nil, fmt.Errorf("%w: only an owner can create an owner account", ErrForbidden)
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	acc, err := s.accounts.Insert(ctx, name, hash, role)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: an account named %q already exists", ErrConflict, name)
		}
		return nil, storeFailure("insert account", err)
	}
	return acc, nil
}

// SoftDelete deactivates an account. Nobody can deactivate themselves.
func (s *UserService) SoftDelete(ctx context.Context, actor models.Identity, id uint) error {
	if err := requireID(id); err != nil {
		return err
	}
	if id == actor.ID {
		return invalid("you cannot deactivate your own account")
	}
	if err := s.guardTarget(ctx, actor, id); err != nil {
		return err
	}
	return s.setActive(ctx, id, false)
}

func (s *UserService) Reactivate(ctx context.Context, actor models.Identity, id uint) error {
	if err := requireID(id); err != nil {
		return err
	}
	if err := s.guardTarget(ctx, actor, id); err != nil {
		return err
	}
	return s.setActive(ctx, id, true)
}

// ResetCredential replaces the account's password. The old one is not needed.
func (s *UserService) ResetCredential(ctx context.Context, actor models.Identity, id uint, password string) error {
	if err := requireID(id); err != nil {
		return err
	}
	if password == "" {
		return invalid("password is required")
	}
	if err := checkPassword(password); err != nil {
		return err
	}
	if err := s.guardTarget(ctx, actor, id); err != nil {
		return err
	}

	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	n, err := s.accounts.UpdateHash(ctx, id, hash)
	if err != nil {
		return storeFailure("update password", err, "account_id", id)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *UserService) find(ctx context.Context, id uint) (*models.Account, error) {
	acc, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeFailure("get account", err, "account_id", id)
	}
	return acc, nil
}

// guardTarget rejects non-owners acting on an owner account.
func (s *UserService) guardTarget(ctx context.Context, actor models.Identity, id uint) error {
	target, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if target.Role == models.RoleOwner && actor.Role != models.RoleOwner {
		return fmt.Errorf("%w: only an owner can manage an owner account", ErrForbidden)
	}
	return nil
}

func (s *UserService) setActive(ctx context.Context, id uint, active bool) error {
	n, err := s.accounts.UpdateActive(ctx, id, active)
	if err != nil {
		return storeFailure("update account status", err, "account_id", id, "active", active)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *UserService) hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("%w: hash password: %w", ErrServer, err)
	}
	return string(h), nil
}

func checkPassword(password string) error {
	if len(password) > maxPasswordLen {
		return invalid("password must be at most 72 bytes")
	}
	return nil
}
