// Package repository holds the credential store and the entity stores. Each
// mutation is a single statement so concurrent callers serialize in the
// database, not here.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/community-admin/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

// AccountRepository is the credential store.
type AccountRepository interface {
	FindByName(ctx context.Context, name string) (*models.Account, error)
	FindByID(ctx context.Context, id uint) (*models.Account, error)
	Insert(ctx context.Context, name, hash string, role models.Role) (*models.Account, error)
	UpdateActive(ctx context.Context, id uint, active bool) (int64, error)
	UpdateHash(ctx context.Context, id uint, hash string) (int64, error)
	ListAll(ctx context.Context) ([]models.Account, error)
}

// ServerUpsert carries the columns written by an upsert. SortOrder is only
// overwritten on conflict when set.
type ServerUpsert struct {
	ExternalID  string
	DisplayName string
	GameTitle   *string
	Region      *string
	SortOrder   *int
}

type ServerRepository interface {
	UpsertByExternalID(ctx context.Context, in ServerUpsert) (*models.Server, error)
	FindByID(ctx context.Context, id uint) (*models.Server, error)
	UpdateActive(ctx context.Context, id uint, active bool) (int64, error)
	List(ctx context.Context, includeInactive bool) ([]models.Server, error)
}

// AnnouncementFilter dimensions are AND-combined; zero values disable a dimension.
type AnnouncementFilter struct {
	ServerID         *uint
	ExternalID       string
	ActiveWindowOnly bool
}

type AnnouncementRepository interface {
	Insert(ctx context.Context, a *models.Announcement) (*models.Announcement, error)
	FindByID(ctx context.Context, id uint) (*models.Announcement, error)
	SoftDelete(ctx context.Context, id uint, now time.Time) (int64, error)
	List(ctx context.Context, f AnnouncementFilter, now time.Time) ([]models.Announcement, error)
}

// IsUniqueViolation reports whether err is the store's uniqueness-violation
// signal, whether or not the dialector translated it.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func wrap(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("db error: %w", err)
}
