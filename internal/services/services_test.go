package services

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/community-admin/internal/models"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/repository"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ownerActor = models.Identity{ID: 9001, Name: "root", Role: models.RoleOwner}
	adminActor = models.Identity{ID: 9002, Name: "boss", Role: models.RoleAdmin}
)

type fixture struct {
	db            *gorm.DB
	accounts      *repository.GormAccountRepository
	servers       *repository.GormServerRepository
	announcements *repository.GormAnnouncementRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	return &fixture{
		db:            db,
		accounts:      repository.NewGormAccountRepository(db),
		servers:       repository.NewGormServerRepository(db),
		announcements: repository.NewGormAnnouncementRepository(db),
	}
}

func (f *fixture) account(t *testing.T, name, password string, role models.Role) *models.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	acc, err := f.accounts.Insert(context.Background(), name, string(hash), role)
	require.NoError(t, err)
	return acc
}

func strPtr(s string) *string { return &s }
