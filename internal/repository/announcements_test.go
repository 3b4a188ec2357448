package repository

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/community-admin/internal/models"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type announcementFixture struct {
	repo    *GormAnnouncementRepository
	servers *GormServerRepository
	db      *gorm.DB
	now     time.Time
}

func newAnnouncementFixture(t *testing.T) *announcementFixture {
	db := testutil.NewDB(t)
	return &announcementFixture{
		repo:    NewGormAnnouncementRepository(db),
		servers: NewGormServerRepository(db),
		db:      db,
		now:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *announcementFixture) insert(t *testing.T, a models.Announcement) *models.Announcement {
	t.Helper()
	if a.Severity == "" {
		a.Severity = models.SeverityInfo
	}
	out, err := f.repo.Insert(context.Background(), &a)
	require.NoError(t, err)
	return out
}

func ids(rows []models.Announcement) []uint {
	out := make([]uint, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func timePtr(t time.Time) *time.Time { return &t }

func TestAnnouncements_InsertJoinsServer(t *testing.T) {
	f := newAnnouncementFixture(t)
	ctx := context.Background()

	srv, err := f.servers.UpsertByExternalID(ctx, ServerUpsert{ExternalID: "777", DisplayName: "Seven"})
	require.NoError(t, err)

	scoped := f.insert(t, models.Announcement{ServerID: &srv.ID, Message: "restart", Active: true})
	require.NotNil(t, scoped.Server)
	assert.Equal(t, "Seven", scoped.Server.DisplayName)

	global := f.insert(t, models.Announcement{Message: "hello all", Active: true})
	assert.Nil(t, global.ServerID)
	assert.Nil(t, global.Server)
}

func TestAnnouncements_ServerScopeIncludesGlobal(t *testing.T) {
	f := newAnnouncementFixture(t)
	ctx := context.Background()

	s1, err := f.servers.UpsertByExternalID(ctx, ServerUpsert{ExternalID: "s1", DisplayName: "One"})
	require.NoError(t, err)
	s2, err := f.servers.UpsertByExternalID(ctx, ServerUpsert{ExternalID: "s2", DisplayName: "Two"})
	require.NoError(t, err)

	global := f.insert(t, models.Announcement{Message: "global", Active: true})
	onS1 := f.insert(t, models.Announcement{ServerID: &s1.ID, Message: "s1", Active: true})
	onS2 := f.insert(t, models.Announcement{ServerID: &s2.ID, Message: "s2", Active: true})

	rows, err := f.repo.List(ctx, AnnouncementFilter{ServerID: &s1.ID}, f.now)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{global.ID, onS1.ID}, ids(rows))

	rows, err = f.repo.List(ctx, AnnouncementFilter{ExternalID: "s2"}, f.now)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{global.ID, onS2.ID}, ids(rows))

	missing := uint(424242)
	rows, err = f.repo.List(ctx, AnnouncementFilter{ServerID: &missing}, f.now)
	require.NoError(t, err)
	assert.Equal(t, []uint{global.ID}, ids(rows))

	rows, err = f.repo.List(ctx, AnnouncementFilter{ServerID: &s1.ID, ExternalID: "s2"}, f.now)
	require.NoError(t, err)
	assert.Equal(t, []uint{global.ID}, ids(rows), "dimensions are AND-combined")
}

func TestAnnouncements_ActiveWindow(t *testing.T) {
	f := newAnnouncementFixture(t)
	ctx := context.Background()
	now := f.now

	open := f.insert(t, models.Announcement{Message: "open", Active: true})
	inside := f.insert(t, models.Announcement{Message: "inside", Active: true,
		StartsAt: timePtr(now.Add(-time.Hour)), EndsAt: timePtr(now.Add(time.Hour))})
	future := f.insert(t, models.Announcement{Message: "future", Active: true, StartsAt: timePtr(now.Add(time.Hour))})
	past := f.insert(t, models.Announcement{Message: "past", Active: true, EndsAt: timePtr(now.Add(-time.Minute))})
	inactive := f.insert(t, models.Announcement{Message: "off", Active: false})
	edge := f.insert(t, models.Announcement{Message: "edge", Active: true, StartsAt: timePtr(now), EndsAt: timePtr(now)})

	rows, err := f.repo.List(ctx, AnnouncementFilter{ActiveWindowOnly: true}, now)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{open.ID, inside.ID, edge.ID}, ids(rows))

	rows, err = f.repo.List(ctx, AnnouncementFilter{}, now)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{open.ID, inside.ID, future.ID, past.ID, inactive.ID, edge.ID}, ids(rows))
}

func TestAnnouncements_NewestFirst(t *testing.T) {
	f := newAnnouncementFixture(t)
	ctx := context.Background()

	a := f.insert(t, models.Announcement{Message: "a", Active: true})
	b := f.insert(t, models.Announcement{Message: "b", Active: true})
	c := f.insert(t, models.Announcement{Message: "c", Active: true})

	// Same created_at for a and c: id breaks the tie.
	stamp := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.db.Model(&models.Announcement{}).Where("id IN ?", []uint{a.ID, c.ID}).Update("created_at", stamp).Error)
	require.NoError(t, f.db.Model(&models.Announcement{}).Where("id = ?", b.ID).Update("created_at", stamp.Add(time.Hour)).Error)

	rows, err := f.repo.List(ctx, AnnouncementFilter{}, f.now)
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID, c.ID, a.ID}, ids(rows))
}

func TestAnnouncements_SoftDeleteEndTimeMerge(t *testing.T) {
	f := newAnnouncementFixture(t)
	ctx := context.Background()

	scheduled := f.now.Add(48 * time.Hour)
	open := f.insert(t, models.Announcement{Message: "open", Active: true})
	planned := f.insert(t, models.Announcement{Message: "planned", Active: true, EndsAt: &scheduled})

	n, err := f.repo.SoftDelete(ctx, open.ID, f.now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = f.repo.SoftDelete(ctx, planned.ID, f.now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := f.repo.FindByID(ctx, open.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	require.NotNil(t, got.EndsAt)
	assert.True(t, got.EndsAt.Equal(f.now))

	got, err = f.repo.FindByID(ctx, planned.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	require.NotNil(t, got.EndsAt)
	assert.True(t, got.EndsAt.Equal(scheduled))

	n, err = f.repo.SoftDelete(ctx, 999999, f.now)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}
