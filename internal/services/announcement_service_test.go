package services

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/community-admin/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/models"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/repository"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var siteZone = time.FixedZone("UTC+2", 2*60*60)

func newAnnouncementService(f *fixture, now time.Time) *AnnouncementService {
	svc := NewAnnouncementService(f.announcements, f.servers, siteZone)
	svc.now = func() time.Time { return now }
	return svc
}

func viewIDs(views []AnnouncementView) []uint {
	out := make([]uint, len(views))
	for i, v := range views {
		out[i] = v.ID
	}
	return out
}

func TestSaveAnnouncement_Defaults(t *testing.T) {
	f := newFixture(t)
	svc := newAnnouncementService(f, time.Now())

	v, err := svc.Save(context.Background(), &dto.CreateAnnouncementRequest{
		Message:  "  Maintenance tonight  ",
		Severity: "catastrophic",
	})
	require.NoError(t, err)
	assert.NotZero(t, v.ID)
	assert.Equal(t, "Maintenance tonight", v.Message)
	assert.Equal(t, models.SeverityInfo, v.Severity)
	assert.True(t, v.Active)
	assert.Nil(t, v.ServerID)
	assert.Nil(t, v.ServerName)
	assert.Nil(t, v.ServerExternalID)
	assert.Nil(t, v.StartsAt)
	assert.Nil(t, v.EndsAt)
}

func TestSaveAnnouncement_Validation(t *testing.T) {
	f := newFixture(t)
	svc := newAnnouncementService(f, time.Now())
	ctx := context.Background()

	_, err := svc.Save(ctx, &dto.CreateAnnouncementRequest{Message: "   "})
	assert.ErrorIs(t, err, ErrValidation)

	missing := int64(31337)
	_, err = svc.Save(ctx, &dto.CreateAnnouncementRequest{Message: "hi", ServerID: &missing})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSaveAnnouncement_ServerReference(t *testing.T) {
	f := newFixture(t)
	svc := newAnnouncementService(f, time.Now())
	ctx := context.Background()

	srv, err := f.servers.UpsertByExternalID(ctx, repository.ServerUpsert{ExternalID: "88", DisplayName: "Eighty"})
	require.NoError(t, err)

	id := int64(srv.ID)
	v, err := svc.Save(ctx, &dto.CreateAnnouncementRequest{Message: "wipe", Severity: "warning", ServerID: &id})
	require.NoError(t, err)
	require.NotNil(t, v.ServerID)
	assert.Equal(t, srv.ID, *v.ServerID)
	assert.Equal(t, "Eighty", *v.ServerName)
	assert.Equal(t, "88", *v.ServerExternalID)
	assert.Equal(t, models.SeverityWarning, v.Severity)

	for _, raw := range []int64{0, -4} {
		raw := raw
		v, err := svc.Save(ctx, &dto.CreateAnnouncementRequest{Message: "global", ServerID: &raw})
		require.NoError(t, err)
		assert.Nil(t, v.ServerID, "server_id %d", raw)
	}
}

func TestSaveAnnouncement_LocalTimes(t *testing.T) {
	f := newFixture(t)
	svc := newAnnouncementService(f, time.Now())
	ctx := context.Background()

	tests := []struct {
		in   string
		want *string
	}{
		{"2026-04-01T10:30", strPtr("2026-04-01 10:30:00")},
		{"2026-04-01T10:30:15", strPtr("2026-04-01 10:30:15")},
		{"2026-04-01 10:30:15", strPtr("2026-04-01 10:30:15")},
		{"2026-04-01 10:30", strPtr("2026-04-01 10:30:00")},
		{"2026-04-01 10:30:15.987", strPtr("2026-04-01 10:30:15")},
		{"next tuesday", nil},
		{"2026-13-01T10:30", nil},
		{"", nil},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			in := tc.in
			v, err := svc.Save(ctx, &dto.CreateAnnouncementRequest{Message: "m", StartsAt: &in, EndsAt: &in})
			require.NoError(t, err)
			assert.Equal(t, tc.want, v.StartsAt)
			assert.Equal(t, tc.want, v.EndsAt)
		})
	}

	start := "2026-04-01T10:30"
	v, err := svc.Save(ctx, &dto.CreateAnnouncementRequest{Message: "m", StartsAt: &start})
	require.NoError(t, err)
	stored, err := f.announcements.FindByID(ctx, v.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.StartsAt)
	assert.True(t, stored.StartsAt.Equal(time.Date(2026, 4, 1, 8, 30, 0, 0, time.UTC)), "stored as UTC instant")
}

func TestSaveAnnouncement_InactiveRequested(t *testing.T) {
	f := newFixture(t)
	svc := newAnnouncementService(f, time.Now())
	off := false

	v, err := svc.Save(context.Background(), &dto.CreateAnnouncementRequest{Message: "draft", Active: &off})
	require.NoError(t, err)
	assert.False(t, v.Active)
}

func TestAnnouncementSoftDelete_EndTimeMerge(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	svc := newAnnouncementService(f, now)
	ctx := context.Background()

	open, err := svc.Save(ctx, &dto.CreateAnnouncementRequest{Message: "open"})
	require.NoError(t, err)
	future := "2026-07-01 00:00:00"
	planned, err := svc.Save(ctx, &dto.CreateAnnouncementRequest{Message: "planned", EndsAt: &future})
	require.NoError(t, err)

	require.NoError(t, svc.SoftDelete(ctx, open.ID))
	require.NoError(t, svc.SoftDelete(ctx, planned.ID))

	got, err := svc.Get(ctx, open.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Equal(t, "2026-06-01 11:00:00", *got.EndsAt)

	got, err = svc.Get(ctx, planned.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Equal(t, future, *got.EndsAt)

	assert.ErrorIs(t, svc.SoftDelete(ctx, 999999), ErrNotFound)
	assert.ErrorIs(t, svc.SoftDelete(ctx, 0), ErrValidation)
	_, err = svc.Get(ctx, 999999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAnnouncementList_GlobalScopingAndWindow(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	svc := newAnnouncementService(f, now)
	ctx := context.Background()

	srv, err := f.servers.UpsertByExternalID(ctx, repository.ServerUpsert{ExternalID: "s", DisplayName: "S"})
	require.NoError(t, err)
	sid := int64(srv.ID)

	global, err := svc.Save(ctx, &dto.CreateAnnouncementRequest{Message: "global"})
	require.NoError(t, err)
	scoped, err := svc.Save(ctx, &dto.CreateAnnouncementRequest{Message: "scoped", ServerID: &sid})
	require.NoError(t, err)
	later := "2026-06-02 00:00"
	_, err = svc.Save(ctx, &dto.CreateAnnouncementRequest{Message: "future", StartsAt: &later})
	require.NoError(t, err)
	earlier := "2026-05-01 00:00"
	_, err = svc.Save(ctx, &dto.CreateAnnouncementRequest{Message: "past", EndsAt: &earlier})
	require.NoError(t, err)

	other := uint(999)
	for _, filter := range []repository.AnnouncementFilter{
		{ServerID: &srv.ID},
		{ServerID: &other},
		{ExternalID: "s"},
		{ExternalID: "nope"},
	} {
		assert.Contains(t, viewIDs(svc.List(ctx, filter)), global.ID)
	}

	visible := svc.List(ctx, repository.AnnouncementFilter{ActiveWindowOnly: true, ServerID: &srv.ID})
	assert.ElementsMatch(t, []uint{global.ID, scoped.ID}, viewIDs(visible))
}

func TestAnnouncementVisible_MirrorsStoreWindow(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	svc := newAnnouncementService(f, now)
	ctx := context.Background()

	off := false
	bounds := []struct{ start, end string }{
		{"", ""},
		{"2026-06-01 11:00:00", ""}, // exactly now in the site zone
		{"", "2026-06-01 11:00:00"},
		{"2026-06-01 11:00:01", ""},
		{"", "2026-06-01 10:59:59"},
		{"2026-05-01 00:00", "2026-07-01 00:00"},
	}
	for _, b := range bounds {
		start, end := b.start, b.end
		_, err := svc.Save(ctx, &dto.CreateAnnouncementRequest{Message: "m", StartsAt: &start, EndsAt: &end})
		require.NoError(t, err)
	}
	_, err := svc.Save(ctx, &dto.CreateAnnouncementRequest{Message: "off", Active: &off})
	require.NoError(t, err)

	fromStore := viewIDs(svc.List(ctx, repository.AnnouncementFilter{ActiveWindowOnly: true}))
	inProcess := viewIDs(svc.Visible(ctx, 0))
	assert.Len(t, fromStore, 4)
	assert.Equal(t, fromStore, inProcess)

	assert.Len(t, svc.Visible(ctx, 2), 2)
}

// windowRecorder records the filter it is asked for and leaks one expired
// row into every result.
type windowRecorder struct {
	repository.AnnouncementRepository
	filters []repository.AnnouncementFilter
	leaked  models.Announcement
}

func (r *windowRecorder) List(ctx context.Context, f repository.AnnouncementFilter, now time.Time) ([]models.Announcement, error) {
	r.filters = append(r.filters, f)
	rows, err := r.AnnouncementRepository.List(ctx, f, now)
	if err != nil {
		return nil, err
	}
	return append(rows, r.leaked), nil
}

func TestAnnouncementVisible_StoreAppliesWindow(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	ended := now.Add(-time.Hour)
	repo := &windowRecorder{
		AnnouncementRepository: f.announcements,
		leaked:                 models.Announcement{ID: 999, Message: "stale", Active: true, EndsAt: &ended},
	}
	svc := NewAnnouncementService(repo, f.servers, siteZone)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	saved, err := svc.Save(ctx, &dto.CreateAnnouncementRequest{Message: "live"})
	require.NoError(t, err)

	visible := svc.Visible(ctx, 0)
	assert.Equal(t, []uint{saved.ID}, viewIDs(visible))
	require.Len(t, repo.filters, 1)
	assert.True(t, repo.filters[0].ActiveWindowOnly)
}

func TestAnnouncementList_StoreDownIsEmpty(t *testing.T) {
	f := newFixture(t)
	svc := newAnnouncementService(f, time.Now())
	testutil.Break(t, f.db)
	ctx := context.Background()

	list := svc.List(ctx, repository.AnnouncementFilter{})
	assert.NotNil(t, list)
	assert.Empty(t, list)
	assert.Empty(t, svc.Visible(ctx, 10))

	_, err := svc.Save(ctx, &dto.CreateAnnouncementRequest{Message: "m"})
	assert.ErrorIs(t, err, ErrServer)
	assert.ErrorIs(t, svc.SoftDelete(ctx, 1), ErrServer)
}
