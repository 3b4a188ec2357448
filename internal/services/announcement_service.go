package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/community-admin/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/models"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/repository"
	"github.com/ahmetcoskunkizilkaya/community-admin/internal/visibility"
)

// ViewTimeLayout is how announcement bounds are shown: zone-less, in the
// configured location.
const ViewTimeLayout = "2006-01-02 15:04:05"

var localLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// AnnouncementView is an announcement joined with its server. Server fields
// are nil for global announcements.
type AnnouncementView struct {
	ID               uint            `json:"id"`
	ServerID         *uint           `json:"server_id"`
	ServerName       *string         `json:"server_name"`
	ServerExternalID *string         `json:"server_external_id"`
	Message          string          `json:"message"`
	Severity         models.Severity `json:"severity"`
	StartsAt         *string         `json:"starts_at"`
	EndsAt           *string         `json:"ends_at"`
	Active           bool            `json:"active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type AnnouncementService struct {
	announcements repository.AnnouncementRepository
	servers       repository.ServerRepository
	loc           *time.Location
	now           func() time.Time
}

func NewAnnouncementService(announcements repository.AnnouncementRepository, servers repository.ServerRepository, loc *time.Location) *AnnouncementService {
	if loc == nil {
		loc = time.UTC
	}
	return &AnnouncementService{
		announcements: announcements,
		servers:       servers,
		loc:           loc,
		now:           time.Now,
	}
}

// List returns announcements matching f, newest first. A store failure is
// logged and reported as an empty list.
func (s *AnnouncementService) List(ctx context.Context, f repository.AnnouncementFilter) []AnnouncementView {
	rows, err := s.announcements.List(ctx, f, s.now().UTC())
	if err != nil {
		slog.Error("list announcements failed, returning empty list", "error", err)
		return []AnnouncementView{}
	}
	return s.views(rows)
}

// Visible returns the announcements currently shown to the public, at most
// limit of them. The store applies the window and each row is checked again
// against the same clock.
func (s *AnnouncementService) Visible(ctx context.Context, limit int) []AnnouncementView {
	now := s.now().UTC()
	rows, err := s.announcements.List(ctx, repository.AnnouncementFilter{ActiveWindowOnly: true}, now)
	if err != nil {
		slog.Error("list announcements failed, returning empty list", "error", err)
		return []AnnouncementView{}
	}

	visible := rows[:0]
	for _, a := range rows {
		if visibility.IsVisible(a.Active, a.StartsAt, a.EndsAt, now) {
			visible = append(visible, a)
		}
		if limit > 0 && len(visible) == limit {
			break
		}
	}
	return s.views(visible)
}

func (s *AnnouncementService) Get(ctx context.Context, id uint) (*AnnouncementView, error) {
	if err := requireID(id); err != nil {
		return nil, err
	}
	a, err := s.announcements.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeFailure("get announcement", err, "announcement_id", id)
	}
	v := s.view(a)
	return &v, nil
}

// Save inserts a new announcement. Unknown severities become info and
// unparseable bounds become open.
func (s *AnnouncementService) Save(ctx context.Context, req *dto.CreateAnnouncementRequest) (*AnnouncementView, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, invalid("message is required")
	}

	row := models.Announcement{
		Message:  message,
		Severity: models.ParseSeverity(strings.TrimSpace(req.Severity)),
		StartsAt: s.parseLocal(req.StartsAt),
		EndsAt:   s.parseLocal(req.EndsAt),
		Active:   true,
	}
	if req.Active != nil {
		row.Active = *req.Active
	}

	if req.ServerID != nil && *req.ServerID > 0 {
		id := uint(*req.ServerID)
		if _, err := s.servers.FindByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, invalid("server_id does not reference a server")
			}
			return nil, storeFailure("check announcement server", err, "server_id", id)
		}
		row.ServerID = &id
	}

	saved, err := s.announcements.Insert(ctx, &row)
	if err != nil {
		return nil, storeFailure("insert announcement", err)
	}
	v := s.view(saved)
	return &v, nil
}

// SoftDelete deactivates the announcement and closes its window now unless it
// already had an end time.
func (s *AnnouncementService) SoftDelete(ctx context.Context, id uint) error {
	if err := requireID(id); err != nil {
		return err
	}
	n, err := s.announcements.SoftDelete(ctx, id, s.now().UTC().Truncate(time.Second))
	if err != nil {
		return storeFailure("deactivate announcement", err, "announcement_id", id)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *AnnouncementService) parseLocal(raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	text := strings.TrimSpace(*raw)
	if text == "" {
		return nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, text, s.loc); err == nil {
			utc := t.Truncate(time.Second).UTC()
			return &utc
		}
	}
	return nil
}

func (s *AnnouncementService) formatLocal(t *time.Time) *string {
	if t == nil {
		return nil
	}
	out := t.In(s.loc).Format(ViewTimeLayout)
	return &out
}

func (s *AnnouncementService) view(a *models.Announcement) AnnouncementView {
	v := AnnouncementView{
		ID:        a.ID,
		ServerID:  a.ServerID,
		Message:   a.Message,
		Severity:  models.ParseSeverity(string(a.Severity)),
		StartsAt:  s.formatLocal(a.StartsAt),
		EndsAt:    s.formatLocal(a.EndsAt),
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if a.Server != nil {
		name, ext := a.Server.DisplayName, a.Server.ExternalID
		v.ServerName = &name
		v.ServerExternalID = &ext
	}
	return v
}

func (s *AnnouncementService) views(rows []models.Announcement) []AnnouncementView {
	out := make([]AnnouncementView, 0, len(rows))
	for i := range rows {
		out = append(out, s.view(&rows[i]))
	}
	return out
}
