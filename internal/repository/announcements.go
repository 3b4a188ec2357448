package repository

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/community-admin/internal/models"
	"gorm.io/gorm"
)

type GormAnnouncementRepository struct {
	db *gorm.DB
}

func NewGormAnnouncementRepository(db *gorm.DB) *GormAnnouncementRepository {
	return &GormAnnouncementRepository{db: db}
}

// Insert stores a and returns it re-read with its server attached.
func (r *GormAnnouncementRepository) Insert(ctx context.Context, a *models.Announcement) (*models.Announcement, error) {
	row := *a
	row.Server = nil
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, wrap(err)
	}
	return r.FindByID(ctx, row.ID)
}

func (r *GormAnnouncementRepository) FindByID(ctx context.Context, id uint) (*models.Announcement, error) {
	var a models.Announcement
	if err := r.db.WithContext(ctx).Preload("Server").First(&a, "id = ?", id).Error; err != nil {
		return nil, wrap(err)
	}
	return &a, nil
}

// SoftDelete deactivates the announcement and closes its window at now unless
// an end time was already set.
func (r *GormAnnouncementRepository) SoftDelete(ctx context.Context, id uint, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Announcement{}).Where("id = ?", id).Updates(map[string]interface{}{
		"active":     false,
		"ends_at":    gorm.Expr("COALESCE(ends_at, ?)", now),
		"updated_at": now,
	})
	if result.Error != nil {
		return 0, wrap(result.Error)
	}
	return result.RowsAffected, nil
}

func (r *GormAnnouncementRepository) List(ctx context.Context, f AnnouncementFilter, now time.Time) ([]models.Announcement, error) {
	db := r.db.WithContext(ctx)
	query := db.Model(&models.Announcement{}).Preload("Server")

	if f.ServerID != nil {
		query = query.Where("(server_id = ? OR server_id IS NULL)", *f.ServerID)
	}
	if f.ExternalID != "" {
		ids := db.Model(&models.Server{}).Select("id").Where("external_id = ?", f.ExternalID)
		query = query.Where("(server_id IS NULL OR server_id IN (?))", ids)
	}
	if f.ActiveWindowOnly {
		query = query.
			Where("active = ?", true).
			Where("(starts_at IS NULL OR starts_at <= ?)", now).
			Where("(ends_at IS NULL OR ends_at >= ?)", now)
	}

	var rows []models.Announcement
	if err := query.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, wrap(err)
	}
	return rows, nil
}
