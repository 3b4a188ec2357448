package repository

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/community-admin/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormServerRepository struct {
	db *gorm.DB
}

func NewGormServerRepository(db *gorm.DB) *GormServerRepository {
	return &GormServerRepository{db: db}
}

// UpsertByExternalID inserts the server or, when the external id exists,
// overwrites its descriptive fields and forces it active. The returned row is
// read back from the store.
func (r *GormServerRepository) UpsertByExternalID(ctx context.Context, in ServerUpsert) (*models.Server, error) {
	row := models.Server{
		ExternalID:  in.ExternalID,
		DisplayName: in.DisplayName,
		GameTitle:   in.GameTitle,
		Region:      in.Region,
		Active:      true,
	}
	columns := []string{"display_name", "game_title", "region", "active", "updated_at"}
	if in.SortOrder != nil {
		row.SortOrder = *in.SortOrder
		columns = append(columns, "sort_order")
	}

	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(&row).Error
	if err != nil {
		return nil, wrap(err)
	}

	var out models.Server
	if err := db.Where("external_id = ?", in.ExternalID).First(&out).Error; err != nil {
		return nil, wrap(err)
	}
	return &out, nil
}

func (r *GormServerRepository) FindByID(ctx context.Context, id uint) (*models.Server, error) {
	var s models.Server
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, wrap(err)
	}
	return &s, nil
}

func (r *GormServerRepository) UpdateActive(ctx context.Context, id uint, active bool) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Server{}).Where("id = ?", id).Updates(map[string]interface{}{
		"active":     active,
		"updated_at": time.Now().UTC(),
	})
	if result.Error != nil {
		return 0, wrap(result.Error)
	}
	return result.RowsAffected, nil
}

func (r *GormServerRepository) List(ctx context.Context, includeInactive bool) ([]models.Server, error) {
	query := r.db.WithContext(ctx).Model(&models.Server{})
	if !includeInactive {
		query = query.Where("active = ?", true)
	}

	var servers []models.Server
	if err := query.Order("sort_order ASC").Order("id ASC").Find(&servers).Error; err != nil {
		return nil, wrap(err)
	}
	return servers, nil
}
