package repository

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/community-admin/internal/models"
	"gorm.io/gorm"
)

type GormAccountRepository struct {
	db *gorm.DB
}

func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

func (r *GormAccountRepository) FindByName(ctx context.Context, name string) (*models.Account, error) {
	var acc models.Account
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&acc).Error; err != nil {
		return nil, wrap(err)
	}
	return &acc, nil
}

func (r *GormAccountRepository) FindByID(ctx context.Context, id uint) (*models.Account, error) {
	var acc models.Account
	if err := r.db.WithContext(ctx).First(&acc, "id = ?", id).Error; err != nil {
		return nil, wrap(err)
	}
	return &acc, nil
}

// Insert creates an active account. A taken name yields ErrDuplicate.
func (r *GormAccountRepository) Insert(ctx context.Context, name, hash string, role models.Role) (*models.Account, error) {
	acc := models.Account{
		Name:         name,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if err := r.db.WithContext(ctx).Create(&acc).Error; err != nil {
		if IsUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, wrap(err)
	}
	return &acc, nil
}

func (r *GormAccountRepository) UpdateActive(ctx context.Context, id uint, active bool) (int64, error) {
	return r.update(ctx, id, map[string]interface{}{"active": active})
}

func (r *GormAccountRepository) UpdateHash(ctx context.Context, id uint, hash string) (int64, error) {
	return r.update(ctx, id, map[string]interface{}{"password_hash": hash})
}

func (r *GormAccountRepository) update(ctx context.Context, id uint, values map[string]interface{}) (int64, error) {
	values["updated_at"] = time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&models.Account{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return 0, wrap(result.Error)
	}
	return result.RowsAffected, nil
}

func (r *GormAccountRepository) ListAll(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&accounts).Error; err != nil {
		return nil, wrap(err)
	}
	return accounts, nil
}
