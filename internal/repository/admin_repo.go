package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wa_storefront_v1/internal/model"
)

// AdminRepository 平台管理员仓库 (admin/{uid})
type AdminRepository interface {
	GetByUID(ctx context.Context, uid string) (*model.AdminRecord, error)
	Upsert(ctx context.Context, rec *model.AdminRecord) error
	Delete(ctx context.Context, uid string) error
}

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository 创建管理员仓库
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

// GetByUID 只按 ID 读，不存在返回 nil, nil
func (r *adminRepository) GetByUID(ctx context.Context, uid string) (*model.AdminRecord, error) {
	var rec model.AdminRecord
	err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *adminRepository) Upsert(ctx context.Context, rec *model.AdminRecord) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uid"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "role", "updated_at"}),
		}).
		Create(rec).Error
}

func (r *adminRepository) Delete(ctx context.Context, uid string) error {
	return r.db.WithContext(ctx).Where("uid = ?", uid).Delete(&model.AdminRecord{}).Error
}
