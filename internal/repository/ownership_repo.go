package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wa_storefront_v1/internal/model"
)

// ==================== OwnershipRepository 店铺归属仓库 ====================

// OwnershipRepository 店铺归属仓库接口 (shop_ownership)
type OwnershipRepository interface {
	Create(ctx context.Context, o *model.ShopOwnership) error
	// CreateIfAbsent 主键冲突时什么都不做，返回是否真正插入
	CreateIfAbsent(ctx context.Context, o *model.ShopOwnership) (bool, error)
	GetByID(ctx context.Context, id string) (*model.ShopOwnership, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	// Disable 停用记录，保留行以阻止按邮箱域名重新补建；已停用或不存在返回 gorm.ErrRecordNotFound
	Disable(ctx context.Context, id string) error

	// 点查询
	FindByUserAndShop(ctx context.Context, userID, shopSlug string) (*model.ShopOwnership, error)
	FindByEmailAndShop(ctx context.Context, email, shopSlug string) (*model.ShopOwnership, error)

	// LinkUser 把 userID 写到按邮箱预建的记录上
	// 只更新 user_id 为空或已经等于 userID 的记录，重复执行结果一致
	LinkUser(ctx context.Context, id, userID string) (bool, error)

	// 集合查询，均按创建时间升序
	ListByUser(ctx context.Context, userID string) ([]model.ShopOwnership, error)
	ListByShop(ctx context.Context, shopSlug string) ([]model.ShopOwnership, error)
	ListActive(ctx context.Context) ([]model.ShopOwnership, error)
	List(ctx context.Context, filter OwnershipFilter) ([]model.ShopOwnership, int64, error)
}

// OwnershipFilter 归属记录筛选条件
type OwnershipFilter struct {
	ShopSlug string
	Email    string
	Status   string
	Page     int
	PageSize int
}

// ==================== 实现 ====================

type ownershipRepository struct {
	db *gorm.DB
}

// NewOwnershipRepository 创建店铺归属仓库
func NewOwnershipRepository(db *gorm.DB) OwnershipRepository {
	return &ownershipRepository{db: db}
}

func (r *ownershipRepository) Create(ctx context.Context, o *model.ShopOwnership) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *ownershipRepository) CreateIfAbsent(ctx context.Context, o *model.ShopOwnership) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(o)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ownershipRepository) GetByID(ctx context.Context, id string) (*model.ShopOwnership, error) {
	var o model.ShopOwnership
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *ownershipRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&model.ShopOwnership{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ownershipRepository) Disable(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Model(&model.ShopOwnership{}).
		Where("id = ? AND status <> ?", id, model.OwnershipStatusDisabled).
		Update("status", model.OwnershipStatusDisabled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ownershipRepository) FindByUserAndShop(ctx context.Context, userID, shopSlug string) (*model.ShopOwnership, error) {
	var o model.ShopOwnership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND shop_slug = ?", userID, shopSlug).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// FindByEmailAndShop 未绑定 user_id 的记录优先
func (r *ownershipRepository) FindByEmailAndShop(ctx context.Context, email, shopSlug string) (*model.ShopOwnership, error) {
	var o model.ShopOwnership
	err := r.db.WithContext(ctx).
		Where("email = ? AND shop_slug = ?", email, shopSlug).
		Order("user_id ASC, created_at ASC").
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *ownershipRepository) LinkUser(ctx context.Context, id, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.ShopOwnership{}).
		Where("id = ? AND (user_id = '' OR user_id IS NULL OR user_id = ?)", id, userID).
		Update("user_id", userID)
	return res.RowsAffected > 0, res.Error
}

func (r *ownershipRepository) ListByUser(ctx context.Context, userID string) ([]model.ShopOwnership, error) {
	var list []model.ShopOwnership
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *ownershipRepository) ListByShop(ctx context.Context, shopSlug string) ([]model.ShopOwnership, error) {
	var list []model.ShopOwnership
	err := r.db.WithContext(ctx).
		Where("shop_slug = ?", shopSlug).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *ownershipRepository) ListActive(ctx context.Context) ([]model.ShopOwnership, error) {
	var list []model.ShopOwnership
	err := r.db.WithContext(ctx).
		Where("status = ?", model.OwnershipStatusActive).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *ownershipRepository) List(ctx context.Context, filter OwnershipFilter) ([]model.ShopOwnership, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.ShopOwnership{})

	if filter.ShopSlug != "" {
		query = query.Where("shop_slug = ?", filter.ShopSlug)
	}
	if filter.Email != "" {
		query = query.Where("email = ?", filter.Email)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	var list []model.ShopOwnership
	err := query.
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(filter.PageSize).
		Find(&list).Error

	return list, total, err
}
