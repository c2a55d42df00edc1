package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"wa_storefront_v1/internal/model"
)

// OrderRepository 订单仓库，所有读写都限定在一个店铺内
type OrderRepository interface {
	Create(ctx context.Context, o *model.Order) error
	GetInShop(ctx context.Context, shopID string, id int64) (*model.Order, error)
	ListByShop(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error)
	UpdateStatus(ctx context.Context, shopID string, id int64, status string) error
	CountByStatus(ctx context.Context, shopID string) (map[string]int64, error)
}

// OrderFilter 订单筛选条件，ShopID 必填
type OrderFilter struct {
	ShopID   string
	Status   string
	Page     int
	PageSize int
}

type orderRepo struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, o *model.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *orderRepo) GetInShop(ctx context.Context, shopID string, id int64) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND id = ?", shopID, id).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) ListByShop(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error) {
	if filter.ShopID == "" {
		return nil, 0, errors.New("order query requires shop_id")
	}

	query := r.db.WithContext(ctx).Model(&model.Order{}).Where("shop_id = ?", filter.ShopID)
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

	var list []model.Order
	err := query.
		Order("created_at DESC, id DESC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&list).Error
	return list, total, err
}

func (r *orderRepo) UpdateStatus(ctx context.Context, shopID string, id int64, status string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("shop_id = ? AND id = ?", shopID, id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByStatus 各状态订单数
func (r *orderRepo) CountByStatus(ctx context.Context, shopID string) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("status, COUNT(*) AS count").
		Where("shop_id = ?", shopID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}
