package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"wa_storefront_v1/internal/model"
)

// ProductRepository 商品仓库，所有读写都限定在一个店铺内
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	GetInShop(ctx context.Context, shopID string, id int64) (*model.Product, error)
	ListByShop(ctx context.Context, shopID string, onlyInStock bool) ([]model.Product, error)
	UpdateFields(ctx context.Context, shopID string, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, shopID string, id int64) error
	CountByShop(ctx context.Context, shopID string) (int64, error)
}

type productRepo struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) GetInShop(ctx context.Context, shopID string, id int64) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND id = ?", shopID, id).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) ListByShop(ctx context.Context, shopID string, onlyInStock bool) ([]model.Product, error) {
	var list []model.Product
	query := r.db.WithContext(ctx).Where("shop_id = ?", shopID)
	if onlyInStock {
		query = query.Where("in_stock = ?", true)
	}
	err := query.Order("name ASC, id ASC").Find(&list).Error
	return list, err
}

func (r *productRepo) UpdateFields(ctx context.Context, shopID string, id int64, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("shop_id = ? AND id = ?", shopID, id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, shopID string, id int64) error {
	res := r.db.WithContext(ctx).
		Where("shop_id = ? AND id = ?", shopID, id).
		Delete(&model.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) CountByShop(ctx context.Context, shopID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("shop_id = ?", shopID).
		Count(&count).Error
	return count, err
}
