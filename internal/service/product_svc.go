package service

import (
	"context"

	"wa_storefront_v1/internal/api/dto"
	"wa_storefront_v1/internal/model"
	"wa_storefront_v1/internal/repository"
)

// ==================== ProductService 商品服务 ====================

// ProductService 店铺商品，所有操作都限定在一个店铺内
type ProductService struct {
	products repository.ProductRepository
}

// NewProductService 创建商品服务
func NewProductService(products repository.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

// List 商品列表
func (s *ProductService) List(ctx context.Context, shopSlug string, onlyInStock bool) ([]model.Product, error) {
	list, err := s.products.ListByShop(ctx, shopSlug, onlyInStock)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []model.Product{}
	}
	return list, nil
}

// Get 商品详情
func (s *ProductService) Get(ctx context.Context, shopSlug string, id int64) (*model.Product, error) {
	p, err := s.products.GetInShop(ctx, shopSlug, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

// Create 新增商品
func (s *ProductService) Create(ctx context.Context, shopSlug string, req *dto.CreateProductRequest) (*model.Product, error) {
	p := &model.Product{
		ShopID:   shopSlug,
		Name:     req.Name,
		NameTA:   req.NameTA,
		Unit:     req.Unit,
		UnitTA:   req.UnitTA,
		Price:    req.Price,
		InStock:  true,
		ImageURL: req.ImageURL,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}

	// in_stock 有默认值 true，false 需要单独更新
	if req.InStock != nil && !*req.InStock {
		if err := s.products.UpdateFields(ctx, shopSlug, p.ID, map[string]interface{}{"in_stock": false}); err != nil {
			return nil, err
		}
		p.InStock = false
	}
	return p, nil
}
