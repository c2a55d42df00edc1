package dto

import (
	"wa_storefront_v1/internal/model"
	"wa_storefront_v1/internal/state"
)

// ShopCard 首页店铺目录条目
type ShopCard struct {
	Slug    string `json:"slug"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Link    string `json:"link"`
}

// ShopView 顾客端页面通用数据，店铺不存在时 Shop 为 nil
type ShopView struct {
	Shop  *model.Shop `json:"shop"`
	Theme state.Theme `json:"theme"`
	Phase string      `json:"phase"`
	// ContactLink https://wa.me/<号码>，店铺没有配置号码时为空
	ContactLink string `json:"contactLink,omitempty"`
}

// ShopListQuery 管理后台店铺列表
type ShopListQuery struct {
	Keyword  string `form:"keyword"`
	IsActive *bool  `form:"isActive"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"pageSize,default=20"`
}

// SetShopActiveRequest 启用/停用店铺
type SetShopActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// PageResult 分页结果
type PageResult struct {
	List     interface{} `json:"list"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
}
