package dto

import "wa_storefront_v1/internal/model"

// ==================== 顾客下单 ====================

// OrderItemRequest 下单商品行，价格以服务端为准
type OrderItemRequest struct {
	ProductID int64   `json:"productId" binding:"required"`
	Quantity  float64 `json:"quantity" binding:"required,gt=0"`
}

// PlaceOrderRequest 顾客下单
type PlaceOrderRequest struct {
	CustomerName  string             `json:"customerName" binding:"required,max=100"`
	CustomerPhone string             `json:"customerPhone" binding:"required"`
	Address       string             `json:"address" binding:"required,max=500"`
	Landmark      string             `json:"landmark" binding:"omitempty,max=255"`
	PreferredTime string             `json:"preferredTime" binding:"omitempty,max=100"`
	Notes         string             `json:"notes" binding:"omitempty,max=1000"`
	Items         []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// PlaceOrderResponse 下单结果，顾客通过 WhatsAppLink 联系卖家
type PlaceOrderResponse struct {
	Order        *model.Order `json:"order"`
	WhatsAppLink string       `json:"whatsappLink"`
}

// ==================== 卖家订单 ====================

// OrderListQuery 订单列表
type OrderListQuery struct {
	Status   string `form:"status"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"pageSize,default=20"`
}

// UpdateOrderStatusRequest 更新订单状态
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed delivered canceled"`
}

// DashboardSummary 卖家后台概览
type DashboardSummary struct {
	Shop          *model.Shop      `json:"shop"`
	ProductCount  int64            `json:"productCount"`
	OrderCounts   map[string]int64 `json:"orderCounts"`
	TotalOrders   int64            `json:"totalOrders"`
	PendingOrders int64            `json:"pendingOrders"`
}
