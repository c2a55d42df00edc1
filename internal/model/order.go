package model

import (
	"gorm.io/datatypes"
)

// ==================== 订单状态常量 ====================

const (
	OrderStatusPending   = "pending"   // 待确认
	OrderStatusConfirmed = "confirmed" // 卖家已确认
	OrderStatusDelivered = "delivered" // 已送达
	OrderStatusCanceled  = "canceled"  // 已取消
)

// ValidOrderStatus 订单状态校验
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

// ==================== Order 订单 ====================

// OrderItem 订单行（下单时快照）
type OrderItem struct {
	ProductID  int64   `json:"productId"`
	Name       string  `json:"name"`
	Unit       string  `json:"unit"`
	Quantity   float64 `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	TotalPrice float64 `json:"totalPrice"`
}

// Order 顾客订单，通过 WhatsApp 链接发给卖家
type Order struct {
	BaseModel
	AuditFields

	ShopID string `gorm:"size:100;index;not null" json:"shopId"`

	// 顾客信息
	CustomerName  string `gorm:"size:100;not null" json:"customerName"`
	CustomerPhone string `gorm:"size:20;not null" json:"customerPhone"`
	Address       string `gorm:"type:text" json:"address"`
	Landmark      string `gorm:"size:255" json:"landmark,omitempty"`
	PreferredTime string `gorm:"size:64" json:"preferredTime,omitempty"`
	Notes         string `gorm:"type:text" json:"notes,omitempty"`

	Items  datatypes.JSONSlice[OrderItem] `json:"items"`
	Total  float64                        `gorm:"type:decimal(10,2);default:0" json:"total"`
	Status string                         `gorm:"size:20;index;default:'pending'" json:"status"`
}

func (Order) TableName() string {
	return "orders"
}
