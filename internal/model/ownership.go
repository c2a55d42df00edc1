package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 店铺内角色
const (
	RoleOwner   = "owner"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// 归属记录状态
const (
	OwnershipStatusActive   = "active"
	OwnershipStatusDisabled = "disabled"
)

// ShopOwnership 用户与店铺的归属关系
// 同时也是订单 WhatsApp 联系号码的唯一可靠来源 (SellerPhone)，与店铺展示电话不同
type ShopOwnership struct {
	// 管理员创建的记录用随机 UUID，启发式补建的记录用 OwnershipID(userID, slug)
	ID string `gorm:"primaryKey;size:255" json:"id"`

	// UserID 为空表示卖家尚未首次登录（按邮箱预建）
	// 非空时 (user_id, shop_slug) 唯一
	UserID   string `gorm:"size:128;index;uniqueIndex:idx_ownership_user_shop,where:user_id <> ''" json:"userId"`
	Email    string `gorm:"size:255;index" json:"email"`
	ShopSlug string `gorm:"size:100;not null;index;uniqueIndex:idx_ownership_user_shop" json:"shopSlug"`
	ShopName string `gorm:"size:255" json:"shopName"`

	SellerPhone string `gorm:"size:20;comment:接单WhatsApp号码" json:"sellerPhone,omitempty"`

	Role   string `gorm:"size:20;default:'owner'" json:"role"`
	Status string `gorm:"size:20;index;default:'active'" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (ShopOwnership) TableName() string {
	return "shop_ownership"
}

func (o *ShopOwnership) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// IsActive 记录是否有效
func (o *ShopOwnership) IsActive() bool {
	return o.Status == "" || o.Status == OwnershipStatusActive
}

// OwnershipID 启发式补建记录使用的确定性 ID，保证重复补建只落一条
func OwnershipID(userID, shopSlug string) string {
	return userID + "_" + shopSlug
}

// ValidRole 是否为合法的店铺角色
func ValidRole(role string) bool {
	switch role {
	case RoleOwner, RoleManager, RoleStaff:
		return true
	}
	return false
}
