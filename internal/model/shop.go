package model

import (
	"gorm.io/datatypes"
)

// ShopTheme 店铺主题
type ShopTheme struct {
	PrimaryColor   string `json:"primaryColor,omitempty"`
	SecondaryColor string `json:"secondaryColor,omitempty"`
	LogoURL        string `json:"logoUrl,omitempty"`
}

// Shop 店铺
// Slug 是对外（URL）标识，ID 是内部主键，两者可以不同
type Shop struct {
	BaseModel
	AuditFields

	Slug      string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Name      string `gorm:"size:255;not null" json:"name"`
	Address   string `gorm:"type:text" json:"address"`
	PhoneE164 string `gorm:"size:20;comment:展示电话(E.164,无+号)" json:"phoneE164"`
	GstNo     string `gorm:"size:32" json:"gstNo,omitempty"`
	UpiID     string `gorm:"size:100" json:"upiId,omitempty"`

	Theme datatypes.JSONType[ShopTheme] `json:"theme"`

	OwnerID string `gorm:"size:128;index" json:"ownerId,omitempty"`

	// 只有 IsActive 的店铺对顾客可见
	IsActive bool `gorm:"index;default:false" json:"isActive"`
}

func (Shop) TableName() string {
	return "shops"
}
