package model

import (
	"time"

	"gorm.io/gorm"
)

type BaseModel struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// AuditFields 审计字段，由 middleware.RegisterAuditCallbacks 自动填充
type AuditFields struct {
	CreatedBy string `gorm:"size:128;comment:创建人UID" json:"createdBy,omitempty"`
	UpdatedBy string `gorm:"size:128;comment:更新人UID" json:"updatedBy,omitempty"`
}

// All 需要自动建表的全部模型
func All() []interface{} {
	return []interface{}{
		&SellerUser{}, &AdminRecord{},
		&Shop{}, &ShopOwnership{},
		&Product{}, &Order{},
	}
}
