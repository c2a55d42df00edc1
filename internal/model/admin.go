package model

import "time"

// 平台角色
const (
	AdminRoleAdmin = "admin"
	AdminRoleOwner = "owner"
)

// AdminRecord 平台管理员记录，按 UID 精确查询
type AdminRecord struct {
	UID       string    `gorm:"primaryKey;size:128" json:"uid"`
	Email     string    `gorm:"size:255" json:"email"`
	Role      string    `gorm:"size:20;not null" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (AdminRecord) TableName() string {
	return "admin"
}

// IsAdmin 只有 admin / owner 两种角色算管理员
func (a *AdminRecord) IsAdmin() bool {
	return a.Role == AdminRoleAdmin || a.Role == AdminRoleOwner
}
