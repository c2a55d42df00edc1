package model

import "time"

// SellerUser 登录用户（卖家或管理员）
// 本地身份源时存储在 seller_users 表，外部身份源时仅作为会话内的用户视图
type SellerUser struct {
	UID          string     `gorm:"primaryKey;size:128" json:"uid"`
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	DisplayName  string     `gorm:"size:100" json:"displayName,omitempty"`
	PasswordHash string     `gorm:"size:255" json:"-"`
	IsActive     bool       `gorm:"default:true" json:"isActive"`
	LastLoginAt  *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (SellerUser) TableName() string {
	return "seller_users"
}
