package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"wa_storefront_v1/internal/model"
)

// ==================== UserRepository 用户仓库 ====================

// UserRepository 本地身份源的用户仓库接口
type UserRepository interface {
	Create(ctx context.Context, user *model.SellerUser) error
	GetByUID(ctx context.Context, uid string) (*model.SellerUser, error)
	GetByEmail(ctx context.Context, email string) (*model.SellerUser, error)
	UpdatePassword(ctx context.Context, uid string, hashedPassword string) error
	UpdateLastLogin(ctx context.Context, uid string) error
	SetActive(ctx context.Context, uid string, active bool) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// ==================== 实现 ====================

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, user *model.SellerUser) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByUID 根据 UID 获取用户
func (r *userRepository) GetByUID(ctx context.Context, uid string) (*model.SellerUser, error) {
	var user model.SellerUser
	err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail 根据邮箱获取用户
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.SellerUser, error) {
	var user model.SellerUser
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdatePassword 更新密码
func (r *userRepository) UpdatePassword(ctx context.Context, uid string, hashedPassword string) error {
	return r.db.WithContext(ctx).
		Model(&model.SellerUser{}).
		Where("uid = ?", uid).
		Update("password_hash", hashedPassword).Error
}

// UpdateLastLogin 更新最后登录时间
func (r *userRepository) UpdateLastLogin(ctx context.Context, uid string) error {
	return r.db.WithContext(ctx).
		Model(&model.SellerUser{}).
		Where("uid = ?", uid).
		Update("last_login_at", time.Now()).Error
}

// SetActive 启用/禁用账号
func (r *userRepository) SetActive(ctx context.Context, uid string, active bool) error {
	return r.db.WithContext(ctx).
		Model(&model.SellerUser{}).
		Where("uid = ?", uid).
		Update("is_active", active).Error
}

// ExistsByEmail 检查邮箱是否存在
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.SellerUser{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}
