package identity

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"wa_storefront_v1/internal/repository"
)

// LocalAuthenticator 本地 seller_users 表 + bcrypt
type LocalAuthenticator struct {
	users repository.UserRepository
	log   *zap.Logger
}

func NewLocalAuthenticator(users repository.UserRepository, log *zap.Logger) *LocalAuthenticator {
	return &LocalAuthenticator{users: users, log: log}
}

func (a *LocalAuthenticator) Authenticate(ctx context.Context, email, password string) (*User, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := a.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	if err := a.users.UpdateLastLogin(ctx, user.UID); err != nil {
		a.log.Warn("更新最后登录时间失败", zap.String("uid", user.UID), zap.Error(err))
	}

	return &User{UID: user.UID, Email: user.Email, DisplayName: user.DisplayName}, nil
}

// HashPassword 密码加密
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
