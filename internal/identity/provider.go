// Package identity 身份提供方: 登录、当前用户、登录状态变化通知
package identity

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrInvalidCredentials  = errors.New("邮箱或密码错误")
	ErrUserDisabled        = errors.New("账号已被禁用")
	ErrProviderUnavailable = errors.New("身份服务暂不可用")
)

// User 已登录用户
type User struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
}

// Provider 一个会话内的身份提供方
type Provider interface {
	CurrentUser() *User
	SignIn(ctx context.Context, email, password string) (*User, error)
	SignOut(ctx context.Context) error
	// OnAuthStateChanged 订阅时立即回调一次当前用户，之后每次登录/登出回调
	OnAuthStateChanged(fn func(*User)) (unsubscribe func())
}

// Authenticator 校验凭证，不持有状态
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*User, error)
}

// NormalizeEmail 邮箱统一小写去空格
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func sameUser(a, b *User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
