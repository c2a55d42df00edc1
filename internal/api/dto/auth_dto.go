package dto

import (
	"wa_storefront_v1/internal/identity"
	"wa_storefront_v1/internal/state"
)

// ==================== 登录 ====================

// LoginRequest 登录请求
type LoginRequest struct {
	Email     string `json:"email" binding:"required,email,max=255"`
	Password  string `json:"password" binding:"required,min=6,max=100"`
	ReturnURL string `json:"returnUrl"`
	// 卖家从店铺页进入登录时带上，登录后立即校验该店铺的归属
	ShopSlug string `json:"shopSlug"`
}

// LoginResponse 登录响应，令牌同时写在 cookie 和 X-Session-Token 响应头
type LoginResponse struct {
	User     *identity.User `json:"user"`
	Shops    []string       `json:"shops,omitempty"`
	Redirect string         `json:"redirect"`
	Token    string         `json:"token"`
}

// LoginPage 登录页数据，守卫跳转过来时带回 returnUrl
type LoginPage struct {
	Realm     string         `json:"realm"`
	Action    string         `json:"action"`
	ReturnURL string         `json:"returnUrl"`
	User      *identity.User `json:"user,omitempty"`
}

// ==================== 会话 ====================

// SessionInfo 当前会话快照
type SessionInfo struct {
	SessionID string      `json:"sessionId"`
	State     state.State `json:"state"`
	Theme     state.Theme `json:"theme"`
	Shops     []string    `json:"shops"`
	IsAdmin   bool        `json:"isAdmin"`
}
