package ownership

import (
	"context"

	"wa_storefront_v1/internal/identity"
)

// Kind 授权判定结果类型
type Kind int

const (
	Anonymous Kind = iota // 未登录
	Denied                // 已登录但无权限
	Admin
	ShopOwner
)

func (k Kind) String() string {
	switch k {
	case Anonymous:
		return "anonymous"
	case Denied:
		return "denied"
	case Admin:
		return "admin"
	case ShopOwner:
		return "shop_owner"
	}
	return "unknown"
}

// Requirement 访问要求
// ShopSlug 为空表示需要管理员，否则需要该店铺的归属
type Requirement struct {
	ShopSlug string
}

// RequireAdmin 管理后台
func RequireAdmin() Requirement { return Requirement{} }

// RequireShop 卖家后台
func RequireShop(slug string) Requirement { return Requirement{ShopSlug: slug} }

// Decision 授权结果
type Decision struct {
	Kind     Kind
	User     *identity.User
	ShopSlug string
}

// Allowed 是否放行
func (d Decision) Allowed() bool {
	return d.Kind == Admin || d.Kind == ShopOwner
}

// Authorizer 守卫依赖的判定接口
type Authorizer interface {
	Authorize(ctx context.Context, user *identity.User, req Requirement) Decision
}

// Authorize 统一的授权入口
// 管理员要求只看 admin 表；店铺要求走 CanAccessShop，不因为是管理员而放行
func (r *Resolver) Authorize(ctx context.Context, user *identity.User, req Requirement) Decision {
	d := Decision{User: user, ShopSlug: req.ShopSlug}
	if user == nil || user.UID == "" {
		d.Kind = Anonymous
		return d
	}

	if req.ShopSlug == "" {
		if r.IsAdmin(ctx, user.UID) {
			d.Kind = Admin
		} else {
			d.Kind = Denied
		}
		return d
	}

	if r.CanAccessShop(ctx, user.UID, user.Email, req.ShopSlug) {
		d.Kind = ShopOwner
	} else {
		d.Kind = Denied
	}
	return d
}
