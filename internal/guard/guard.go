// Package guard 卖家/管理后台的路由守卫
//
// 守卫只做判定和跳转，不修改店铺或归属状态；判定统一交给 ownership.Authorizer。
package guard

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wa_storefront_v1/internal/identity"
	"wa_storefront_v1/internal/ownership"
)

// 跳转目标
const (
	SellerLoginPath  = "/seller/login"
	AdminLoginPath   = "/admin/login"
	UnauthorizedPath = "/unauthorized"
)

// Context Keys
const (
	ContextKeyShopSlug = "guard.shop_slug"
	ContextKeyDecision = "guard.decision"
)

// ShopSlugParam 卖家路由中的店铺参数名
const ShopSlugParam = "shopSlug"

// UserSource 从请求中取当前用户
type UserSource func(c *gin.Context) *identity.User

type Guards struct {
	authz ownership.Authorizer
	user  UserSource
	log   *zap.Logger
}

func New(authz ownership.Authorizer, user UserSource, log *zap.Logger) *Guards {
	return &Guards{authz: authz, user: user, log: log}
}

// Seller 卖家后台守卫
// 未登录 -> /seller/login?returnUrl=<原地址>；无权限 -> /unauthorized?shop=<slug>
func (g *Guards) Seller() gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param(ShopSlugParam)
		d := g.authz.Authorize(c.Request.Context(), g.user(c), ownership.RequireShop(slug))

		switch d.Kind {
		case ownership.Anonymous:
			redirect(c, SellerLoginPath, url.Values{"returnUrl": {c.Request.URL.RequestURI()}})
			return
		case ownership.ShopOwner:
			g.allow(c, d)
			return
		}

		g.log.Info("卖家后台拒绝访问", zap.String("uid", d.User.UID), zap.String("shop", slug))
		redirect(c, UnauthorizedPath, url.Values{"shop": {slug}})
	}
}

// Admin 管理后台守卫，只认 admin 表
func (g *Guards) Admin() gin.HandlerFunc {
	return func(c *gin.Context) {
		d := g.authz.Authorize(c.Request.Context(), g.user(c), ownership.RequireAdmin())

		switch d.Kind {
		case ownership.Anonymous:
			redirect(c, AdminLoginPath, url.Values{"returnUrl": {c.Request.URL.RequestURI()}})
			return
		case ownership.Admin:
			g.allow(c, d)
			return
		}

		g.log.Info("管理后台拒绝访问", zap.String("uid", d.User.UID))
		redirect(c, UnauthorizedPath, nil)
	}
}

func (g *Guards) allow(c *gin.Context, d ownership.Decision) {
	if d.ShopSlug != "" {
		c.Set(ContextKeyShopSlug, d.ShopSlug)
	}
	c.Set(ContextKeyDecision, d)
	c.Next()
}

func redirect(c *gin.Context, path string, query url.Values) {
	target := path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	c.Redirect(http.StatusFound, target)
	c.Abort()
}

// ShopSlug 守卫放行后的店铺 slug
func ShopSlug(c *gin.Context) string {
	return c.GetString(ContextKeyShopSlug)
}

// DecisionFrom 守卫放行时的判定结果
func DecisionFrom(c *gin.Context) (ownership.Decision, bool) {
	v, ok := c.Get(ContextKeyDecision)
	if !ok {
		return ownership.Decision{}, false
	}
	d, ok := v.(ownership.Decision)
	return d, ok
}
