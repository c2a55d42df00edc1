package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wa_storefront_v1/internal/middleware"
	"wa_storefront_v1/internal/service"
)

// PagesController 首页、目录页和错误页
type PagesController struct {
	access AccessResolver
	shops  *service.ShopService
	log    *zap.Logger
}

func NewPagesController(access AccessResolver, shops *service.ShopService, log *zap.Logger) *PagesController {
	return &PagesController{access: access, shops: shops, log: log}
}

// SmartRoot
// @Summary 根路径跳转
// @Description 管理员 -> /admin/sellers；卖家 -> 第一家店铺后台；其他 -> /landing
// @Tags Pages (页面)
// @Success 302
// @Router / [get]
func (ctrl *PagesController) SmartRoot(c *gin.Context) {
	target := "/landing"
	if user := middleware.CurrentUser(c); user != nil {
		ctx := c.Request.Context()
		if ctrl.access.IsAdmin(ctx, user.UID) {
			target = "/admin/sellers"
		} else if slug, ok := ctrl.access.FirstUserShop(ctx, user.UID); ok {
			target = "/seller/" + slug + "/dashboard"
		}
	}
	c.Redirect(http.StatusFound, target)
}

// Landing
// @Summary 店铺目录
// @Description 营业中的店铺，按名称排序
// @Tags Pages (页面)
// @Produce json
// @Success 200 {array} dto.ShopCard
// @Router /landing [get]
func (ctrl *PagesController) Landing(c *gin.Context) {
	cards, err := ctrl.shops.Directory(c.Request.Context())
	if err != nil {
		serviceError(c, ctrl.log, err)
		return
	}
	success(c, cards)
}

// Unauthorized 无权限页，shop 参数只用于展示
// @Summary 无权限
// @Tags Pages (页面)
// @Produce json
// @Param shop query string false "被拒绝的店铺"
// @Success 403 {object} map[string]interface{}
// @Router /unauthorized [get]
func (ctrl *PagesController) Unauthorized(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{
		"code":    403,
		"message": "您没有访问权限",
		"data":    gin.H{"shop": c.Query("shop")},
	})
}

// Error 通用错误页
// @Summary 错误页
// @Tags Pages (页面)
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /error [get]
func (ctrl *PagesController) Error(c *gin.Context) {
	msg := c.Query("message")
	if msg == "" {
		msg = "页面出错了"
	}
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": msg,
	})
}
