package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wa_storefront_v1/internal/api/dto"
	"wa_storefront_v1/internal/service"
)

// AdminController 平台管理：卖家开通、店铺启停
type AdminController struct {
	sellers *service.SellerService
	shops   *service.ShopService
	log     *zap.Logger
}

func NewAdminController(sellers *service.SellerService, shops *service.ShopService, log *zap.Logger) *AdminController {
	return &AdminController{sellers: sellers, shops: shops, log: log}
}

// ListSellers
// @Summary 卖家列表
// @Tags Admin (管理后台)
// @Produce json
// @Param shopSlug query string false "店铺 slug"
// @Param email query string false "邮箱"
// @Param status query string false "状态"
// @Param page query int false "页码" default(1)
// @Param pageSize query int false "每页数量" default(20)
// @Success 200 {object} dto.PageResult
// @Router /admin/sellers [get]
func (ctrl *AdminController) ListSellers(c *gin.Context) {
	var q dto.SellerListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}
	page, err := ctrl.sellers.ListSellers(c.Request.Context(), &q)
	if err != nil {
		serviceError(c, ctrl.log, err)
		return
	}
	success(c, page)
}

// ProvisionSeller
// @Summary 开通卖家
// @Description 写入归属记录，店铺不存在时一并创建
// @Tags Admin (管理后台)
// @Accept json
// @Produce json
// @Param body body dto.ProvisionSellerRequest true "卖家信息"
// @Success 201 {object} model.ShopOwnership
// @Failure 409 {object} map[string]interface{} "已是该店铺成员"
// @Router /admin/sellers [post]
func (ctrl *AdminController) ProvisionSeller(c *gin.Context) {
	var req dto.ProvisionSellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}
	rec, err := ctrl.sellers.ProvisionSeller(c.Request.Context(), &req)
	if err != nil {
		serviceError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "开通成功",
		"data":    rec,
	})
}

// RemoveSeller
// @Summary 移除卖家
// @Description 归属记录改为 disabled，不删除账号和店铺；已移除的记录返回 404
// @Tags Admin (管理后台)
// @Produce json
// @Param id path string true "归属记录 ID"
// @Success 200 {object} map[string]interface{}
// @Router /admin/sellers/{id} [delete]
func (ctrl *AdminController) RemoveSeller(c *gin.Context) {
	if err := ctrl.sellers.RemoveSeller(c.Request.Context(), c.Param("id")); err != nil {
		serviceError(c, ctrl.log, err)
		return
	}
	success(c, nil)
}

// ListShops
// @Summary 店铺列表
// @Tags Admin (管理后台)
// @Produce json
// @Param keyword query string false "名称或 slug 关键词"
// @Param isActive query bool false "是否营业"
// @Param page query int false "页码" default(1)
// @Param pageSize query int false "每页数量" default(20)
// @Success 200 {object} dto.PageResult
// @Router /admin/shops [get]
func (ctrl *AdminController) ListShops(c *gin.Context) {
	var q dto.ShopListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}
	page, err := ctrl.shops.ListShops(c.Request.Context(), &q)
	if err != nil {
		serviceError(c, ctrl.log, err)
		return
	}
	success(c, page)
}

// SetShopActive
// @Summary 启用/停用店铺
// @Tags Admin (管理后台)
// @Accept json
// @Produce json
// @Param slug path string true "店铺 slug"
// @Param body body dto.SetShopActiveRequest true "是否营业"
// @Success 200 {object} map[string]interface{}
// @Router /admin/shops/{slug}/active [put]
func (ctrl *AdminController) SetShopActive(c *gin.Context) {
	var req dto.SetShopActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}
	slug := c.Param("slug")
	if err := ctrl.shops.SetShopActive(c.Request.Context(), slug, *req.IsActive); err != nil {
		serviceError(c, ctrl.log, err)
		return
	}
	success(c, gin.H{"slug": slug, "isActive": *req.IsActive})
}
