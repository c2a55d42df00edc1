package controller

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wa_storefront_v1/internal/api/dto"
	"wa_storefront_v1/internal/guard"
	"wa_storefront_v1/internal/middleware"
	"wa_storefront_v1/internal/model"
	"wa_storefront_v1/internal/service"
	"wa_storefront_v1/internal/state"
)

// SellerController 卖家后台，路由挂在 guard.Seller 之后
type SellerController struct {
	products *service.ProductService
	orders   *service.OrderService
	log      *zap.Logger
}

func NewSellerController(products *service.ProductService, orders *service.OrderService, log *zap.Logger) *SellerController {
	return &SellerController{products: products, orders: orders, log: log}
}

// managedShop 经归属校验加载店铺；失败时已写响应
func (ctrl *SellerController) managedShop(c *gin.Context) (*model.Shop, bool) {
	slug := guard.ShopSlug(c)
	sess := middleware.CurrentSession(c)

	shop, err := sess.State.LoadShop(c.Request.Context(), slug)
	switch {
	case err == nil:
		return shop, true
	case errors.Is(err, state.ErrNotAuthenticated):
		c.Redirect(http.StatusFound, guard.SellerLoginPath+"?"+url.Values{"returnUrl": {c.Request.URL.RequestURI()}}.Encode())
	case errors.Is(err, state.ErrNoAccess):
		c.Redirect(http.StatusFound, guard.UnauthorizedPath+"?"+url.Values{"shop": {slug}}.Encode())
	case errors.Is(err, state.ErrShopNotFound):
		fail(c, http.StatusNotFound, "店铺不存在")
	default:
		ctrl.log.Error("卖家后台加载店铺失败", zap.String("shop", slug), zap.Error(err))
		fail(c, http.StatusInternalServerError, "店铺加载失败")
	}
	return nil, false
}

// Dashboard
// @Summary 卖家后台概览
// @Tags Seller (卖家后台)
// @Produce json
// @Param shopSlug path string true "店铺 slug"
// @Success 200 {object} dto.DashboardSummary
// @Router /seller/{shopSlug}/dashboard [get]
func (ctrl *SellerController) Dashboard(c *gin.Context) {
	shop, ok := ctrl.managedShop(c)
	if !ok {
		return
	}
	sum, err := ctrl.orders.Dashboard(c.Request.Context(), shop)
	if err != nil {
		serviceError(c, ctrl.log, err)
		return
	}
	success(c, sum)
}

// Products
// @Summary 卖家商品列表
// @Tags Seller (卖家后台)
// @Produce json
// @Param shopSlug path string true "店铺 slug"
// @Success 200 {array} model.Product
// @Router /seller/{shopSlug}/products [get]
func (ctrl *SellerController) Products(c *gin.Context) {
	shop, ok := ctrl.managedShop(c)
	if !ok {
		return
	}
	list, err := ctrl.products.List(c.Request.Context(), shop.Slug, false)
	if err != nil {
		serviceError(c, ctrl.log, err)
		return
	}
	success(c, list)
}

// CreateProduct
// @Summary 新增商品
// @Tags Seller (卖家后台)
// @Accept json
// @Produce json
// @Param shopSlug path string true "店铺 slug"
// @Param body body dto.CreateProductRequest true "商品"
// @Success 201 {object} model.Product
// @Router /seller/{shopSlug}/products [post]
func (ctrl *SellerController) CreateProduct(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}
	shop, ok := ctrl.managedShop(c)
	if !ok {
		return
	}

	p, err := ctrl.products.Create(c.Request.Context(), shop.Slug, &req)
	if err != nil {
		serviceError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "创建成功",
		"data":    p,
	})
}

// Orders
// @Summary 卖家订单列表
// @Tags Seller (卖家后台)
// @Produce json
// @Param shopSlug path string true "店铺 slug"
// @Param status query string false "订单状态"
// @Param page query int false "页码" default(1)
// @Param pageSize query int false "每页数量" default(20)
// @Success 200 {object} dto.PageResult
// @Router /seller/{shopSlug}/orders [get]
func (ctrl *SellerController) Orders(c *gin.Context) {
	var q dto.OrderListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}
	shop, ok := ctrl.managedShop(c)
	if !ok {
		return
	}

	page, err := ctrl.orders.ListOrders(c.Request.Context(), shop.Slug, &q)
	if err != nil {
		serviceError(c, ctrl.log, err)
		return
	}
	success(c, page)
}

// UpdateOrderStatus
// @Summary 更新订单状态
// @Tags Seller (卖家后台)
// @Accept json
// @Produce json
// @Param shopSlug path string true "店铺 slug"
// @Param id path int true "订单 ID"
// @Param body body dto.UpdateOrderStatusRequest true "新状态"
// @Success 200 {object} map[string]interface{}
// @Router /seller/{shopSlug}/orders/{id}/status [put]
func (ctrl *SellerController) UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "无效的订单ID")
		return
	}
	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}
	shop, ok := ctrl.managedShop(c)
	if !ok {
		return
	}

	if err := ctrl.orders.UpdateStatus(c.Request.Context(), shop.Slug, id, req.Status); err != nil {
		serviceError(c, ctrl.log, err)
		return
	}
	success(c, gin.H{"id": id, "status": req.Status})
}
