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
	"wa_storefront_v1/internal/locator"
	"wa_storefront_v1/internal/middleware"
	"wa_storefront_v1/internal/model"
	"wa_storefront_v1/internal/service"
	"wa_storefront_v1/internal/state"
)

const contextKeyShop = "customer.shop"

// CustomerController 顾客端店铺页面与下单
// 店铺不存在或未营业时返回 200 和空店铺，不做跳转
type CustomerController struct {
	shops    *service.ShopService
	products *service.ProductService
	orders   *service.OrderService
	log      *zap.Logger
}

func NewCustomerController(
	shops *service.ShopService,
	products *service.ProductService,
	orders *service.OrderService,
	log *zap.Logger,
) *CustomerController {
	return &CustomerController{shops: shops, products: products, orders: orders, log: log}
}

// ShopContext 按路径中的 slug 加载店铺到会话 Store
func (ctrl *CustomerController) ShopContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param(guard.ShopSlugParam)
		if locator.IsReserved(slug) {
			fail(c, http.StatusNotFound, "页面不存在")
			c.Abort()
			return
		}

		sess := middleware.CurrentSession(c)
		shop, err := sess.State.Load(c.Request.Context(), slug)
		if err != nil && !errors.Is(err, state.ErrShopNotFound) {
			ctrl.log.Warn("顾客端加载店铺失败", zap.String("shop", slug), zap.Error(err))
			fail(c, http.StatusServiceUnavailable, "店铺加载失败，请稍后再试")
			c.Abort()
			return
		}

		c.Set(contextKeyShop, shop)
		c.Next()
	}
}

func currentShop(c *gin.Context) *model.Shop {
	if v, ok := c.Get(contextKeyShop); ok {
		shop, _ := v.(*model.Shop)
		return shop
	}
	return nil
}

func (ctrl *CustomerController) view(c *gin.Context, shop *model.Shop, withContact bool) dto.ShopView {
	sess := middleware.CurrentSession(c)
	v := dto.ShopView{
		Shop:  shop,
		Theme: sess.Theme.Current(),
		Phase: sess.State.CurrentState().Phase.String(),
	}
	if shop != nil && withContact {
		if link, err := ctrl.shops.ContactLink(c.Request.Context(), shop.Slug); err == nil {
			v.ContactLink = link
		}
	}
	return v
}

// CurrentShop
// @Summary 当前店铺
// @Description 按 ?shop=、子域名或 url 参数中的页面地址定位店铺；后台路径不加载
// @Tags Customer (顾客端)
// @Produce json
// @Param shop query string false "店铺 slug"
// @Param url query string false "当前页面地址"
// @Success 200 {object} dto.ShopView
// @Router /api/shop [get]
func (ctrl *CustomerController) CurrentShop(c *gin.Context) {
	var target *url.URL
	if raw := c.Query("url"); raw != "" {
		parsed, err := url.Parse(raw)
		if err != nil {
			fail(c, http.StatusBadRequest, "url 参数格式错误")
			return
		}
		target = parsed
	} else {
		// 接口自身的路径不是店铺路径，只看查询参数和 Host
		u := *c.Request.URL
		u.Path = ""
		u.RawPath = ""
		u.Host = c.Request.Host
		target = &u
	}

	sess := middleware.CurrentSession(c)
	shop, err := sess.State.Initialize(c.Request.Context(), target, "")
	if err != nil && !errors.Is(err, state.ErrShopNotFound) {
		ctrl.log.Warn("初始化店铺失败", zap.String("url", target.String()), zap.Error(err))
		fail(c, http.StatusServiceUnavailable, "店铺加载失败，请稍后再试")
		return
	}
	success(c, ctrl.view(c, shop, true))
}

// Home
// @Summary 店铺首页
// @Tags Customer (顾客端)
// @Produce json
// @Param shopSlug path string true "店铺 slug"
// @Success 200 {object} dto.ShopView
// @Router /{shopSlug}/home [get]
func (ctrl *CustomerController) Home(c *gin.Context) {
	success(c, ctrl.view(c, currentShop(c), true))
}

// Products
// @Summary 店铺商品列表
// @Tags Customer (顾客端)
// @Produce json
// @Param shopSlug path string true "店铺 slug"
// @Success 200 {object} map[string]interface{}
// @Router /{shopSlug}/products [get]
func (ctrl *CustomerController) Products(c *gin.Context) {
	shop := currentShop(c)
	list := []model.Product{}
	if shop != nil {
		var err error
		if list, err = ctrl.products.List(c.Request.Context(), shop.Slug, false); err != nil {
			serviceError(c, ctrl.log, err)
			return
		}
	}
	success(c, gin.H{
		"shop":     ctrl.view(c, shop, false),
		"products": list,
	})
}

// Product
// @Summary 商品详情
// @Tags Customer (顾客端)
// @Produce json
// @Param shopSlug path string true "店铺 slug"
// @Param id path int true "商品 ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "商品不存在"
// @Router /{shopSlug}/product/{id} [get]
func (ctrl *CustomerController) Product(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "无效的商品ID")
		return
	}

	shop := currentShop(c)
	var product *model.Product
	if shop != nil {
		if product, err = ctrl.products.Get(c.Request.Context(), shop.Slug, id); err != nil {
			serviceError(c, ctrl.log, err)
			return
		}
	}
	success(c, gin.H{
		"shop":    ctrl.view(c, shop, false),
		"product": product,
	})
}

// Cart
// @Summary 购物车页
// @Description 购物车内容保存在客户端，这里返回店铺和联系链接
// @Tags Customer (顾客端)
// @Produce json
// @Param shopSlug path string true "店铺 slug"
// @Success 200 {object} dto.ShopView
// @Router /{shopSlug}/cart [get]
func (ctrl *CustomerController) Cart(c *gin.Context) {
	success(c, ctrl.view(c, currentShop(c), true))
}

// PlaceOrder
// @Summary 顾客下单
// @Description 保存订单并返回卖家的 wa.me 链接
// @Tags Customer (顾客端)
// @Accept json
// @Produce json
// @Param shopSlug path string true "店铺 slug"
// @Param body body dto.PlaceOrderRequest true "订单"
// @Success 201 {object} dto.PlaceOrderResponse
// @Failure 400 {object} map[string]interface{} "参数错误"
// @Failure 404 {object} map[string]interface{} "店铺或商品不存在"
// @Failure 429 {object} map[string]interface{} "提交过于频繁"
// @Router /{shopSlug}/orders [post]
func (ctrl *CustomerController) PlaceOrder(c *gin.Context) {
	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	resp, err := ctrl.orders.PlaceOrder(c.Request.Context(), currentShop(c), &req)
	if err != nil {
		serviceError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "下单成功",
		"data":    resp,
	})
}
