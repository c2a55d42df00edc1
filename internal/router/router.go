package router

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"wa_storefront_v1/internal/controller"
	"wa_storefront_v1/internal/guard"
	"wa_storefront_v1/internal/middleware"
	"wa_storefront_v1/internal/session"

	_ "wa_storefront_v1/docs"
)

// Controllers 控制器集合
type Controllers struct {
	Auth     *controller.AuthController
	Pages    *controller.PagesController
	Customer *controller.CustomerController
	Seller   *controller.SellerController
	Admin    *controller.AdminController
}

// Middlewares 路由需要的中间件依赖
type Middlewares struct {
	Sessions      *session.Manager
	Tokens        *middleware.Tokens
	Guards        *guard.Guards
	Throttle      *middleware.Throttle
	OrderCooldown time.Duration
}

// SetupRouter 创建 gin 引擎并注册所有路由
func SetupRouter(ctls *Controllers, mw *Middlewares) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	InitRoutes(r, ctls, mw)
	return r
}

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine, ctls *Controllers, mw *Middlewares) {
	// 1. Swagger 文档路由
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 2. 其余路由都带会话
	app := r.Group("", middleware.SessionAuth(mw.Sessions, mw.Tokens), middleware.AuditContext())

	// 首页与通用页
	app.GET("/", ctls.Pages.SmartRoot)
	app.GET("/landing", ctls.Pages.Landing)
	app.GET("/unauthorized", ctls.Pages.Unauthorized)
	app.GET("/error", ctls.Pages.Error)

	// 登录/会话
	app.GET("/seller/login", ctls.Auth.SellerLoginPage)
	app.POST("/seller/login", ctls.Auth.SellerLogin)
	app.GET("/admin/login", ctls.Auth.AdminLoginPage)
	app.POST("/admin/login", ctls.Auth.AdminLogin)
	app.POST("/logout", ctls.Auth.Logout)
	app.GET("/session", ctls.Auth.Session)

	// GET /api/shop?shop=<slug> 或按 Host / url 参数定位
	app.GET("/api/shop", ctls.Customer.CurrentShop)

	// 卖家后台
	seller := app.Group("/seller/:"+guard.ShopSlugParam, mw.Guards.Seller())
	{
		seller.GET("/dashboard", ctls.Seller.Dashboard)
		seller.GET("/products", ctls.Seller.Products)
		seller.POST("/products", ctls.Seller.CreateProduct)
		seller.GET("/orders", ctls.Seller.Orders)
		seller.PUT("/orders/:id/status", ctls.Seller.UpdateOrderStatus)
	}

	// 管理后台
	admin := app.Group("/admin", mw.Guards.Admin())
	{
		admin.GET("/sellers", ctls.Admin.ListSellers)
		admin.POST("/sellers", ctls.Admin.ProvisionSeller)
		admin.DELETE("/sellers/:id", ctls.Admin.RemoveSeller)
		admin.GET("/shops", ctls.Admin.ListShops)
		admin.PUT("/shops/:slug/active", ctls.Admin.SetShopActive)
	}

	// 顾客端 /<slug>/...
	shop := app.Group("/:"+guard.ShopSlugParam, ctls.Customer.ShopContext())
	{
		shop.GET("/home", ctls.Customer.Home)
		shop.GET("/products", ctls.Customer.Products)
		shop.GET("/product/:id", ctls.Customer.Product)
		shop.GET("/cart", ctls.Customer.Cart)
		shop.POST("/orders",
			middleware.RateLimit(mw.Throttle, "order", mw.OrderCooldown),
			ctls.Customer.PlaceOrder,
		)
	}
}
