package main

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"wa_storefront_v1/internal/config"
	"wa_storefront_v1/internal/controller"
	"wa_storefront_v1/internal/guard"
	"wa_storefront_v1/internal/identity"
	"wa_storefront_v1/internal/middleware"
	"wa_storefront_v1/internal/model"
	"wa_storefront_v1/internal/ownership"
	"wa_storefront_v1/internal/repository"
	"wa_storefront_v1/internal/router"
	"wa_storefront_v1/internal/service"
	"wa_storefront_v1/internal/session"
	"wa_storefront_v1/internal/state"
	"wa_storefront_v1/internal/task"
	"wa_storefront_v1/pkg/database"
)

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	Config      *config.Config
	Log         *zap.Logger
	DB          *gorm.DB
	Repos       *Repositories
	Resolver    *ownership.Resolver
	Services    *Services
	Sessions    *session.Manager
	Throttle    *middleware.Throttle
	Controllers *router.Controllers
	Middlewares *router.Middlewares
}

// Repositories 仓库集合
type Repositories struct {
	User      repository.UserRepository
	Admin     repository.AdminRepository
	Shop      repository.ShopRepository
	Ownership repository.OwnershipRepository
	Product   repository.ProductRepository
	Order     repository.OrderRepository
}

// Services 服务集合
type Services struct {
	Seller  *service.SellerService
	Shop    *service.ShopService
	Product *service.ProductService
	Order   *service.OrderService
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库并注册审计回调
func initDatabase(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := database.InitDB(database.Options{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		LogSQL:          cfg.Database.LogSQL,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, log.Named("database"), model.All()...)
	if err != nil {
		return nil, err
	}
	if err := middleware.RegisterAuditCallbacks(db); err != nil {
		return nil, fmt.Errorf("注册审计回调失败: %w", err)
	}
	return db, nil
}

// initRepositories 初始化所有仓库
func initRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:      repository.NewUserRepository(db),
		Admin:     repository.NewAdminRepository(db),
		Shop:      repository.NewShopRepository(db),
		Ownership: repository.NewOwnershipRepository(db),
		Product:   repository.NewProductRepository(db),
		Order:     repository.NewOrderRepository(db),
	}
}

// initAuthenticator 按配置选择身份源
func initAuthenticator(cfg *config.Config, users repository.UserRepository, log *zap.Logger) identity.Authenticator {
	if cfg.Identity.Provider == "firebase" {
		log.Info("使用 Firebase 身份源", zap.String("endpoint", cfg.Identity.FirebaseEndpoint))
		return identity.NewFirebaseAuthenticator(cfg.Identity.FirebaseEndpoint, cfg.Identity.FirebaseAPIKey)
	}
	return identity.NewLocalAuthenticator(users, log.Named("identity"))
}

// newServices 命令行子命令只需要仓库和服务
func newServices(repos *Repositories, resolver *ownership.Resolver, log *zap.Logger) *Services {
	return &Services{
		Seller:  service.NewSellerService(repos.Ownership, repos.User, repos.Shop, repos.Admin, log.Named("seller")),
		Shop:    service.NewShopService(repos.Shop, repos.Ownership, resolver, log.Named("shop")),
		Product: service.NewProductService(repos.Product),
		Order:   service.NewOrderService(repos.Order, repos.Product, resolver, log.Named("order")),
	}
}

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config, log *zap.Logger, db *gorm.DB) *Dependencies {
	// -------- Repo 层 --------
	repos := initRepositories(db)

	// -------- 归属判定 --------
	resolver := ownership.NewResolver(repos.Ownership, repos.Admin, repos.Shop, log.Named("ownership"))

	// -------- 业务服务 --------
	services := newServices(repos, resolver, log)

	// -------- 会话 --------
	sessions := session.NewManager(session.Deps{
		Auth:   initAuthenticator(cfg, repos.User, log),
		Shops:  repos.Shop,
		Access: resolver,
	}, state.Options{DiscardStaleLoads: cfg.State.DiscardStaleLoads}, cfg.Session.IdleTimeout, log.Named("session"))
	sessions.RetainEnded(cfg.JWT.Expire)

	tokens := middleware.NewTokens(middleware.TokenConfig{
		SecretKey:  cfg.JWT.Secret,
		TTL:        cfg.JWT.Expire,
		Issuer:     cfg.JWT.Issuer,
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.Server.Mode == "release",
	})
	throttle := middleware.NewThrottle()

	// -------- Controller 层 --------
	controllers := &router.Controllers{
		Auth:     controller.NewAuthController(resolver, tokens, throttle, cfg.Server.LoginThrottle, log.Named("auth")),
		Pages:    controller.NewPagesController(resolver, services.Shop, log.Named("pages")),
		Customer: controller.NewCustomerController(services.Shop, services.Product, services.Order, log.Named("customer")),
		Seller:   controller.NewSellerController(services.Product, services.Order, log.Named("seller")),
		Admin:    controller.NewAdminController(services.Seller, services.Shop, log.Named("admin")),
	}

	return &Dependencies{
		Config:      cfg,
		Log:         log,
		DB:          db,
		Repos:       repos,
		Resolver:    resolver,
		Services:    services,
		Sessions:    sessions,
		Throttle:    throttle,
		Controllers: controllers,
		Middlewares: &router.Middlewares{
			Sessions:      sessions,
			Tokens:        tokens,
			Guards:        guard.New(resolver, middleware.CurrentUser, log.Named("guard")),
			Throttle:      throttle,
			OrderCooldown: cfg.Server.OrderThrottle,
		},
	}
}

// initTasks 启动定时任务
func initTasks(deps *Dependencies) (*task.SweepTask, error) {
	sweeper := task.NewSweepTask(
		deps.Sessions,
		deps.Throttle,
		deps.Config.Session.SweepSpec,
		deps.Config.Session.IdleTimeout,
		deps.Log.Named("task"),
	)
	if err := sweeper.Start(); err != nil {
		return nil, err
	}
	return sweeper, nil
}
