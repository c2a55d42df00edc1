package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"wa_storefront_v1/internal/model"
	"wa_storefront_v1/internal/repository"
)

// ==================== 测试环境 ====================

type staticContacts map[string]string

func (c staticContacts) ContactNumber(_ context.Context, slug string) string {
	return c[slug]
}

type svcFixture struct {
	db         *gorm.DB
	users      repository.UserRepository
	admins     repository.AdminRepository
	shops      repository.ShopRepository
	ownerships repository.OwnershipRepository
	products   repository.ProductRepository
	orders     repository.OrderRepository
}

func setupServiceDB(t *testing.T) *svcFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}

	return &svcFixture{
		db:         db,
		users:      repository.NewUserRepository(db),
		admins:     repository.NewAdminRepository(db),
		shops:      repository.NewShopRepository(db),
		ownerships: repository.NewOwnershipRepository(db),
		products:   repository.NewProductRepository(db),
		orders:     repository.NewOrderRepository(db),
	}
}

func (f *svcFixture) seedShop(t *testing.T, slug, name string, active bool) *model.Shop {
	t.Helper()
	shop := &model.Shop{Slug: slug, Name: name, IsActive: active}
	require.NoError(t, f.shops.Create(context.Background(), shop))
	if !active {
		require.NoError(t, f.shops.SetActive(context.Background(), slug, false))
		shop.IsActive = false
	}
	return shop
}

func (f *svcFixture) seedProduct(t *testing.T, shop, name string, price float64) *model.Product {
	t.Helper()
	p := &model.Product{ShopID: shop, Name: name, Unit: "kg", Price: price, InStock: true}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func (f *svcFixture) sellerService() *SellerService {
	return NewSellerService(f.ownerships, f.users, f.shops, f.admins, zap.NewNop())
}
