package ownership

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"wa_storefront_v1/internal/identity"
	"wa_storefront_v1/internal/model"
	"wa_storefront_v1/internal/repository"
)

type resolverFixture struct {
	db         *gorm.DB
	ownerships repository.OwnershipRepository
	admins     repository.AdminRepository
	shops      repository.ShopRepository
	resolver   *Resolver
}

func setupResolver(t *testing.T) *resolverFixture {
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

	f := &resolverFixture{
		db:         db,
		ownerships: repository.NewOwnershipRepository(db),
		admins:     repository.NewAdminRepository(db),
		shops:      repository.NewShopRepository(db),
	}
	f.resolver = NewResolver(f.ownerships, f.admins, f.shops, zap.NewNop())
	return f
}

func (f *resolverFixture) countRecords(t *testing.T, slug string) int {
	t.Helper()
	list, err := f.ownerships.ListByShop(context.Background(), slug)
	require.NoError(t, err)
	return len(list)
}

// failingOwnerships 所有查询都报错
type failingOwnerships struct {
	repository.OwnershipRepository
}

var errStoreDown = errors.New("store unavailable")

func (failingOwnerships) FindByUserAndShop(context.Context, string, string) (*model.ShopOwnership, error) {
	return nil, errStoreDown
}

func (failingOwnerships) FindByEmailAndShop(context.Context, string, string) (*model.ShopOwnership, error) {
	return nil, errStoreDown
}

func (failingOwnerships) ListByUser(context.Context, string) ([]model.ShopOwnership, error) {
	return nil, errStoreDown
}

func TestCanAccessShop_DirectMatch(t *testing.T) {
	f := setupResolver(t)
	ctx := context.Background()
	require.NoError(t, f.ownerships.Create(ctx, &model.ShopOwnership{UserID: "u1", Email: "seller@ganeshbakery.com", ShopSlug: "ganesh-bakery"}))

	assert.True(t, f.resolver.CanAccessShop(ctx, "u1", "seller@ganeshbakery.com", "ganesh-bakery"))
	assert.True(t, f.resolver.CanAccessShop(ctx, "u1", "", "ganesh-bakery"), "直接命中不需要邮箱")
	assert.False(t, f.resolver.CanAccessShop(ctx, "", "seller@ganeshbakery.com", "ganesh-bakery"))
	assert.False(t, f.resolver.CanAccessShop(ctx, "u1", "seller@ganeshbakery.com", ""))
}

func TestCanAccessShop_DisabledRecordDenies(t *testing.T) {
	f := setupResolver(t)
	ctx := context.Background()
	require.NoError(t, f.ownerships.Create(ctx, &model.ShopOwnership{
		UserID: "u1", Email: "seller@ganeshbakery.com", ShopSlug: "ganesh-bakery", Status: model.OwnershipStatusDisabled,
	}))

	// 邮箱域名能匹配上，但停用记录优先
	assert.False(t, f.resolver.CanAccessShop(ctx, "u1", "seller@ganeshbakery.com", "ganesh-bakery"))
	assert.Equal(t, 1, f.countRecords(t, "ganesh-bakery"))
}

func TestCanAccessShop_EmailMatchHeals(t *testing.T) {
	f := setupResolver(t)
	ctx := context.Background()
	rec := &model.ShopOwnership{Email: "owner@gmail.com", ShopSlug: "acme-stores", ShopName: "Acme"}
	require.NoError(t, f.ownerships.Create(ctx, rec))

	assert.True(t, f.resolver.CanAccessShop(ctx, "u7", "Owner@Gmail.com", "acme-stores"))

	healed, err := f.ownerships.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "u7", healed.UserID)
	assert.Equal(t, 1, f.countRecords(t, "acme-stores"), "绑定是原地更新，不新建记录")

	// 之后走直接命中
	found, _ := f.ownerships.FindByUserAndShop(ctx, "u7", "acme-stores")
	assert.NotNil(t, found)
}

func TestCanAccessShop_EmailRecordOwnedByAnotherUser(t *testing.T) {
	f := setupResolver(t)
	ctx := context.Background()
	require.NoError(t, f.ownerships.Create(ctx, &model.ShopOwnership{UserID: "u1", Email: "owner@gmail.com", ShopSlug: "acme-stores"}))

	// 同邮箱另一个 uid，不能抢占也不匹配域名
	assert.False(t, f.resolver.CanAccessShop(ctx, "u2", "owner@gmail.com", "acme-stores"))

	rec, _ := f.ownerships.FindByEmailAndShop(ctx, "owner@gmail.com", "acme-stores")
	assert.Equal(t, "u1", rec.UserID)
}

func TestCanAccessShop_HeuristicCreatesOneRecord(t *testing.T) {
	f := setupResolver(t)
	ctx := context.Background()
	require.NoError(t, f.shops.Create(ctx, &model.Shop{Slug: "ganesh-bakery", Name: "Ganesh Bakery", IsActive: true}))

	assert.True(t, f.resolver.CanAccessShop(ctx, "u1", "seller@ganeshbakery.com", "ganesh-bakery"))
	assert.True(t, f.resolver.CanAccessShop(ctx, "u1", "seller@ganeshbakery.com", "ganesh-bakery"))

	rec, err := f.ownerships.FindByUserAndShop(ctx, "u1", "ganesh-bakery")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, model.OwnershipID("u1", "ganesh-bakery"), rec.ID)
	assert.Equal(t, model.RoleOwner, rec.Role)
	assert.Equal(t, "Ganesh Bakery", rec.ShopName)
	assert.Equal(t, 1, f.countRecords(t, "ganesh-bakery"))
}

func TestCanAccessShop_HeuristicMismatchDenies(t *testing.T) {
	f := setupResolver(t)
	ctx := context.Background()
	require.NoError(t, f.ownerships.Create(ctx, &model.ShopOwnership{UserID: "u1", Email: "seller@ganeshbakery.com", ShopSlug: "ganesh-bakery"}))

	assert.False(t, f.resolver.CanAccessShop(ctx, "u1", "seller@ganeshbakery.com", "other-shop"))
	assert.Equal(t, 0, f.countRecords(t, "other-shop"))
}

func TestCanAccessShop_ConcurrentIdempotent(t *testing.T) {
	f := setupResolver(t)
	ctx := context.Background()
	rec := &model.ShopOwnership{Email: "seller@ganeshbakery.com", ShopSlug: "ganesh-bakery"}
	require.NoError(t, f.ownerships.Create(ctx, rec))

	for _, slug := range []string{"ganesh-bakery", "ganeshbakery-annex"} {
		var wg sync.WaitGroup
		results := make([]bool, 8)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = f.resolver.CanAccessShop(ctx, "u1", "seller@ganeshbakery.com", slug)
			}(i)
		}
		wg.Wait()

		for i, ok := range results {
			assert.True(t, ok, "%s: call %d", slug, i)
		}
		assert.Equal(t, 1, f.countRecords(t, slug), slug)
	}
}

func TestCanAccessShop_StoreErrorFallsBackToHeuristic(t *testing.T) {
	f := setupResolver(t)
	ctx := context.Background()
	r := NewResolver(failingOwnerships{f.ownerships}, f.admins, f.shops, zap.NewNop())

	assert.True(t, r.CanAccessShop(ctx, "u1", "seller@ganeshbakery.com", "ganesh-bakery"))
	assert.False(t, r.CanAccessShop(ctx, "u1", "seller@ganeshbakery.com", "other-shop"))
	assert.False(t, r.CanAccessShop(ctx, "u1", "", "ganesh-bakery"), "没有邮箱时出错直接拒绝")

	// 出错时只判定不补建
	assert.Equal(t, 0, f.countRecords(t, "ganesh-bakery"))
}

func TestGetUserShops(t *testing.T) {
	f := setupResolver(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	f.db.Create(&model.ShopOwnership{UserID: "u1", ShopSlug: "zeta", CreatedAt: base.Add(time.Hour)})
	f.db.Create(&model.ShopOwnership{UserID: "u1", ShopSlug: "alpha", CreatedAt: base.Add(2 * time.Hour)})
	f.db.Create(&model.ShopOwnership{UserID: "u1", ShopSlug: "first", CreatedAt: base})
	f.db.Create(&model.ShopOwnership{UserID: "u1", ShopSlug: "gone", Status: model.OwnershipStatusDisabled, CreatedAt: base})

	assert.Equal(t, []string{"first", "zeta", "alpha"}, f.resolver.GetUserShops(ctx, "u1"))

	slug, ok := f.resolver.FirstUserShop(ctx, "u1")
	assert.True(t, ok)
	assert.Equal(t, "first", slug)

	assert.Empty(t, f.resolver.GetUserShops(ctx, ""))
	assert.NotNil(t, f.resolver.GetUserShops(ctx, "nobody"))
	_, ok = f.resolver.FirstUserShop(ctx, "nobody")
	assert.False(t, ok)

	r := NewResolver(failingOwnerships{f.ownerships}, f.admins, f.shops, zap.NewNop())
	assert.Empty(t, r.GetUserShops(ctx, "u1"))
}

func TestIsAdmin(t *testing.T) {
	f := setupResolver(t)
	ctx := context.Background()
	require.NoError(t, f.admins.Upsert(ctx, &model.AdminRecord{UID: "a1", Role: model.AdminRoleAdmin}))
	require.NoError(t, f.admins.Upsert(ctx, &model.AdminRecord{UID: "a2", Role: model.AdminRoleOwner}))
	require.NoError(t, f.admins.Upsert(ctx, &model.AdminRecord{UID: "a3", Role: "viewer"}))

	assert.True(t, f.resolver.IsAdmin(ctx, "a1"))
	assert.True(t, f.resolver.IsAdmin(ctx, "a2"))
	assert.False(t, f.resolver.IsAdmin(ctx, "a3"))
	assert.False(t, f.resolver.IsAdmin(ctx, "u1"))
	assert.False(t, f.resolver.IsAdmin(ctx, ""))
}

func TestAuthorize(t *testing.T) {
	f := setupResolver(t)
	ctx := context.Background()
	require.NoError(t, f.admins.Upsert(ctx, &model.AdminRecord{UID: "a1", Role: model.AdminRoleAdmin}))
	require.NoError(t, f.ownerships.Create(ctx, &model.ShopOwnership{UserID: "u1", ShopSlug: "ganesh-bakery"}))

	seller := &identity.User{UID: "u1", Email: "seller@ganeshbakery.com"}
	admin := &identity.User{UID: "a1", Email: "root@platform.io"}

	tests := []struct {
		name string
		user *identity.User
		req  Requirement
		want Kind
	}{
		{"匿名访问后台", nil, RequireAdmin(), Anonymous},
		{"匿名访问店铺", nil, RequireShop("ganesh-bakery"), Anonymous},
		{"管理员", admin, RequireAdmin(), Admin},
		{"卖家访问管理后台", seller, RequireAdmin(), Denied},
		{"卖家访问自己的店", seller, RequireShop("ganesh-bakery"), ShopOwner},
		{"卖家访问别人的店", seller, RequireShop("other-shop"), Denied},
		{"管理员不自动拥有店铺", admin, RequireShop("ganesh-bakery"), Denied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := f.resolver.Authorize(ctx, tt.user, tt.req)
			assert.Equal(t, tt.want, d.Kind, d.Kind.String())
			assert.Equal(t, tt.want == Admin || tt.want == ShopOwner, d.Allowed())
		})
	}
}

func TestContactNumber(t *testing.T) {
	f := setupResolver(t)
	ctx := context.Background()
	require.NoError(t, f.shops.Create(ctx, &model.Shop{Slug: "ganesh-bakery", PhoneE164: "+91 82207 62702", IsActive: true}))

	assert.Equal(t, "918220762702", f.resolver.ContactNumber(ctx, "ganesh-bakery"), "没有卖家号码时用店铺电话")

	require.NoError(t, f.ownerships.Create(ctx, &model.ShopOwnership{UserID: "u1", ShopSlug: "ganesh-bakery", SellerPhone: "9876543210"}))
	assert.Equal(t, "919876543210", f.resolver.ContactNumber(ctx, "ganesh-bakery"))

	assert.Equal(t, "", f.resolver.ContactNumber(ctx, "missing"))
}
