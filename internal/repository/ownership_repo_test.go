package repository

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"wa_storefront_v1/internal/model"
)

func setupRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	// :memory: 每个连接是独立的库
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return db
}

func TestOwnershipRepo_FindByUserAndShop(t *testing.T) {
	repo := NewOwnershipRepository(setupRepoTestDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, &model.ShopOwnership{UserID: "u1", Email: "a@x.com", ShopSlug: "ganesh-bakery"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := repo.FindByUserAndShop(ctx, "u1", "ganesh-bakery")
	if err != nil || found == nil {
		t.Fatalf("FindByUserAndShop() = %v, %v", found, err)
	}
	if found.ID == "" {
		t.Error("ID 应该被自动分配")
	}

	missing, err := repo.FindByUserAndShop(ctx, "u1", "other-shop")
	if err != nil {
		t.Fatalf("FindByUserAndShop() error = %v", err)
	}
	if missing != nil {
		t.Errorf("不存在的记录应返回 nil, got %+v", missing)
	}
}

func TestOwnershipRepo_EmailOnlyRecordsDoNotCollide(t *testing.T) {
	repo := NewOwnershipRepository(setupRepoTestDB(t))
	ctx := context.Background()

	// 两条按邮箱预建的记录，user_id 都为空，同一个店铺
	if err := repo.Create(ctx, &model.ShopOwnership{Email: "owner@x.com", ShopSlug: "s1"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Create(ctx, &model.ShopOwnership{Email: "staff@x.com", ShopSlug: "s1", Role: model.RoleStaff}); err != nil {
		t.Fatalf("第二条预建记录不应冲突: %v", err)
	}

	// 已绑定的 (user_id, shop_slug) 不允许重复
	if err := repo.Create(ctx, &model.ShopOwnership{UserID: "u1", ShopSlug: "s1"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Create(ctx, &model.ShopOwnership{UserID: "u1", ShopSlug: "s1"}); err == nil {
		t.Error("重复的 (user_id, shop_slug) 应违反唯一索引")
	}
}

func TestOwnershipRepo_LinkUser(t *testing.T) {
	repo := NewOwnershipRepository(setupRepoTestDB(t))
	ctx := context.Background()

	rec := &model.ShopOwnership{Email: "seller@ganeshbakery.com", ShopSlug: "ganesh-bakery"}
	if err := repo.Create(ctx, rec); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	linked, err := repo.LinkUser(ctx, rec.ID, "u1")
	if err != nil || !linked {
		t.Fatalf("LinkUser() = %v, %v", linked, err)
	}

	// 同一用户重复绑定：幂等
	linked, err = repo.LinkUser(ctx, rec.ID, "u1")
	if err != nil || !linked {
		t.Fatalf("重复 LinkUser() = %v, %v", linked, err)
	}

	// 其他用户不能抢占
	linked, err = repo.LinkUser(ctx, rec.ID, "u2")
	if err != nil {
		t.Fatalf("LinkUser() error = %v", err)
	}
	if linked {
		t.Error("已绑定 u1 的记录不应被 u2 覆盖")
	}

	found, _ := repo.GetByID(ctx, rec.ID)
	if found.UserID != "u1" {
		t.Errorf("user_id = %s, want u1", found.UserID)
	}
}

func TestOwnershipRepo_CreateIfAbsent(t *testing.T) {
	repo := NewOwnershipRepository(setupRepoTestDB(t))
	ctx := context.Background()

	id := model.OwnershipID("u1", "acme")
	created, err := repo.CreateIfAbsent(ctx, &model.ShopOwnership{ID: id, UserID: "u1", ShopSlug: "acme", Role: model.RoleOwner})
	if err != nil || !created {
		t.Fatalf("首次 CreateIfAbsent() = %v, %v", created, err)
	}

	created, err = repo.CreateIfAbsent(ctx, &model.ShopOwnership{ID: id, UserID: "u1", ShopSlug: "acme", Role: model.RoleOwner})
	if err != nil {
		t.Fatalf("再次 CreateIfAbsent() error = %v", err)
	}
	if created {
		t.Error("重复补建不应插入新记录")
	}

	list, _ := repo.ListByUser(ctx, "u1")
	if len(list) != 1 {
		t.Errorf("records = %d, want 1", len(list))
	}
}

func TestOwnershipRepo_ListByUserOrderedByCreation(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewOwnershipRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	db.Create(&model.ShopOwnership{UserID: "u1", ShopSlug: "zeta", CreatedAt: base.Add(2 * time.Hour)})
	db.Create(&model.ShopOwnership{UserID: "u1", ShopSlug: "alpha", CreatedAt: base.Add(3 * time.Hour)})
	db.Create(&model.ShopOwnership{UserID: "u1", ShopSlug: "mid", CreatedAt: base})
	db.Create(&model.ShopOwnership{UserID: "u2", ShopSlug: "other", CreatedAt: base})

	list, err := repo.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}

	want := []string{"mid", "zeta", "alpha"}
	if len(list) != len(want) {
		t.Fatalf("len = %d, want %d", len(list), len(want))
	}
	for i, slug := range want {
		if list[i].ShopSlug != slug {
			t.Errorf("list[%d] = %s, want %s", i, list[i].ShopSlug, slug)
		}
	}
}
