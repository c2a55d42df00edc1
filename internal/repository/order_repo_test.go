package repository

import (
	"context"
	"testing"

	"wa_storefront_v1/internal/model"
)

func TestOrderRepo_ScopedToShop(t *testing.T) {
	repo := NewOrderRepository(setupRepoTestDB(t))
	ctx := context.Background()

	o1 := &model.Order{ShopID: "shop-1", CustomerName: "A", CustomerPhone: "9100000001", Status: model.OrderStatusPending}
	o2 := &model.Order{ShopID: "shop-1", CustomerName: "B", CustomerPhone: "9100000002", Status: model.OrderStatusConfirmed}
	o3 := &model.Order{ShopID: "shop-2", CustomerName: "C", CustomerPhone: "9100000003", Status: model.OrderStatusPending}
	for _, o := range []*model.Order{o1, o2, o3} {
		if err := repo.Create(ctx, o); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	list, total, err := repo.ListByShop(ctx, OrderFilter{ShopID: "shop-1"})
	if err != nil {
		t.Fatalf("ListByShop() error = %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Fatalf("total = %d, len = %d, want 2", total, len(list))
	}
	for _, o := range list {
		if o.ShopID != "shop-1" {
			t.Errorf("order %d shop = %s, want shop-1", o.ID, o.ShopID)
		}
	}

	// 不能跨店读写
	other, err := repo.GetInShop(ctx, "shop-1", o3.ID)
	if err != nil || other != nil {
		t.Errorf("GetInShop(shop-1, shop-2 order) = %v, %v, want nil", other, err)
	}
	if err := repo.UpdateStatus(ctx, "shop-1", o3.ID, model.OrderStatusDelivered); err == nil {
		t.Error("UpdateStatus() 跨店更新应失败")
	}

	counts, err := repo.CountByStatus(ctx, "shop-1")
	if err != nil {
		t.Fatalf("CountByStatus() error = %v", err)
	}
	if counts[model.OrderStatusPending] != 1 || counts[model.OrderStatusConfirmed] != 1 {
		t.Errorf("counts = %v", counts)
	}

	if _, _, err := repo.ListByShop(ctx, OrderFilter{}); err == nil {
		t.Error("缺少 shop_id 的查询应被拒绝")
	}
}
