package repository

import (
	"context"
	"testing"

	"gorm.io/datatypes"

	"wa_storefront_v1/internal/model"
)

func TestShopRepo_GetBySlug(t *testing.T) {
	repo := NewShopRepository(setupRepoTestDB(t))
	ctx := context.Background()

	shop := &model.Shop{
		Slug:      "ganesh-bakery",
		Name:      "Ganesh Bakery",
		PhoneE164: "918220762702",
		IsActive:  true,
		Theme:     datatypes.NewJSONType(model.ShopTheme{PrimaryColor: "#ff6600"}),
	}
	if err := repo.Create(ctx, shop); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := repo.GetBySlug(ctx, "ganesh-bakery")
	if err != nil || found == nil {
		t.Fatalf("GetBySlug() = %v, %v", found, err)
	}
	if found.Theme.Data().PrimaryColor != "#ff6600" {
		t.Errorf("theme primary = %s, want #ff6600", found.Theme.Data().PrimaryColor)
	}

	missing, err := repo.GetBySlug(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("GetBySlug(nope) = %v, %v, want nil, nil", missing, err)
	}
}

func TestShopRepo_ListActiveAndSetActive(t *testing.T) {
	repo := NewShopRepository(setupRepoTestDB(t))
	ctx := context.Background()

	repo.Create(ctx, &model.Shop{Slug: "b-shop", Name: "Bravo", IsActive: true})
	repo.Create(ctx, &model.Shop{Slug: "a-shop", Name: "Alpha", IsActive: true})
	repo.Create(ctx, &model.Shop{Slug: "c-shop", Name: "Charlie"})

	active, err := repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive() error = %v", err)
	}
	if len(active) != 2 || active[0].Name != "Alpha" || active[1].Name != "Bravo" {
		t.Fatalf("ListActive() = %+v, want [Alpha Bravo]", active)
	}

	if err := repo.SetActive(ctx, "c-shop", true); err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}
	if err := repo.SetActive(ctx, "missing", true); err == nil {
		t.Error("SetActive() 不存在的店铺应返回错误")
	}

	active, _ = repo.ListActive(ctx)
	if len(active) != 3 {
		t.Errorf("active = %d, want 3", len(active))
	}
}
