package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"wa_storefront_v1/internal/model"
)

func TestAuditCallbacks(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	require.NoError(t, db.AutoMigrate(&model.Product{}))
	require.NoError(t, RegisterAuditCallbacks(db))

	ctx := WithAuditInfo(context.Background(), "u1", "seller@acme.com")
	p := &model.Product{ShopID: "acme", Name: "Bread", Unit: "pc", Price: 40}
	require.NoError(t, db.WithContext(ctx).Create(p).Error)
	assert.Equal(t, "u1", p.CreatedBy)
	assert.Equal(t, "u1", p.UpdatedBy)

	ctx2 := WithAuditInfo(context.Background(), "u2", "")
	require.NoError(t, db.WithContext(ctx2).Model(&model.Product{}).Where("id = ?", p.ID).Update("price", 45).Error)

	var stored model.Product
	require.NoError(t, db.First(&stored, p.ID).Error)
	assert.Equal(t, "u1", stored.CreatedBy)
	assert.Equal(t, "u2", stored.UpdatedBy)

	// 没有审计信息时不填
	anon := &model.Product{ShopID: "acme", Name: "Bun", Unit: "pc", Price: 10}
	require.NoError(t, db.Create(anon).Error)
	assert.Empty(t, anon.CreatedBy)
}
