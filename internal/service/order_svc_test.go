package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wa_storefront_v1/internal/api/dto"
	"wa_storefront_v1/internal/model"
)

func newOrderService(f *svcFixture) *OrderService {
	return NewOrderService(f.orders, f.products, staticContacts{"annas": "919876543210"}, zap.NewNop())
}

func TestPlaceOrder_ComputesTotalsServerSide(t *testing.T) {
	f := setupServiceDB(t)
	shop := f.seedShop(t, "annas", "Annas", true)
	milk := f.seedProduct(t, "annas", "Milk", 56)
	curd := f.seedProduct(t, "annas", "Curd", 30.5)

	resp, err := newOrderService(f).PlaceOrder(context.Background(), shop, &dto.PlaceOrderRequest{
		CustomerName:  " Priya ",
		CustomerPhone: "+91 98765-43210",
		Address:       "12 Gandhi Road",
		Items: []dto.OrderItemRequest{
			{ProductID: milk.ID, Quantity: 2},
			{ProductID: curd.ID, Quantity: 1.5},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/919876543210", resp.WhatsAppLink)
	assert.Equal(t, "Priya", resp.Order.CustomerName)
	assert.Equal(t, "9876543210", resp.Order.CustomerPhone)
	assert.Equal(t, 157.75, resp.Order.Total)
	assert.Equal(t, model.OrderStatusPending, resp.Order.Status)
	require.Len(t, resp.Order.Items, 2)
	assert.Equal(t, 112.0, resp.Order.Items[0].TotalPrice)
}

func TestPlaceOrder_Rejections(t *testing.T) {
	f := setupServiceDB(t)
	shop := f.seedShop(t, "annas", "Annas", true)
	other := f.seedShop(t, "other", "Other", true)
	milk := f.seedProduct(t, "annas", "Milk", 56)
	foreign := f.seedProduct(t, "other", "Bread", 40)
	sold := f.seedProduct(t, "annas", "Ghee", 300)
	require.NoError(t, f.products.UpdateFields(context.Background(), "annas", sold.ID, map[string]interface{}{"in_stock": false}))
	svc := newOrderService(f)
	ctx := context.Background()

	req := func(phone string, id int64) *dto.PlaceOrderRequest {
		return &dto.PlaceOrderRequest{
			CustomerName: "Priya", CustomerPhone: phone, Address: "x",
			Items: []dto.OrderItemRequest{{ProductID: id, Quantity: 1}},
		}
	}

	_, err := svc.PlaceOrder(ctx, shop, req("12345", milk.ID))
	assert.ErrorIs(t, err, ErrInvalidPhone)

	_, err = svc.PlaceOrder(ctx, shop, req("5876543210", milk.ID))
	assert.ErrorIs(t, err, ErrInvalidPhone)

	_, err = svc.PlaceOrder(ctx, shop, req("9876543210", foreign.ID))
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = svc.PlaceOrder(ctx, shop, req("9876543210", sold.ID))
	assert.ErrorIs(t, err, ErrProductOutOfStock)

	// other 没有配置联系号码
	_, err = svc.PlaceOrder(ctx, other, req("9876543210", foreign.ID))
	assert.ErrorIs(t, err, ErrNoContactNumber)

	shop.IsActive = false
	_, err = svc.PlaceOrder(ctx, shop, req("9876543210", milk.ID))
	assert.ErrorIs(t, err, ErrShopInactive)

	_, err = svc.PlaceOrder(ctx, nil, req("9876543210", milk.ID))
	assert.ErrorIs(t, err, ErrShopNotFound)
}

func TestOrderLifecycleAndDashboard(t *testing.T) {
	f := setupServiceDB(t)
	shop := f.seedShop(t, "annas", "Annas", true)
	milk := f.seedProduct(t, "annas", "Milk", 56)
	svc := newOrderService(f)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		resp, err := svc.PlaceOrder(ctx, shop, &dto.PlaceOrderRequest{
			CustomerName: "Priya", CustomerPhone: "9876543210", Address: "x",
			Items: []dto.OrderItemRequest{{ProductID: milk.ID, Quantity: 1}},
		})
		require.NoError(t, err)
		ids = append(ids, resp.Order.ID)
	}

	require.NoError(t, svc.UpdateStatus(ctx, "annas", ids[0], model.OrderStatusConfirmed))
	assert.ErrorIs(t, svc.UpdateStatus(ctx, "annas", ids[0], "shipped"), ErrInvalidStatus)
	assert.ErrorIs(t, svc.UpdateStatus(ctx, "other", ids[1], model.OrderStatusConfirmed), ErrOrderNotFound)

	page, err := svc.ListOrders(ctx, "annas", &dto.OrderListQuery{Status: model.OrderStatusPending, Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	_, err = svc.ListOrders(ctx, "annas", &dto.OrderListQuery{Status: "bogus"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	sum, err := svc.Dashboard(ctx, shop)
	require.NoError(t, err)
	assert.Equal(t, int64(1), sum.ProductCount)
	assert.Equal(t, int64(3), sum.TotalOrders)
	assert.Equal(t, int64(2), sum.PendingOrders)
	assert.Equal(t, int64(1), sum.OrderCounts[model.OrderStatusConfirmed])
}
