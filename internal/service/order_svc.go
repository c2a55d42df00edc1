package service

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"wa_storefront_v1/internal/api/dto"
	"wa_storefront_v1/internal/model"
	"wa_storefront_v1/internal/repository"
)

// 印度手机号，10 位，6-9 开头
var customerPhonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)

// ==================== OrderService 订单服务 ====================

// OrderService 顾客下单与卖家订单管理
type OrderService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	contacts ContactResolver
	log      *zap.Logger
}

// NewOrderService 创建订单服务
func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	contacts ContactResolver,
	log *zap.Logger,
) *OrderService {
	return &OrderService{orders: orders, products: products, contacts: contacts, log: log}
}

// PlaceOrder 顾客下单
// 价格以数据库为准，返回联系卖家的 wa.me 链接
func (s *OrderService) PlaceOrder(ctx context.Context, shop *model.Shop, req *dto.PlaceOrderRequest) (*dto.PlaceOrderResponse, error) {
	if shop == nil {
		return nil, ErrShopNotFound
	}
	if !shop.IsActive {
		return nil, ErrShopInactive
	}

	phone := normalizeCustomerPhone(req.CustomerPhone)
	if !customerPhonePattern.MatchString(phone) {
		return nil, ErrInvalidPhone
	}

	number := s.contacts.ContactNumber(ctx, shop.Slug)
	if number == "" {
		return nil, ErrNoContactNumber
	}

	items := make([]model.OrderItem, 0, len(req.Items))
	var total float64
	for _, it := range req.Items {
		p, err := s.products.GetInShop(ctx, shop.Slug, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, ErrProductNotFound
		}
		if !p.InStock {
			return nil, ErrProductOutOfStock
		}
		line := roundMoney(p.Price * it.Quantity)
		items = append(items, model.OrderItem{
			ProductID:  p.ID,
			Name:       p.Name,
			Unit:       p.Unit,
			Quantity:   it.Quantity,
			UnitPrice:  p.Price,
			TotalPrice: line,
		})
		total += line
	}

	order := &model.Order{
		ShopID:        shop.Slug,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: phone,
		Address:       req.Address,
		Landmark:      req.Landmark,
		PreferredTime: req.PreferredTime,
		Notes:         req.Notes,
		Items:         items,
		Total:         roundMoney(total),
		Status:        model.OrderStatusPending,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.log.Info("顾客下单",
		zap.String("shop", shop.Slug),
		zap.Int64("order", order.ID),
		zap.Float64("total", order.Total),
	)
	return &dto.PlaceOrderResponse{Order: order, WhatsAppLink: WhatsAppLink(number)}, nil
}

// ListOrders 卖家订单列表
func (s *OrderService) ListOrders(ctx context.Context, shopSlug string, q *dto.OrderListQuery) (*dto.PageResult, error) {
	if q.Status != "" && !model.ValidOrderStatus(q.Status) {
		return nil, ErrInvalidStatus
	}
	list, total, err := s.orders.ListByShop(ctx, repository.OrderFilter{
		ShopID:   shopSlug,
		Status:   q.Status,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		return nil, err
	}
	return &dto.PageResult{List: list, Total: total, Page: q.Page, PageSize: q.PageSize}, nil
}

// UpdateStatus 更新订单状态
func (s *OrderService) UpdateStatus(ctx context.Context, shopSlug string, id int64, status string) error {
	if !model.ValidOrderStatus(status) {
		return ErrInvalidStatus
	}
	err := s.orders.UpdateStatus(ctx, shopSlug, id, status)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrOrderNotFound
	}
	return err
}

// Dashboard 卖家后台概览
func (s *OrderService) Dashboard(ctx context.Context, shop *model.Shop) (*dto.DashboardSummary, error) {
	productCount, err := s.products.CountByShop(ctx, shop.Slug)
	if err != nil {
		return nil, err
	}
	counts, err := s.orders.CountByStatus(ctx, shop.Slug)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, n := range counts {
		total += n
	}
	return &dto.DashboardSummary{
		Shop:          shop,
		ProductCount:  productCount,
		OrderCounts:   counts,
		TotalOrders:   total,
		PendingOrders: counts[model.OrderStatusPending],
	}, nil
}

// normalizeCustomerPhone 去掉空格、连字符和 +91 / 0 前缀
func normalizeCustomerPhone(phone string) string {
	p := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(phone))
	p = strings.TrimPrefix(p, "+")
	if len(p) == 12 && strings.HasPrefix(p, "91") {
		p = p[2:]
	}
	if len(p) == 11 && strings.HasPrefix(p, "0") {
		p = p[1:]
	}
	return p
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
