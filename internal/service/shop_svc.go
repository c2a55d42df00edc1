package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"wa_storefront_v1/internal/api/dto"
	"wa_storefront_v1/internal/repository"
)

// ContactResolver 店铺 WhatsApp 号码来源
type ContactResolver interface {
	ContactNumber(ctx context.Context, shopSlug string) string
}

// ==================== ShopService 店铺服务 ====================

// ShopService 店铺目录与管理
type ShopService struct {
	shops      repository.ShopRepository
	ownerships repository.OwnershipRepository
	contacts   ContactResolver
	log        *zap.Logger
}

// NewShopService 创建店铺服务
func NewShopService(
	shops repository.ShopRepository,
	ownerships repository.OwnershipRepository,
	contacts ContactResolver,
	log *zap.Logger,
) *ShopService {
	return &ShopService{shops: shops, ownerships: ownerships, contacts: contacts, log: log}
}

// Directory 首页店铺目录，按名称排序
// shops 表没有营业中的店铺时，从有效归属记录中去重得到店铺列表
func (s *ShopService) Directory(ctx context.Context) ([]dto.ShopCard, error) {
	shops, err := s.shops.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	cards := make([]dto.ShopCard, 0, len(shops))
	for _, shop := range shops {
		cards = append(cards, dto.ShopCard{
			Slug:    shop.Slug,
			Name:    shop.Name,
			Address: shop.Address,
			Link:    "/" + shop.Slug + "/home",
		})
	}
	if len(cards) > 0 {
		return cards, nil
	}

	s.log.Debug("没有营业中的店铺，改用归属记录")
	records, err := s.ownerships.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.ShopSlug]; ok {
			continue
		}
		seen[rec.ShopSlug] = struct{}{}
		name := rec.ShopName
		if name == "" {
			name = rec.ShopSlug
		}
		cards = append(cards, dto.ShopCard{
			Slug: rec.ShopSlug,
			Name: name,
			Link: "/" + rec.ShopSlug + "/home",
		})
	}
	sort.SliceStable(cards, func(i, j int) bool {
		return strings.ToLower(cards[i].Name) < strings.ToLower(cards[j].Name)
	})
	return cards, nil
}

// ListShops 管理后台店铺列表
func (s *ShopService) ListShops(ctx context.Context, q *dto.ShopListQuery) (*dto.PageResult, error) {
	list, total, err := s.shops.List(ctx, repository.ShopFilter{
		Keyword:  q.Keyword,
		IsActive: q.IsActive,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		return nil, err
	}
	return &dto.PageResult{List: list, Total: total, Page: q.Page, PageSize: q.PageSize}, nil
}

// SetShopActive 启用/停用店铺
func (s *ShopService) SetShopActive(ctx context.Context, slug string, active bool) error {
	err := s.shops.SetActive(ctx, slug, active)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrShopNotFound
	}
	if err == nil {
		s.log.Info("店铺营业状态变更", zap.String("shop", slug), zap.Bool("active", active))
	}
	return err
}

// ContactLink wa.me 链接，只含号码，消息文本由前端拼
func (s *ShopService) ContactLink(ctx context.Context, slug string) (string, error) {
	number := s.contacts.ContactNumber(ctx, slug)
	if number == "" {
		return "", ErrNoContactNumber
	}
	return WhatsAppLink(number), nil
}

// WhatsAppLink https://wa.me/<号码>
func WhatsAppLink(number string) string {
	return "https://wa.me/" + number
}
