package ownership

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// ContactNumber 店铺接单用的 WhatsApp 号码
// 优先取最早的有效归属记录里的卖家号码，其次是店铺展示电话，都没有返回空串
func (r *Resolver) ContactNumber(ctx context.Context, shopSlug string) string {
	list, err := r.ownerships.ListByShop(ctx, shopSlug)
	if err != nil {
		r.log.Warn("查询店铺归属失败", zap.String("shop", shopSlug), zap.Error(err))
	}
	for _, rec := range list {
		if rec.IsActive() {
			if phone := NormalizePhone(rec.SellerPhone); phone != "" {
				return phone
			}
		}
	}

	shop, err := r.shops.GetBySlug(ctx, shopSlug)
	if err != nil {
		r.log.Warn("查询店铺失败", zap.String("shop", shopSlug), zap.Error(err))
		return ""
	}
	if shop == nil {
		return ""
	}
	return NormalizePhone(shop.PhoneE164)
}

// NormalizePhone 转成 wa.me 需要的格式: 只保留数字，不带 +
// 10 位印度手机号补 91 国家码
func NormalizePhone(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)

	digits = strings.TrimLeft(digits, "0")
	if len(digits) == 10 && digits[0] >= '6' && digits[0] <= '9' {
		digits = "91" + digits
	}
	return digits
}
