// Package ownership 判断用户能否操作某个店铺
//
// 解析顺序 (先命中者生效):
//  1. (userId, shopSlug) 直接命中
//  2. (email, shopSlug) 命中未绑定的记录，顺手把 userId 写回去
//  3. 邮箱域名与 slug 的模糊匹配，命中后补建一条 owner 记录
//  4. 拒绝
//
// 对外只返回判定结果，存储层错误在内部记录日志后降级。
package ownership

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"wa_storefront_v1/internal/model"
	"wa_storefront_v1/internal/repository"
)

type Resolver struct {
	ownerships repository.OwnershipRepository
	admins     repository.AdminRepository
	shops      repository.ShopRepository
	log        *zap.Logger
}

func NewResolver(
	ownerships repository.OwnershipRepository,
	admins repository.AdminRepository,
	shops repository.ShopRepository,
	log *zap.Logger,
) *Resolver {
	return &Resolver{
		ownerships: ownerships,
		admins:     admins,
		shops:      shops,
		log:        log,
	}
}

// CanAccessShop 用户能否访问店铺，不返回错误
func (r *Resolver) CanAccessShop(ctx context.Context, userID, email, shopSlug string) bool {
	if userID == "" || shopSlug == "" {
		return false
	}
	email = strings.ToLower(strings.TrimSpace(email))
	log := r.log.With(zap.String("uid", userID), zap.String("shop", shopSlug))

	storeFailed := false

	// 1. 直接命中
	rec, err := r.ownerships.FindByUserAndShop(ctx, userID, shopSlug)
	switch {
	case err != nil:
		log.Warn("按用户查询归属失败", zap.Error(err))
		storeFailed = true
	case rec != nil:
		// 被管理员停用的记录直接拒绝，不再走后面的匹配
		return rec.IsActive()
	}

	// 2. 邮箱命中
	if email != "" && !storeFailed {
		rec, err = r.ownerships.FindByEmailAndShop(ctx, email, shopSlug)
		switch {
		case err != nil:
			log.Warn("按邮箱查询归属失败", zap.Error(err))
			storeFailed = true
		case rec != nil && (rec.UserID == "" || rec.UserID == userID):
			if rec.UserID == "" {
				r.heal(ctx, log, rec.ID, userID)
			}
			return rec.IsActive()
		}
	}

	// 3. 模糊匹配
	if email == "" || !EmailMatchesShop(email, shopSlug) {
		log.Debug("无店铺访问权限")
		return false
	}

	if storeFailed {
		// 存储不可用时只给出判定，不补建记录
		log.Info("存储异常，按邮箱域名放行")
		return true
	}

	r.synthesize(ctx, log, userID, email, shopSlug)
	return true
}

// heal 把 userId 写回按邮箱预建的记录，失败只记日志
func (r *Resolver) heal(ctx context.Context, log *zap.Logger, recordID, userID string) {
	linked, err := r.ownerships.LinkUser(ctx, recordID, userID)
	if err != nil {
		log.Warn("绑定归属记录失败", zap.String("record", recordID), zap.Error(err))
		return
	}
	if linked {
		log.Info("归属记录已绑定用户", zap.String("record", recordID))
	}
}

// synthesize 确定性 ID + 冲突忽略，并发补建也只落一条
func (r *Resolver) synthesize(ctx context.Context, log *zap.Logger, userID, email, shopSlug string) {
	rec := &model.ShopOwnership{
		ID:       model.OwnershipID(userID, shopSlug),
		UserID:   userID,
		Email:    email,
		ShopSlug: shopSlug,
		Role:     model.RoleOwner,
		Status:   model.OwnershipStatusActive,
	}
	if shop, err := r.shops.GetBySlug(ctx, shopSlug); err == nil && shop != nil {
		rec.ShopName = shop.Name
	}

	created, err := r.ownerships.CreateIfAbsent(ctx, rec)
	if err != nil {
		log.Warn("补建归属记录失败", zap.Error(err))
		return
	}
	if created {
		log.Info("按邮箱域名补建归属记录", zap.String("record", rec.ID))
	}
}

// GetUserShops 用户名下的店铺 slug，按创建时间排序；未登录或出错返回空列表
func (r *Resolver) GetUserShops(ctx context.Context, userID string) []string {
	slugs := []string{}
	if userID == "" {
		return slugs
	}

	list, err := r.ownerships.ListByUser(ctx, userID)
	if err != nil {
		r.log.Warn("查询用户店铺失败", zap.String("uid", userID), zap.Error(err))
		return slugs
	}

	seen := make(map[string]struct{}, len(list))
	for _, rec := range list {
		if !rec.IsActive() {
			continue
		}
		if _, ok := seen[rec.ShopSlug]; ok {
			continue
		}
		seen[rec.ShopSlug] = struct{}{}
		slugs = append(slugs, rec.ShopSlug)
	}
	return slugs
}

// FirstUserShop 多店铺用户默认进入最早创建的那个
func (r *Resolver) FirstUserShop(ctx context.Context, userID string) (string, bool) {
	slugs := r.GetUserShops(ctx, userID)
	if len(slugs) == 0 {
		return "", false
	}
	return slugs[0], true
}

// IsAdmin 只看 admin 表，不走任何匹配
func (r *Resolver) IsAdmin(ctx context.Context, userID string) bool {
	if userID == "" {
		return false
	}
	rec, err := r.admins.GetByUID(ctx, userID)
	if err != nil {
		r.log.Warn("查询管理员失败", zap.String("uid", userID), zap.Error(err))
		return false
	}
	return rec != nil && rec.IsAdmin()
}
