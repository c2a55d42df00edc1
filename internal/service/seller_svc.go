package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"wa_storefront_v1/internal/api/dto"
	"wa_storefront_v1/internal/identity"
	"wa_storefront_v1/internal/locator"
	"wa_storefront_v1/internal/model"
	"wa_storefront_v1/internal/repository"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidSlug slug 格式校验，保留字不能作为 slug
func ValidSlug(slug string) bool {
	return slugPattern.MatchString(slug) && !locator.IsReserved(slug)
}

// ==================== SellerService 卖家开通 ====================

// SellerService 管理员开通/移除卖家
type SellerService struct {
	ownerships repository.OwnershipRepository
	users      repository.UserRepository
	shops      repository.ShopRepository
	admins     repository.AdminRepository
	log        *zap.Logger
}

// NewSellerService 创建卖家服务
func NewSellerService(
	ownerships repository.OwnershipRepository,
	users repository.UserRepository,
	shops repository.ShopRepository,
	admins repository.AdminRepository,
	log *zap.Logger,
) *SellerService {
	return &SellerService{
		ownerships: ownerships,
		users:      users,
		shops:      shops,
		admins:     admins,
		log:        log,
	}
}

// ProvisionSeller 开通卖家
// 写入一条 active 归属记录；邮箱已有本地账号时直接绑定 userId，否则等卖家首次登录时按邮箱绑定
func (s *SellerService) ProvisionSeller(ctx context.Context, req *dto.ProvisionSellerRequest) (*model.ShopOwnership, error) {
	email := identity.NormalizeEmail(req.Email)
	slug := strings.ToLower(strings.TrimSpace(req.ShopSlug))
	if !ValidSlug(slug) {
		return nil, ErrInvalidSlug
	}

	role := req.Role
	if role == "" {
		role = model.RoleOwner
	}
	if !model.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	existing, err := s.ownerships.FindByEmailAndShop(ctx, email, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.IsActive() {
		return nil, ErrOwnershipExists
	}
	if existing != nil {
		return s.reactivate(ctx, existing, req, role)
	}

	if err := s.ensureShop(ctx, slug, req); err != nil {
		return nil, err
	}

	userID, err := s.ensureUser(ctx, email, req)
	if err != nil {
		return nil, err
	}

	rec := &model.ShopOwnership{
		UserID:      userID,
		Email:       email,
		ShopSlug:    slug,
		ShopName:    req.ShopName,
		SellerPhone: req.SellerPhone,
		Role:        role,
		Status:      model.OwnershipStatusActive,
	}
	if err := s.ownerships.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("创建归属记录失败: %w", err)
	}

	s.log.Info("开通卖家",
		zap.String("email", email),
		zap.String("shop", slug),
		zap.String("role", role),
		zap.Bool("linked", userID != ""),
	)
	return rec, nil
}

// reactivate 被移除过的卖家重新开通，沿用原记录
func (s *SellerService) reactivate(ctx context.Context, rec *model.ShopOwnership, req *dto.ProvisionSellerRequest, role string) (*model.ShopOwnership, error) {
	if err := s.ensureShop(ctx, rec.ShopSlug, req); err != nil {
		return nil, err
	}
	fields := map[string]interface{}{
		"status": model.OwnershipStatusActive,
		"role":   role,
	}
	if req.ShopName != "" {
		fields["shop_name"] = req.ShopName
	}
	if req.SellerPhone != "" {
		fields["seller_phone"] = req.SellerPhone
	}
	if rec.UserID == "" {
		userID, err := s.ensureUser(ctx, rec.Email, req)
		if err != nil {
			return nil, err
		}
		if userID != "" {
			fields["user_id"] = userID
		}
	}
	if err := s.ownerships.UpdateFields(ctx, rec.ID, fields); err != nil {
		return nil, fmt.Errorf("恢复归属记录失败: %w", err)
	}

	s.log.Info("重新开通卖家", zap.String("record", rec.ID), zap.String("shop", rec.ShopSlug))
	return s.ownerships.GetByID(ctx, rec.ID)
}

func (s *SellerService) ensureShop(ctx context.Context, slug string, req *dto.ProvisionSellerRequest) error {
	exists, err := s.shops.ExistsBySlug(ctx, slug)
	if err != nil || exists {
		return err
	}
	shop := &model.Shop{
		Slug:      slug,
		Name:      req.ShopName,
		Address:   req.Address,
		PhoneE164: req.SellerPhone,
		IsActive:  true,
	}
	if err := s.shops.Create(ctx, shop); err != nil {
		return fmt.Errorf("创建店铺失败: %w", err)
	}
	return nil
}

// ensureUser 返回要绑定的 userId，可能为空
func (s *SellerService) ensureUser(ctx context.Context, email string, req *dto.ProvisionSellerRequest) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user != nil {
		return user.UID, nil
	}
	if req.Password == "" {
		return "", nil
	}

	hash, err := identity.HashPassword(req.Password)
	if err != nil {
		return "", err
	}
	user = &model.SellerUser{
		UID:          uuid.NewString(),
		Email:        email,
		DisplayName:  req.DisplayName,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return "", fmt.Errorf("创建卖家账号失败: %w", err)
	}
	return user.UID, nil
}

// ListSellers 卖家列表
func (s *SellerService) ListSellers(ctx context.Context, q *dto.SellerListQuery) (*dto.PageResult, error) {
	list, total, err := s.ownerships.List(ctx, repository.OwnershipFilter{
		ShopSlug: q.ShopSlug,
		Email:    identity.NormalizeEmail(q.Email),
		Status:   q.Status,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		return nil, err
	}
	return &dto.PageResult{List: list, Total: total, Page: q.Page, PageSize: q.PageSize}, nil
}

// RemoveSeller 停用归属记录，不删除账号和店铺
// 记录保留为 disabled，邮箱域名与 slug 相符的卖家也不会被重新补建
func (s *SellerService) RemoveSeller(ctx context.Context, id string) error {
	err := s.ownerships.Disable(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrOwnershipNotFound
	}
	if err == nil {
		s.log.Info("移除卖家", zap.String("record", id))
	}
	return err
}

// ==================== 账号管理 (命令行) ====================

// CreateUser 创建本地账号
func (s *SellerService) CreateUser(ctx context.Context, email, password, displayName string) (*model.SellerUser, error) {
	email = identity.NormalizeEmail(email)
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := identity.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &model.SellerUser{
		UID:          uuid.NewString(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GrantAdmin 授予管理员；uidOrEmail 含 @ 时按邮箱查本地账号
func (s *SellerService) GrantAdmin(ctx context.Context, uidOrEmail, role string) (*model.AdminRecord, error) {
	if role == "" {
		role = model.AdminRoleAdmin
	}
	if role != model.AdminRoleAdmin && role != model.AdminRoleOwner {
		return nil, ErrInvalidRole
	}

	rec := &model.AdminRecord{UID: uidOrEmail, Role: role}
	if strings.Contains(uidOrEmail, "@") {
		user, err := s.users.GetByEmail(ctx, identity.NormalizeEmail(uidOrEmail))
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
		rec.UID = user.UID
		rec.Email = user.Email
	}

	if err := s.admins.Upsert(ctx, rec); err != nil {
		return nil, err
	}
	s.log.Info("授予管理员", zap.String("uid", rec.UID), zap.String("role", role))
	return rec, nil
}
