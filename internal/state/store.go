// Package state 会话内"当前店铺/当前用户"的唯一数据源
//
// 每个会话一个 Store，由 session.Manager 创建并显式传递，不存在全局实例。
// 所有修改只能通过 Store 的方法进行，其他组件通过订阅或快照读取。
package state

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"wa_storefront_v1/internal/identity"
	"wa_storefront_v1/internal/locator"
	"wa_storefront_v1/internal/model"
)

var (
	ErrEmptySlug        = errors.New("shop slug is empty")
	ErrShopNotFound     = errors.New("shop not found")
	ErrNoAccess         = errors.New("no access to shop")
	ErrNotAuthenticated = errors.New("no authenticated user")
)

// ShopFinder 按 slug 读取店铺，不存在返回 nil, nil
type ShopFinder interface {
	GetBySlug(ctx context.Context, slug string) (*model.Shop, error)
}

// AccessChecker 店铺归属判定
type AccessChecker interface {
	CanAccessShop(ctx context.Context, userID, email, shopSlug string) bool
}

// ThemeApplier 顾客端加载成功后的展示副作用
type ThemeApplier interface {
	Apply(shop *model.Shop)
	Reset()
}

type Options struct {
	// 为 true 时，被更新的加载取代的旧结果直接丢弃；默认最后完成的加载生效
	DiscardStaleLoads bool
}

type Store struct {
	shops  ShopFinder
	access AccessChecker
	theme  ThemeApplier
	log    *zap.Logger
	opts   Options

	// 同一 key 同时只有一个加载在进行
	flights singleflight.Group

	mu    sync.RWMutex
	state State
	// ClearState 时递增，清空前发起的加载不再发布
	epoch uint64
	// 每次加载开始时递增，用于 DiscardStaleLoads
	generation uint64
	// 当前 epoch 内尚未结束的加载数
	inflight int
	// 每次修改 state 递增，订阅者丢弃比已收到的更旧的推送
	seq uint64

	subMu   sync.Mutex
	subs    map[int]*subscriber
	nextSub int
}

// New theme 可以为 nil
func New(shops ShopFinder, access AccessChecker, theme ThemeApplier, log *zap.Logger, opts Options) *Store {
	return &Store{
		shops:  shops,
		access: access,
		theme:  theme,
		log:    log,
		opts:   opts,
		subs:   make(map[int]*subscriber),
	}
}

// ==================== 加载 ====================

// Initialize 没有 slugHint 时从 URL 解析；卖家/管理后台路由自己负责加载，这里跳过
func (s *Store) Initialize(ctx context.Context, u *url.URL, slugHint string) (*model.Shop, error) {
	if u != nil && locator.IsManagedContext(u) {
		s.log.Debug("后台路由自行加载店铺，跳过初始化", zap.String("path", u.Path))
		return nil, nil
	}

	slug := slugHint
	if slug == "" {
		var ok bool
		if slug, ok = locator.Locate(u); !ok {
			s.log.Debug("URL 中没有店铺标识")
			return nil, nil
		}
	}
	return s.Load(ctx, slug)
}

// Load 顾客端加载：店铺不存在或未启用时发布空店铺，不报错也不跳转
func (s *Store) Load(ctx context.Context, slug string) (*model.Shop, error) {
	if slug == "" {
		return nil, ErrEmptySlug
	}

	key := fmt.Sprintf("%d:shop:%s", s.currentEpoch(), slug)
	v, err, shared := s.flights.Do(key, func() (interface{}, error) {
		return s.load(ctx, slug)
	})
	if shared {
		s.log.Debug("复用进行中的店铺加载", zap.String("shop", slug))
	}
	shop, _ := v.(*model.Shop)
	return shop, err
}

func (s *Store) load(ctx context.Context, slug string) (*model.Shop, error) {
	// 发起方取消请求不影响加载完成
	ctx = context.WithoutCancel(ctx)
	ticket := s.begin(slug)

	shop, err := s.shops.GetBySlug(ctx, slug)
	switch {
	case err != nil:
		s.log.Warn("加载店铺失败", zap.String("shop", slug), zap.Error(err))
		s.finish(ticket, func(st *State) {
			st.Phase = PhaseError
			st.Error = "failed to load shop"
		})
		return nil, fmt.Errorf("load shop %s: %w", slug, err)

	case shop == nil || !shop.IsActive:
		s.log.Info("店铺不存在或未启用", zap.String("shop", slug))
		s.finish(ticket, func(st *State) {
			st.Phase = PhaseNotFound
		})
		return nil, ErrShopNotFound
	}

	published := s.finish(ticket, func(st *State) {
		st.Phase = PhaseLoaded
		st.CurrentShop = shop
	})
	if published && s.theme != nil {
		s.theme.Apply(shop)
	}
	return shop, nil
}

// LoadShop 卖家/管理后台加载：先校验归属，拒绝时返回 ErrNoAccess 交给守卫处理
// 不要求店铺已启用，没有主题副作用
func (s *Store) LoadShop(ctx context.Context, slug string) (*model.Shop, error) {
	if slug == "" {
		return nil, ErrEmptySlug
	}
	user := s.CurrentUser()
	if user == nil {
		return nil, ErrNotAuthenticated
	}

	key := fmt.Sprintf("%d:managed:%s:%s", s.currentEpoch(), user.UID, slug)
	v, err, _ := s.flights.Do(key, func() (interface{}, error) {
		return s.loadManaged(ctx, user, slug)
	})
	shop, _ := v.(*model.Shop)
	return shop, err
}

func (s *Store) loadManaged(ctx context.Context, user *identity.User, slug string) (*model.Shop, error) {
	ctx = context.WithoutCancel(ctx)
	ticket := s.begin(slug)
	log := s.log.With(zap.String("uid", user.UID), zap.String("shop", slug))

	if !s.access.CanAccessShop(ctx, user.UID, user.Email, slug) {
		log.Info("无店铺访问权限")
		s.finish(ticket, func(st *State) {
			st.Phase = PhaseError
			st.Error = ErrNoAccess.Error()
		})
		return nil, ErrNoAccess
	}

	shop, err := s.shops.GetBySlug(ctx, slug)
	switch {
	case err != nil:
		log.Warn("加载店铺失败", zap.Error(err))
		s.finish(ticket, func(st *State) {
			st.Phase = PhaseError
			st.Error = "failed to load shop"
		})
		return nil, fmt.Errorf("load shop %s: %w", slug, err)

	case shop == nil:
		s.finish(ticket, func(st *State) {
			st.Phase = PhaseError
			st.Error = ErrShopNotFound.Error()
		})
		return nil, ErrShopNotFound
	}

	s.finish(ticket, func(st *State) {
		st.Phase = PhaseLoaded
		st.CurrentShop = shop
	})
	return shop, nil
}

// currentEpoch 清空前后的加载不共用同一次读取
func (s *Store) currentEpoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

type loadTicket struct {
	epoch      uint64
	generation uint64
	slug       string
}

// begin 进入 Loading
func (s *Store) begin(slug string) loadTicket {
	s.mu.Lock()
	s.generation++
	s.inflight++
	t := loadTicket{epoch: s.epoch, generation: s.generation, slug: slug}
	next := s.state
	next.IsLoading = true
	next.Phase = PhaseLoading
	next.Slug = slug
	next.Error = ""
	seq := s.commit(next)
	s.mu.Unlock()

	s.broadcast(next, seq)
	return t
}

// finish 发布加载结果，返回是否真正发布
// 当前店铺总是被结果覆盖 (失败时为 nil)，避免上一个店铺的数据残留
func (s *Store) finish(t loadTicket, apply func(st *State)) bool {
	s.mu.Lock()
	if t.epoch != s.epoch {
		s.mu.Unlock()
		s.log.Debug("会话已清空，丢弃加载结果", zap.String("shop", t.slug))
		return false
	}
	s.inflight--
	if s.opts.DiscardStaleLoads && t.generation != s.generation {
		s.log.Debug("加载已被取代，丢弃结果", zap.String("shop", t.slug))
		// 最新的加载先完成时，最后一个旧加载结束才能退出 Loading
		if !s.state.IsLoading || s.inflight > 0 {
			s.mu.Unlock()
			return false
		}
		next := s.state
		next.IsLoading = false
		seq := s.commit(next)
		s.mu.Unlock()
		s.broadcast(next, seq)
		return false
	}

	next := s.state
	next.CurrentShop = nil
	next.Error = ""
	next.Slug = t.slug
	apply(&next)
	// 其他加载可能仍在进行
	next.IsLoading = s.inflight > 0
	seq := s.commit(next)
	s.mu.Unlock()

	s.broadcast(next, seq)
	return true
}

// commit 调用前持有 s.mu
func (s *Store) commit(next State) uint64 {
	s.state = next
	s.seq++
	return s.seq
}

// ==================== 快照 ====================

func (s *Store) CurrentShop() *model.Shop {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.CurrentShop
}

func (s *Store) CurrentUser() *identity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.CurrentUser
}

func (s *Store) CurrentState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// ==================== 外部修改入口 ====================

// SetCurrentShop 调用方已经拿到校验过的店铺，省去一次读取
func (s *Store) SetCurrentShop(shop *model.Shop) {
	s.update(func(st *State) {
		st.CurrentShop = shop
		st.IsLoading = false
		st.Error = ""
		if shop == nil {
			st.Phase = PhaseEmpty
			st.Slug = ""
		} else {
			st.Phase = PhaseLoaded
			st.Slug = shop.Slug
		}
	})
}

func (s *Store) SetCurrentUser(user *identity.User) {
	s.update(func(st *State) {
		st.CurrentUser = user
	})
}

func (s *Store) SetError(msg string) {
	s.update(func(st *State) {
		st.Error = msg
		if msg != "" {
			st.Phase = PhaseError
		}
	})
}

// ClearState 登出时调用，所有字段回到初始值
func (s *Store) ClearState() {
	s.mu.Lock()
	s.epoch++
	s.inflight = 0
	seq := s.commit(State{})
	s.mu.Unlock()

	if s.theme != nil {
		s.theme.Reset()
	}
	s.log.Debug("会话状态已清空")
	s.broadcast(State{}, seq)
}

func (s *Store) update(apply func(st *State)) {
	s.mu.Lock()
	next := s.state
	apply(&next)
	seq := s.commit(next)
	s.mu.Unlock()

	s.broadcast(next, seq)
}
