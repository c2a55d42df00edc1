// Package session 每个浏览器会话持有一个身份会话和一个店铺状态 Store
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wa_storefront_v1/internal/identity"
	"wa_storefront_v1/internal/state"
	"wa_storefront_v1/pkg/utils"
)

// Session 单个会话
type Session struct {
	ID       string
	Identity *identity.Session
	State    *state.Store
	Theme    *state.Presentation

	CreatedAt time.Time

	mu       sync.Mutex
	lastSeen time.Time
	release  func()
	signedIn bool
	// 每次登出递增，写进令牌；比它小的令牌不能再恢复登录
	generation uint64
}

// Generation 会话的登出代数
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// observe 记录登录状态，已登录变为未登录时代数加一
func (s *Session) observe(user *identity.User) {
	s.mu.Lock()
	if user == nil && s.signedIn {
		s.generation++
	}
	s.signedIn = user != nil
	s.mu.Unlock()
}

// LastSeen 最后活跃时间
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// close 解除身份订阅并清空状态
func (s *Session) close() {
	s.mu.Lock()
	release := s.release
	s.release = nil
	s.mu.Unlock()

	if release != nil {
		release()
	}
	s.State.ClearState()
}

// Deps 创建会话需要的依赖
type Deps struct {
	Auth   identity.Authenticator
	Shops  state.ShopFinder
	Access state.AccessChecker
}

// 已结束会话的登出代数默认保留时长，应不短于令牌有效期
const defaultEndedRetention = 24 * time.Hour

type Manager struct {
	deps        Deps
	opts        state.Options
	idleTimeout time.Duration
	log         *zap.Logger

	sessions *utils.TTLCache[*Session]
	// 已移除会话的登出代数，拒绝用旧令牌重建登录
	ended          *utils.TTLCache[uint64]
	endedRetention time.Duration
}

func NewManager(deps Deps, opts state.Options, idleTimeout time.Duration, log *zap.Logger) *Manager {
	return &Manager{
		deps:           deps,
		opts:           opts,
		idleTimeout:    idleTimeout,
		log:            log,
		sessions:       utils.NewTTLCache[*Session](),
		ended:          utils.NewTTLCache[uint64](),
		endedRetention: defaultEndedRetention,
	}
}

// RetainEnded 设置已结束会话的记录保留时长，传入令牌有效期
func (m *Manager) RetainEnded(d time.Duration) {
	if d > 0 {
		m.endedRetention = d
	}
}

// Create 新建会话
func (m *Manager) Create() *Session {
	now := time.Now()
	theme := state.NewPresentation()
	sess := &Session{
		ID:        uuid.NewString(),
		Identity:  identity.NewSession(m.deps.Auth, m.log.Named("identity")),
		Theme:     theme,
		CreatedAt: now,
		lastSeen:  now,
	}
	sess.State = state.New(m.deps.Shops, m.deps.Access, theme, m.log.Named("state"), m.opts)
	sess.release = bindIdentity(sess)

	m.sessions.Set(sess.ID, sess, m.idleTimeout)
	m.log.Debug("创建会话", zap.String("sid", sess.ID))
	return sess
}

// bindIdentity 登录状态变化同步到 Store；登出或切换用户时先清空
func bindIdentity(sess *Session) func() {
	store := sess.State
	return sess.Identity.OnAuthStateChanged(func(user *identity.User) {
		sess.observe(user)
		current := store.CurrentUser()
		if user == nil {
			if current != nil {
				store.ClearState()
			}
			return
		}
		if current != nil && current.UID != user.UID {
			store.ClearState()
		}
		store.SetCurrentUser(user)
	})
}

// Get 获取会话并刷新过期时间
func (m *Manager) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	sess, ok := m.sessions.Get(id)
	if !ok {
		return nil, false
	}
	m.sessions.Touch(id, m.idleTimeout)
	sess.touch(time.Now())
	return sess, true
}

// Resume 会话还在时以会话为准，令牌里的用户不会写回已登出的会话
// 会话不存在 (过期或进程重启) 时新建，令牌的登出代数不落后时按令牌里的用户恢复登录
func (m *Manager) Resume(id string, user *identity.User, generation uint64) *Session {
	if sess, ok := m.Get(id); ok {
		return sess
	}

	sess := m.Create()
	if user == nil {
		return sess
	}
	if ended, ok := m.ended.Get(id); ok && generation < ended {
		m.log.Info("令牌签发后会话已登出，不恢复登录", zap.String("sid", id), zap.String("uid", user.UID))
		return sess
	}
	sess.Identity.Restore(user)
	return sess
}

// Destroy 登出并移除会话，之前签发的令牌都不能再恢复登录
func (m *Manager) Destroy(id string) bool {
	sess, ok := m.sessions.Delete(id)
	if !ok {
		return false
	}
	m.log.Debug("销毁会话", zap.String("sid", id))
	m.ended.Set(id, sess.Generation()+1, m.endedRetention)
	sess.close()
	return true
}

// Sweep 清理空闲超时的会话；登出过的会话记下代数
func (m *Manager) Sweep() int {
	m.ended.Sweep(nil)
	n := m.sessions.Sweep(func(id string, sess *Session) {
		if gen := sess.Generation(); gen > 0 {
			m.ended.Set(id, gen, m.endedRetention)
		}
		sess.close()
	})
	if n > 0 {
		m.log.Info("清理过期会话", zap.Int("count", n))
	}
	return n
}

// Count 当前会话数
func (m *Manager) Count() int {
	return m.sessions.Len()
}

func (m *Manager) IdleTimeout() time.Duration {
	return m.idleTimeout
}
