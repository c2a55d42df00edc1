package identity

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Session 基于 Authenticator 的 Provider 实现，每个浏览器会话一个
type Session struct {
	auth Authenticator
	log  *zap.Logger

	mu        sync.RWMutex
	user      *User
	listeners map[int]func(*User)
	nextID    int
}

func NewSession(auth Authenticator, log *zap.Logger) *Session {
	return &Session{
		auth:      auth,
		log:       log,
		listeners: make(map[int]func(*User)),
	}
}

func (s *Session) CurrentUser() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) SignIn(ctx context.Context, email, password string) (*User, error) {
	user, err := s.auth.Authenticate(ctx, NormalizeEmail(email), password)
	if err != nil {
		return nil, err
	}
	s.setUser(user)
	s.log.Info("用户登录", zap.String("uid", user.UID))
	return user, nil
}

func (s *Session) SignOut(ctx context.Context) error {
	if prev := s.CurrentUser(); prev != nil {
		s.log.Info("用户登出", zap.String("uid", prev.UID))
	}
	s.setUser(nil)
	return nil
}

// Restore 用已验证的令牌信息恢复登录状态 (进程重启后会话重建)
func (s *Session) Restore(user *User) {
	s.setUser(user)
}

func (s *Session) OnAuthStateChanged(fn func(*User)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	current := s.user
	s.mu.Unlock()

	fn(copyUser(current))

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// setUser 状态未变化时不通知
func (s *Session) setUser(user *User) {
	s.mu.Lock()
	if sameUser(s.user, user) {
		s.mu.Unlock()
		return
	}
	s.user = copyUser(user)
	fns := make([]func(*User), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	// 回调在锁外执行，订阅者可以再读 CurrentUser
	for _, fn := range fns {
		fn(copyUser(user))
	}
}

func copyUser(u *User) *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
