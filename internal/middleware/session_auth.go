package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"wa_storefront_v1/internal/identity"
	"wa_storefront_v1/internal/session"
)

// ==================== 会话令牌配置 ====================

// TokenConfig 会话令牌配置
type TokenConfig struct {
	SecretKey  string        // 签名密钥
	TTL        time.Duration // 令牌有效期
	Issuer     string        // 签发者
	CookieName string
	Secure     bool // 仅 HTTPS 发送 cookie
}

// DefaultTokenConfig 默认配置
func DefaultTokenConfig() TokenConfig {
	return TokenConfig{
		SecretKey:  "wa-storefront-secret-key-change-in-production",
		TTL:        24 * time.Hour,
		Issuer:     "wa-storefront",
		CookieName: "sf_session",
	}
}

// ==================== Claims 定义 ====================

// SessionClaims 会话声明，匿名会话 UID 为空
type SessionClaims struct {
	SessionID string `json:"sid"`
	UID       string `json:"uid,omitempty"`
	Email     string `json:"email,omitempty"`
	// 签发时会话的登出代数
	Generation uint64 `json:"gen"`
	jwt.RegisteredClaims
}

// User 令牌里的用户，匿名返回 nil
func (c *SessionClaims) User() *identity.User {
	if c == nil || c.UID == "" {
		return nil
	}
	return &identity.User{UID: c.UID, Email: c.Email}
}

// Tokens 签发/解析会话令牌
type Tokens struct {
	cfg TokenConfig
}

func NewTokens(cfg TokenConfig) *Tokens {
	return &Tokens{cfg: cfg}
}

func (t *Tokens) Config() TokenConfig {
	return t.cfg
}

// Issue 为会话签发令牌，带上当前登录用户
func (t *Tokens) Issue(sess *session.Session) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		SessionID:  sess.ID,
		Generation: sess.Generation(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.cfg.Issuer,
			Subject:   "session",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.cfg.TTL)),
		},
	}
	if user := sess.Identity.CurrentUser(); user != nil {
		claims.UID = user.UID
		claims.Email = user.Email
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(t.cfg.SecretKey))
}

// Parse 解析令牌
func (t *Tokens) Parse(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(t.cfg.SecretKey), nil
	}, jwt.WithIssuer(t.cfg.Issuer))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid && claims.SessionID != "" {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// ==================== Gin 中间件 ====================

// Context Keys
const (
	ContextKeySession = "session"
	ContextKeyClaims  = "claims"
)

// SessionAuth 会话中间件，所有路由都挂
// 令牌来源: Authorization: Bearer 优先，其次 cookie；没有或无效时建立匿名会话
func SessionAuth(mgr *session.Manager, tokens *Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		var claims *SessionClaims
		if raw := tokenFromRequest(c, tokens.cfg.CookieName); raw != "" {
			if parsed, err := tokens.Parse(raw); err == nil {
				claims = parsed
			}
		}

		var sess *session.Session
		if claims != nil {
			sess = mgr.Resume(claims.SessionID, claims.User(), claims.Generation)
		} else {
			sess = mgr.Create()
		}

		// 新建的会话，或令牌里的用户已不是会话当前用户 (登出前的旧令牌)，重新下发
		if claims == nil || claims.SessionID != sess.ID || claims.UID != sessionUID(sess) {
			if _, err := WriteSession(c, tokens, sess); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{
					"code":    500,
					"message": "会话创建失败",
				})
				c.Abort()
				return
			}
		}

		c.Set(ContextKeySession, sess)
		if claims != nil {
			c.Set(ContextKeyClaims, claims)
		}

		c.Next()
	}
}

// WriteSession 登录/登出后重新签发令牌，写 cookie 和响应头
func WriteSession(c *gin.Context, tokens *Tokens, sess *session.Session) (string, error) {
	token, err := tokens.Issue(sess)
	if err != nil {
		return "", err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokens.cfg.CookieName, token, int(tokens.cfg.TTL.Seconds()), "/", "", tokens.cfg.Secure, true)
	c.Header("X-Session-Token", token)
	return token, nil
}

func sessionUID(sess *session.Session) string {
	if user := sess.Identity.CurrentUser(); user != nil {
		return user.UID
	}
	return ""
}

func tokenFromRequest(c *gin.Context, cookieName string) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	if cookie, err := c.Cookie(cookieName); err == nil {
		return cookie
	}
	return ""
}

// ==================== 辅助函数 ====================

// CurrentSession 从 Context 获取会话
func CurrentSession(c *gin.Context) *session.Session {
	if v, exists := c.Get(ContextKeySession); exists {
		return v.(*session.Session)
	}
	return nil
}

// CurrentUser 当前登录用户，未登录返回 nil
func CurrentUser(c *gin.Context) *identity.User {
	if sess := CurrentSession(c); sess != nil {
		return sess.Identity.CurrentUser()
	}
	return nil
}

// GetUserID 从 Context 获取用户 ID
func GetUserID(c *gin.Context) string {
	if user := CurrentUser(c); user != nil {
		return user.UID
	}
	return ""
}
