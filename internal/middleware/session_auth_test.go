package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wa_storefront_v1/internal/identity"
	"wa_storefront_v1/internal/model"
	"wa_storefront_v1/internal/session"
	"wa_storefront_v1/internal/state"
)

type noShops struct{}

func (noShops) GetBySlug(context.Context, string) (*model.Shop, error) { return nil, nil }

type denyAll struct{}

func (denyAll) CanAccessShop(context.Context, string, string, string) bool { return false }

type noAuth struct{}

func (noAuth) Authenticate(context.Context, string, string) (*identity.User, error) {
	return nil, identity.ErrInvalidCredentials
}

func setupSessionRouter() (*gin.Engine, *session.Manager, *Tokens) {
	gin.SetMode(gin.TestMode)
	mgr := session.NewManager(session.Deps{Auth: noAuth{}, Shops: noShops{}, Access: denyAll{}}, state.Options{}, time.Hour, zap.NewNop())
	tokens := NewTokens(DefaultTokenConfig())

	r := gin.New()
	r.Use(SessionAuth(mgr, tokens))
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"sid": CurrentSession(c).ID,
			"uid": GetUserID(c),
		})
	})
	return r, mgr, tokens
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == DefaultTokenConfig().CookieName {
			return c
		}
	}
	t.Fatalf("响应中没有会话 cookie")
	return nil
}

func TestSessionAuth_AnonymousGetsSession(t *testing.T) {
	r, mgr, _ := setupSessionRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/whoami", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, w.Header().Get("X-Session-Token"))
	assert.Equal(t, 1, mgr.Count())

	// 带上 cookie 复用同一个会话，不再下发
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.AddCookie(cookie)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)

	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Empty(t, w2.Header().Get("X-Session-Token"))
	assert.Equal(t, 1, mgr.Count())
}

func TestSessionAuth_BearerRestoresUser(t *testing.T) {
	r, _, tokens := setupSessionRouter()

	// 令牌来自重启前的进程，当前进程里没有这个会话
	before := session.NewManager(session.Deps{Auth: noAuth{}, Shops: noShops{}, Access: denyAll{}}, state.Options{}, time.Hour, zap.NewNop())
	sess := before.Create()
	sess.Identity.Restore(&identity.User{UID: "u1", Email: "seller@ganeshbakery.com"})
	token, err := tokens.Issue(sess)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"uid":"u1"`)
	assert.NotEmpty(t, w.Header().Get("X-Session-Token"), "会话重建后重新下发令牌")
}

func TestSessionAuth_TokenFromBeforeSignOut(t *testing.T) {
	r, mgr, tokens := setupSessionRouter()

	sess := mgr.Create()
	sess.Identity.Restore(&identity.User{UID: "u1", Email: "seller@ganeshbakery.com"})
	stale, err := tokens.Issue(sess)
	require.NoError(t, err)
	require.NoError(t, sess.Identity.SignOut(context.Background()))

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+stale)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"uid":""`, "登出后旧令牌不能恢复登录")
	assert.Contains(t, w.Body.String(), sess.ID)
	assert.Nil(t, sess.Identity.CurrentUser())

	fresh := w.Header().Get("X-Session-Token")
	require.NotEmpty(t, fresh, "旧令牌换成匿名令牌")
	claims, err := tokens.Parse(fresh)
	require.NoError(t, err)
	assert.Empty(t, claims.UID)
	assert.Equal(t, sess.Generation(), claims.Generation)

	// 会话被销毁后同样不能恢复
	mgr.Destroy(sess.ID)
	req = httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+stale)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"uid":""`)
}

func TestSessionAuth_InvalidToken(t *testing.T) {
	r, _, _ := setupSessionRouter()

	other := NewTokens(TokenConfig{SecretKey: "other", TTL: time.Hour, Issuer: "wa-storefront", CookieName: "sf_session"})
	mgr := session.NewManager(session.Deps{Auth: noAuth{}, Shops: noShops{}, Access: denyAll{}}, state.Options{}, time.Hour, zap.NewNop())
	sess := mgr.Create()
	sess.Identity.Restore(&identity.User{UID: "forged"})
	forged, err := other.Issue(sess)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"uid":""`, "签名不对的令牌当作匿名")
}

func TestTokens_ParseExpired(t *testing.T) {
	cfg := DefaultTokenConfig()
	cfg.TTL = -time.Minute
	tokens := NewTokens(cfg)

	mgr := session.NewManager(session.Deps{Auth: noAuth{}, Shops: noShops{}, Access: denyAll{}}, state.Options{}, time.Hour, zap.NewNop())
	token, err := tokens.Issue(mgr.Create())
	require.NoError(t, err)

	_, err = tokens.Parse(token)
	assert.Error(t, err)
}
