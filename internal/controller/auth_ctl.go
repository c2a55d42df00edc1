package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wa_storefront_v1/internal/api/dto"
	"wa_storefront_v1/internal/identity"
	"wa_storefront_v1/internal/middleware"
	"wa_storefront_v1/internal/session"
)

// AccessResolver 控制器用到的归属查询
type AccessResolver interface {
	CanAccessShop(ctx context.Context, userID, email, shopSlug string) bool
	GetUserShops(ctx context.Context, userID string) []string
	FirstUserShop(ctx context.Context, userID string) (string, bool)
	IsAdmin(ctx context.Context, userID string) bool
}

// 登录域
const (
	realmSeller = "seller"
	realmAdmin  = "admin"
)

// AuthController 卖家/管理员登录、登出、会话快照
type AuthController struct {
	access   AccessResolver
	tokens   *middleware.Tokens
	throttle *middleware.Throttle
	cooldown time.Duration
	log      *zap.Logger
}

func NewAuthController(
	access AccessResolver,
	tokens *middleware.Tokens,
	throttle *middleware.Throttle,
	cooldown time.Duration,
	log *zap.Logger,
) *AuthController {
	return &AuthController{
		access:   access,
		tokens:   tokens,
		throttle: throttle,
		cooldown: cooldown,
		log:      log,
	}
}

// SellerLogin
// @Summary 卖家登录
// @Description 登录成功后跳转 returnUrl，没有时跳转第一家店铺的后台
// @Tags Auth (登录)
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "登录信息"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} map[string]interface{} "账号或密码错误"
// @Failure 403 {object} map[string]interface{} "无此店铺权限"
// @Failure 429 {object} map[string]interface{} "尝试过于频繁"
// @Router /seller/login [post]
func (ctrl *AuthController) SellerLogin(c *gin.Context) {
	req, sess, user, ok := ctrl.signIn(c, realmSeller)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if req.ShopSlug != "" && !ctrl.access.CanAccessShop(ctx, user.UID, user.Email, req.ShopSlug) {
		ctrl.log.Info("卖家登录后无店铺权限", zap.String("uid", user.UID), zap.String("shop", req.ShopSlug))
		ctrl.reject(c, sess, http.StatusForbidden, "您没有此店铺的访问权限")
		return
	}

	shops := ctrl.access.GetUserShops(ctx, user.UID)
	redirect := safeReturnURL(req.ReturnURL)
	if redirect == "" {
		switch {
		case req.ShopSlug != "":
			redirect = "/seller/" + req.ShopSlug + "/dashboard"
		case len(shops) > 0:
			redirect = "/seller/" + shops[0] + "/dashboard"
		default:
			redirect = "/landing"
		}
	}

	ctrl.respondLogin(c, sess, user, shops, redirect)
}

// AdminLogin
// @Summary 管理员登录
// @Description 非管理员登录成功后立即登出并返回 403
// @Tags Auth (登录)
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "登录信息"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} map[string]interface{} "账号或密码错误"
// @Failure 403 {object} map[string]interface{} "不是管理员"
// @Router /admin/login [post]
func (ctrl *AuthController) AdminLogin(c *gin.Context) {
	req, sess, user, ok := ctrl.signIn(c, realmAdmin)
	if !ok {
		return
	}

	if !ctrl.access.IsAdmin(c.Request.Context(), user.UID) {
		ctrl.log.Warn("非管理员尝试登录后台", zap.String("uid", user.UID))
		ctrl.reject(c, sess, http.StatusForbidden, "需要管理员权限")
		return
	}

	redirect := safeReturnURL(req.ReturnURL)
	if redirect == "" {
		redirect = "/admin/sellers"
	}
	ctrl.respondLogin(c, sess, user, nil, redirect)
}

// SellerLoginPage
// @Summary 卖家登录页
// @Description 守卫未登录时跳转到这里，returnUrl 原样带回，前端登录后 POST 到 action
// @Tags Auth (登录)
// @Produce json
// @Param returnUrl query string false "登录后返回的站内路径"
// @Success 200 {object} dto.LoginPage
// @Router /seller/login [get]
func (ctrl *AuthController) SellerLoginPage(c *gin.Context) {
	ctrl.loginPage(c, realmSeller)
}

// AdminLoginPage
// @Summary 管理员登录页
// @Tags Auth (登录)
// @Produce json
// @Param returnUrl query string false "登录后返回的站内路径"
// @Success 200 {object} dto.LoginPage
// @Router /admin/login [get]
func (ctrl *AuthController) AdminLoginPage(c *gin.Context) {
	ctrl.loginPage(c, realmAdmin)
}

// loginPage 只回显站内 returnUrl
func (ctrl *AuthController) loginPage(c *gin.Context, realm string) {
	success(c, dto.LoginPage{
		Realm:     realm,
		Action:    "/" + realm + "/login",
		ReturnURL: safeReturnURL(c.Query("returnUrl")),
		User:      middleware.CurrentUser(c),
	})
}

// signIn 两种登录共用：参数校验、冷却、身份认证
func (ctrl *AuthController) signIn(c *gin.Context, realm string) (*dto.LoginRequest, *session.Session, *identity.User, bool) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return nil, nil, nil, false
	}

	key := middleware.LoginKey(realm, req.Email, c.ClientIP())
	if res := ctrl.throttle.CheckOnly(key, ctrl.cooldown); !res.Allowed {
		retry := int(res.RetryAfter.Seconds()) + 1
		c.Header("Retry-After", strconv.Itoa(retry))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"code":    429,
			"message": "尝试次数过多，请稍后再试",
			"data":    gin.H{"retryAfter": retry},
		})
		return nil, nil, nil, false
	}

	sess := middleware.CurrentSession(c)
	user, err := sess.Identity.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrInvalidCredentials):
			ctrl.throttle.MarkExecuted(key)
			fail(c, http.StatusUnauthorized, "邮箱或密码错误")
		case errors.Is(err, identity.ErrUserDisabled):
			ctrl.throttle.MarkExecuted(key)
			fail(c, http.StatusForbidden, "账号已被停用")
		case errors.Is(err, identity.ErrProviderUnavailable):
			ctrl.log.Error("身份服务不可用", zap.Error(err))
			fail(c, http.StatusServiceUnavailable, "登录服务暂不可用，请稍后再试")
		default:
			ctrl.log.Error("登录失败", zap.String("realm", realm), zap.Error(err))
			fail(c, http.StatusInternalServerError, "登录失败")
		}
		return nil, nil, nil, false
	}

	ctrl.throttle.Reset(key)
	ctrl.log.Info("登录成功", zap.String("realm", realm), zap.String("uid", user.UID))
	return &req, sess, user, true
}

func (ctrl *AuthController) respondLogin(c *gin.Context, sess *session.Session, user *identity.User, shops []string, redirect string) {
	token, err := middleware.WriteSession(c, ctrl.tokens, sess)
	if err != nil {
		ctrl.log.Error("写入会话失败", zap.Error(err))
		fail(c, http.StatusInternalServerError, "登录失败")
		return
	}

	success(c, dto.LoginResponse{
		User:     user,
		Shops:    shops,
		Redirect: redirect,
		Token:    token,
	})
}

// reject 登录成功但不满足后台要求：登出后返回错误
func (ctrl *AuthController) reject(c *gin.Context, sess *session.Session, status int, message string) {
	if err := sess.Identity.SignOut(c.Request.Context()); err != nil {
		ctrl.log.Warn("登出失败", zap.Error(err))
	}
	if _, err := middleware.WriteSession(c, ctrl.tokens, sess); err != nil {
		ctrl.log.Warn("写入会话失败", zap.Error(err))
	}
	fail(c, status, message)
}

// Logout
// @Summary 登出
// @Tags Auth (登录)
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /logout [post]
func (ctrl *AuthController) Logout(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if err := sess.Identity.SignOut(c.Request.Context()); err != nil {
		ctrl.log.Warn("登出失败", zap.Error(err))
	}
	if _, err := middleware.WriteSession(c, ctrl.tokens, sess); err != nil {
		fail(c, http.StatusInternalServerError, "登出失败")
		return
	}
	success(c, nil)
}

// Session
// @Summary 当前会话快照
// @Description 当前用户、当前店铺、加载状态、主题
// @Tags Auth (登录)
// @Produce json
// @Success 200 {object} dto.SessionInfo
// @Router /session [get]
func (ctrl *AuthController) Session(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	info := dto.SessionInfo{
		SessionID: sess.ID,
		State:     sess.State.CurrentState(),
		Theme:     sess.Theme.Current(),
		Shops:     []string{},
	}
	if user := sess.Identity.CurrentUser(); user != nil {
		ctx := c.Request.Context()
		info.Shops = ctrl.access.GetUserShops(ctx, user.UID)
		info.IsAdmin = ctrl.access.IsAdmin(ctx, user.UID)
	}
	success(c, info)
}

// safeReturnURL 只接受站内路径
func safeReturnURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return ""
	}
	return raw
}
