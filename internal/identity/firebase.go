package identity

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"wa_storefront_v1/pkg/utils"
)

// FirebaseAuthenticator 通过 Identity Toolkit REST 接口校验邮箱密码
type FirebaseAuthenticator struct {
	client   *resty.Client
	endpoint string
	apiKey   string
}

func NewFirebaseAuthenticator(endpoint, apiKey string) *FirebaseAuthenticator {
	// 登录请求不重试，失败直接交给调用方
	client := utils.NewClient(utils.ClientOptions{Timeout: 10 * time.Second}).
		SetHeader("Content-Type", "application/json")

	return &FirebaseAuthenticator{
		client:   client,
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
	}
}

type firebaseSignInResp struct {
	LocalID     string `json:"localId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	IDToken     string `json:"idToken"`
}

type firebaseErrResp struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (a *FirebaseAuthenticator) Authenticate(ctx context.Context, email, password string) (*User, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var result firebaseSignInResp
	var apiErr firebaseErrResp
	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryParam("key", a.apiKey).
		SetBody(map[string]interface{}{
			"email":             email,
			"password":          password,
			"returnSecureToken": true,
		}).
		SetResult(&result).
		SetError(&apiErr).
		Post(a.endpoint + "/v1/accounts:signInWithPassword")

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	if resp.StatusCode() != http.StatusOK {
		// 错误码形如 "INVALID_PASSWORD" 或 "TOO_MANY_ATTEMPTS_TRY_LATER : ..."
		code, _, _ := strings.Cut(apiErr.Error.Message, " ")
		switch code {
		case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "INVALID_EMAIL":
			return nil, ErrInvalidCredentials
		case "USER_DISABLED":
			return nil, ErrUserDisabled
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrProviderUnavailable, resp.StatusCode(), resp.String())
	}

	if result.LocalID == "" {
		return nil, fmt.Errorf("%w: 响应缺少 localId", ErrProviderUnavailable)
	}

	return &User{
		UID:         result.LocalID,
		Email:       NormalizeEmail(result.Email),
		DisplayName: result.DisplayName,
	}, nil
}
