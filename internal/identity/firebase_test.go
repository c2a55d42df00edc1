package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFirebaseServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/accounts:signInWithPassword" || r.URL.Query().Get("key") != "test-key" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		w.Header().Set("Content-Type", "application/json")
		switch {
		case body.Email == "seller@ganeshbakery.com" && body.Password == "secret":
			_, _ = w.Write([]byte(`{"localId":"fb-uid-1","email":"Seller@GaneshBakery.com","displayName":"Ganesh","idToken":"tok"}`))
		case body.Email == "off@x.com":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":400,"message":"USER_DISABLED"}}`))
		case body.Email == "busy@x.com":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":400,"message":"TOO_MANY_ATTEMPTS_TRY_LATER : Access disabled"}}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":400,"message":"INVALID_LOGIN_CREDENTIALS"}}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFirebaseAuthenticator(t *testing.T) {
	srv := newFirebaseServer(t)
	auth := NewFirebaseAuthenticator(srv.URL+"/", "test-key")
	ctx := context.Background()

	user, err := auth.Authenticate(ctx, "seller@ganeshbakery.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "fb-uid-1", user.UID)
	assert.Equal(t, "seller@ganeshbakery.com", user.Email)

	_, err = auth.Authenticate(ctx, "seller@ganeshbakery.com", "bad")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	_, err = auth.Authenticate(ctx, "off@x.com", "secret")
	assert.True(t, errors.Is(err, ErrUserDisabled))

	_, err = auth.Authenticate(ctx, "busy@x.com", "secret")
	assert.True(t, errors.Is(err, ErrProviderUnavailable))
}

func TestFirebaseAuthenticator_Unreachable(t *testing.T) {
	srv := newFirebaseServer(t)
	url := srv.URL
	srv.Close()

	_, err := NewFirebaseAuthenticator(url, "test-key").Authenticate(context.Background(), "a@x.com", "p")
	assert.True(t, errors.Is(err, ErrProviderUnavailable))
}
