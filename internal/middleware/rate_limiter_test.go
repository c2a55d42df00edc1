package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestThrottle(t *testing.T) {
	th := NewThrottle()
	key := LoginKey("seller", " Seller@X.com ", "10.0.0.1")
	assert.Equal(t, "login:seller:seller@x.com:10.0.0.1", key)

	assert.True(t, th.CheckOnly(key, time.Minute).Allowed)
	th.MarkExecuted(key)

	res := th.CheckOnly(key, time.Minute)
	assert.False(t, res.Allowed)
	assert.Greater(t, res.RetryAfter, time.Duration(0))

	other := LoginKey("seller", "seller@x.com", "10.0.0.2")
	assert.True(t, th.CheckOnly(other, time.Minute).Allowed, "其他 IP 不受影响")

	th.Reset(key)
	assert.True(t, th.Check(key, time.Minute).Allowed)
	assert.False(t, th.Check(key, time.Minute).Allowed)

	assert.Equal(t, 0, th.Prune(time.Hour))
	assert.Equal(t, 1, th.Prune(-time.Hour))
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/acme/orders", RateLimit(NewThrottle(), "order", time.Minute), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/acme/orders", nil))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/acme/orders", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}
