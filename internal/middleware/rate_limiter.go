package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== Throttle 冷却限流器 ====================

// Throttle 按 key 的冷却限流
// 用于登录失败冷却和顾客下单防重复提交
type Throttle struct {
	locks sync.Map // key -> *lockEntry
}

// lockEntry 锁条目
type lockEntry struct {
	lastTime time.Time
	mu       sync.Mutex
}

func NewThrottle() *Throttle {
	return &Throttle{}
}

// CheckResult 检查结果
type CheckResult struct {
	Allowed    bool          // 是否允许
	RetryAfter time.Duration // 剩余冷却时间
}

// Check 检查是否允许执行，允许时记录本次时间
// interval: 冷却间隔
func (r *Throttle) Check(key string, interval time.Duration) CheckResult {
	actual, _ := r.locks.LoadOrStore(key, &lockEntry{})
	entry := actual.(*lockEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(entry.lastTime)

	if elapsed < interval {
		return CheckResult{
			Allowed:    false,
			RetryAfter: interval - elapsed,
		}
	}

	entry.lastTime = now
	return CheckResult{Allowed: true}
}

// CheckOnly 仅检查，不更新时间
func (r *Throttle) CheckOnly(key string, interval time.Duration) CheckResult {
	actual, ok := r.locks.Load(key)
	if !ok {
		return CheckResult{Allowed: true}
	}

	entry := actual.(*lockEntry)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	elapsed := time.Since(entry.lastTime)
	if elapsed < interval {
		return CheckResult{
			Allowed:    false,
			RetryAfter: interval - elapsed,
		}
	}

	return CheckResult{Allowed: true}
}

// MarkExecuted 标记已执行 (登录失败后标记)
func (r *Throttle) MarkExecuted(key string) {
	actual, _ := r.locks.LoadOrStore(key, &lockEntry{})
	entry := actual.(*lockEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.lastTime = time.Now()
}

// Reset 重置指定 key 的限流
func (r *Throttle) Reset(key string) {
	r.locks.Delete(key)
}

// Prune 清理冷却早已结束的条目
func (r *Throttle) Prune(olderThan time.Duration) int {
	cutoff := time.Now().Add(-olderThan)
	n := 0
	r.locks.Range(func(k, v any) bool {
		entry := v.(*lockEntry)
		entry.mu.Lock()
		stale := entry.lastTime.Before(cutoff)
		entry.mu.Unlock()
		if stale {
			r.locks.Delete(k)
			n++
		}
		return true
	})
	return n
}

// ==================== Key 生成工具 ====================

// LoginKey 登录冷却 key，realm 为 seller / admin
// 按邮箱 + 客户端 IP，别处的失败尝试不会锁住卖家自己的登录
func LoginKey(realm, email, clientIP string) string {
	return fmt.Sprintf("login:%s:%s:%s", realm, strings.ToLower(strings.TrimSpace(email)), clientIP)
}

// ClientKey 按客户端 IP + 场景
func ClientKey(scope, clientIP string) string {
	return fmt.Sprintf("client:%s:%s", scope, clientIP)
}

// ==================== Gin 中间件 ====================

// RateLimit 按客户端 IP 冷却
//
// 使用示例:
//
//	router.POST("/:shopSlug/orders",
//	    middleware.RateLimit(throttle, "order", 5*time.Second),
//	    customerCtl.PlaceOrder,
//	)
func RateLimit(throttle *Throttle, scope string, interval time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := throttle.Check(ClientKey(scope, c.ClientIP()), interval)
		if !result.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())+1))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    429,
				"message": "操作过于频繁，请稍后再试",
				"data": gin.H{
					"retryAfter": int(result.RetryAfter.Seconds()) + 1,
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
