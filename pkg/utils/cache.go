package utils

import (
	"sync"
	"time"
)

// TTLCache 使用 sync.Map 保证并发安全的过期缓存
// 过期项在读取时懒删除，或由 Sweep 批量清理
type TTLCache[V any] struct {
	items sync.Map
	now   func() time.Time
}

// cacheItem 内部结构，包含值和过期时间
type cacheItem[V any] struct {
	value      V
	expiration int64 // UnixNano
}

func NewTTLCache[V any]() *TTLCache[V] {
	return &TTLCache[V]{now: time.Now}
}

// Set 设置缓存
func (c *TTLCache[V]) Set(key string, value V, ttl time.Duration) {
	c.items.Store(key, cacheItem[V]{
		value:      value,
		expiration: c.now().Add(ttl).UnixNano(),
	})
}

// Get 获取缓存并验证是否过期
func (c *TTLCache[V]) Get(key string) (V, bool) {
	var zero V
	val, ok := c.items.Load(key)
	if !ok {
		return zero, false
	}

	item := val.(cacheItem[V])
	if c.now().UnixNano() > item.expiration {
		c.items.CompareAndDelete(key, val) // 懒删除
		return zero, false
	}
	return item.value, true
}

// Touch 刷新过期时间 (滑动过期)，key 不存在或已过期返回 false
func (c *TTLCache[V]) Touch(key string, ttl time.Duration) bool {
	v, ok := c.Get(key)
	if !ok {
		return false
	}
	c.Set(key, v, ttl)
	return true
}

// Delete 删除缓存并返回旧值
func (c *TTLCache[V]) Delete(key string) (V, bool) {
	var zero V
	val, ok := c.items.LoadAndDelete(key)
	if !ok {
		return zero, false
	}
	return val.(cacheItem[V]).value, true
}

// Sweep 清理所有过期项，对每个被清理的值调用 onEvict
func (c *TTLCache[V]) Sweep(onEvict func(key string, value V)) int {
	now := c.now().UnixNano()
	evicted := 0
	c.items.Range(func(k, v any) bool {
		item := v.(cacheItem[V])
		if now > item.expiration && c.items.CompareAndDelete(k, v) {
			evicted++
			if onEvict != nil {
				onEvict(k.(string), item.value)
			}
		}
		return true
	})
	return evicted
}

// Len 当前条目数 (含未清理的过期项)
func (c *TTLCache[V]) Len() int {
	n := 0
	c.items.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
