// Package locator 从请求 URL 中提取当前店铺 slug
//
// 三种历史寻址方式并存: ?shop=<slug>、/<slug>/...、<slug>.<domain>
// 按此顺序依次尝试，前一种有结果则不再继续。纯函数，无状态无 I/O。
package locator

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

// QueryParam 查询参数名
const QueryParam = "shop"

// reserved 不能作为 slug 的一级路径
var reserved = map[string]struct{}{
	"seller":       {},
	"admin":        {},
	"home":         {},
	"products":     {},
	"product":      {},
	"cart":         {},
	"error":        {},
	"unauthorized": {},
}

// IsReserved 路径段是否为保留字
func IsReserved(segment string) bool {
	_, ok := reserved[strings.ToLower(segment)]
	return ok
}

// Locate 提取 slug，没有结果时 ok=false
func Locate(u *url.URL) (string, bool) {
	if u == nil {
		return "", false
	}

	// 1. 查询参数
	if slug := strings.TrimSpace(u.Query().Get(QueryParam)); slug != "" {
		return slug, true
	}

	// 2. 路径
	if slug, ok := fromPath(u.Path); ok {
		return slug, true
	}

	// 3. 子域名
	return fromHost(u.Host)
}

// FromRequest 服务端收到的 URL 没有 Host，从 Request.Host 补上
func FromRequest(r *http.Request) (string, bool) {
	if r == nil || r.URL == nil {
		return "", false
	}
	u := *r.URL
	if u.Host == "" {
		u.Host = r.Host
	}
	return Locate(&u)
}

func fromPath(path string) (string, bool) {
	segments := splitPath(path)
	if len(segments) == 0 {
		return "", false
	}

	first := segments[0]
	if !IsReserved(first) {
		return first, true
	}

	// 旧版嵌套路径: /seller/<slug>/...
	if len(segments) > 1 && !IsReserved(segments[1]) {
		return segments[1], true
	}
	return "", false
}

func fromHost(host string) (string, bool) {
	if host == "" {
		return "", false
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")
	if net.ParseIP(host) != nil {
		return "", false
	}

	labels := strings.Split(strings.ToLower(host), ".")
	if len(labels) <= 2 {
		return "", false
	}
	switch labels[0] {
	case "", "www", "localhost":
		return "", false
	}
	return labels[0], true
}

// IsManagedContext 卖家/管理后台路由自己负责加载店铺
func IsManagedContext(u *url.URL) bool {
	if u == nil {
		return false
	}
	segments := splitPath(u.Path)
	if len(segments) == 0 {
		return false
	}
	switch strings.ToLower(segments[0]) {
	case "seller", "admin":
		return true
	}
	// /<slug>/seller/... 形式的嵌套后台路由
	if len(segments) > 1 {
		switch strings.ToLower(segments[1]) {
		case "seller", "admin":
			return true
		}
	}
	return false
}

func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
