package ownership

import (
	"regexp"
	"strings"
)

var (
	commonTLD   = regexp.MustCompile(`\.(com|in|net|org)$`)
	nonAlphaNum = regexp.MustCompile(`[^a-z0-9]+`)
)

// NormalizeEmailDomain 取邮箱域名，去掉常见顶级域和非字母数字
// seller@ganeshbakery.com -> ganeshbakery
func NormalizeEmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ""
	}
	domain := strings.ToLower(strings.TrimSpace(email[at+1:]))
	domain = commonTLD.ReplaceAllString(domain, "")
	return nonAlphaNum.ReplaceAllString(domain, "")
}

// NormalizeSlug ganesh-bakery -> ganeshbakery
func NormalizeSlug(slug string) string {
	return nonAlphaNum.ReplaceAllString(strings.ToLower(slug), "")
}

// DomainMatchesShop 两个已归一化的字符串互相包含即视为匹配
// 这是模糊匹配，只用于给没有归属记录的老店铺补建记录
func DomainMatchesShop(domain, shop string) bool {
	if domain == "" || shop == "" {
		return false
	}
	return strings.Contains(domain, shop) || strings.Contains(shop, domain)
}

// EmailMatchesShop 归一化后比较
func EmailMatchesShop(email, slug string) bool {
	return DomainMatchesShop(NormalizeEmailDomain(email), NormalizeSlug(slug))
}
