package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// ClientOptions 外部 HTTP 调用的公共参数
type ClientOptions struct {
	Timeout   time.Duration
	Debug     bool
	UserAgent string
	// 网络错误时的重试次数，4xx 不重试
	RetryCount int
}

// NewClient 创建配置好超时、UA 和重试的 Resty 客户端
// 它是全系统统一的外部请求入口
func NewClient(opts ClientOptions) *resty.Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "wa-storefront/1.0"
	}

	client := resty.New().
		SetDebug(opts.Debug).
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", opts.UserAgent)

	if opts.RetryCount > 0 {
		client.SetRetryCount(opts.RetryCount).
			SetRetryWaitTime(200 * time.Millisecond).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err != nil || r.StatusCode() >= 500
			})
	}
	return client
}
