package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wa_storefront_v1/internal/service"
)

// ==================== 响应封装 ====================

func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "success",
		"data":    data,
	})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"code":    status,
		"message": message,
	})
}

// statusOf 业务错误对应的 HTTP 状态码
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrShopNotFound),
		errors.Is(err, service.ErrShopInactive),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrOwnershipNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidPhone),
		errors.Is(err, service.ErrInvalidSlug),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrProductOutOfStock):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrOwnershipExists),
		errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, service.ErrNoContactNumber):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// serviceError 业务错误直接返回文案，其它错误只记日志
func serviceError(c *gin.Context, log *zap.Logger, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		log.Error("请求处理失败",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		fail(c, status, "服务器内部错误")
		return
	}
	fail(c, status, err.Error())
}
