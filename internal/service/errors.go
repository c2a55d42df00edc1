package service

import "errors"

// ==================== 业务错误 ====================

var (
	ErrOwnershipExists   = errors.New("该邮箱已是此店铺的成员")
	ErrOwnershipNotFound = errors.New("归属记录不存在")
	ErrInvalidRole       = errors.New("无效的店铺角色")
	ErrShopNotFound      = errors.New("店铺不存在")
	ErrShopInactive      = errors.New("店铺未营业")
	ErrNoContactNumber   = errors.New("店铺未配置 WhatsApp 号码")
	ErrProductNotFound   = errors.New("商品不存在")
	ErrProductOutOfStock = errors.New("商品已售罄")
	ErrOrderNotFound     = errors.New("订单不存在")
	ErrInvalidStatus     = errors.New("无效的订单状态")
	ErrInvalidPhone      = errors.New("手机号格式错误")
	ErrInvalidSlug       = errors.New("店铺标识只能包含小写字母、数字和连字符")
	ErrEmailTaken        = errors.New("邮箱已被注册")
	ErrUserNotFound      = errors.New("用户不存在")
)
