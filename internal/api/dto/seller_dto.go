package dto

// ProvisionSellerRequest 管理员开通卖家
// 提供 Password 时同时创建本地登录账号，否则卖家首次登录时按邮箱绑定
type ProvisionSellerRequest struct {
	Email       string `json:"email" binding:"required,email,max=255"`
	ShopSlug    string `json:"shopSlug" binding:"required,min=2,max=100"`
	ShopName    string `json:"shopName" binding:"required,max=255"`
	SellerPhone string `json:"sellerPhone" binding:"omitempty,max=20"`
	Role        string `json:"role" binding:"omitempty,oneof=owner manager staff"`
	DisplayName string `json:"displayName" binding:"omitempty,max=100"`
	Password    string `json:"password" binding:"omitempty,min=6,max=100"`
	// 店铺不存在时一并创建
	Address string `json:"address" binding:"omitempty,max=500"`
}

// SellerListQuery 卖家列表筛选
type SellerListQuery struct {
	ShopSlug string `form:"shopSlug"`
	Email    string `form:"email"`
	Status   string `form:"status"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"pageSize,default=20"`
}
