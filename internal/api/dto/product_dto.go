package dto

// CreateProductRequest 卖家新增商品
type CreateProductRequest struct {
	Name     string  `json:"name" binding:"required,max=255"`
	NameTA   string  `json:"nameTA" binding:"omitempty,max=255"`
	Unit     string  `json:"unit" binding:"required,max=50"`
	UnitTA   string  `json:"unitTA" binding:"omitempty,max=50"`
	Price    float64 `json:"price" binding:"required,gt=0"`
	InStock  *bool   `json:"inStock"`
	ImageURL string  `json:"imageUrl" binding:"omitempty,url"`
}
