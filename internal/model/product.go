package model

// Product 店铺商品
type Product struct {
	BaseModel
	AuditFields

	// ShopID 存的是店铺 slug，所有查询都必须带上它
	ShopID string `gorm:"size:100;index;not null" json:"shopId"`

	Name     string  `gorm:"size:255;not null" json:"name"`
	NameTA   string  `gorm:"size:255" json:"nameTA,omitempty"`
	Unit     string  `gorm:"size:32" json:"unit"`
	UnitTA   string  `gorm:"size:32" json:"unitTA,omitempty"`
	Price    float64 `gorm:"type:decimal(10,2);default:0" json:"price"`
	InStock  bool    `gorm:"default:true" json:"inStock"`
	ImageURL string  `gorm:"size:512" json:"imageUrl,omitempty"`
}

func (Product) TableName() string {
	return "products"
}
