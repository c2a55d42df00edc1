package state

import (
	"sync"

	"wa_storefront_v1/internal/model"
)

// 平台默认配色
const (
	DefaultPrimaryColor   = "#25D366"
	DefaultSecondaryColor = "#128C7E"
	DefaultTitle          = "WhatsApp Local Orders"
)

// Theme 顾客端页面的展示信息
type Theme struct {
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	LogoURL        string `json:"logoUrl,omitempty"`
	Title          string `json:"title"`
}

// DefaultTheme 未加载店铺时的主题
func DefaultTheme() Theme {
	return Theme{
		PrimaryColor:   DefaultPrimaryColor,
		SecondaryColor: DefaultSecondaryColor,
		Title:          DefaultTitle,
	}
}

// Presentation 会话级的主题，实现 ThemeApplier
type Presentation struct {
	mu    sync.RWMutex
	theme Theme
}

func NewPresentation() *Presentation {
	return &Presentation{theme: DefaultTheme()}
}

// Apply 店铺没配的颜色保留默认值
func (p *Presentation) Apply(shop *model.Shop) {
	if shop == nil {
		return
	}
	t := DefaultTheme()
	data := shop.Theme.Data()
	if data.PrimaryColor != "" {
		t.PrimaryColor = data.PrimaryColor
	}
	if data.SecondaryColor != "" {
		t.SecondaryColor = data.SecondaryColor
	}
	t.LogoURL = data.LogoURL
	if shop.Name != "" {
		t.Title = shop.Name
	}

	p.mu.Lock()
	p.theme = t
	p.mu.Unlock()
}

func (p *Presentation) Reset() {
	p.mu.Lock()
	p.theme = DefaultTheme()
	p.mu.Unlock()
}

func (p *Presentation) Current() Theme {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.theme
}
