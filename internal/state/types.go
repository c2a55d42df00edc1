package state

import (
	"fmt"

	"wa_storefront_v1/internal/identity"
	"wa_storefront_v1/internal/model"
)

// Phase 加载状态机
// Empty -> Loading(slug) -> Loaded | NotFound | Error，任意状态可回到 Loading 或被清空
type Phase int

const (
	PhaseEmpty Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseNotFound
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseNotFound:
		return "not_found"
	case PhaseError:
		return "error"
	}
	return "unknown"
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for c := PhaseEmpty; c <= PhaseError; c++ {
		if c.String() == string(text) {
			*p = c
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// State 某一时刻的会话状态快照
type State struct {
	CurrentUser *identity.User `json:"currentUser"`
	CurrentShop *model.Shop    `json:"currentShop"`
	IsLoading   bool           `json:"isLoading"`
	Error       string         `json:"error,omitempty"`
	Phase       Phase          `json:"phase"`
	Slug        string         `json:"slug,omitempty"`
}

// Equal 店铺按指针比较，用户按值比较
func (s State) Equal(o State) bool {
	return s.CurrentShop == o.CurrentShop &&
		sameUser(s.CurrentUser, o.CurrentUser) &&
		s.IsLoading == o.IsLoading &&
		s.Error == o.Error &&
		s.Phase == o.Phase &&
		s.Slug == o.Slug
}

// IsEmpty 是否为初始状态
func (s State) IsEmpty() bool {
	return s.Equal(State{})
}

func sameUser(a, b *identity.User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
