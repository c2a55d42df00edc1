package controller

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"wa_storefront_v1/internal/service"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{service.ErrShopNotFound, http.StatusNotFound},
		{fmt.Errorf("wrap: %w", service.ErrOrderNotFound), http.StatusNotFound},
		{service.ErrInvalidPhone, http.StatusBadRequest},
		{service.ErrProductOutOfStock, http.StatusBadRequest},
		{service.ErrOwnershipExists, http.StatusConflict},
		{service.ErrNoContactNumber, http.StatusUnprocessableEntity},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusOf(tt.err), tt.err.Error())
	}
}

func TestSafeReturnURL(t *testing.T) {
	assert.Equal(t, "/seller/annas/orders", safeReturnURL("/seller/annas/orders"))
	assert.Equal(t, "/admin/sellers?page=2", safeReturnURL(" /admin/sellers?page=2 "))
	assert.Empty(t, safeReturnURL("https://evil.example.com"))
	assert.Empty(t, safeReturnURL("//evil.example.com"))
	assert.Empty(t, safeReturnURL("/\\evil.example.com"))
	assert.Empty(t, safeReturnURL(""))
}
