package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/imperialbinding/billing/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwaggerProtection(t *testing.T) {
	gin.SetMode(gin.TestMode)

	serve := func(cfg SwaggerConfig, remoteAddr string) *httptest.ResponseRecorder {
		router := gin.New()
		router.GET("/swagger/*any", SwaggerProtection(cfg), func(c *gin.Context) {
			c.String(http.StatusOK, "docs")
		})
		req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	errorCode := func(t *testing.T, w *httptest.ResponseRecorder) string {
		t.Helper()
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		return resp.Error.Code
	}

	t.Run("disabled returns 404", func(t *testing.T) {
		w := serve(SwaggerConfig{Enabled: false}, "10.0.0.1:1234")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeNotFound, errorCode(t, w))
	})

	t.Run("enabled without whitelist allows all", func(t *testing.T) {
		w := serve(SwaggerConfig{Enabled: true}, "203.0.113.9:1234")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	tests := []struct {
		name       string
		allowed    []string
		remoteAddr string
		wantStatus int
	}{
		{"exact IP match", []string{"192.168.1.10"}, "192.168.1.10:5555", http.StatusOK},
		{"CIDR match", []string{"10.0.0.0/8"}, "10.20.30.40:5555", http.StatusOK},
		{"not in list", []string{"10.0.0.0/8", "192.168.1.10"}, "172.16.0.1:5555", http.StatusForbidden},
		{"invalid entries are skipped", []string{"not-an-ip", "10.0.0.0/99"}, "10.0.0.1:5555", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(SwaggerConfig{Enabled: true, AllowedIPs: tt.allowed}, tt.remoteAddr)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusForbidden {
				assert.Equal(t, dto.ErrCodeForbidden, errorCode(t, w))
			}
		})
	}
}

func TestIsIPAllowed(t *testing.T) {
	ips, nets := parseAllowList([]string{" 127.0.0.1 ", "::1", "fd00::/8"})

	assert.True(t, isIPAllowed(net.ParseIP("127.0.0.1"), ips, nets))
	assert.True(t, isIPAllowed(net.ParseIP("::1"), ips, nets))
	assert.True(t, isIPAllowed(net.ParseIP("fd12::1"), ips, nets))
	assert.False(t, isIPAllowed(net.ParseIP("8.8.8.8"), ips, nets))
	assert.False(t, isIPAllowed(nil, ips, nets))
}
