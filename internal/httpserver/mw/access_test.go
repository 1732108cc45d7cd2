package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrSnakeDoc/toolshelf/internal/logger"
)

func TestAllowOnlyCIDRS(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		trustProxy bool
		remote     string
		xff        string
		want       int
	}{
		{name: "empty list passes", remote: "198.51.100.7:1", want: http.StatusOK},
		{name: "cidr match", allowed: []string{"10.0.0.0/8"}, remote: "10.2.3.4:1", want: http.StatusOK},
		{name: "single ip", allowed: []string{"192.0.2.9"}, remote: "192.0.2.9:1", want: http.StatusOK},
		{name: "outside", allowed: []string{"10.0.0.0/8"}, remote: "192.0.2.9:1", want: http.StatusForbidden},
		{name: "xff ignored without trust", allowed: []string{"10.0.0.0/8"}, remote: "192.0.2.9:1", xff: "10.0.0.1", want: http.StatusForbidden},
		{name: "xff honoured with trust", allowed: []string{"10.0.0.0/8"}, trustProxy: true, remote: "192.0.2.9:1", xff: "10.0.0.1, 192.0.2.9", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := AllowOnlyCIDRS(tt.allowed, tt.trustProxy, logger.Nop())(okHandler)

			req := httptest.NewRequest(http.MethodGet, "/infra", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestEnforceHostPatterns(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		host     string
		want     int
	}{
		{name: "no patterns", host: "anything", want: http.StatusOK},
		{name: "exact", patterns: []string{"tools.lan"}, host: "tools.lan", want: http.StatusOK},
		{name: "wildcard subdomain", patterns: []string{"*.example.com"}, host: "shelf.example.com", want: http.StatusOK},
		{name: "wildcard port", patterns: []string{"tools.lan:*"}, host: "tools.lan:8080", want: http.StatusOK},
		{name: "bare domain not covered", patterns: []string{"*.example.com"}, host: "example.com", want: http.StatusForbidden},
		{name: "mismatch", patterns: []string{"tools.lan"}, host: "evil.lan", want: http.StatusForbidden},
		{name: "only invalid patterns fails closed", patterns: []string{"[oops"}, host: "tools.lan", want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := EnforceHost(tt.patterns, logger.Nop())(okHandler)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Host = tt.host
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
