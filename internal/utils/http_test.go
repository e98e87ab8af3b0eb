package utils

import (
	"net/http"
	"testing"
)

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{
			name:       "X-Forwarded-For with multiple hops",
			headers:    map[string]string{"X-Forwarded-For": " 203.0.113.195 , 70.41.3.18"},
			remoteAddr: "10.0.0.1:1234",
			expected:   "203.0.113.195",
		},
		{
			name:       "empty first X-Forwarded-For hop falls through",
			headers:    map[string]string{"X-Forwarded-For": " , 70.41.3.18"},
			remoteAddr: "10.0.0.1:1234",
			expected:   "10.0.0.1",
		},
		{
			name: "X-Forwarded-For takes precedence over X-Real-IP",
			headers: map[string]string{
				"X-Forwarded-For": "203.0.113.195",
				"X-Real-IP":       "70.41.3.18",
			},
			remoteAddr: "10.0.0.1:1234",
			expected:   "203.0.113.195",
		},
		{
			name:       "X-Real-IP",
			headers:    map[string]string{"X-Real-IP": "203.0.113.195"},
			remoteAddr: "10.0.0.1:1234",
			expected:   "203.0.113.195",
		},
		{
			name:       "Forwarded IPv4",
			headers:    map[string]string{"Forwarded": "for=192.0.2.60;proto=http;by=203.0.113.43"},
			remoteAddr: "10.0.0.1:1234",
			expected:   "192.0.2.60",
		},
		{
			name:       "Forwarded quoted IPv6 with port",
			headers:    map[string]string{"Forwarded": `For="[2001:db8:cafe::17]:4711", for=198.51.100.17`},
			remoteAddr: "10.0.0.1:1234",
			expected:   "2001:db8:cafe::17",
		},
		{
			name:       "Forwarded without for falls back",
			headers:    map[string]string{"Forwarded": "proto=https"},
			remoteAddr: "10.0.0.1:1234",
			expected:   "10.0.0.1",
		},
		{
			name:       "RemoteAddr without port",
			remoteAddr: "203.0.113.195",
			expected:   "203.0.113.195",
		},
		{
			name:       "RemoteAddr IPv6",
			remoteAddr: "[2001:db8::1]:8080",
			expected:   "2001:db8::1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, "http://example.com", nil)
			if err != nil {
				t.Fatalf("failed to create request: %v", err)
			}
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			req.RemoteAddr = tt.remoteAddr

			if got := GetClientIP(req); got != tt.expected {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.expected)
			}
		})
	}
}
