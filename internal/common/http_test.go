package common

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientIP(t *testing.T) {
	cases := []struct {
		name   string
		remote string
		want   string
	}{
		{name: "ipv4 with port", remote: "192.0.2.10:4000", want: "192.0.2.10"},
		{name: "ipv6 with port", remote: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "bare address", remote: "192.0.2.11", want: "192.0.2.11"},
		{name: "rewritten by RealIP", remote: "203.0.113.7", want: "203.0.113.7"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remote
			require.Equal(t, tc.want, ClientIP(req))
		})
	}

	require.Empty(t, ClientIP(nil))
}

func TestClientIPIgnoresForwardingHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:4000"
	req.Header.Set("X-Forwarded-For", "198.51.100.1")
	req.Header.Set("X-Real-IP", "198.51.100.2")
	require.Equal(t, "192.0.2.10", ClientIP(req))
}

func TestJSONUnencodableValue(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusOK, map[string]float64{"total": math.Inf(1)})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":{"code":"INTERNAL","message":"response could not be encoded"}}`, rec.Body.String())
}
