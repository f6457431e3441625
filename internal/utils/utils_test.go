package utils

import (
	"net/http/httptest"
	"testing"
)

func TestFormatGBP(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "£0.00"},
		{9.99, "£9.99"},
		{12.5, "£12.50"},
	}
	for _, tt := range tests {
		if got := FormatGBP(tt.in); got != tt.want {
			t.Errorf("FormatGBP(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", " 192.168.1.4 ", "bogus", ""})
	if m.IsEmpty() {
		t.Fatalf("IsEmpty() = true")
	}

	tests := map[string]bool{
		"10.20.30.40":     true,
		"192.168.1.4":     true,
		"192.168.1.5":     false,
		"::ffff:10.1.1.1": true,
		"not-an-ip":       false,
		"2001:db8::1":     false,
	}
	for ip, want := range tests {
		if got := m.Allow(ip); got != want {
			t.Errorf("Allow(%q) = %v, want %v", ip, got, want)
		}
	}

	if !NewIPMatcher(nil).IsEmpty() {
		t.Errorf("NewIPMatcher(nil) should be empty")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "127.0.0.1:5555"
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	if got := ClientIP(r, false); got != "127.0.0.1" {
		t.Errorf("ClientIP(untrusted) = %q", got)
	}
	if got := ClientIP(r, true); got != "203.0.113.9" {
		t.Errorf("ClientIP(trusted) = %q", got)
	}

	r.Header.Set("CF-Connecting-IP", "198.51.100.7")
	if got := ClientIP(r, true); got != "198.51.100.7" {
		t.Errorf("ClientIP(cf) = %q", got)
	}
}
