package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SHELF_REDIS_ADDR", "")
	t.Setenv("SHELF_PRODUCTS_FILE", "")

	cfg := Load()
	if cfg.ListenPort != ":8080" {
		t.Errorf("ListenPort = %q", cfg.ListenPort)
	}
	if cfg.ProductsFile != "products.json" {
		t.Errorf("ProductsFile = %q", cfg.ProductsFile)
	}
	if cfg.RedisEnabled() {
		t.Errorf("RedisEnabled() = true without an address")
	}
	if cfg.MaxImportBytes != 5<<20 {
		t.Errorf("MaxImportBytes = %d", cfg.MaxImportBytes)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoadRedisRequiresDB(t *testing.T) {
	t.Setenv("SHELF_REDIS_ADDR", "localhost:6379")
	t.Setenv("SHELF_REDIS_DB", "")

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Load() should panic when SHELF_REDIS_DB is missing")
		}
	}()
	Load()
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SHELF_REDIS_ADDR", "redis:6379")
	t.Setenv("SHELF_REDIS_DB", "2")
	t.Setenv("SHELF_ADMIN_CIDRS", "10.0.0.0/8, \"192.168.1.4\"")
	t.Setenv("SHELF_RELOAD_INTERVAL", "30s")
	t.Setenv("SHELF_MAX_IMPORT_BYTES", "1024")

	cfg := Load()
	if !cfg.RedisEnabled() || cfg.RedisDB != 2 {
		t.Errorf("redis = %q db %d", cfg.RedisAddr, cfg.RedisDB)
	}
	if len(cfg.AdminCIDRs) != 2 || cfg.AdminCIDRs[1] != "192.168.1.4" {
		t.Errorf("AdminCIDRs = %v", cfg.AdminCIDRs)
	}
	if cfg.ReloadInterval != 30*time.Second {
		t.Errorf("ReloadInterval = %v", cfg.ReloadInterval)
	}
	if cfg.MaxImportBytes != 1024 {
		t.Errorf("MaxImportBytes = %d", cfg.MaxImportBytes)
	}
}

func TestRequireEnvInt(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		expected  int
		wantPanic bool
	}{
		{name: "valid integer", value: "42", expected: 42},
		{name: "invalid integer", value: "not_a_number", wantPanic: true},
		{name: "missing variable", value: "", wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_INT", tt.value)

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnvInt() should have panicked")
					}
				}()
			}

			result := requireEnvInt("TEST_INT")
			if !tt.wantPanic && result != tt.expected {
				t.Errorf("requireEnvInt() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{" a , 'b',\"c\", ,", []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		got := splitAndTrim(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndTrim(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{"valid duration", "5s", time.Second, 5 * time.Second},
		{"invalid duration uses default", "invalid", 10 * time.Second, 10 * time.Second},
		{"missing variable uses default", "", 15 * time.Second, 15 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			if result := mustDuration("TEST_DURATION", tt.def); result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBoolAndInts(t *testing.T) {
	t.Setenv("TEST_BOOL", "invalid")
	if !mustBool("TEST_BOOL", true) {
		t.Errorf("mustBool(invalid) should use the default")
	}
	t.Setenv("TEST_BOOL", "false")
	if mustBool("TEST_BOOL", true) {
		t.Errorf("mustBool(false) = true")
	}

	t.Setenv("TEST_INT64", "9000000000")
	if got := getenvInt64("TEST_INT64", 1); got != 9000000000 {
		t.Errorf("getenvInt64() = %d", got)
	}
	t.Setenv("TEST_INT64", "x")
	if got := getenvInt("TEST_INT64", 7); got != 7 {
		t.Errorf("getenvInt(invalid) = %d, want default", got)
	}
}
