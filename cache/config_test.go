package cache

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.PageTTL != DefaultPageTTL {
		t.Errorf("expected PageTTL %v, got %v", DefaultPageTTL, cfg.PageTTL)
	}
	if cfg.Capacity <= 0 || cfg.NumShards <= 0 || cfg.TTL <= 0 {
		t.Errorf("expected positive count cache sizing, got %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config to be valid, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "missing page ttl", mutate: func(c *Config) { c.PageTTL = 0 }, wantErr: true},
		{name: "sub millisecond page ttl", mutate: func(c *Config) { c.PageTTL = time.Microsecond }, wantErr: true},
		{name: "zero shards", mutate: func(c *Config) { c.NumShards = 0 }, wantErr: true},
		{name: "eviction out of range", mutate: func(c *Config) { c.EvictionPercentage = 150 }, wantErr: true},
		{
			name: "early refresh",
			mutate: func(c *Config) {
				c.EarlyRefresh = &EarlyRefreshConfig{
					MinAsyncRefreshTime: time.Second,
					MaxAsyncRefreshTime: 2 * time.Second,
					SyncRefreshTime:     3 * time.Second,
					RetryBaseDelay:      time.Millisecond,
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error but got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error but got: %v", err)
			}
		})
	}
}

func TestConfig_InternalRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EarlyRefresh = &EarlyRefreshConfig{MinAsyncRefreshTime: time.Second, MaxAsyncRefreshTime: time.Minute}
	cfg.MissingRecordStorage = true

	back := convertFromInternal(cfg.toInternal())
	back.PageTTL = cfg.PageTTL

	if back.EarlyRefresh == nil || *back.EarlyRefresh != *cfg.EarlyRefresh {
		t.Errorf("expected early refresh to survive conversion, got %+v", back.EarlyRefresh)
	}
	if back.Capacity != cfg.Capacity || !back.MissingRecordStorage {
		t.Errorf("expected fields to survive conversion, got %+v", back)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PAGER_CACHE_CAPACITY", "64")
	t.Setenv("PAGER_CACHE_TTL", "30s")
	t.Setenv("PAGER_PAGE_TTL", "2m")

	cfg, err := LoadConfigFromEnv("PAGER_")
	if err != nil {
		t.Fatalf("LoadConfigFromEnv() unexpected error: %v", err)
	}

	if cfg.Capacity != 64 {
		t.Errorf("expected Capacity 64, got %d", cfg.Capacity)
	}
	if cfg.TTL != 30*time.Second {
		t.Errorf("expected TTL 30s, got %v", cfg.TTL)
	}
	if cfg.PageTTL != 2*time.Minute {
		t.Errorf("expected PageTTL 2m, got %v", cfg.PageTTL)
	}

	defaults := DefaultConfig()
	if cfg.NumShards != defaults.NumShards {
		t.Errorf("expected unset NumShards to keep default %d, got %d", defaults.NumShards, cfg.NumShards)
	}
}

func TestLoadConfigFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "not a number", key: "PAGER_CACHE_CAPACITY", value: "many"},
		{name: "not a duration", key: "PAGER_PAGE_TTL", value: "soon"},
		{name: "fails validation", key: "PAGER_CACHE_EVICTION_PERCENTAGE", value: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			if _, err := LoadConfigFromEnv("PAGER_"); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
