package config

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// setBaseEnv points all filesystem paths into a temp dir so tests never
// touch the real home directory.
func setBaseEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DATABASE_PATH", filepath.Join(dir, "calls.db"))
	t.Setenv("FEEDS_PATH", filepath.Join(dir, "feeds.json"))
}

func TestLoadRequiresAPIKey(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("BROADCASTIFY_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() expected error for missing API key, got nil")
	}
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("BROADCASTIFY_API_KEY", "test-key")
	t.Setenv("BROADCASTIFY_API_URL", "")
	t.Setenv("FEED_IDS", "")
	t.Setenv("SCAN_INTERVAL", "")
	t.Setenv("AUTO_PLAY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.APIKey != "test-key" {
		t.Errorf("APIKey = %q, want %q", cfg.APIKey, "test-key")
	}
	if cfg.APIBaseURL != "https://api.broadcastify.com/calls/v1" {
		t.Errorf("APIBaseURL = %q, want default", cfg.APIBaseURL)
	}
	if cfg.ScanInterval != 30*time.Second {
		t.Errorf("ScanInterval = %v, want 30s", cfg.ScanInterval)
	}
	if cfg.AutoPlay {
		t.Error("AutoPlay = true, want false by default")
	}
	if len(cfg.FeedIDs) != 0 {
		t.Errorf("FeedIDs = %v, want empty", cfg.FeedIDs)
	}
}

func TestLoadScanIntervalClamp(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"BelowMinimum", "3s", 10 * time.Second},
		{"AtMinimum", "10s", 10 * time.Second},
		{"AboveMinimum", "45s", 45 * time.Second},
		{"BareSeconds", "20", 20 * time.Second},
		{"Garbage", "soon", 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv("BROADCASTIFY_API_KEY", "test-key")
			t.Setenv("SCAN_INTERVAL", tt.value)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.ScanInterval != tt.want {
				t.Errorf("ScanInterval = %v, want %v", cfg.ScanInterval, tt.want)
			}
		})
	}
}

func TestLoadTrimsBaseURL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("BROADCASTIFY_API_KEY", "test-key")
	t.Setenv("BROADCASTIFY_API_URL", "https://calls.example.com/v1/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIBaseURL != "https://calls.example.com/v1" {
		t.Errorf("APIBaseURL = %q, want trailing slash removed", cfg.APIBaseURL)
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"Empty", "", nil},
		{"Single", "100", []string{"100"}},
		{"Multiple", "100,200,300", []string{"100", "200", "300"}},
		{"Whitespace", " 100 , 200 ", []string{"100", "200"}},
		{"EmptyEntries", "100,,200,", []string{"100", "200"}},
		{"OnlyCommas", ",,,", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitList(tt.value)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitList(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
