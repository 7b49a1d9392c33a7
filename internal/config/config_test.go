package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

// isolate points every environment lookup at a temporary directory
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CACHE_HOME", dir)
	t.Setenv("SPOTUI_CONFIG", "")
	t.Setenv("SPOTUI_BACKEND", "")
	t.Setenv("SPOTUI_ACCESS_TOKEN", "")
	t.Setenv("SPOTUI_LOG_FILE", "")
	t.Setenv("SPOTUI_PLAYER", "")
	return dir
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	isolate(t)

	cfg, err := Load(Options{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend != BackendMPRIS {
		t.Errorf("Backend = %q, want %q", cfg.Backend, BackendMPRIS)
	}
	if cfg.RefreshInterval != time.Second {
		t.Errorf("RefreshInterval = %s, want 1s", cfg.RefreshInterval)
	}
	if cfg.FetchTimeout != 3*time.Second {
		t.Errorf("FetchTimeout = %s, want 3s", cfg.FetchTimeout)
	}
	if cfg.Layout.Narrow != NarrowArt {
		t.Errorf("Layout.Narrow = %q, want %q", cfg.Layout.Narrow, NarrowArt)
	}
	if !cfg.Art.Enabled {
		t.Error("Art.Enabled should default to true")
	}
	if cfg.Path() != "" {
		t.Errorf("Path() = %q, want empty", cfg.Path())
	}
}

func TestLoad_Files(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		check    func(t *testing.T, cfg *AppConfig)
	}{
		{
			name:     "TOML",
			filename: "config.toml",
			content: `backend = "webapi"
refresh_interval = "2s"
fetch_timeout = "5s"
search_limit = 10

[layout]
narrow = "plain"

[webapi]
access_token = "abc"
`,
			check: func(t *testing.T, cfg *AppConfig) {
				if cfg.Backend != BackendWebAPI {
					t.Errorf("Backend = %q", cfg.Backend)
				}
				if cfg.RefreshInterval != 2*time.Second {
					t.Errorf("RefreshInterval = %s", cfg.RefreshInterval)
				}
				if cfg.FetchTimeout != 5*time.Second {
					t.Errorf("FetchTimeout = %s", cfg.FetchTimeout)
				}
				if cfg.SearchLimit != 10 {
					t.Errorf("SearchLimit = %d", cfg.SearchLimit)
				}
				if cfg.Layout.Narrow != NarrowPlain {
					t.Errorf("Layout.Narrow = %q", cfg.Layout.Narrow)
				}
				if cfg.WebAPI.AccessToken != "abc" {
					t.Errorf("AccessToken = %q", cfg.WebAPI.AccessToken)
				}
				if cfg.WebAPI.BaseURL != defaultWebAPIBaseURL {
					t.Errorf("BaseURL should keep its default, got %q", cfg.WebAPI.BaseURL)
				}
			},
		},
		{
			name:     "YAML",
			filename: "config.yaml",
			content: `backend: mpris
refresh_interval: 500ms
mpris:
  player: vlc
art:
  enabled: false
`,
			check: func(t *testing.T, cfg *AppConfig) {
				if cfg.RefreshInterval != 500*time.Millisecond {
					t.Errorf("RefreshInterval = %s", cfg.RefreshInterval)
				}
				if cfg.MPRIS.Player != "vlc" {
					t.Errorf("Player = %q", cfg.MPRIS.Player)
				}
				if cfg.Art.Enabled {
					t.Error("Art.Enabled should be false")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, tt.filename)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			cfg, err := Load(Options{Path: path})
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Path() != path {
				t.Errorf("Path() = %q, want %q", cfg.Path(), path)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("backend = \"webapi\"\nrefresh_interval = \"4s\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SPOTUI_CONFIG", path)
	t.Setenv("SPOTUI_BACKEND", "mpris")
	t.Setenv("SPOTUI_PLAYER", "ncspot")

	cfg, err := Load(Options{Interval: 250 * time.Millisecond, Debug: true})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend != BackendMPRIS {
		t.Errorf("env should override file backend, got %q", cfg.Backend)
	}
	if cfg.RefreshInterval != 250*time.Millisecond {
		t.Errorf("flag should override file interval, got %s", cfg.RefreshInterval)
	}
	if cfg.MPRIS.Player != "ncspot" {
		t.Errorf("Player = %q", cfg.MPRIS.Player)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}

	cfg, err = Load(Options{Backend: BackendWebAPI})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend != BackendWebAPI {
		t.Errorf("flag should override env backend, got %q", cfg.Backend)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name          string
		content       string
		missing       bool
		expectedError []string
	}{
		{
			name:          "Explicit path missing",
			missing:       true,
			expectedError: []string{"no such file"},
		},
		{
			name:          "Malformed TOML",
			content:       "backend = ",
			expectedError: []string{"parsing config"},
		},
		{
			name:    "Every invalid field is reported",
			content: "backend = \"cd\"\nsearch_limit = 0\n[layout]\nnarrow = \"tiny\"\n",
			expectedError: []string{
				"unknown backend",
				"search_limit",
				"layout.narrow",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, "config.toml")
			if !tt.missing {
				if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			_, err := Load(Options{Path: path})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			for _, want := range tt.expectedError {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("expected error '%s' to contain '%s'", err.Error(), want)
				}
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandPath("~/logs/x.log"); got != filepath.Join(home, "logs/x.log") {
		t.Errorf("expandPath(~) = %q", got)
	}
	t.Setenv("SPOTUI_TEST_DIR", "/var/tmp")
	if got := expandPath("$SPOTUI_TEST_DIR/a"); got != "/var/tmp/a" {
		t.Errorf("expandPath($VAR) = %q", got)
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("search_limit = 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan *AppConfig, 4)
	w, err := Watch(zap.NewNop(), path, Options{}, func(cfg *AppConfig) {
		reloaded <- cfg
	})
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("search_limit = 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.SearchLimit != 9 {
			t.Errorf("SearchLimit = %d, want 9", cfg.SearchLimit)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Timeout: configuration was not reloaded")
	}
}

func TestWatch_CloseIsIdempotent(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")

	w, err := Watch(zap.NewNop(), path, Options{}, nil)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("first Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
