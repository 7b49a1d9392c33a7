package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/genricoloni/spotui/internal/config"
	"github.com/genricoloni/spotui/internal/layout"
	"github.com/genricoloni/spotui/internal/service/mpris"
	"github.com/genricoloni/spotui/internal/service/webapi"
	"go.uber.org/fx"
)

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	cfg := config.Default()
	cfg.LogFile = filepath.Join(t.TempDir(), "logs", "spotui.log")
	return cfg
}

// TestAppGraphValidity verifies that the dependency graph is resolvable.
// This test will fail if you forget an fx.Provide for a required interface.
func TestAppGraphValidity(t *testing.T) {
	for _, backend := range []string{config.BackendMPRIS, config.BackendWebAPI} {
		t.Run(backend, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Backend = backend
			if err := fx.ValidateApp(appOptions(cfg, config.Options{})); err != nil {
				t.Errorf("Dependency graph is not valid: %v", err)
			}
		})
	}
}

// TestNewLogger specifically verifies the logger configuration
func TestNewLogger(t *testing.T) {
	cfg := testConfig(t)
	cfg.LogLevel = "debug"

	logger, err := newLogger(cfg)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	logger.Debug("Test logger initialization")
	_ = logger.Sync()

	data, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	for _, want := range []string{"Test logger initialization", `"session"`, `"level":"debug"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log line is missing %s: %s", want, data)
		}
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	cfg := testConfig(t)
	cfg.LogLevel = "loud"
	if _, err := newLogger(cfg); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestNewService(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		check   func(interface{}) bool
		wantErr bool
	}{
		{
			name:    "MPRIS",
			backend: config.BackendMPRIS,
			check:   func(s interface{}) bool { _, ok := s.(*mpris.Client); return ok },
		},
		{
			name:    "Web API",
			backend: config.BackendWebAPI,
			check:   func(s interface{}) bool { _, ok := s.(*webapi.Client); return ok },
		},
		{
			name:    "Unknown",
			backend: "cassette",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Backend = tt.backend
			logger, err := newLogger(cfg)
			if err != nil {
				t.Fatalf("Failed to create logger: %v", err)
			}

			svc, err := newService(cfg, logger)
			if tt.wantErr {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !tt.check(svc) {
				t.Errorf("unexpected service type %T", svc)
			}
		})
	}
}

func TestPrintLayout(t *testing.T) {
	var out bytes.Buffer
	printLayout(&out, layout.NarrowArt, 80, 24)

	text := out.String()
	if !strings.HasPrefix(text, "80x24: narrow") {
		t.Errorf("unexpected header: %q", text)
	}
	for _, want := range []string{"title    false", "image    true     9     6"} {
		if !strings.Contains(text, want) {
			t.Errorf("output is missing %q:\n%s", want, text)
		}
	}
}
