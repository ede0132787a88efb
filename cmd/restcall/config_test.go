package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"

	"github.com/adamwoolhether/rester/internal/validate"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(viper.New(), "", "")
	if err != nil {
		t.Fatalf("exp nil err, got: %v", err)
	}

	exp := config{
		Mode:            "blocking",
		UserAgent:       "restcall/1.0",
		Category:        "restcall",
		LogLevel:        "warn",
		ResponseTimeout: 10 * time.Second,
		ResourceTimeout: 60 * time.Second,
	}
	if diff := cmp.Diff(exp, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := writeFile(t, "restcall.yaml", `
base_url: https://api.example.com/v1
mode: callback
response_timeout: 2s
headers:
  accept: application/json
`)
	t.Setenv("RESTCALL_MODE", "stream")
	t.Setenv("RESTCALL_MAX_IN_FLIGHT", "3")

	cfg, err := loadConfig(viper.New(), path, "")
	if err != nil {
		t.Fatalf("exp nil err, got: %v", err)
	}

	if cfg.Mode != "stream" {
		t.Errorf("mode = %q, want env value stream", cfg.Mode)
	}
	if cfg.BaseURL != "https://api.example.com/v1" {
		t.Errorf("base url = %q", cfg.BaseURL)
	}
	if cfg.ResponseTimeout != 2*time.Second {
		t.Errorf("response timeout = %v", cfg.ResponseTimeout)
	}
	if cfg.MaxInFlight != 3 {
		t.Errorf("max in flight = %d", cfg.MaxInFlight)
	}
	if diff := cmp.Diff(map[string]string{"accept": "application/json"}, cfg.Headers); diff != "" {
		t.Errorf("headers mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_EnvFile(t *testing.T) {
	path := writeFile(t, ".env", "RESTCALL_RPS=5\n")
	t.Cleanup(func() { os.Unsetenv("RESTCALL_RPS") })

	cfg, err := loadConfig(viper.New(), "", path)
	if err != nil {
		t.Fatalf("exp nil err, got: %v", err)
	}

	if cfg.RPS != 5 || cfg.Burst != 5 {
		t.Errorf("rps/burst = %d/%d, want 5/5", cfg.RPS, cfg.Burst)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	testCases := []struct {
		name  string
		env   map[string]string
		field string
	}{
		{
			name:  "unknown mode",
			env:   map[string]string{"RESTCALL_MODE": "fire-and-forget"},
			field: "mode",
		},
		{
			name:  "relative base url",
			env:   map[string]string{"RESTCALL_BASE_URL": "not a url"},
			field: "base_url",
		},
		{
			name:  "bad log level",
			env:   map[string]string{"RESTCALL_LOG_LEVEL": "loud"},
			field: "log_level",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := loadConfig(viper.New(), "", "")

			var fe validate.FieldErrors
			if !errors.As(err, &fe) {
				t.Fatalf("exp FieldErrors, got: %v", err)
			}
			if _, ok := fe.Fields()[tc.field]; !ok {
				t.Errorf("exp error for %q, got %v", tc.field, fe.Fields())
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := loadConfig(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"), ""); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
