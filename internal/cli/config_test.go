package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// clearEnv unsets every variable LoadConfig reads.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{envConfig, envTargetURL, envHeadless, envPort} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mydungeon.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[data]
csv_dir = "/srv/csv"

[fetch]
backend = "http"
endpoint = "http://scraper:9000/numbers"
timeout = "45s"

[cache]
backend = "redis"
redis_url = "redis://localhost:6379/0"
ttl = "1h"

[server]
cors_origins = ["https://example.com"]
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	want := DefaultConfig()
	want.Data.CSVDir = "/srv/csv"
	want.Fetch.Backend = fetchHTTP
	want.Fetch.Endpoint = "http://scraper:9000/numbers"
	want.Fetch.Timeout = 45 * time.Second
	want.Cache.Backend = cacheRedis
	want.Cache.RedisURL = "redis://localhost:6379/0"
	want.Cache.TTL = time.Hour
	want.Server.CORSOrigins = []string{"https://example.com"}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigFromEnvPath(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[data]\noutput_dir = \"/tmp/results\"\n")
	t.Setenv(envConfig, path)

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Data.OutputDir != "/tmp/results" {
		t.Errorf("OutputDir = %q, want /tmp/results", cfg.Data.OutputDir)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv(envTargetURL, "http://localhost:3000/")
	t.Setenv(envHeadless, "false")
	t.Setenv(envPort, "9090")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Fetch.TargetURL != "http://localhost:3000/" {
		t.Errorf("TargetURL = %q", cfg.Fetch.TargetURL)
	}
	if cfg.Fetch.Headless {
		t.Error("Headless = true, want false")
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Server.Addr)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unknown key",
			body:    "[fetch]\nbackned = \"rod\"\n",
			wantErr: "unknown key fetch.backned",
		},
		{
			name:    "malformed toml",
			body:    "[fetch\n",
			wantErr: "read config",
		},
		{
			name:    "unknown backend",
			body:    "[storage]\nbackend = \"s3\"\n",
			wantErr: "storage.backend",
		},
		{
			name:    "http without endpoint",
			body:    "[fetch]\nbackend = \"http\"\n",
			wantErr: "fetch.endpoint",
		},
		{
			name:    "mongo without uri",
			body:    "[storage]\nbackend = \"mongo\"\n",
			wantErr: "storage.mongo_uri",
		},
		{
			name:    "zero burst",
			body:    "[fetch]\nrate_interval = \"1s\"\nrate_burst = 0\n",
			wantErr: "rate_burst",
		},
		{
			name:    "bad port",
			env:     map[string]string{envPort: "http"},
			wantErr: "invalid port",
		},
		{
			name:    "bad headless",
			env:     map[string]string{envHeadless: "maybe"},
			wantErr: envHeadless,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := writeConfig(t, tt.body)
			_, err := LoadConfig(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	clearEnv(t)
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}
