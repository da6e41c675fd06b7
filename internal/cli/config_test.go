package cli

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/neuroscene/pkg/errors"
	"github.com/matzehuels/neuroscene/pkg/params"
	"github.com/matzehuels/neuroscene/pkg/pipeline"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")

	cfg, warnings, err := LoadConfig(path, false)
	if err != nil || len(warnings) != 0 {
		t.Fatalf("implicit missing file: %v %v", warnings, err)
	}
	if cfg.Params != params.Default() || cfg.Cache.Backend != backendFile {
		t.Errorf("defaults not applied: %+v", cfg)
	}

	if _, _, err := LoadConfig(path, true); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("explicit missing file error = %v", err)
	}
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
[params]
layers = 6
activation = "tanh"

[render]
width = 1024
formats = ["SVG", "dot"]

[server]
addr = ":9000"

[cache]
backend = "redis"
redis_addr = "cache:6379"
redis_db = 2
ttl = "90m"
`)
	cfg, warnings, err := LoadConfig(path, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	def := params.Default()
	if cfg.Params.LayerCount != 6 || cfg.Params.Activation != params.ActivationTanh || cfg.Params.Neurons != def.Neurons {
		t.Errorf("params = %+v", cfg.Params)
	}
	if cfg.Render.Width != 1024 || cfg.Render.Height != pipeline.DefaultHeight {
		t.Errorf("render = %+v", cfg.Render)
	}
	if !slices.Equal(cfg.Render.Formats, []string{"svg", "dot"}) {
		t.Errorf("formats = %v", cfg.Render.Formats)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Cache.Backend != backendRedis || cfg.Cache.RedisAddr != "cache:6379" || cfg.Cache.RedisDB != 2 {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Cache.TTL.Duration != 90*time.Minute {
		t.Errorf("ttl = %v", cfg.Cache.TTL.Duration)
	}
}

func TestLoadConfigUnknownKeysWarn(t *testing.T) {
	path := writeConfig(t, `
[params]
layers = 4
dropout = 0.5

[theme]
dark = true
`)
	_, warnings, err := LoadConfig(path, true)
	if err != nil {
		t.Fatal(err)
	}
	joined := strings.Join(warnings, "\n")
	if !strings.Contains(joined, `"params.dropout"`) || !strings.Contains(joined, "theme") {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestLoadConfigRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"syntax", "[params\nlayers = ", errors.ErrCodeInvalidInput},
		{"format", "[render]\nformats = [\"gif\"]", errors.ErrCodeInvalidFormat},
		{"backend", "[cache]\nbackend = \"memcached\"", errors.ErrCodeInvalidInput},
		{"activation", "[params]\nactivation = \"gelu\"", errors.ErrCodeInvalidParameter},
		{"ttl", "[cache]\nttl = \"soon\"", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := LoadConfig(writeConfig(t, tt.body), true)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSetupReadsXDGConfig(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)
	dir := filepath.Join(base, "neuroscene")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	body := "[params]\nneurons = 9\n[cache]\nbackend = \"none\"\n"
	if err := os.WriteFile(filepath.Join(dir, configFile), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(os.Stderr, LogInfo)
	root := c.RootCommand()
	if err := c.setup(root, nil); err != nil {
		t.Fatal(err)
	}
	if c.Config.Params.Neurons != 9 || c.Config.Cache.Backend != backendNone {
		t.Errorf("config not loaded: %+v", c.Config)
	}
}
