package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/neuroscene/internal/server"
	"github.com/matzehuels/neuroscene/pkg/errors"
	"github.com/matzehuels/neuroscene/pkg/params"
	"github.com/matzehuels/neuroscene/pkg/pipeline"
)

// configFile is the file name looked up in the config directory.
const configFile = "config.toml"

// Cache backends accepted in [cache].backend.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
)

// Config is the on-disk configuration. Flags override it; it overrides defaults.
//
//	[params]
//	layers = 4
//	activation = "tanh"
//
//	[render]
//	formats = ["svg", "png"]
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "12h"
type Config struct {
	Params params.Params `toml:"params"`
	Render RenderConfig  `toml:"render"`
	Server ServerConfig  `toml:"server"`
	Cache  CacheConfig   `toml:"cache"`
}

// RenderConfig holds the [render] section.
type RenderConfig struct {
	Width   float64  `toml:"width"`
	Height  float64  `toml:"height"`
	Time    float64  `toml:"time"`
	Formats []string `toml:"formats"`
}

// ServerConfig holds the [server] section.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// CacheConfig holds the [cache] section.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
	TTL       duration `toml:"ttl"`
}

// duration decodes TOML strings such as "90m" into a time.Duration.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Params: params.Default(),
		Render: RenderConfig{
			Width:   pipeline.DefaultWidth,
			Height:  pipeline.DefaultHeight,
			Formats: []string{pipeline.FormatSVG},
		},
		Server: ServerConfig{Addr: server.DefaultAddr},
		Cache: CacheConfig{
			Backend:   backendFile,
			RedisAddr: "localhost:6379",
		},
	}
}

// defaultConfigPath returns $XDG_CONFIG_HOME/neuroscene/config.toml.
func defaultConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// LoadConfig reads path on top of DefaultConfig. A missing file is only an
// error when the path was given explicitly. Keys the schema does not know are
// returned as warnings rather than failing the load.
func LoadConfig(path string, explicit bool) (Config, []string, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil, nil
		}
		return cfg, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}

	var warnings []string
	for _, key := range meta.Undecoded() {
		warnings = append(warnings, fmt.Sprintf("unknown config key %q", key.String()))
	}

	if err := cfg.validate(); err != nil {
		return cfg, warnings, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, warnings, nil
}

// validate rejects values that cannot be clamped into shape: unknown
// activations, formats and cache backends. Numeric parameters are clamped
// later by the pipeline.
func (c *Config) validate() error {
	a, err := params.ParseActivation(string(c.Params.Activation))
	if err != nil {
		return err
	}
	c.Params.Activation = a

	for i, f := range c.Render.Formats {
		c.Render.Formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
	if err := pipeline.ValidateFormats(c.Render.Formats); err != nil {
		return err
	}
	c.Cache.Backend = strings.ToLower(c.Cache.Backend)
	switch c.Cache.Backend {
	case backendFile, backendRedis, backendNone:
	case "":
		c.Cache.Backend = backendFile
	default:
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid cache backend: %q (must be file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache ttl must not be negative")
	}
	return nil
}
