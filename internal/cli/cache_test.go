package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/neuroscene/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(base, "neuroscene"); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirFallsBackToHome(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	dir, err := cacheDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", "neuroscene"); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestNewCacheBackends(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	ctx := context.Background()

	tests := []struct {
		name    string
		backend string
		noCache bool
		want    string
	}{
		{"file", backendFile, false, "*cache.FileCache"},
		{"none", backendNone, false, "cache.NullCache"},
		{"no-cache flag wins", backendFile, true, "cache.NullCache"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(os.Stderr, LogInfo)
			c.Config.Cache.Backend = tt.backend
			c.noCache = tt.noCache
			cc, err := c.newCache(ctx)
			if err != nil {
				t.Fatal(err)
			}
			switch cc.(type) {
			case *cache.FileCache:
				if tt.want != "*cache.FileCache" {
					t.Errorf("got FileCache, want %s", tt.want)
				}
			case cache.NullCache:
				if tt.want != "cache.NullCache" {
					t.Errorf("got NullCache, want %s", tt.want)
				}
			default:
				t.Errorf("unexpected cache %T", cc)
			}
		})
	}
}

func TestNewCacheRedisUnreachable(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	c.Config.Cache.Backend = backendRedis
	c.Config.Cache.RedisAddr = "127.0.0.1:1"

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := c.newCache(ctx); err == nil {
		t.Error("expected an error for an unreachable redis")
	}
}

func TestCacheClearAndPath(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := filepath.Join(base, "neuroscene")

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	_ = fc.Set(ctx, "a", []byte("1"), 0)
	_ = fc.Set(ctx, "b", []byte("2"), 0)

	buf := captureOutput(t)
	if err := execute(t, "cache", "path"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), dir) {
		t.Errorf("cache path output = %q", buf.String())
	}

	buf.Reset()
	if err := execute(t, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Cleared 2 cached entries") {
		t.Errorf("cache clear output = %q", buf.String())
	}
	if _, ok, _ := fc.Get(ctx, "a"); ok {
		t.Error("entry survived clear")
	}
}
