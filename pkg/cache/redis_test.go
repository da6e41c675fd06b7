package cache

import (
	"context"
	"errors"
	"net"
	"os"
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	if classify(nil) != nil {
		t.Error("classify(nil) should be nil")
	}

	opErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	if err := classify(opErr); !IsRetryable(err) || !errors.Is(err, ErrNetwork) {
		t.Errorf("net error should be retryable network error: %v", err)
	}

	plain := errors.New("WRONGTYPE")
	if err := classify(plain); IsRetryable(err) || err != plain {
		t.Errorf("server error should pass through: %v", err)
	}
}

// TestRedisCache runs against a live server when NEUROSCENE_TEST_REDIS is set
// (for example "localhost:6379").
func TestRedisCache(t *testing.T) {
	addr := os.Getenv("NEUROSCENE_TEST_REDIS")
	if addr == "" {
		t.Skip("NEUROSCENE_TEST_REDIS not set")
	}

	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisOptions{Addr: addr, DB: 15})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	key := "neuroscene:test:" + Hash([]byte(t.Name()))
	if _, hit, err := c.Get(ctx, key); err != nil || hit {
		t.Fatalf("fresh key: hit %v err %v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "payload" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("key survived Delete")
	}
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if _, err := NewRedisCache(ctx, RedisOptions{Addr: "127.0.0.1:1"}); err == nil {
		t.Error("expected connection error for unreachable server")
	}
}
