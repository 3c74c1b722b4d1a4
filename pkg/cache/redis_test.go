package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestNewRedisCache(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"redis://localhost:6379/2", false},
		{"redis://:secret@cache.internal:6380", false},
		{"localhost:6379", true},
		{"http://localhost:6379", true},
	}
	for _, tt := range tests {
		c, err := NewRedisCache(tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("NewRedisCache(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
		if c != nil {
			if c.prefix != DefaultRedisPrefix {
				t.Errorf("prefix = %q, want %q", c.prefix, DefaultRedisPrefix)
			}
			c.Close()
		}
	}
}

// TestRedisCache runs against the server named by OCITYSMAP_TEST_REDIS.
func TestRedisCache(t *testing.T) {
	url := os.Getenv("OCITYSMAP_TEST_REDIS")
	if url == "" {
		t.Skip("OCITYSMAP_TEST_REDIS not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(url)
	if err != nil {
		t.Fatalf("NewRedisCache() error = %v", err)
	}
	defer c.Close()
	c.prefix = "ocitysmap-test:"
	t.Cleanup(func() { c.Clear(context.Background()) })

	if _, hit, err := c.Get(ctx, "plan:x"); hit || err != nil {
		t.Fatalf("Get(empty) = %v, %v, want a miss", hit, err)
	}
	if err := c.Set(ctx, "plan:x", []byte(`{"pages":3}`), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	data, hit, err := c.Get(ctx, "plan:x")
	if err != nil || !hit || string(data) != `{"pages":3}` {
		t.Errorf("Get() = %q, %v, %v", data, hit, err)
	}
	n, err := c.Clear(ctx)
	if err != nil || n != 1 {
		t.Errorf("Clear() = %d, %v, want 1", n, err)
	}
	if _, hit, _ := c.Get(ctx, "plan:x"); hit {
		t.Error("Get() after Clear() hit")
	}
}
