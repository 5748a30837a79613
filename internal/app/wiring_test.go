package app_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"hotel_attractions/internal/app"
	"hotel_attractions/internal/shared"
)

func TestPlacesFromConfig(t *testing.T) {
	if c := app.PlacesFromConfig(shared.Config{}); c != nil {
		t.Fatalf("empty key should disable the client, got %T", c)
	}
	if c := app.PlacesFromConfig(shared.Config{PlacesKey: "k", PlacesRPS: 1}); c == nil {
		t.Fatalf("expected a client")
	}
}

func TestCacheFromConfig(t *testing.T) {
	ctx := context.Background()

	if c, closeFn := app.CacheFromConfig(ctx, shared.Config{}); c != nil {
		t.Fatalf("no addr should disable the cache")
	} else {
		closeFn()
	}

	mr := miniredis.RunT(t)
	c, closeFn := app.CacheFromConfig(ctx, shared.Config{RedisAddr: mr.Addr()})
	defer closeFn()
	if c == nil {
		t.Fatalf("expected a cache")
	}
	if err := c.Set(ctx, "k", []string{"v"}, 60); err != nil {
		t.Fatalf("Set: %v", err)
	}
	var got []string
	if hit, err := c.Get(ctx, "k", &got); err != nil || !hit || got[0] != "v" {
		t.Fatalf("Get: %v %v %v", hit, err, got)
	}

	addr := mr.Addr()
	mr.Close()
	if c, _ := app.CacheFromConfig(ctx, shared.Config{RedisAddr: addr}); c != nil {
		t.Fatalf("unreachable redis should disable the cache")
	}
}
