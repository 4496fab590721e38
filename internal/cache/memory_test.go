package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryProviderRoundTrip(t *testing.T) {
	provider := NewMemoryProvider()
	ctx := context.Background()

	if _, err := provider.Get(ctx, "missing"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected cache miss, got %v", err)
	}

	if err := provider.Set(ctx, "key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := provider.Get(ctx, "key")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "value" {
		t.Fatalf("got %q", got)
	}

	if err := provider.Del(ctx, "key"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if _, err := provider.Get(ctx, "key"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss after delete, got %v", err)
	}
}

func TestMemoryProviderExpiry(t *testing.T) {
	provider := NewMemoryProvider()
	ctx := context.Background()

	if err := provider.Set(ctx, "key", []byte("value"), time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := provider.Get(ctx, "key"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected expiry miss, got %v", err)
	}
}

func TestMemoryProviderCopiesValues(t *testing.T) {
	provider := NewMemoryProvider()
	ctx := context.Background()

	payload := []byte("value")
	if err := provider.Set(ctx, "key", payload, 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	payload[0] = 'X'

	got, err := provider.Get(ctx, "key")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "value" {
		t.Fatalf("stored value aliased caller buffer: %q", got)
	}
}

func TestNoopProvider(t *testing.T) {
	provider := NoopProvider{}
	ctx := context.Background()

	if err := provider.Set(ctx, "key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := provider.Get(ctx, "key"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("noop must always miss, got %v", err)
	}
}
