package redis

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newTestProvider(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	p, err := New(Config{Client: client, CloseClient: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = p.Close(context.Background()) })
	return p, mr
}

func TestNewRequiresClient(t *testing.T) {
	if _, err := New(Config{}); err != ErrNilClient {
		t.Fatalf("expected ErrNilClient, got %v", err)
	}
}

func TestGetSetDel(t *testing.T) {
	ctx := context.Background()
	p, _ := newTestProvider(t)

	// miss
	if _, ok, err := p.Get(ctx, "publisher:test:k"); err != nil || ok {
		t.Fatalf("expected miss, ok=%v err=%v", ok, err)
	}

	val := []byte{0x01, 0x02, 0xFF, 0x00}
	if ok, err := p.Set(ctx, "publisher:test:k", val, 1, 0); err != nil || !ok {
		t.Fatalf("Set: ok=%v err=%v", ok, err)
	}

	got, ok, err := p.Get(ctx, "publisher:test:k")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(got, val) {
		t.Fatalf("value not byte-for-byte transparent: got %x want %x", got, val)
	}

	if err := p.Del(ctx, "publisher:test:k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, ok, _ := p.Get(ctx, "publisher:test:k"); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestTTLExpiry(t *testing.T) {
	ctx := context.Background()
	p, mr := newTestProvider(t)

	if ok, err := p.Set(ctx, "k", []byte("v"), 1, time.Minute); err != nil || !ok {
		t.Fatalf("Set: ok=%v err=%v", ok, err)
	}
	if _, ok, _ := p.Get(ctx, "k"); !ok {
		t.Fatalf("expected hit before expiry")
	}

	mr.FastForward(2 * time.Minute)
	if _, ok, err := p.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("expected miss after TTL, ok=%v err=%v", ok, err)
	}
}

func TestNonPositiveTTLMeansNoExpiry(t *testing.T) {
	ctx := context.Background()
	p, mr := newTestProvider(t)

	if ok, err := p.Set(ctx, "k", []byte("v"), 1, -time.Second); err != nil || !ok {
		t.Fatalf("Set: ok=%v err=%v", ok, err)
	}
	mr.FastForward(24 * time.Hour)
	if _, ok, _ := p.Get(ctx, "k"); !ok {
		t.Fatalf("expected hit; non-positive TTL must mean no expiry")
	}
}
