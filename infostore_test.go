package pubcache

import (
	"context"
	"strings"
	"testing"
	"time"

	c "github.com/openrewards/pubcache/codec"
	pr "github.com/openrewards/pubcache/provider"
)

type memEntry struct {
	v   []byte
	exp time.Time // zero => no TTL
}

type memProvider struct {
	m map[string]memEntry
}

var _ pr.Provider = (*memProvider)(nil)

func newMemProvider() *memProvider { return &memProvider{m: make(map[string]memEntry)} }

func (p *memProvider) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := p.m[key]
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		delete(p.m, key)
		return nil, false, nil
	}
	return e.v, true, nil
}

func (p *memProvider) Set(_ context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	p.m[key] = memEntry{v: value, exp: exp}
	return true, nil
}

func (p *memProvider) Del(_ context.Context, key string) error { delete(p.m, key); return nil }
func (p *memProvider) Close(_ context.Context) error           { return nil }

func newTestStore(t *testing.T, mp pr.Provider, optsOpt func(*StoreOptions)) InfoStore {
	t.Helper()
	opts := StoreOptions{Provider: mp}
	if optsOpt != nil {
		optsOpt(&opts)
	}
	s, err := NewInfoStore(opts)
	if err != nil {
		t.Fatalf("NewInfoStore: %v", err)
	}
	return s
}

func TestInfoStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	s := newTestStore(t, mp, nil)
	defer s.Close(ctx)

	// Miss initially.
	if _, ok, err := s.Get(ctx, "creator.example"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	want := &ServerPublisherInfo{
		PublisherKey: "creator.example",
		Status:       StatusVerified,
		Address:      "wallet-1",
		UpdatedAt:    time.Unix(1700000000, 0).UTC(),
		Banner: &PublisherBanner{
			Title:   "Hi",
			Amounts: []float64{1, 5},
			Links:   map[string]string{"twitch": "https://twitch.tv/x"},
		},
	}
	if err := s.Insert(ctx, want); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, ok, err := s.Get(ctx, "creator.example")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got.PublisherKey != want.PublisherKey || got.Status != want.Status || got.Address != want.Address {
		t.Fatalf("record mismatch: got %+v", got)
	}
	if !got.UpdatedAt.Equal(want.UpdatedAt) {
		t.Fatalf("UpdatedAt: got %v want %v", got.UpdatedAt, want.UpdatedAt)
	}
	if got.Banner == nil || got.Banner.Title != "Hi" || got.Banner.Links["twitch"] != "https://twitch.tv/x" {
		t.Fatalf("banner mismatch: %+v", got.Banner)
	}
}

func TestInfoStoreSupersedesOnInsert(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, newMemProvider(), nil)
	defer s.Close(ctx)

	first := &ServerPublisherInfo{PublisherKey: "k", Status: StatusConnected, UpdatedAt: time.Unix(1, 0)}
	second := &ServerPublisherInfo{PublisherKey: "k", Status: StatusVerified, UpdatedAt: time.Unix(2, 0)}
	if err := s.Insert(ctx, first); err != nil {
		t.Fatalf("Insert first: %v", err)
	}
	if err := s.Insert(ctx, second); err != nil {
		t.Fatalf("Insert second: %v", err)
	}
	got, ok, _ := s.Get(ctx, "k")
	if !ok || got.Status != StatusVerified {
		t.Fatalf("expected superseding record, got %+v", got)
	}
}

func TestInfoStoreRejectsEmptyKey(t *testing.T) {
	s := newTestStore(t, newMemProvider(), nil)
	if err := s.Insert(context.Background(), &ServerPublisherInfo{}); err == nil {
		t.Fatalf("expected error for empty publisher key")
	}
	if err := s.Insert(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil record")
	}
}

func TestInfoStoreSelfHealsCorruptEntry(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	s := newTestStore(t, mp, func(o *StoreOptions) { o.Namespace = "test" })
	defer s.Close(ctx)

	storageKey := "publisher:test:bad"
	if _, err := mp.Set(ctx, storageKey, []byte("not-msgpack\xff"), 1, 0); err != nil {
		t.Fatalf("inject corrupt: %v", err)
	}

	if _, ok, err := s.Get(ctx, "bad"); err != nil || ok {
		t.Fatalf("corrupt entry must read as miss, ok=%v err=%v", ok, err)
	}
	if _, ok := mp.m[storageKey]; ok {
		t.Fatalf("corrupt entry was not deleted by self-heal")
	}
}

func TestInfoStoreMaxEntryBytes(t *testing.T) {
	ctx := context.Background()
	mp := newMemProvider()
	s := newTestStore(t, mp, func(o *StoreOptions) { o.MaxEntryBytes = 8 })
	defer s.Close(ctx)

	info := &ServerPublisherInfo{
		PublisherKey: "big",
		Banner:       &PublisherBanner{Description: strings.Repeat("x", 1024)},
	}
	if err := s.Insert(ctx, info); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	// Entry exceeds the decode limit: treated as corrupt, healed to a miss.
	if _, ok, err := s.Get(ctx, "big"); err != nil || ok {
		t.Fatalf("oversized entry must read as miss, ok=%v err=%v", ok, err)
	}
}

func TestInfoStoreAlternativeCodecs(t *testing.T) {
	ctx := context.Background()
	codecs := map[string]c.Codec[*ServerPublisherInfo]{
		"json": c.JSON[*ServerPublisherInfo]{},
		"cbor": c.MustCBOR[*ServerPublisherInfo](true),
	}
	for name, cd := range codecs {
		s := newTestStore(t, newMemProvider(), func(o *StoreOptions) { o.Codec = cd })
		want := &ServerPublisherInfo{PublisherKey: "k", Status: StatusConnected, UpdatedAt: time.Unix(42, 0).UTC()}
		if err := s.Insert(ctx, want); err != nil {
			t.Fatalf("%s: Insert: %v", name, err)
		}
		got, ok, err := s.Get(ctx, "k")
		if err != nil || !ok || got.Status != StatusConnected {
			t.Fatalf("%s: Get: ok=%v err=%v got=%+v", name, ok, err, got)
		}
		_ = s.Close(ctx)
	}
}
