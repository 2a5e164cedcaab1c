package pubcache

import (
	"context"
	"fmt"
	"time"

	c "github.com/openrewards/pubcache/codec"
	pr "github.com/openrewards/pubcache/provider"
)

// StoreOptions configure a provider-backed InfoStore. Only Provider is
// required.
type StoreOptions struct {
	Provider pr.Provider

	// Namespace isolates this store's keyspace within a shared provider.
	// "" => "publisher".
	Namespace string

	// Codec serializes records. nil => msgpack.
	Codec c.Codec[*ServerPublisherInfo]

	// TTL is handed to the provider per write. 0 => no provider-side expiry;
	// staleness is still enforced by the fetcher's expiry policy on read.
	TTL time.Duration

	// MaxEntryBytes rejects oversized payloads on read. 0 => unlimited.
	MaxEntryBytes int

	Logger Logger // nil => NopLogger
}

type infoStore struct {
	ns       string
	provider pr.Provider
	codec    c.Codec[*ServerPublisherInfo]
	ttl      time.Duration
	log      Logger
}

// NewInfoStore builds an InfoStore on top of a byte-store provider (redis,
// bigcache, ristretto, or anything implementing provider.Provider).
func NewInfoStore(opts StoreOptions) (InfoStore, error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("pubcache: store provider is required")
	}

	s := &infoStore{
		ns:       coalesce[string](opts.Namespace, "publisher"),
		provider: opts.Provider,
		ttl:      opts.TTL,
	}
	s.log = coalesce[Logger](opts.Logger, NopLogger{})

	var codec c.Codec[*ServerPublisherInfo] = c.Msgpack[*ServerPublisherInfo]{}
	if opts.Codec != nil {
		codec = opts.Codec
	}
	if opts.MaxEntryBytes > 0 {
		codec = c.Limit[*ServerPublisherInfo]{Inner: codec, MaxDecode: opts.MaxEntryBytes}
	}
	s.codec = codec

	return s, nil
}

func (s *infoStore) Get(ctx context.Context, publisherKey string) (*ServerPublisherInfo, bool, error) {
	k := s.storageKey(publisherKey)
	raw, ok, err := s.provider.Get(ctx, k)
	if err != nil || !ok {
		return nil, false, err
	}
	info, err := s.codec.Decode(raw)
	if err != nil {
		// self-heal: a corrupt entry is as good as a miss
		s.log.Warn("dropping corrupt publisher info entry", Fields{"publisher": publisherKey, "err": err})
		_ = s.provider.Del(ctx, k)
		return nil, false, nil
	}
	return info, true, nil
}

func (s *infoStore) Insert(ctx context.Context, info *ServerPublisherInfo) error {
	if info == nil || info.PublisherKey == "" {
		return fmt.Errorf("pubcache: cannot store a record without a publisher key")
	}
	raw, err := s.codec.Encode(info)
	if err != nil {
		return err
	}
	k := s.storageKey(info.PublisherKey)
	ok, err := s.provider.Set(ctx, k, raw, int64(len(raw)), s.ttl)
	if err != nil {
		return err
	}
	if !ok {
		s.log.Debug("publisher info write rejected by provider (pressure)", Fields{"publisher": info.PublisherKey})
	}
	return nil
}

func (s *infoStore) Close(ctx context.Context) error {
	return s.provider.Close(ctx)
}

func (s *infoStore) storageKey(publisherKey string) string {
	return "publisher:" + s.ns + ":" + publisherKey
}
