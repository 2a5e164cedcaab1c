// Package pubcache resolves the payout verification status of online content
// publishers: given a publisher key it determines whether that publisher has
// a connected, KYC-verified payout account, using a privacy-preserving remote
// lookup and a local write-through cache.
//
// Components:
//   - Fetcher: coalesces concurrent lookups per key, issues the hash-prefix
//     shaped request, decodes the padded/compressed response and fans the
//     record out to all waiters.
//   - InfoStore: persistent cache of fetched records. Built from a byte-store
//     Provider (Redis, BigCache, Ristretto) and a Codec (msgpack by default).
//   - RefreshStatus: sequential batch refresh of a status map, re-fetching
//     only expired entries that the prefix index says exist remotely.
//
// Privacy model: the lookup URL is built from a fixed-width hash prefix of
// the key, so every request is identical in shape regardless of the
// publisher, and response bodies are padded to a uniform size. The fetcher
// must never vary request parameters or headers by key.
//
// Typical use:
//
//	store, _ := pubcache.NewInfoStore(pubcache.StoreOptions{Provider: prov})
//	f, _ := pubcache.NewFetcher(pubcache.Options{
//		BaseURL: "https://rewards.example.com",
//		Store:   store,
//		Index:   prefixIndex,
//	})
//	info, err := f.GetServerPublisherInfo(ctx, "youtube#channel:UC123")
package pubcache
