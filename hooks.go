package pubcache

// Hooks are lightweight callbacks for high-signal fetch events.
// Implementations MUST be cheap and non-blocking; the fetcher calls them on
// hot paths.
type Hooks interface {
	// A Fetch call joined an already in-flight request for the same key.
	FetchCoalesced(publisherKey string)

	// The server had no entry for the key (404 or no list match); a
	// not-verified record was synthesized and cached.
	NotFoundSynthesized(publisherKey string)

	// Decompression failed and the payload was parsed as an uncompressed
	// message instead.
	DecompressFallback(publisherKey string)

	// Writing the fetched record to the store failed; the record was still
	// delivered to waiters.
	StoreWriteFailed(publisherKey string, err error)
}

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) FetchCoalesced(string)          {}
func (NopHooks) NotFoundSynthesized(string)     {}
func (NopHooks) DecompressFallback(string)      {}
func (NopHooks) StoreWriteFailed(string, error) {}
