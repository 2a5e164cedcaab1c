package pubcache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/openrewards/pubcache/internal/util"
)

const (
	// Number of hash bytes encoded into the lookup URL. Two bytes gives a
	// four character hex prefix and 65536 buckets.
	defaultPrefixBytes = 2

	// Cache lifetime of publisher records. Shared with the publisher prefix
	// list refresh interval so a record never outlives the index that
	// justified fetching it.
	defaultInfoTTL = 7 * 24 * time.Hour
)

// Doer issues HTTP requests. *http.Client satisfies it; request timeouts are
// the transport's responsibility, not the fetcher's.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// PrefixIndex reports whether a publisher key can possibly exist in the
// remote directory. Backed by the locally synced hash-prefix list; used by
// RefreshStatus to avoid lookups for keys known not to exist.
type PrefixIndex interface {
	Contains(ctx context.Context, publisherKey string) (bool, error)
}

// Options tune the fetcher. Only BaseURL is required.
type Options struct {
	// Required. Scheme and host of the publisher lookup service, e.g.
	// "https://rewards.example.com". The fetcher appends "/prefix/<hex>".
	BaseURL string

	HTTPClient Doer        // nil => http.DefaultClient
	Store      InfoStore   // nil => fetched records are not persisted
	Index      PrefixIndex // nil => RefreshStatus fetches every stale key
	Logger     Logger      // nil => NopLogger
	Hooks      Hooks       // nil => NopHooks

	// InfoTTL bounds the freshness of a cached record. 0 => 7 days.
	InfoTTL time.Duration

	// ProxyURLPrefix is prepended to banner image URLs so that they load
	// through an image proxy instead of the publisher's origin. Empty =>
	// URLs are kept verbatim.
	ProxyURLPrefix string

	// PrefixBytes is the hash prefix width in bytes. 0 => 2.
	PrefixBytes int
}

type fetchResult struct {
	info *ServerPublisherInfo
	err  error
}

// Fetcher resolves publisher verification status from the lookup service,
// coalescing concurrent lookups per key and writing results through to the
// configured store. Safe for concurrent use.
type Fetcher struct {
	baseURL     string
	http        Doer
	store       InfoStore
	index       PrefixIndex
	log         Logger
	hooks       Hooks
	infoTTL     time.Duration
	proxyPrefix string
	prefixBytes int

	now func() time.Time

	// pending holds one entry per in-flight network fetch. Register,
	// fan-out and clear each run as a single critical section.
	mu      sync.Mutex
	pending map[string][]chan fetchResult
}

func NewFetcher(opts Options) (*Fetcher, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("pubcache: base URL is required")
	}

	f := &Fetcher{
		baseURL: strings.TrimSuffix(opts.BaseURL, "/"),
		store:   opts.Store,
		index:   opts.Index,
		now:     time.Now,
		pending: make(map[string][]chan fetchResult),
	}

	// defaults
	f.http = coalesce[Doer](opts.HTTPClient, http.DefaultClient)
	f.log = coalesce[Logger](opts.Logger, NopLogger{})
	f.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	f.infoTTL = coalesce[time.Duration](opts.InfoTTL, defaultInfoTTL)
	f.prefixBytes = coalesce[int](opts.PrefixBytes, defaultPrefixBytes)
	f.proxyPrefix = opts.ProxyURLPrefix

	return f, nil
}

// Fetch resolves the current server record for publisherKey. Concurrent
// calls for the same key share a single network request; each caller receives
// its own deep copy of the result. A nil error with a non-nil record is the
// only success shape; not-found is a success (synthesized record), transient
// server failures return ErrServerResponse.
//
// ctx bounds only this caller's wait. The underlying request is shared with
// other waiters and is not cancelled when one of them gives up.
func (f *Fetcher) Fetch(ctx context.Context, publisherKey string) (*ServerPublisherInfo, error) {
	ch := make(chan fetchResult, 1)

	f.mu.Lock()
	_, inflight := f.pending[publisherKey]
	f.pending[publisherKey] = append(f.pending[publisherKey], ch)
	f.mu.Unlock()

	if inflight {
		f.log.Debug("fetch already in progress", Fields{"publisher": publisherKey})
		f.hooks.FetchCoalesced(publisherKey)
	} else {
		f.log.Debug("fetching server publisher info", Fields{"publisher": publisherKey})
		go f.run(publisherKey)
	}

	select {
	case r := <-ch:
		return r.info, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// run performs the network round trip, decode and store write-through for one
// key, then fans the result out to every registered waiter.
func (f *Fetcher) run(publisherKey string) {
	statusCode, body, err := f.load(publisherKey)
	if err != nil {
		f.log.Error("publisher lookup request failed", Fields{"publisher": publisherKey, "err": err})
		f.fanOut(publisherKey, nil, fmt.Errorf("%w: %v", ErrServerResponse, err))
		return
	}

	info, err := f.decodeResponse(publisherKey, statusCode, body)
	if err != nil {
		f.fanOut(publisherKey, nil, err)
		return
	}

	// Store the result for subsequent lookups. Exactly one write per
	// completed fetch, regardless of waiter count; failure must not block
	// delivery.
	if f.store != nil {
		if err := f.store.Insert(context.Background(), info); err != nil {
			f.log.Error("error saving server publisher info record", Fields{"publisher": publisherKey, "err": err})
			f.hooks.StoreWriteFailed(publisherKey, err)
		}
	}

	f.fanOut(publisherKey, info, nil)
}

// load issues the privacy-shaped lookup request. The URL is derived from a
// fixed-width hash prefix of the key, so every request has an identical shape
// and length. Do not add parameters or headers whose size varies with the
// publisher key.
func (f *Fetcher) load(publisherKey string) (int, []byte, error) {
	url := f.baseURL + "/prefix/" + util.HashPrefixHex(publisherKey, f.prefixBytes)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, err
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

// fanOut delivers the result to all waiters registered for the key and
// clears the pending entry in one critical section. A Fetch arriving after
// the clear starts a new network request.
func (f *Fetcher) fanOut(publisherKey string, info *ServerPublisherInfo, err error) {
	f.mu.Lock()
	waiters := f.pending[publisherKey]
	delete(f.pending, publisherKey)
	f.mu.Unlock()

	for _, ch := range waiters {
		r := fetchResult{err: err}
		if info != nil {
			r.info = info.Clone()
		}
		ch <- r // buffered; never blocks on an abandoned waiter
	}
}
