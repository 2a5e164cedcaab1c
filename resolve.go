package pubcache

import "context"

// GetServerPublisherInfo is the store-first read path: a fresh cached record
// is returned without touching the network; a miss or an expired record
// triggers a coalesced fetch, which writes the new record through to the
// store.
func (f *Fetcher) GetServerPublisherInfo(ctx context.Context, publisherKey string) (*ServerPublisherInfo, error) {
	if f.store != nil {
		info, ok, err := f.store.Get(ctx, publisherKey)
		if err != nil {
			f.log.Warn("server publisher info read failed", Fields{"publisher": publisherKey, "err": err})
		}
		if ok && !f.IsExpired(info) {
			return info, nil
		}
	}
	return f.Fetch(ctx, publisherKey)
}
