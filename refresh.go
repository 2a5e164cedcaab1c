package pubcache

import (
	"context"
	"sort"
)

// RefreshStatus re-fetches the status of every expired entry in m, in place.
// Entries whose record is still fresh are skipped, as are keys the prefix
// index says cannot exist remotely. Only the Status field of an entry is
// overwritten; its UpdatedAt is the caller's own bookkeeping and stays
// untouched.
//
// The scan is strictly sequential - one index lookup or fetch outstanding at
// a time - which bounds load on the index and the network and keeps
// completion order deterministic, at the cost of one round trip per expired
// entry.
func (f *Fetcher) RefreshStatus(ctx context.Context, m PublisherStatusMap) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}

		rec := m[key]
		if !f.isExpired(rec.UpdatedAt) {
			continue
		}

		if f.index != nil {
			exists, err := f.index.Contains(ctx, key)
			if err != nil {
				f.log.Warn("prefix index lookup failed", Fields{"publisher": key, "err": err})
				continue
			}
			if !exists {
				continue
			}
		}

		info, err := f.Fetch(ctx, key)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Transient failure: keep the stale status rather than
			// downgrading the publisher.
			f.log.Warn("status refresh fetch failed", Fields{"publisher": key, "err": err})
			continue
		}

		rec.Status = info.Status
		m[key] = rec
	}
	return nil
}

// RefreshInfoListStatus refreshes m, then splices the refreshed statuses into
// list by publisher ID. All other record fields are left untouched.
func (f *Fetcher) RefreshInfoListStatus(ctx context.Context, m PublisherStatusMap, list []*PublisherInfo) error {
	if err := f.RefreshStatus(ctx, m); err != nil {
		return err
	}
	for _, info := range list {
		if rec, ok := m[info.ID]; ok {
			info.Status = rec.Status
		}
	}
	return nil
}

// RefreshPendingStatus refreshes m, then splices the refreshed statuses into
// the pending contribution list by publisher key.
func (f *Fetcher) RefreshPendingStatus(ctx context.Context, m PublisherStatusMap, list []*PendingContribution) error {
	if err := f.RefreshStatus(ctx, m); err != nil {
		return err
	}
	for _, pc := range list {
		if rec, ok := m[pc.PublisherKey]; ok {
			pc.Status = rec.Status
		}
	}
	return nil
}
