package pubcache

import "time"

// IsExpired reports whether a cached record is stale and must be re-fetched.
// A nil record (never looked up) is always expired.
func (f *Fetcher) IsExpired(info *ServerPublisherInfo) bool {
	return info == nil || f.isExpired(info.UpdatedAt)
}

func (f *Fetcher) isExpired(updatedAt time.Time) bool {
	age := f.now().Sub(updatedAt)
	if age < 0 {
		// Either the persisted timestamp is corrupted or the clock moved
		// backwards. A future timestamp is never trusted as fresh.
		f.log.Warn("server publisher info has a future updated_at time", Fields{"updated_at": updatedAt})
		return true
	}
	return age > f.infoTTL
}
