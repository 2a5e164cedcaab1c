package pubcache

import "context"

// InfoStore persists fetched publisher records between sessions. The fetcher
// writes through after every completed fetch; reads back the record on the
// store-first path. Implementations must be safe for concurrent use.
//
// A database-backed implementation can be supplied directly; NewInfoStore
// builds one from a byte-store Provider and a Codec.
type InfoStore interface {
	// Get returns (record, true, nil) on hit; (nil, false, nil) on miss.
	Get(ctx context.Context, publisherKey string) (*ServerPublisherInfo, bool, error)

	// Insert stores the record, superseding any previous one for the key.
	Insert(ctx context.Context, info *ServerPublisherInfo) error

	// Close releases resources.
	Close(ctx context.Context) error
}
