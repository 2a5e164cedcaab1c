package pubcache

import "time"

// PublisherStatus is the verification level of a publisher's payout account,
// ordered by increasing trust.
type PublisherStatus int

const (
	// StatusNotVerified means no payout account is connected.
	StatusNotVerified PublisherStatus = iota
	// StatusConnected means an account is connected but not KYC-verified.
	StatusConnected
	// StatusVerified means the connected account passed KYC.
	StatusVerified
)

func (s PublisherStatus) String() string {
	switch s {
	case StatusConnected:
		return "connected"
	case StatusVerified:
		return "verified"
	default:
		return "not_verified"
	}
}

// PublisherBanner is the tipping banner a publisher configured on the server.
type PublisherBanner struct {
	Title       string            `msgpack:"title" json:"title"`
	Description string            `msgpack:"description" json:"description"`
	Background  string            `msgpack:"background" json:"background,omitempty"`
	Logo        string            `msgpack:"logo" json:"logo,omitempty"`
	Amounts     []float64         `msgpack:"amounts" json:"amounts,omitempty"`
	Links       map[string]string `msgpack:"links" json:"links,omitempty"`
}

// Clone returns a deep copy.
func (b *PublisherBanner) Clone() *PublisherBanner {
	if b == nil {
		return nil
	}
	out := &PublisherBanner{
		Title:       b.Title,
		Description: b.Description,
		Background:  b.Background,
		Logo:        b.Logo,
	}
	if len(b.Amounts) > 0 {
		out.Amounts = append([]float64(nil), b.Amounts...)
	}
	if len(b.Links) > 0 {
		out.Links = make(map[string]string, len(b.Links))
		for k, v := range b.Links {
			out.Links[k] = v
		}
	}
	return out
}

// ServerPublisherInfo is the authoritative cached record for one publisher.
// Absence from the store means the publisher was never looked up. Records are
// superseded by the next successful fetch, never mutated in place.
type ServerPublisherInfo struct {
	PublisherKey string           `msgpack:"publisher_key" json:"publisher_key"`
	Status       PublisherStatus  `msgpack:"status" json:"status"`
	Address      string           `msgpack:"address" json:"address,omitempty"`
	UpdatedAt    time.Time        `msgpack:"updated_at" json:"updated_at"`
	Banner       *PublisherBanner `msgpack:"banner" json:"banner,omitempty"`
}

// Clone returns a deep copy. Every fetch waiter receives its own clone so
// that mutation by one caller cannot leak into another.
func (i *ServerPublisherInfo) Clone() *ServerPublisherInfo {
	if i == nil {
		return nil
	}
	out := *i
	out.Banner = i.Banner.Clone()
	return &out
}

// PublisherStatusRecord pairs a status with the time of the last local write
// for that key. UpdatedAt here tracks the caller's own bookkeeping and is
// intentionally not rewritten by RefreshStatus.
type PublisherStatusRecord struct {
	Status    PublisherStatus
	UpdatedAt time.Time
}

// PublisherStatusMap associates publisher keys with their last known status.
type PublisherStatusMap map[string]PublisherStatusRecord

// PublisherInfo is a caller-side publisher record whose embedded status can
// be refreshed in bulk via RefreshInfoListStatus.
type PublisherInfo struct {
	ID       string
	Name     string
	URL      string
	Provider string
	Status   PublisherStatus
}

// PendingContribution is a queued tip whose publisher status is refreshed in
// bulk via RefreshPendingStatus before it is surfaced to the user.
type PendingContribution struct {
	PublisherKey string
	Amount       float64
	ViewingID    string
	AddedAt      time.Time
	Status       PublisherStatus
}
