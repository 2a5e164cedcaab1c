package pubcache

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/andybalholm/brotli"

	"github.com/openrewards/pubcache/internal/channelpb"
	"github.com/openrewards/pubcache/internal/wire"
)

const decompressChunkSize = 32 * 1024

// decodeResponse turns a raw lookup response into a ServerPublisherInfo.
//
// 404 and a 200 whose bucket has no entry for the key are success cases: a
// not-verified record is synthesized so that the miss is cached and the
// server is not re-queried for publishers known not to exist. Any other
// non-200 status, an empty body, bad padding or an unparseable message is a
// hard failure with no cache write.
func (f *Fetcher) decodeResponse(publisherKey string, statusCode int, body []byte) (*ServerPublisherInfo, error) {
	if statusCode == http.StatusNotFound {
		return f.emptyInfo(publisherKey), nil
	}
	if statusCode != http.StatusOK || len(body) == 0 {
		f.log.Error("invalid response from publisher data endpoint", Fields{
			"publisher": publisherKey,
			"status":    statusCode,
		})
		return nil, fmt.Errorf("%w: status %d", ErrServerResponse, statusCode)
	}

	payload, err := wire.Unpad(body)
	if err != nil {
		f.log.Error("publisher data response has invalid padding", Fields{"publisher": publisherKey})
		return nil, err
	}

	message, err := decompress(payload)
	if err != nil {
		// Compatibility path: older deployments served the message without
		// compression. Never a hard failure on its own.
		f.log.Debug("error decompressing publisher data response; parsing as uncompressed message",
			Fields{"publisher": publisherKey, "err": err})
		f.hooks.DecompressFallback(publisherKey)
		message = payload
	}

	list, err := channelpb.UnmarshalResponseList(message)
	if err != nil {
		f.log.Error("error parsing channel response message", Fields{"publisher": publisherKey, "err": err})
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	// The bucket may contain several publishers sharing the hash prefix.
	for i := range list.Channels {
		if list.Channels[i].ChannelIdentifier == publisherKey {
			return f.infoFromChannel(&list.Channels[i]), nil
		}
	}
	return f.emptyInfo(publisherKey), nil
}

// decompress reads payload as a brotli stream in fixed-size chunks.
func decompress(payload []byte) ([]byte, error) {
	r := brotli.NewReader(bytes.NewReader(payload))

	var out bytes.Buffer
	buf := make([]byte, decompressChunkSize)
	for {
		n, err := r.Read(buf)
		out.Write(buf[:n])
		if err == io.EOF {
			return out.Bytes(), nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func (f *Fetcher) infoFromChannel(ch *channelpb.ChannelResponse) *ServerPublisherInfo {
	info := &ServerPublisherInfo{
		PublisherKey: ch.ChannelIdentifier,
		Status:       statusFromWalletState(ch.WalletConnectedState),
		Address:      ch.WalletAddress,
		// Freshness is defined relative to fetch time; the server does not
		// supply a timestamp.
		UpdatedAt: f.now(),
	}
	if ch.SiteBannerDetails != nil {
		info.Banner = f.bannerFromMessage(ch.SiteBannerDetails)
	}
	return info
}

func statusFromWalletState(state channelpb.WalletConnectedState) PublisherStatus {
	switch state {
	case channelpb.WalletStateConnectedKYC:
		return StatusVerified
	case channelpb.WalletStateConnectedNoKYC:
		return StatusConnected
	default:
		return StatusNotVerified
	}
}

func (f *Fetcher) bannerFromMessage(details *channelpb.SiteBannerDetails) *PublisherBanner {
	banner := &PublisherBanner{
		Title:       details.Title,
		Description: details.Description,
	}

	// Image URLs load through the proxy so that displaying a banner does not
	// reveal the publisher to its origin.
	if details.BackgroundURL != "" {
		banner.Background = f.proxyPrefix + details.BackgroundURL
	}
	if details.LogoURL != "" {
		banner.Logo = f.proxyPrefix + details.LogoURL
	}

	banner.Amounts = append(banner.Amounts, details.DonationAmounts...)

	if links := details.SocialLinks; links != nil {
		banner.Links = make(map[string]string)
		if links.Youtube != "" {
			banner.Links["youtube"] = links.Youtube
		}
		if links.Twitter != "" {
			banner.Links["twitter"] = links.Twitter
		}
		if links.Twitch != "" {
			banner.Links["twitch"] = links.Twitch
		}
		if len(banner.Links) == 0 {
			banner.Links = nil
		}
	}
	return banner
}

// emptyInfo synthesizes a record for a publisher the server has no entry for,
// possibly a false positive from the prefix index. Caching it suppresses
// repeat lookups for the same key until the record expires.
func (f *Fetcher) emptyInfo(publisherKey string) *ServerPublisherInfo {
	f.log.Debug("server did not return an entry for publisher", Fields{"publisher": publisherKey})
	f.hooks.NotFoundSynthesized(publisherKey)
	return &ServerPublisherInfo{
		PublisherKey: publisherKey,
		Status:       StatusNotVerified,
		UpdatedAt:    f.now(),
	}
}
