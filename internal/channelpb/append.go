package channelpb

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Append* encoders mirror the decoder's schema. They exist for tests and for
// tooling that fabricates lookup responses; the client itself never encodes.

func MarshalResponseList(list *ResponseList) []byte {
	return AppendResponseList(nil, list)
}

func AppendResponseList(b []byte, list *ResponseList) []byte {
	for i := range list.Channels {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, appendChannelResponse(nil, &list.Channels[i]))
	}
	return b
}

func appendChannelResponse(b []byte, ch *ChannelResponse) []byte {
	if ch.ChannelIdentifier != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, ch.ChannelIdentifier)
	}
	if ch.WalletConnectedState != WalletStateNone {
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(ch.WalletConnectedState))
	}
	if ch.WalletAddress != "" {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendString(b, ch.WalletAddress)
	}
	if ch.SiteBannerDetails != nil {
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendBytes(b, appendBanner(nil, ch.SiteBannerDetails))
	}
	return b
}

func appendBanner(b []byte, banner *SiteBannerDetails) []byte {
	if banner.Title != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, banner.Title)
	}
	if banner.Description != "" {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, banner.Description)
	}
	if banner.BackgroundURL != "" {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendString(b, banner.BackgroundURL)
	}
	if banner.LogoURL != "" {
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendString(b, banner.LogoURL)
	}
	if len(banner.DonationAmounts) > 0 {
		var packed []byte
		for _, v := range banner.DonationAmounts {
			packed = protowire.AppendFixed64(packed, math.Float64bits(v))
		}
		b = protowire.AppendTag(b, 5, protowire.BytesType)
		b = protowire.AppendBytes(b, packed)
	}
	if banner.SocialLinks != nil {
		b = protowire.AppendTag(b, 6, protowire.BytesType)
		b = protowire.AppendBytes(b, appendSocialLinks(nil, banner.SocialLinks))
	}
	return b
}

func appendSocialLinks(b []byte, links *SocialLinks) []byte {
	if links.Youtube != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, links.Youtube)
	}
	if links.Twitter != "" {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, links.Twitter)
	}
	if links.Twitch != "" {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendString(b, links.Twitch)
	}
	return b
}
