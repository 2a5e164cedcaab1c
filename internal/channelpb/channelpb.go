// Package channelpb decodes the protobuf channel-response message returned by
// the publisher lookup endpoint. The schema is small and stable, so the
// message is walked directly with protowire instead of carrying generated
// bindings:
//
//	message ChannelResponseList {
//	  repeated ChannelResponse channel_responses = 1;
//	}
//	message ChannelResponse {
//	  string channel_identifier       = 1;
//	  WalletConnectedState wallet_connected_state = 2;
//	  string wallet_address           = 3;
//	  SiteBannerDetails site_banner_details = 4;
//	}
//	message SiteBannerDetails {
//	  string title            = 1;
//	  string description      = 2;
//	  string background_url   = 3;
//	  string logo_url         = 4;
//	  repeated double donation_amounts = 5;
//	  SocialLinks social_links = 6;
//	}
//	message SocialLinks {
//	  string youtube = 1;
//	  string twitter = 2;
//	  string twitch  = 3;
//	}
//
// Unknown fields are skipped so that additive server-side schema changes do
// not break older clients.
package channelpb

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// WalletConnectedState mirrors the wallet_connected_state enum.
type WalletConnectedState int32

const (
	WalletStateNone           WalletConnectedState = 0
	WalletStateConnectedNoKYC WalletConnectedState = 1
	WalletStateConnectedKYC   WalletConnectedState = 2
)

type SocialLinks struct {
	Youtube string
	Twitter string
	Twitch  string
}

type SiteBannerDetails struct {
	Title           string
	Description     string
	BackgroundURL   string
	LogoURL         string
	DonationAmounts []float64
	SocialLinks     *SocialLinks
}

type ChannelResponse struct {
	ChannelIdentifier    string
	WalletConnectedState WalletConnectedState
	WalletAddress        string
	SiteBannerDetails    *SiteBannerDetails
}

type ResponseList struct {
	Channels []ChannelResponse
}

var ErrMalformed = errors.New("channelpb: malformed message")

func malformed(what string) error {
	return fmt.Errorf("%w: %s", ErrMalformed, what)
}

// UnmarshalResponseList parses a serialized ChannelResponseList.
func UnmarshalResponseList(b []byte) (*ResponseList, error) {
	list := &ResponseList{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, malformed("tag")
		}
		b = b[n:]

		if num == 1 && typ == protowire.BytesType {
			raw, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, malformed("channel_responses")
			}
			b = b[n:]
			ch, err := unmarshalChannelResponse(raw)
			if err != nil {
				return nil, err
			}
			list.Channels = append(list.Channels, ch)
			continue
		}

		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return nil, malformed("field value")
		}
		b = b[n:]
	}
	return list, nil
}

func unmarshalChannelResponse(b []byte) (ChannelResponse, error) {
	var ch ChannelResponse
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return ch, malformed("tag")
		}
		b = b[n:]

		switch {
		case num == 1 && typ == protowire.BytesType:
			s, n := protowire.ConsumeString(b)
			if n < 0 {
				return ch, malformed("channel_identifier")
			}
			ch.ChannelIdentifier = s
			b = b[n:]
		case num == 2 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return ch, malformed("wallet_connected_state")
			}
			ch.WalletConnectedState = WalletConnectedState(v)
			b = b[n:]
		case num == 3 && typ == protowire.BytesType:
			s, n := protowire.ConsumeString(b)
			if n < 0 {
				return ch, malformed("wallet_address")
			}
			ch.WalletAddress = s
			b = b[n:]
		case num == 4 && typ == protowire.BytesType:
			raw, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return ch, malformed("site_banner_details")
			}
			b = b[n:]
			banner, err := unmarshalBanner(raw)
			if err != nil {
				return ch, err
			}
			ch.SiteBannerDetails = banner
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return ch, malformed("field value")
			}
			b = b[n:]
		}
	}
	return ch, nil
}

func unmarshalBanner(b []byte) (*SiteBannerDetails, error) {
	banner := &SiteBannerDetails{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, malformed("tag")
		}
		b = b[n:]

		switch {
		case num == 1 && typ == protowire.BytesType:
			s, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, malformed("title")
			}
			banner.Title = s
			b = b[n:]
		case num == 2 && typ == protowire.BytesType:
			s, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, malformed("description")
			}
			banner.Description = s
			b = b[n:]
		case num == 3 && typ == protowire.BytesType:
			s, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, malformed("background_url")
			}
			banner.BackgroundURL = s
			b = b[n:]
		case num == 4 && typ == protowire.BytesType:
			s, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, malformed("logo_url")
			}
			banner.LogoURL = s
			b = b[n:]
		case num == 5 && typ == protowire.BytesType:
			// packed repeated double
			raw, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, malformed("donation_amounts")
			}
			b = b[n:]
			for len(raw) > 0 {
				v, n := protowire.ConsumeFixed64(raw)
				if n < 0 {
					return nil, malformed("donation_amounts")
				}
				banner.DonationAmounts = append(banner.DonationAmounts, math.Float64frombits(v))
				raw = raw[n:]
			}
		case num == 5 && typ == protowire.Fixed64Type:
			// unpacked encoding of the same field
			v, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				return nil, malformed("donation_amounts")
			}
			banner.DonationAmounts = append(banner.DonationAmounts, math.Float64frombits(v))
			b = b[n:]
		case num == 6 && typ == protowire.BytesType:
			raw, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, malformed("social_links")
			}
			b = b[n:]
			links, err := unmarshalSocialLinks(raw)
			if err != nil {
				return nil, err
			}
			banner.SocialLinks = links
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, malformed("field value")
			}
			b = b[n:]
		}
	}
	return banner, nil
}

func unmarshalSocialLinks(b []byte) (*SocialLinks, error) {
	links := &SocialLinks{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, malformed("tag")
		}
		b = b[n:]

		if typ == protowire.BytesType && num >= 1 && num <= 3 {
			s, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, malformed("social link")
			}
			b = b[n:]
			switch num {
			case 1:
				links.Youtube = s
			case 2:
				links.Twitter = s
			case 3:
				links.Twitch = s
			}
			continue
		}

		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return nil, malformed("field value")
		}
		b = b[n:]
	}
	return links, nil
}
