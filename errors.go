package pubcache

import "errors"

var (
	// ErrServerResponse marks a transient upstream failure: a non-200/404
	// status code or an empty 200 body. Nothing is cached; callers may retry.
	ErrServerResponse = errors.New("pubcache: invalid publisher endpoint response")

	// ErrMalformedMessage marks a payload that survived padding removal but
	// could not be parsed as a channel response message.
	ErrMalformedMessage = errors.New("pubcache: malformed channel response message")
)
