package uclient

import "errors"

var (
	// ErrHTTPClient wraps any transport failure: DNS, connect, TLS, reading
	// the response.
	ErrHTTPClient = errors.New("http client error")

	// ErrPayload reports that the request body could not be read while it
	// was being sent.
	ErrPayload = errors.New("payload error")

	ErrInvalidMethod  = errors.New("invalid http method")
	ErrUnknownBackend = errors.New("unknown http client backend")
)
