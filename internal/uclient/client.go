// Package uclient is a small HTTP client abstraction with interchangeable
// backends. Callers build a Request, the selected backend sends it with the
// client's default headers applied, and the reply comes back as a Response
// with the body fully read.
//
// Request bodies are arbitrary readers, so a lazily produced multipart body
// from the form subpackage can be sent with its exact Content-Length.
package uclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// Backend names an HTTP client implementation.
type Backend string

const (
	BackendNetHTTP Backend = "nethttp"
	BackendResty   Backend = "resty"
)

// Request is a backend independent HTTP request.
//
// ContentLength is the exact body length in bytes. Zero or negative with a
// non-nil Body means unknown, and the body is sent chunked.
type Request struct {
	Method        string
	URL           string
	Header        http.Header
	Body          io.Reader
	ContentLength int64
}

// Response is a normalized HTTP response with the body already read.
type Response struct {
	StatusCode int
	Proto      string
	Header     http.Header
	Body       []byte
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// Client sends requests through one backend.
type Client interface {
	// Headers returns the default header set. It may be modified between
	// requests, not while requests are in flight.
	Headers() http.Header

	// Do sends req. Non-2xx statuses are not errors. Redirects are returned
	// to the caller as-is.
	Do(ctx context.Context, req *Request) (*Response, error)
}

// New returns a client for backend b.
func New(b Backend, headers http.Header) (Client, error) {
	switch b {
	case BackendNetHTTP, "":
		return NewHTTPClient(headers), nil
	case BackendResty:
		return NewRestyClient(headers), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, b)
	}
}

var methods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodDelete:  {},
	http.MethodPatch:   {},
	http.MethodConnect: {},
	http.MethodHead:    {},
	http.MethodOptions: {},
	http.MethodTrace:   {},
}

func checkMethod(m string) error {
	if _, ok := methods[m]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidMethod, m)
	}
	return nil
}

// mergeHeaders returns a copy of req with every default header the request
// does not already carry.
func mergeHeaders(defaults, req http.Header) http.Header {
	h := req.Clone()
	if h == nil {
		h = http.Header{}
	}
	for k, v := range defaults {
		if _, ok := h[http.CanonicalHeaderKey(k)]; ok {
			continue
		}
		h[http.CanonicalHeaderKey(k)] = append([]string(nil), v...)
	}
	return h
}

// RequestReader sends body as the payload of a method request.
func RequestReader(ctx context.Context, c Client, method, url string, header http.Header, body io.Reader, length int64) (*Response, error) {
	return c.Do(ctx, &Request{
		Method:        method,
		URL:           url,
		Header:        header,
		Body:          body,
		ContentLength: length,
	})
}

// RequestBytes sends body as the payload of a method request.
func RequestBytes(ctx context.Context, c Client, method, url string, header http.Header, body []byte) (*Response, error) {
	if len(body) == 0 {
		return RequestReader(ctx, c, method, url, header, nil, 0)
	}
	return RequestReader(ctx, c, method, url, header, bytes.NewReader(body), int64(len(body)))
}

func requestText(ctx context.Context, c Client, method, url, text string) (*Response, error) {
	return RequestBytes(ctx, c, method, url, nil, []byte(text))
}

func Get(ctx context.Context, c Client, url, text string) (*Response, error) {
	return requestText(ctx, c, http.MethodGet, url, text)
}

func Post(ctx context.Context, c Client, url, text string) (*Response, error) {
	return requestText(ctx, c, http.MethodPost, url, text)
}

func Put(ctx context.Context, c Client, url, text string) (*Response, error) {
	return requestText(ctx, c, http.MethodPut, url, text)
}

func Delete(ctx context.Context, c Client, url, text string) (*Response, error) {
	return requestText(ctx, c, http.MethodDelete, url, text)
}

func Patch(ctx context.Context, c Client, url, text string) (*Response, error) {
	return requestText(ctx, c, http.MethodPatch, url, text)
}

func Connect(ctx context.Context, c Client, url, text string) (*Response, error) {
	return requestText(ctx, c, http.MethodConnect, url, text)
}

func Head(ctx context.Context, c Client, url, text string) (*Response, error) {
	return requestText(ctx, c, http.MethodHead, url, text)
}

func Options(ctx context.Context, c Client, url, text string) (*Response, error) {
	return requestText(ctx, c, http.MethodOptions, url, text)
}

func Trace(ctx context.Context, c Client, url, text string) (*Response, error) {
	return requestText(ctx, c, http.MethodTrace, url, text)
}
