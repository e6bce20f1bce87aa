package uclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// HTTPClient is the net/http backend.
type HTTPClient struct {
	client  *http.Client
	headers http.Header
}

// NewHTTPClient returns a net/http backed client that does not follow
// redirects.
func NewHTTPClient(headers http.Header) *HTTPClient {
	return WithHTTPClient(&http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}, headers)
}

// WithHTTPClient wraps an existing *http.Client as is.
func WithHTTPClient(c *http.Client, headers http.Header) *HTTPClient {
	if headers == nil {
		headers = http.Header{}
	}
	return &HTTPClient{client: c, headers: headers}
}

func (c *HTTPClient) Headers() http.Header {
	return c.headers
}

func (c *HTTPClient) Do(ctx context.Context, r *Request) (*Response, error) {
	if err := checkMethod(r.Method); err != nil {
		return nil, err
	}

	var (
		body io.Reader
		pr   *payloadReader
	)
	if r.Body != nil {
		pr = newPayloadReader(r.Body)
		body = pr
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHTTPClient, err)
	}
	req.Header = mergeHeaders(c.headers, r.Header)
	if body != nil && r.ContentLength > 0 {
		req.ContentLength = r.ContentLength
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, pr.wrapSendError(err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrHTTPClient, err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Proto:      resp.Proto,
		Header:     resp.Header,
		Body:       b,
	}, nil
}
