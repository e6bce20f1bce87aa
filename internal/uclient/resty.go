package uclient

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"
)

type contentLengthKey struct{}

// RestyClient is the go-resty backend.
type RestyClient struct {
	client  *resty.Client
	headers http.Header
}

// NewRestyClient returns a resty backed client that does not follow
// redirects.
func NewRestyClient(headers http.Header) *RestyClient {
	return WithRestyClient(resty.NewWithClient(&http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}), headers)
}

// WithRestyClient wraps an existing resty client. A pre-request hook is
// installed on it to carry Request.ContentLength to the wire.
func WithRestyClient(c *resty.Client, headers http.Header) *RestyClient {
	if headers == nil {
		headers = http.Header{}
	}
	c.SetPreRequestHook(func(_ *resty.Client, req *http.Request) error {
		if n, ok := req.Context().Value(contentLengthKey{}).(int64); ok && n > 0 {
			req.ContentLength = n
		}
		return nil
	})
	return &RestyClient{client: c, headers: headers}
}

func (c *RestyClient) Headers() http.Header {
	return c.headers
}

func (c *RestyClient) Do(ctx context.Context, r *Request) (*Response, error) {
	if err := checkMethod(r.Method); err != nil {
		return nil, err
	}

	var pr *payloadReader
	req := c.client.R().SetHeaderMultiValues(mergeHeaders(c.headers, r.Header))
	if r.Body != nil {
		pr = newPayloadReader(r.Body)
		req.SetBody(pr)
		ctx = context.WithValue(ctx, contentLengthKey{}, r.ContentLength)
	}
	req.SetContext(ctx)

	resp, err := req.Execute(r.Method, r.URL)
	if err != nil {
		return nil, pr.wrapSendError(err)
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Proto:      resp.Proto(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}, nil
}
