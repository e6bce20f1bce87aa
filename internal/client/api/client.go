// Package api is a typed client for the orgbook REST server. Requests go
// through a uclient.Client, so the transport backend is chosen at runtime.
// User bodies are sent as lazily streamed multipart/form-data.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/orgbook/internal/common"
	"github.com/dmitrijs2005/orgbook/internal/uclient"
)

const apiPrefix = "/api/v1"

// Client talks to one server. It remembers the access token obtained by
// Login and attaches it to every later request.
//
// A Client is not safe for concurrent use.
type Client struct {
	http    uclient.Client
	baseURL string
	timeout time.Duration
	token   string
}

// New returns a client for the server at baseURL using the given backend.
// A non-positive timeout disables the per-request deadline.
func New(backend uclient.Backend, baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q", baseURL)
	}

	headers := http.Header{}
	headers.Set("Accept", "application/json")

	hc, err := uclient.New(backend, headers)
	if err != nil {
		return nil, err
	}
	return NewWithClient(hc, baseURL, timeout), nil
}

// NewWithClient wraps an existing uclient.Client.
func NewWithClient(hc uclient.Client, baseURL string, timeout time.Duration) *Client {
	return &Client{
		http:    hc,
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
	}
}

// Token returns the current access token, empty before Login.
func (c *Client) Token() string { return c.token }

// SetToken replaces the access token.
func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// send performs one round trip and decodes a 2xx JSON body into out when out
// is non-nil. Non-2xx replies come back as *Error.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, header http.Header, body io.Reader, length int64, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if header == nil {
		header = http.Header{}
	}
	if c.token != "" {
		header.Set(common.AuthorizationHeaderName, common.BearerPrefix+c.token)
	}

	resp, err := uclient.RequestReader(ctx, c.http, method, c.endpoint(path, query), header, body, length)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(resp)
	}
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	return c.send(ctx, method, path, nil, header, bytes.NewReader(b), int64(len(b)), out)
}

func findQuery(search string) url.Values {
	q := url.Values{}
	if s := strings.TrimSpace(search); s != "" {
		q.Set("search", s)
	}
	return q
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for an access token and keeps it.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var tr tokenResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &tr); err != nil {
		return err
	}
	if tr.Token == "" {
		return fmt.Errorf("%w: empty token in login response", common.ErrorInternal)
	}
	c.token = tr.Token
	return nil
}
