// Package api is the authenticated request gateway to the clinic REST API.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ClinicDesk/internal/validate"
)

// CredentialSource supplies the bearer token for auth-required endpoints.
type CredentialSource interface {
	Credential() (string, bool)
}

// Client sends one request per call. It never retries.
type Client struct {
	baseURL string
	http    *http.Client
	creds   CredentialSource
	log     *zap.SugaredLogger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Client) { c.log = l }
}

// WithTimeout sets the per-request timeout of the default transport.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithInsecureTLS disables certificate verification (self-signed dev backend).
func WithInsecureTLS() Option {
	return func(c *Client) {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for local dev certs
		c.http.Transport = tr
	}
}

// New creates a gateway for baseURL (e.g. https://localhost:44354/api).
// creds may be nil, in which case no request is authenticated.
func New(baseURL string, creds CredentialSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		creds:   creds,
		log:     zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Request describes a single call.
type Request struct {
	Method string
	Path   string // relative to the base URL, e.g. "/Doctor/5"
	Query  url.Values
	Body   any  // encoded as JSON when non-nil
	Auth   bool // attach the bearer credential
}

// Do performs r and returns the raw body of a 2xx response unmodified.
// Every failure comes back as *Error.
func (c *Client) Do(ctx context.Context, r Request) ([]byte, error) {
	var body io.Reader
	if r.Body != nil {
		if err := validate.Struct(r.Body); err != nil {
			var fe validate.Errors
			if errors.As(err, &fe) {
				return nil, &Error{Kind: KindInvalidRequest, Message: fe.Error()}
			}
			// non-struct payloads are not validated
		}
		b, err := json.Marshal(r.Body)
		if err != nil {
			return nil, &Error{Kind: KindInvalidRequest, Message: MsgInvalidRequest}
		}
		body = bytes.NewReader(b)
	}

	target := c.baseURL + r.Path
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, target, body)
	if err != nil {
		c.log.Debugw("build request", "url", target, "error", err)
		return nil, classify(0, nil)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.Auth && !isPublic(r.Path) && c.creds != nil {
		if tok, ok := c.creds.Credential(); ok {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debugw("transport error", "method", r.Method, "path", r.Path, "request_id", reqID, "error", err)
		return nil, classify(0, nil)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Debugw("read body", "method", r.Method, "path", r.Path, "request_id", reqID, "error", err)
		return nil, classify(0, nil)
	}
	c.log.Debugw("request",
		"method", r.Method,
		"path", r.Path,
		"status", resp.StatusCode,
		"bytes", len(data),
		"duration", time.Since(start),
		"request_id", reqID,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classify(resp.StatusCode, data)
	}
	return data, nil
}

// doJSON performs r and decodes a 2xx body into out (if non-nil).
func (c *Client) doJSON(ctx context.Context, r Request, out any) error {
	data, err := c.Do(ctx, r)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.log.Debugw("decode response", "path", r.Path, "error", err)
		return &Error{Kind: KindGeneric, Status: http.StatusOK, Message: MsgGeneric}
	}
	return nil
}

// doFound is doJSON for lookups that may legitimately find nothing: an empty 2xx body
// (204) or a literal null is reported as KindNotFound, the same as a 404.
func (c *Client) doFound(ctx context.Context, r Request, out any) error {
	data, err := c.Do(ctx, r)
	if err != nil {
		return err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return &Error{Kind: KindNotFound, Status: http.StatusNoContent, Message: MsgNotFound}
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.log.Debugw("decode response", "path", r.Path, "error", err)
		return &Error{Kind: KindGeneric, Status: http.StatusOK, Message: MsgGeneric}
	}
	return nil
}

// isPublic reports whether path belongs to the anonymous /Auth surface.
func isPublic(path string) bool {
	return path == "/Auth" || strings.HasPrefix(path, "/Auth/") || strings.HasPrefix(path, "/Auth?")
}

func idPath(prefix string, id int64) string {
	return fmt.Sprintf("%s/%d", prefix, id)
}
