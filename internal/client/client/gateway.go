package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/socrp/internal/client/session"
	"github.com/dmitrijs2005/socrp/internal/common"
	"github.com/dmitrijs2005/socrp/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// maxErrorBody bounds how much of a rejected response is kept.
const maxErrorBody = 64 << 10

// TokenSource yields the bearer token of a role. session.Store satisfies it.
type TokenSource interface {
	GetToken(ctx context.Context, role session.Role) (string, bool)
}

// Gateway sends every API request of the client.
type Gateway struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  logging.Logger
	limiter *rate.Limiter
	timeout time.Duration
	newID   func() string
}

type Option func(*Gateway)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.http = c }
}

// WithLogger sets the logger used for request traces and the 403 diagnostic.
func WithLogger(l logging.Logger) Option {
	return func(g *Gateway) { g.logger = l }
}

// WithTimeout bounds each request. Zero means no gateway-level timeout.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.timeout = d }
}

// WithRateLimit paces outgoing requests to rps per second (burst 1).
// rps <= 0 disables pacing.
func WithRateLimit(rps float64) Option {
	return func(g *Gateway) {
		if rps <= 0 {
			g.limiter = nil
			return
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewGateway binds a gateway to baseURL. tokens may be nil, in which case
// every request is unauthenticated.
func NewGateway(baseURL string, tokens TokenSource, opts ...Option) (*Gateway, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("%w: base URL %q must be http(s)", ErrInvalidInput, baseURL)
	}

	g := &Gateway{
		baseURL: baseURL,
		http:    &http.Client{},
		tokens:  tokens,
		logger:  logging.Discard(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// BaseURL returns the address every path is resolved against.
func (g *Gateway) BaseURL() string {
	return g.baseURL
}

func (g *Gateway) resolve(path string) (string, error) {
	if strings.Contains(path, "://") {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}
	return g.baseURL + "/" + strings.TrimLeft(path, "/"), nil
}

// Request sends method path with body, authenticated as role, and decodes a
// JSON response into out (when out is non-nil and the body is not empty).
//
// The role's token is attached if present; RoleNone or a missing token sends
// the request unauthenticated and leaves the decision to the server.
// Failures are *Error values (see package doc). Nothing is retried.
func (g *Gateway) Request(ctx context.Context, method, path string, body Body, role session.Role, out any) error {
	url, err := g.resolve(path)
	if err != nil {
		return err
	}

	var (
		reader      io.Reader
		contentType string
	)
	if body != nil {
		reader, contentType, err = body.Encode()
		if err != nil {
			return err
		}
	}

	requestID := g.newID()
	ctx = logging.WithRequestID(ctx, requestID)

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return &Error{Kind: KindUnreachable, Method: method, Path: path, Err: err}
		}
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token, ok := g.token(ctx, role); ok {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}

	g.logger.Debug(ctx, "api request", "method", method, "path", path, "role", string(role))

	resp, err := g.http.Do(req)
	if err != nil {
		g.logger.Debug(ctx, "api unreachable", "method", method, "path", path, "error", err)
		return &Error{Kind: KindUnreachable, Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	g.logger.Debug(ctx, "api response", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		e := &Error{Kind: KindRejected, Method: method, Path: path, Status: resp.StatusCode, Body: data}
		if resp.StatusCode == http.StatusForbidden {
			e.Kind = KindForbidden
			g.logger.Error(ctx, "access denied: check token or permissions",
				"method", method, "path", path, "role", string(role), "status", resp.StatusCode)
		}
		return e
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindUnreachable, Method: method, Path: path, Err: err}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (g *Gateway) token(ctx context.Context, role session.Role) (string, bool) {
	if role == session.RoleNone || g.tokens == nil {
		return "", false
	}
	t, ok := g.tokens.GetToken(ctx, role)
	return t, ok && t != ""
}
