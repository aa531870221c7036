// Package client is the front end's only way to reach the backend. It puts
// the session token on every request and applies one failure policy for all
// views: 401 expires the session and sends the user to the entry route
// (except for the passive registration check), 403 and 5xx are logged,
// 404 is handed back untouched.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Dosada05/hackathon-portal/session"
)

// EntryRoute is where a forced logout lands.
const EntryRoute = "/"

// checkPath is the one endpoint whose 401 means "not registered" rather than
// "session is gone".
const checkPath = "/registeredhackathon/check"

// Navigator moves the front end to another route.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Session
	navigator  Navigator
	logger     *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default client. The adapter sets no timeout of its own.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithNavigator(nav Navigator) Option {
	return func(c *Client) { c.navigator = nav }
}

func New(baseURL string, sess *session.Session, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		session:    sess,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// SetNavigator wires the router after both sides are built.
func (c *Client) SetNavigator(nav Navigator) { c.navigator = nav }

func (c *Client) Session() *session.Session { return c.session }

// newRequest is the request half of the interceptor.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// response is a successful reply with its body already read.
type response struct {
	header http.Header
	body   []byte
}

// send is the response half of the interceptor.
func (c *Client) send(req *http.Request) (*response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read response: %w", req.Method, req.URL.Path, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return &response{header: resp.Header, body: body}, nil
	}
	return nil, c.handleFailure(req, resp.StatusCode, body)
}

func (c *Client) handleFailure(req *http.Request, status int, body []byte) error {
	apiErr := newAPIError(req.Method, req.URL.Path, status, body)

	switch {
	case status == http.StatusUnauthorized:
		if isCheckRequest(req.URL.Path) {
			break
		}
		c.expireSession(req.URL.Path, req.Header.Get("Authorization") != "")
	case status == http.StatusForbidden:
		c.logger.Warn("access forbidden", slog.String("method", req.Method), slog.String("path", req.URL.Path), slog.String("message", apiErr.Message))
	case status >= http.StatusInternalServerError:
		c.logger.Error("server error", slog.String("method", req.Method), slog.String("path", req.URL.Path), slog.Int("status", status), slog.String("body", string(body)))
	}
	return apiErr
}

func isCheckRequest(path string) bool {
	return strings.Contains(path, checkPath)
}

// expireSession clears the session and goes to the entry route. When several
// requests fail with the same token only the one that cleared it navigates.
func (c *Client) expireSession(path string, withToken bool) {
	cleared, err := c.session.Expire()
	if err != nil {
		c.logger.Error("failed to clear expired session", slog.Any("error", err))
	}
	if withToken && !cleared {
		return
	}
	c.logger.Info("session expired, returning to entry route", slog.String("path", path))
	if c.navigator != nil {
		c.navigator.Navigate(EntryRoute)
	}
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	return c.decode(req, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	req, err := c.newRequest(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	return c.decode(req, out)
}

func (c *Client) decode(req *http.Request, out interface{}) error {
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	if out == nil || len(resp.body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("%s %s: unmarshal response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
