package backend

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dharmasatrya/trainbooking/internal/metrics"
	"github.com/dharmasatrya/trainbooking/internal/ratelimit"
)

const DefaultBaseURL = "https://localhost:7160/api"

type Config struct {
	BaseURL string
	// Timeout of zero leaves requests bounded only by their context.
	Timeout     time.Duration
	InsecureTLS bool
	Limiter     *ratelimit.GroupLimiter
}

// Factory hands out one Client per browser session. Clients share a single
// transport and differ only by cookie jar.
type Factory struct {
	cfg       Config
	base      *url.URL
	transport http.RoundTripper

	mu      sync.Mutex
	clients map[string]*Client
}

func NewFactory(cfg Config) (*Factory, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Factory{
		cfg:       cfg,
		base:      base,
		transport: otelhttp.NewTransport(transport),
		clients:   make(map[string]*Client),
	}, nil
}

// For returns the client bound to sessionID. A new client is seeded with cookies.
func (f *Factory) For(sessionID string, cookies []*http.Cookie) *Client {
	f.mu.Lock()
	defer f.mu.Unlock()

	if c, ok := f.clients[sessionID]; ok {
		return c
	}
	c := f.newClient(cookies)
	f.clients[sessionID] = c
	return c
}

// Lookup returns the client of sessionID without creating one.
func (f *Factory) Lookup(sessionID string) (*Client, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clients[sessionID]
	return c, ok
}

// Forget drops the client of a session so its cookies are not reused.
func (f *Factory) Forget(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.clients, sessionID)
}

func (f *Factory) newClient(cookies []*http.Cookie) *Client {
	jar, _ := cookiejar.New(nil)
	if len(cookies) > 0 {
		jar.SetCookies(f.base, cookies)
	}
	return &Client{
		base:    f.base,
		jar:     jar,
		limiter: f.cfg.Limiter,
		http: &http.Client{
			Transport: f.transport,
			Jar:       jar,
			Timeout:   f.cfg.Timeout,
		},
	}
}

// Client talks to the booking API on behalf of one browser session.
type Client struct {
	base    *url.URL
	jar     http.CookieJar
	http    *http.Client
	limiter *ratelimit.GroupLimiter
}

// Cookies exports the session cookies the API has set so far.
func (c *Client) Cookies() []*http.Cookie {
	return c.jar.Cookies(c.base)
}

type request struct {
	op     string
	group  string
	method string
	path   string
	query  url.Values
	body   any
	accept string
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do performs the call and returns the raw response. The caller owns the body
// on success; any non-2xx status is turned into an APIError.
func (c *Client) do(ctx context.Context, r request) (*http.Response, error) {
	if err := c.limiter.Wait(ctx, r.group); err != nil {
		return nil, NewOpError(r.op, err)
	}

	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, NewOpError(r.op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.endpoint(r.path, r.query), body)
	if err != nil {
		return nil, NewOpError(r.op, err)
	}
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	accept := r.accept
	if accept == "" {
		accept = "*/*"
	}
	req.Header.Set("Accept", accept)

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.BackendRequestDuration.WithLabelValues(r.op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequests.WithLabelValues(r.op, "transport_error").Inc()
		return nil, NewOpError(r.op, err)
	}
	metrics.BackendRequests.WithLabelValues(r.op, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, newAPIError(r.op, resp.StatusCode, serverMessage(resp.Body))
	}
	return resp, nil
}

// call performs the request and decodes a JSON answer into out. The body is
// decoded whatever its content type, since some endpoints label JSON as text/plain.
func (c *Client) call(ctx context.Context, r request, out any) error {
	resp, err := c.do(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewOpError(r.op, err)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return NewOpError(r.op, fmt.Errorf("%w: %v", ErrInvalidResponse, err))
	}
	return nil
}

// serverMessage reads the API's {"error": "..."} body, if any.
func serverMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		return payload.Error
	}
	return ""
}
