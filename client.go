package grademywork

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ThierrySans/grademywork-sub000/internal/singleflight"
)

// Client talks to the grademywork service. It owns its transport (with a
// cookie jar so the session survives across calls), its session cache and
// its response decoding. It is safe for concurrent use.
type Client struct {
	rawBaseURL string
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	jar        http.CookieJar
	userAgent  string
	middleware []Middleware
	cache      *SessionCache
	metrics    *MetricsCollector
	debug      *DebugConfig
	logger     Logger

	deduplication    bool
	userFlight       *singleflight.Group[*User]
	assessmentFlight *singleflight.Group[*Assessment]
}

// New constructs a Client using the provided functional options. WithBaseURL
// is required; an invalid configuration is reported as a *ClientError of
// type Validation.
func New(options ...Option) (*Client, error) {
	client := &Client{
		httpClient: &http.Client{},
		userAgent:  UserAgent(),
		middleware: []Middleware{},
		cache:      NewSessionCache(),
		metrics:    nil,
		debug:      DefaultDebugConfig(),
		logger:     defaultLogger(),
	}

	for _, option := range options {
		option(client)
	}

	if client.debug == nil {
		client.debug = DefaultDebugConfig()
	}

	if err := client.ValidateConfiguration(); err != nil {
		return nil, err
	}

	client.baseURL = strings.TrimRight(client.rawBaseURL, "/")

	switch {
	case client.jar != nil:
		client.httpClient.Jar = client.jar
	case client.httpClient.Jar == nil:
		jar, err := NewCookieJar()
		if err != nil {
			return nil, err
		}
		client.httpClient.Jar = jar
	}

	if client.deduplication {
		client.userFlight = singleflight.New[*User]()
		client.assessmentFlight = singleflight.New[*Assessment]()
	}

	return client, nil
}

// BaseURL returns the origin the client resolves endpoint paths against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CookieJar returns the jar holding the session cookies.
func (c *Client) CookieJar() http.CookieJar {
	return c.httpClient.Jar
}

// do sends one request for route and normalizes the outcome: a 2xx body is
// decoded into out (when non-nil), any other status becomes a *RemoteError,
// and a transport failure is returned exactly as net/http reported it.
func (c *Client) do(ctx context.Context, route Route, params Params, body, out interface{}) error {
	path, err := route.Path(params)
	if err != nil {
		c.metrics.RecordError(ErrorTypeRoute, route.Method, route.Template)
		return err
	}

	var requestID string
	if c.debug.Enabled && c.debug.RequestIDGen != nil {
		requestID = c.debug.RequestIDGen()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			c.metrics.RecordError(ErrorTypeEncode, route.Method, route.Template)
			return &ClientError{
				Type:      ErrorTypeEncode,
				Message:   "encode request body",
				Cause:     err,
				RequestID: requestID,
				Method:    route.Method,
				URL:       c.baseURL + path,
				Timestamp: time.Now(),
			}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, route.Method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	if c.debugEnabled(c.debug.LogRequests) {
		c.logger.Debug("Starting request", "requestID", requestID, "method", req.Method, "url", req.URL.String(), "route", route.Template)
	}

	start := time.Now()
	c.metrics.RecordRequestStart(route.Method, route.Template)
	resp, err := c.executeMiddleware(req)
	c.metrics.RecordRequestEnd(route.Method, route.Template)

	if err != nil {
		c.metrics.RecordRequest(route.Method, route.Template, 0, time.Since(start))
		c.metrics.RecordError(ErrorTypeTransport, route.Method, route.Template)
		if c.debugEnabled(c.debug.LogRequests) {
			c.logger.Warn("Request failed", "requestID", requestID, "method", req.Method, "url", req.URL.String(), "error", err.Error())
		}
		return err
	}
	if resp.Body == nil {
		resp.Body = http.NoBody
	}
	defer resp.Body.Close()

	c.metrics.RecordRequest(route.Method, route.Template, resp.StatusCode, time.Since(start))
	if c.debugEnabled(c.debug.LogRequests) {
		c.logger.Debug("Request completed", "requestID", requestID, "method", req.Method, "url", req.URL.String(), "status", resp.StatusCode, "duration", time.Since(start))
	}

	return c.decodeResponse(req, resp, route, requestID, start, out)
}

func (c *Client) executeMiddleware(req *http.Request) (*http.Response, error) {
	if len(c.middleware) == 0 {
		return c.httpClient.Do(req)
	}

	current := RoundTripper(RoundTripperFunc(c.httpClient.Do))

	for i := len(c.middleware) - 1; i >= 0; i-- {
		middleware := c.middleware[i]
		next := current
		current = RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			return middleware(r, next)
		})
	}

	return current.RoundTrip(req)
}

func (c *Client) debugEnabled(class bool) bool {
	return c.debug != nil && c.debug.Enabled && class && c.logger != nil
}
