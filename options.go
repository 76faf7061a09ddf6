package grademywork

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// DefaultDebugConfig returns a configuration with debugging disabled and all
// event classes selected once it is enabled.
func DefaultDebugConfig() *DebugConfig {
	return &DebugConfig{
		Enabled:      false,
		LogRequests:  true,
		LogCache:     true,
		RequestIDGen: uuid.NewString,
	}
}

// WithBaseURL sets the origin every endpoint path is resolved against,
// e.g. "https://grademywork.example.org". Required.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.rawBaseURL = baseURL
	}
}

// WithTimeout sets the request timeout. Without it the client has no timeout
// of its own and a client passed to WithHTTPClient keeps its own value.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
		if c.httpClient != nil {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient sets a custom HTTP client. The client is copied, so setting
// the cookie jar or timeout never mutates the caller's value. Its Timeout is
// kept unless WithTimeout is also given.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client == nil {
			c.httpClient = nil
			return
		}
		hc := *client
		c.httpClient = &hc
		if c.timeout != 0 {
			c.httpClient.Timeout = c.timeout
		}
	}
}

// WithCookieJar sets the jar holding the session cookies. By default each
// client gets its own in-memory jar.
func WithCookieJar(jar http.CookieJar) Option {
	return func(c *Client) {
		c.jar = jar
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithMiddleware adds middleware to the client
func WithMiddleware(middleware ...Middleware) Option {
	return func(c *Client) {
		c.middleware = append(c.middleware, middleware...)
	}
}

// WithMetrics enables Prometheus metrics collection
func WithMetrics() Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(c *Client) {
		c.metrics = collector
	}
}

// WithDebug enables debug logging with default configuration
func WithDebug() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
	}
}

// WithDebugConfig sets custom debug configuration
func WithDebugConfig(config *DebugConfig) Option {
	return func(c *Client) {
		c.debug = config
	}
}

// WithLogger sets the logger for debug output. hclog.Logger fits directly.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRequestIDGenerator sets a custom function for generating request IDs
func WithRequestIDGenerator(gen func() string) Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.RequestIDGen = gen
	}
}

// WithDeduplication makes concurrent GetUser / GetAssessment cache misses for
// the same slot share a single request.
func WithDeduplication() Option {
	return func(c *Client) {
		c.deduplication = true
	}
}

// ValidateConfiguration validates the client configuration and returns an error if invalid
func (c *Client) ValidateConfiguration() error {
	if c.rawBaseURL == "" {
		return &ClientError{
			Type:    ErrorTypeValidation,
			Message: "configuration validation failed",
			Cause:   ErrMissingBaseURL,
		}
	}

	err := validation.Errors{
		"baseURL":    validation.Validate(c.rawBaseURL, is.RequestURL, validation.By(httpScheme)),
		"timeout":    validation.Validate(c.timeout, validation.Min(time.Duration(0))),
		"httpClient": validation.Validate(c.httpClient, validation.NotNil),
		"middleware": validation.Validate(c.middleware, validation.Each(validation.NotNil)),
		"logger":     validation.Validate(c.logger, validation.NotNil),
		"debug":      c.validateDebugConfig(),
	}.Filter()
	if err != nil {
		return &ClientError{
			Type:    ErrorTypeValidation,
			Message: "configuration validation failed",
			Cause:   err,
		}
	}

	return nil
}

func (c *Client) validateDebugConfig() error {
	if c.debug == nil || !c.debug.Enabled {
		return nil
	}
	if c.debug.RequestIDGen == nil {
		return validation.NewError("validation_request_id_gen", "RequestIDGen must be set when debug is enabled")
	}
	return nil
}

func httpScheme(value interface{}) error {
	raw, _ := value.(string)
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}

// defaultLogger discards everything until WithLogger is used.
func defaultLogger() Logger {
	return hclog.NewNullLogger()
}
