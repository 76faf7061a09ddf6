package grademywork

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

const testBaseURL = "http://localhost:3000"

// recordingLogger keeps every message it is given.
type recordingLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *recordingLogger) record(level, msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, fmt.Sprintf("[%s] %s %v", level, msg, args))
}

func (l *recordingLogger) Debug(msg string, args ...interface{}) { l.record("DEBUG", msg, args...) }
func (l *recordingLogger) Info(msg string, args ...interface{})  { l.record("INFO", msg, args...) }
func (l *recordingLogger) Warn(msg string, args ...interface{})  { l.record("WARN", msg, args...) }
func (l *recordingLogger) Error(msg string, args ...interface{}) { l.record("ERROR", msg, args...) }

func (l *recordingLogger) messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.msgs...)
}

func mustNew(t *testing.T, options ...Option) *Client {
	t.Helper()
	client, err := New(append([]Option{WithBaseURL(testBaseURL)}, options...)...)
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	return client
}

func TestWithTimeout(t *testing.T) {
	client := mustNew(t, WithTimeout(5*time.Second))

	if client.timeout != 5*time.Second {
		t.Errorf("Expected timeout=5s, got %v", client.timeout)
	}
	if client.httpClient.Timeout != 5*time.Second {
		t.Errorf("Expected HTTP client timeout=5s, got %v", client.httpClient.Timeout)
	}
}

func TestWithMiddleware(t *testing.T) {
	middleware1 := func(req *http.Request, next RoundTripper) (*http.Response, error) {
		return next.RoundTrip(req)
	}

	middleware2 := func(req *http.Request, next RoundTripper) (*http.Response, error) {
		return next.RoundTrip(req)
	}

	client := mustNew(t, WithMiddleware(middleware1, middleware2))

	if len(client.middleware) != 2 {
		t.Errorf("Expected 2 middleware functions, got %d", len(client.middleware))
	}
}

func TestWithHTTPClient(t *testing.T) {
	customClient := &http.Client{
		Timeout: 60 * time.Second,
	}

	client := mustNew(t, WithHTTPClient(customClient))

	if client.httpClient == customClient {
		t.Error("Expected the custom HTTP client to be copied")
	}
	if customClient.Jar != nil {
		t.Error("The caller's HTTP client must not be given a jar")
	}
	if client.httpClient.Jar == nil {
		t.Error("Expected the copied HTTP client to carry a jar")
	}
	if client.httpClient.Timeout != 60*time.Second {
		t.Errorf("Expected the custom client's timeout=60s to be kept, got %v", client.httpClient.Timeout)
	}
}

func TestWithHTTPClientWithoutTimeout(t *testing.T) {
	client := mustNew(t, WithHTTPClient(&http.Client{}))

	if client.httpClient.Timeout != 0 {
		t.Errorf("Expected no timeout on a custom client without one, got %v", client.httpClient.Timeout)
	}
}

func TestWithHTTPClientTimeoutUpdate(t *testing.T) {
	customClient := &http.Client{
		Timeout: 60 * time.Second,
	}

	// Set timeout first, then HTTP client
	client := mustNew(t,
		WithTimeout(10*time.Second),
		WithHTTPClient(customClient),
	)

	// HTTP client timeout should be updated to match client timeout
	if client.httpClient.Timeout != 10*time.Second {
		t.Errorf("Expected HTTP client timeout=10s, got %v", client.httpClient.Timeout)
	}
}

func TestWithHTTPClientKeepsItsJar(t *testing.T) {
	jar, _ := cookiejar.New(nil)
	client := mustNew(t, WithHTTPClient(&http.Client{Jar: jar}))

	if client.CookieJar() != jar {
		t.Error("Expected the HTTP client's own jar to be kept")
	}
}

func TestWithCookieJar(t *testing.T) {
	jar, _ := cookiejar.New(nil)
	otherJar, _ := cookiejar.New(nil)

	client := mustNew(t, WithHTTPClient(&http.Client{Jar: otherJar}), WithCookieJar(jar))

	if client.CookieJar() != jar {
		t.Error("Expected WithCookieJar to win over the HTTP client's jar")
	}
}

func TestWithUserAgent(t *testing.T) {
	client := mustNew(t, WithUserAgent("grader-bot/1.0"))

	if client.userAgent != "grader-bot/1.0" {
		t.Errorf("Expected custom user agent, got %q", client.userAgent)
	}
}

func TestWithMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	client := mustNew(t, WithMetricsCollector(NewMetricsCollectorWithRegistry(registry)))

	if client.metrics == nil {
		t.Fatal("Expected metrics collector to be set")
	}

	client.metrics.RecordCacheInvalidation()
	count, err := testutil.GatherAndCount(registry, "grademywork_session_cache_invalidations_total")
	if err != nil {
		t.Fatalf("GatherAndCount() returned error: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected collector to be registered on the given registry, got %d series", count)
	}
}

func TestWithDebug(t *testing.T) {
	client := mustNew(t, WithDebug())

	if !client.debug.Enabled {
		t.Error("Expected debug to be enabled")
	}
	if client.debug.RequestIDGen == nil {
		t.Error("Expected default request ID generator")
	}
	if id := client.debug.RequestIDGen(); len(id) != 36 {
		t.Errorf("Expected a UUID request ID, got %q", id)
	}
}

func TestWithDebugConfig(t *testing.T) {
	config := &DebugConfig{Enabled: true, LogRequests: false, LogCache: true, RequestIDGen: func() string { return "x" }}
	client := mustNew(t, WithDebugConfig(config))

	if client.debug != config {
		t.Error("Expected custom debug config to be set")
	}
	if client.debugEnabled(client.debug.LogRequests) {
		t.Error("request logging should be off")
	}
}

func TestWithDebugConfigNil(t *testing.T) {
	client := mustNew(t, WithDebugConfig(nil))

	if client.debug == nil || client.debug.Enabled {
		t.Error("Expected nil debug config to fall back to the default")
	}
}

func TestWithLogger(t *testing.T) {
	logger := hclog.New(&hclog.LoggerOptions{Name: "test", Level: hclog.Debug})
	client := mustNew(t, WithLogger(logger))

	if client.logger != Logger(logger) {
		t.Error("Expected hclog logger to be set")
	}
}

func TestWithDeduplication(t *testing.T) {
	client := mustNew(t, WithDeduplication())

	if client.userFlight == nil || client.assessmentFlight == nil {
		t.Error("Expected single-flight groups to be created")
	}
}

func TestValidateConfiguration(t *testing.T) {
	testCases := []struct {
		name    string
		options []Option
		wantErr bool
	}{
		{"valid http", []Option{WithBaseURL("http://localhost:3000")}, false},
		{"valid https with path", []Option{WithBaseURL("https://grademywork.example.org/")}, false},
		{"missing base URL", nil, true},
		{"relative base URL", []Option{WithBaseURL("/api")}, true},
		{"non http scheme", []Option{WithBaseURL("ftp://grademywork.example.org")}, true},
		{"garbage base URL", []Option{WithBaseURL("not a url")}, true},
		{"negative timeout", []Option{WithBaseURL(testBaseURL), WithTimeout(-time.Second)}, true},
		{"nil http client", []Option{WithBaseURL(testBaseURL), WithHTTPClient(nil)}, true},
		{"nil middleware", []Option{WithBaseURL(testBaseURL), WithMiddleware(nil)}, true},
		{"nil logger", []Option{WithBaseURL(testBaseURL), WithLogger(nil)}, true},
		{"debug without ID generator", []Option{WithBaseURL(testBaseURL), WithDebug(), WithRequestIDGenerator(nil)}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.options...)
			if (err != nil) != tc.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, &ClientError{Type: ErrorTypeValidation}) {
				t.Errorf("Expected a Validation error, got %v", err)
			}
		})
	}
}

func TestOptionsOrderIndependence(t *testing.T) {
	client1 := mustNew(t,
		WithTimeout(10*time.Second),
		WithUserAgent("a"),
		WithDeduplication(),
	)

	client2 := mustNew(t,
		WithDeduplication(),
		WithUserAgent("a"),
		WithTimeout(10*time.Second),
	)

	if client1.timeout != client2.timeout {
		t.Error("Option order affected timeout")
	}
	if client1.userAgent != client2.userAgent {
		t.Error("Option order affected user agent")
	}
	if client1.deduplication != client2.deduplication {
		t.Error("Option order affected deduplication")
	}
}

func TestDefaultValuesWithoutOptions(t *testing.T) {
	client := mustNew(t)

	if client.timeout != 0 {
		t.Errorf("Expected no default timeout, got %v", client.timeout)
	}
	if client.httpClient.Timeout != 0 {
		t.Errorf("Expected no default HTTP client timeout, got %v", client.httpClient.Timeout)
	}

	if client.metrics != nil {
		t.Error("Expected default metrics=nil")
	}

	if client.debug.Enabled {
		t.Error("Expected debug to be disabled by default")
	}

	if client.deduplication {
		t.Error("Expected deduplication to be off by default")
	}

	if len(client.middleware) != 0 {
		t.Errorf("Expected default middleware count=0, got %d", len(client.middleware))
	}
}
