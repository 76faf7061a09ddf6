package grademywork

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const (
	testUsername = "ada"
	testEmail    = "ada@example.org"
	testCaption  = "midterm"
	testSheet    = "q1"
	sessionName  = "connect.sid"
)

// recordedRequest is what the fake service saw for one call.
type recordedRequest struct {
	Method   string
	Path     string
	RawPath  string
	RawQuery string
	Header   http.Header
	Body     map[string]interface{}
	Cookies  []*http.Cookie
}

// fakeService emulates the grading service closely enough to exercise the
// client: it answers the read endpoints with canned documents, sets a session
// cookie on sign-in and records every request.
type fakeService struct {
	t        *testing.T
	server   *httptest.Server
	mu       sync.Mutex
	requests []recordedRequest

	// override, when set, answers instead of the canned routes.
	override http.HandlerFunc
}

func newFakeService(t *testing.T) *fakeService {
	t.Helper()
	svc := &fakeService{t: t}
	svc.server = httptest.NewServer(http.HandlerFunc(svc.serve))
	t.Cleanup(svc.server.Close)
	return svc
}

func (s *fakeService) serve(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		s.t.Errorf("read request body: %v", err)
	}
	rec := recordedRequest{
		Method:   r.Method,
		Path:     r.URL.Path,
		RawPath:  r.URL.EscapedPath(),
		RawQuery: r.URL.RawQuery,
		Header:   r.Header.Clone(),
		Cookies:  r.Cookies(),
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &rec.Body); err != nil {
			s.t.Errorf("request body is not a JSON object: %q", raw)
		}
	}
	s.mu.Lock()
	s.requests = append(s.requests, rec)
	override := s.override
	s.mu.Unlock()

	if override != nil {
		override(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	path := r.URL.Path
	switch {
	case r.Method == http.MethodPost && (path == "/api/login" || path == "/api/verify"):
		http.SetCookie(w, &http.Cookie{Name: sessionName, Value: "s3ss10n", Path: "/"})
		writeString(w, `{"username":"ada","email":"ada@example.org"}`)
	case r.Method == http.MethodPatch && strings.HasSuffix(path, "/profile/password/"):
		writeString(w, `{"username":"ada","email":"ada@example.org"}`)
	case r.Method == http.MethodGet && path == "/api/":
		writeString(w, `{"username":"ada","email":"ada@example.org"}`)
	case r.Method == http.MethodGet && strings.HasSuffix(path, "/stats/"):
		writeString(w, `{"submissions":3,"average":71.5}`)
	case r.Method == http.MethodGet && strings.HasSuffix(path, "/privileges"):
		writeString(w, `[{"email":"bob@example.org","type":"grader"}]`)
	case r.Method == http.MethodGet && strings.Contains(path, "/sheets/"):
		writeString(w, `{"caption":"q1","questions":[{"text":"2+2?"}]}`)
	case r.Method == http.MethodGet && strings.Contains(path, "/assessments/"):
		parts := strings.Split(strings.Trim(path, "/"), "/")
		writeString(w, `{"caption":"`+parts[len(parts)-1]+`","owner":"`+parts[2]+`","isPublic":true,"rubrics":[{"points":5}],"sheets":[{"caption":"q1"}]}`)
	default:
		w.WriteHeader(http.StatusOK)
	}
}

func writeString(w io.Writer, s string) {
	_, _ = io.WriteString(w, s)
}

func (s *fakeService) URL() string {
	return s.server.URL
}

func (s *fakeService) Requests() []recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]recordedRequest(nil), s.requests...)
}

func (s *fakeService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *fakeService) Last() recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(s.t, s.requests, "no request recorded")
	return s.requests[len(s.requests)-1]
}

func (s *fakeService) SetOverride(h http.HandlerFunc) {
	s.mu.Lock()
	s.override = h
	s.mu.Unlock()
}

// newTestClient returns a client pointed at svc with metrics on a private registry.
func newTestClient(t *testing.T, svc *fakeService, opts ...Option) *Client {
	t.Helper()
	base := []Option{
		WithBaseURL(svc.URL()),
		WithMetricsCollector(NewMetricsCollectorWithRegistry(prometheus.NewRegistry())),
	}
	client, err := New(append(base, opts...)...)
	require.NoError(t, err)
	return client
}
