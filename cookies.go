package grademywork

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"
)

// NewCookieJar returns an in-memory jar that scopes cookies with the public
// suffix list, the jar every Client gets unless WithCookieJar is used.
func NewCookieJar() (*cookiejar.Jar, error) {
	return cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
}

// storedCookie is the on-disk form of a cookie.
type storedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"httpOnly,omitempty"`
}

func (sc storedCookie) expired(now time.Time) bool {
	return !sc.Expires.IsZero() && !sc.Expires.After(now)
}

func (sc storedCookie) cookie() *http.Cookie {
	return &http.Cookie{
		Name:     sc.Name,
		Value:    sc.Value,
		Path:     sc.Path,
		Domain:   sc.Domain,
		Expires:  sc.Expires,
		Secure:   sc.Secure,
		HttpOnly: sc.HttpOnly,
	}
}

// FileJar is a cookie jar whose contents survive the process: cookies are
// loaded from a JSON file on open and written back by Save. Matching is
// delegated to a public-suffix aware cookiejar.Jar.
type FileJar struct {
	mu     sync.Mutex
	path   string
	jar    *cookiejar.Jar
	byHost map[string][]storedCookie
	now    func() time.Time
}

// OpenFileJar loads the jar stored at path. A missing file yields an empty jar.
func OpenFileJar(path string) (*FileJar, error) {
	jar, err := NewCookieJar()
	if err != nil {
		return nil, err
	}
	fj := &FileJar{
		path:   path,
		jar:    jar,
		byHost: make(map[string][]storedCookie),
		now:    time.Now,
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fj, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cookie file: %w", err)
	}
	if len(data) == 0 {
		return fj, nil
	}

	var stored map[string][]storedCookie
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("parse cookie file %s: %w", path, err)
	}

	now := fj.now()
	for origin, cookies := range stored {
		u, err := url.Parse(origin)
		if err != nil {
			continue
		}
		live := make([]*http.Cookie, 0, len(cookies))
		for _, sc := range cookies {
			if sc.expired(now) {
				continue
			}
			fj.byHost[origin] = append(fj.byHost[origin], sc)
			live = append(live, sc.cookie())
		}
		jar.SetCookies(u, live)
	}

	return fj, nil
}

// SetCookies implements http.CookieJar.
func (fj *FileJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	fj.mu.Lock()
	defer fj.mu.Unlock()

	fj.jar.SetCookies(u, cookies)

	origin := originOf(u)
	now := fj.now()
	current := fj.byHost[origin]
	for _, c := range cookies {
		path := c.Path
		if path == "" || path[0] != '/' {
			path = defaultPath(u)
		}
		sc := storedCookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     path,
			Domain:   c.Domain,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}
		if c.MaxAge > 0 {
			sc.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}

		kept := current[:0]
		for _, existing := range current {
			if existing.Name == sc.Name && existing.Path == sc.Path && existing.Domain == sc.Domain {
				continue
			}
			kept = append(kept, existing)
		}
		current = kept

		if c.MaxAge < 0 || sc.expired(now) {
			continue
		}
		current = append(current, sc)
	}

	if len(current) == 0 {
		delete(fj.byHost, origin)
		return
	}
	fj.byHost[origin] = current
}

// Cookies implements http.CookieJar.
func (fj *FileJar) Cookies(u *url.URL) []*http.Cookie {
	fj.mu.Lock()
	defer fj.mu.Unlock()

	return fj.jar.Cookies(u)
}

// Save writes the unexpired cookies to the jar's file with owner-only
// permissions, replacing it atomically.
func (fj *FileJar) Save() error {
	fj.mu.Lock()
	now := fj.now()
	stored := make(map[string][]storedCookie, len(fj.byHost))
	for origin, cookies := range fj.byHost {
		for _, sc := range cookies {
			if !sc.expired(now) {
				stored[origin] = append(stored[origin], sc)
			}
		}
	}
	fj.mu.Unlock()

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cookies: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(fj.path), 0o700); err != nil {
		return fmt.Errorf("create cookie dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(fj.path), ".cookies-*")
	if err != nil {
		return fmt.Errorf("create cookie file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write cookie file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod cookie file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cookie file: %w", err)
	}
	return os.Rename(tmp.Name(), fj.path)
}

// Clear forgets every cookie. The file is only touched by the next Save.
func (fj *FileJar) Clear() error {
	jar, err := NewCookieJar()
	if err != nil {
		return err
	}

	fj.mu.Lock()
	defer fj.mu.Unlock()

	fj.jar = jar
	fj.byHost = make(map[string][]storedCookie)
	return nil
}

// Path returns the file backing the jar.
func (fj *FileJar) Path() string {
	return fj.path
}

// defaultPath is the path a cookie without a Path attribute is scoped to:
// the directory of the request path.
func defaultPath(u *url.URL) string {
	p := u.EscapedPath()
	if p == "" || p[0] != '/' {
		return "/"
	}
	i := strings.LastIndex(p, "/")
	if i == 0 {
		return "/"
	}
	return p[:i]
}

func originOf(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}
