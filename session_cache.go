package grademywork

import (
	"sync"
)

// Session cache slot names, used as metric labels and in debug logs.
const (
	SlotUser       = "user"
	SlotAssessment = "assessment"
)

// cachedAssessment is the assessment slot: the body plus the owner and
// caption it was fetched for.
type cachedAssessment struct {
	username   string
	caption    string
	assessment *Assessment
}

// SessionCache memoizes the current user and the last fetched assessment.
// It has exactly two slots and is cleared wholesale by any mutating call.
type SessionCache struct {
	mu         sync.RWMutex
	user       *User
	assessment *cachedAssessment
}

// NewSessionCache returns an empty cache.
func NewSessionCache() *SessionCache {
	return &SessionCache{}
}

// User returns a copy of the cached user.
func (sc *SessionCache) User() (*User, bool) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	if sc.user == nil {
		return nil, false
	}
	return sc.user.clone(), true
}

// Assessment returns a copy of the cached assessment only when it was
// fetched for exactly this username and caption.
func (sc *SessionCache) Assessment(username, caption string) (*Assessment, bool) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	if sc.assessment == nil || sc.assessment.username != username || sc.assessment.caption != caption {
		return nil, false
	}
	return sc.assessment.assessment.clone(), true
}

// SetUser replaces the user slot.
func (sc *SessionCache) SetUser(user *User) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.user = user.clone()
}

// SetAssessment replaces the assessment slot, tagging it with username and caption.
func (sc *SessionCache) SetAssessment(username, caption string, assessment *Assessment) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.assessment = &cachedAssessment{
		username:   username,
		caption:    caption,
		assessment: assessment.clone(),
	}
}

// Clear empties both slots.
func (sc *SessionCache) Clear() {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.user = nil
	sc.assessment = nil
}

// Len returns the number of occupied slots.
func (sc *SessionCache) Len() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	n := 0
	if sc.user != nil {
		n++
	}
	if sc.assessment != nil {
		n++
	}
	return n
}

// ClearCache empties the session cache.
func (c *Client) ClearCache() {
	c.cache.Clear()
	c.metrics.RecordCacheInvalidation()
	if c.debugEnabled(c.debug.LogCache) {
		c.logger.Debug("Session cache cleared")
	}
}

// CachedUser returns the cached user without touching the network.
func (c *Client) CachedUser() (*User, bool) {
	return c.cache.User()
}

// CachedAssessment returns the cached assessment for username and caption
// without touching the network.
func (c *Client) CachedAssessment(username, caption string) (*Assessment, bool) {
	return c.cache.Assessment(username, caption)
}

func (c *Client) cacheUser(user *User) {
	c.cache.SetUser(user)
	if c.debugEnabled(c.debug.LogCache) {
		c.logger.Debug("Session cache stored", "slot", SlotUser, "username", user.Username)
	}
}

func (c *Client) cacheAssessment(username, caption string, assessment *Assessment) {
	c.cache.SetAssessment(username, caption, assessment)
	if c.debugEnabled(c.debug.LogCache) {
		c.logger.Debug("Session cache stored", "slot", SlotAssessment, "username", username, "caption", caption)
	}
}

// invalidateAndCacheUser is the success path of calls whose response is the
// freshly authenticated user.
func (c *Client) invalidateAndCacheUser(user *User) {
	c.ClearCache()
	c.cacheUser(user)
}
