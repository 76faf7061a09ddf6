package grademywork

import (
	"context"
)

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

type resetRequest struct {
	Email string `json:"email"`
}

type changePasswordRequest struct {
	Username string `json:"username"`
	Old      string `json:"old"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Token    string `json:"token"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account. The account is not signed in afterwards, so
// the session cache is left untouched.
func (c *Client) Register(ctx context.Context, email, username string) error {
	return c.do(ctx, routeRegister, nil, registerRequest{Email: email, Username: username}, nil)
}

// Reset asks the service to send a password reset token to email.
func (c *Client) Reset(ctx context.Context, email string) error {
	return c.do(ctx, routeReset, nil, resetRequest{Email: email}, nil)
}

// ChangePassword replaces the password of username and caches the user the
// service returns.
func (c *Client) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) (*User, error) {
	var user User
	body := changePasswordRequest{Username: username, Old: oldPassword, Password: newPassword}
	if err := c.do(ctx, routeChangePassword, Params{"username": username}, body, &user); err != nil {
		return nil, err
	}
	c.invalidateAndCacheUser(&user)
	return &user, nil
}

// Verify sets the password of a freshly registered (or reset) account using
// the emailed token. The account is signed in on success.
func (c *Client) Verify(ctx context.Context, email, password, token string) (*User, error) {
	var user User
	body := verifyRequest{Email: email, Password: password, Token: token}
	if err := c.do(ctx, routeVerify, nil, body, &user); err != nil {
		return nil, err
	}
	c.invalidateAndCacheUser(&user)
	return &user, nil
}

// Login signs in; the session cookie is kept in the client's jar.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var user User
	if err := c.do(ctx, routeLogin, nil, loginRequest{Email: email, Password: password}, &user); err != nil {
		return nil, err
	}
	c.invalidateAndCacheUser(&user)
	return &user, nil
}

// Logout ends the session.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, routeLogout, nil, nil, nil); err != nil {
		return err
	}
	c.ClearCache()
	return nil
}

// GetUser returns the signed-in user, from the session cache when present.
func (c *Client) GetUser(ctx context.Context) (*User, error) {
	if user, ok := c.cache.User(); ok {
		c.metrics.RecordCacheHit(SlotUser)
		if c.debugEnabled(c.debug.LogCache) {
			c.logger.Debug("Session cache hit", "slot", SlotUser)
		}
		return user, nil
	}
	c.metrics.RecordCacheMiss(SlotUser)

	fetch := func() (*User, error) {
		var user User
		if err := c.do(ctx, routeGetUser, nil, nil, &user); err != nil {
			return nil, err
		}
		c.cacheUser(&user)
		return &user, nil
	}

	if c.userFlight == nil {
		return fetch()
	}

	user, err, shared := c.userFlight.Do(SlotUser, fetch)
	if err != nil {
		return nil, err
	}
	if shared {
		c.metrics.RecordDeduplicationHit(SlotUser)
	}
	return user.clone(), nil
}
