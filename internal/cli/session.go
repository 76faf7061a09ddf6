package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	grademywork "github.com/ThierrySans/grademywork-sub000"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// session is one invocation's client plus the jar it persists.
type session struct {
	client *grademywork.Client
	jar    *grademywork.FileJar
}

// openSession builds a client from the resolved configuration, backed by the
// on-disk cookie jar.
func (c *CLI) openSession() (*session, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("no service configured: set base_url in the config file, %s or --base-url", envBaseURL)
	}

	path, err := cookiePath(cfg)
	if err != nil {
		return nil, err
	}
	jar, err := grademywork.OpenFileJar(path)
	if err != nil {
		return nil, err
	}

	options := []grademywork.Option{
		grademywork.WithBaseURL(cfg.BaseURL),
		grademywork.WithCookieJar(jar),
		grademywork.WithLogger(c.Logger),
		grademywork.WithUserAgent(grademywork.UserAgent() + " (cli)"),
	}
	timeout, err := cfg.timeout()
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		options = append(options, grademywork.WithTimeout(timeout))
	}
	if cfg.Debug {
		options = append(options, grademywork.WithDebug())
	}

	client, err := grademywork.New(options...)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("Session opened", "baseURL", client.BaseURL(), "cookies", jar.Path())

	return &session{client: client, jar: jar}, nil
}

// run opens a session, calls fn, persists the cookies and prints fn's result
// as JSON when it is not nil.
func (c *CLI) run(cmd *cobra.Command, fn func(ctx context.Context, client *grademywork.Client) (interface{}, error)) error {
	s, err := c.openSession()
	if err != nil {
		return err
	}

	result, callErr := fn(cmd.Context(), s.client)

	if err := s.jar.Save(); err != nil {
		c.Logger.Warn("Could not save cookies", "path", s.jar.Path(), "error", err)
	}
	if callErr != nil {
		return callErr
	}
	if result == nil {
		return nil
	}
	return c.print(result)
}

// exec is run for calls that only report success.
func (c *CLI) exec(cmd *cobra.Command, done string, fn func(ctx context.Context, client *grademywork.Client) error) error {
	return c.run(cmd, func(ctx context.Context, client *grademywork.Client) (interface{}, error) {
		if err := fn(ctx, client); err != nil {
			return nil, err
		}
		c.Logger.Info(done)
		return nil, nil
	})
}

// print writes v to the output as indented JSON.
func (c *CLI) print(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = c.Out.Write(data)
	return err
}

// password returns the --password flag value, falling back to the environment.
func password(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if v := os.Getenv(envPassword); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("a password is required: use --password or %s", envPassword)
}

// parseBool accepts the spellings strconv does plus on/off and yes/no.
func parseBool(s string) (bool, error) {
	switch s {
	case "on", "yes", "y":
		return true, nil
	case "off", "no", "n":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("expected true or false, got %q", s)
	}
	return b, nil
}

// parseAnswer keeps valid JSON as is and treats anything else as a string.
func parseAnswer(s string) interface{} {
	if isJSON([]byte(s)) {
		return jsoniter.RawMessage(s)
	}
	return s
}

// isJSON reports whether data holds one JSON value, scalars included.
func isJSON(data []byte) bool {
	var v interface{}
	return json.Unmarshal(data, &v) == nil
}
