package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

// Config is the profile file.
type Config struct {
	BaseURL string `toml:"base_url" json:"base_url"`
	Timeout string `toml:"timeout" json:"timeout,omitempty"`
	Debug   bool   `toml:"debug" json:"debug"`

	// Cookies overrides where the session cookies are kept.
	Cookies string `toml:"cookies" json:"cookies,omitempty"`
}

// timeout parses Timeout; an empty value means the client default.
func (cfg Config) timeout() (time.Duration, error) {
	if cfg.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return 0, fmt.Errorf("config: timeout %q: %w", cfg.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: timeout must be positive, got %s", cfg.Timeout)
	}
	return d, nil
}

// configDir returns the config directory using XDG standard (~/.config/grademywork/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

func defaultConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// cookiePath is where the session cookies live unless the profile says otherwise.
func cookiePath(cfg Config) (string, error) {
	if cfg.Cookies != "" {
		return cfg.Cookies, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cookies.json"), nil
}

// loadConfig reads the profile at path. A missing default profile is not an
// error; a missing profile that was asked for explicitly is.
func (c *CLI) loadConfig() (Config, error) {
	var cfg Config

	path := c.configPath
	explicit := path != ""
	if !explicit {
		p, err := defaultConfigPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			c.Logger.Debug("No config file", "path", path)
			return c.applyOverrides(cfg), nil
		}
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		c.Logger.Warn("Ignoring unknown config keys", "path", path, "keys", strings.Join(keys, ","))
	}
	c.Logger.Debug("Loaded config", "path", path)

	return c.applyOverrides(cfg), nil
}

// applyOverrides layers the environment and then the flags over the file.
func (c *CLI) applyOverrides(cfg Config) Config {
	if v := os.Getenv(envBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	if c.verbose {
		cfg.Debug = true
	}
	return cfg
}

// configCommand creates the config inspection command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the resolved configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the configuration after environment and flag overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.print(cfg)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print where the config and cookie files are",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			configFile := c.configPath
			if configFile == "" {
				if configFile, err = defaultConfigPath(); err != nil {
					return err
				}
			}
			cookies, err := cookiePath(cfg)
			if err != nil {
				return err
			}
			return c.print(map[string]string{"config": configFile, "cookies": cookies})
		},
	})

	return cmd
}
