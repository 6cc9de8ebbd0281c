package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeService(); err != nil {
		return err
	}
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePolling()
	c.normalizeVault()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeService() error {
	c.Service.BaseURL = strings.TrimRight(strings.TrimSpace(c.Service.BaseURL), "/")
	if c.Service.BaseURL == "" {
		c.Service.BaseURL = defaultBaseURL
	}
	c.Service.ClerkBaseURL = strings.TrimRight(strings.TrimSpace(c.Service.ClerkBaseURL), "/")
	if c.Service.ClerkBaseURL == "" {
		c.Service.ClerkBaseURL = defaultClerkBaseURL
	}
	if c.Service.RequestTimeout <= 0 {
		c.Service.RequestTimeout = defaultRequestTimeout
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Output.Dir) == "" {
		c.Output.Dir = defaultOutputDir
	}
	if c.Output.Dir, err = expandPath(c.Output.Dir); err != nil {
		return fmt.Errorf("output.dir: %w", err)
	}
	if strings.TrimSpace(c.Serve.Dir) == "" {
		c.Serve.Dir = defaultServeDir
	}
	if c.Serve.Dir, err = expandPath(c.Serve.Dir); err != nil {
		return fmt.Errorf("serve.dir: %w", err)
	}
	c.Serve.Bind = strings.TrimSpace(c.Serve.Bind)
	if c.Serve.Bind == "" {
		c.Serve.Bind = defaultServeBind
	}
	return nil
}

func (c *Config) normalizePolling() {
	if c.Polling.Interval <= 0 {
		c.Polling.Interval = defaultPollInterval
	}
	if c.Polling.MaxWait <= 0 {
		c.Polling.MaxWait = defaultMaxWait
	}
	if c.Polling.CloneMaxWait <= 0 {
		c.Polling.CloneMaxWait = defaultCloneMaxWait
	}
}

func (c *Config) normalizeVault() {
	c.Vault.SupabaseURL = strings.TrimRight(strings.TrimSpace(c.Vault.SupabaseURL), "/")
	if c.Vault.SupabaseURL == "" {
		if value, ok := os.LookupEnv("COOKIE_VAULT_SUPABASE_URL"); ok {
			c.Vault.SupabaseURL = strings.TrimRight(strings.TrimSpace(value), "/")
		}
	}
	c.Vault.SupabaseKey = strings.TrimSpace(c.Vault.SupabaseKey)
	if c.Vault.SupabaseKey == "" {
		if value, ok := os.LookupEnv("COOKIE_VAULT_SUPABASE_KEY"); ok {
			c.Vault.SupabaseKey = strings.TrimSpace(value)
		}
	}
	c.Vault.Email = strings.TrimSpace(c.Vault.Email)
	if c.Vault.Email == "" {
		if value, ok := os.LookupEnv("COOKIE_VAULT_EMAIL"); ok {
			c.Vault.Email = strings.TrimSpace(value)
		}
	}
	if c.Vault.Password == "" {
		if value, ok := os.LookupEnv("COOKIE_VAULT_PASSWORD"); ok {
			c.Vault.Password = value
		}
	}
	if c.Vault.Key == "" {
		if value, ok := os.LookupEnv("COOKIE_VAULT_KEY"); ok {
			c.Vault.Key = value
		}
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
