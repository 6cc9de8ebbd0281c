package vault

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"higgsctl/internal/logging"
)

const (
	defaultHTTPTimeout = 30 * time.Second

	// tokenSkew is how close to expiry a Supabase access token may get
	// before re-authentication.
	tokenSkew = 60 * time.Second
	// fallbackExpiresIn is assumed when the token response omits expires_in.
	fallbackExpiresIn = 3600
)

// ErrConfig marks missing vault configuration.
var ErrConfig = errors.New("vault not configured")

// Config carries the Supabase connection settings and the vault passphrase.
type Config struct {
	SupabaseURL string
	SupabaseKey string
	Email       string
	Password    string
	Key         string
}

// Client talks to the Cookie Vault Supabase project.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	tokenExpiry  time.Time

	now func() time.Time
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New validates cfg and builds a Client. SupabaseURL, SupabaseKey, and Key
// are required; email/password are only needed when the project restricts
// reads to authenticated users.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.SupabaseURL = strings.TrimRight(strings.TrimSpace(cfg.SupabaseURL), "/")
	if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" || cfg.Key == "" {
		return nil, fmt.Errorf("%w: set supabase_url, supabase_key, and key in the [vault] config section or the COOKIE_VAULT_* environment variables", ErrConfig)
	}

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		logger:     logging.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// entry mirrors one cookie_entries row.
type entry struct {
	EncryptedData string `json:"encrypted_data"`
	IV            string `json:"iv"`
	Salt          string `json:"salt"`
	SyncedAt      string `json:"synced_at"`
	Domain        string `json:"domain"`
}

// DomainEntry summarizes one synced domain.
type DomainEntry struct {
	Domain         string `json:"domain"`
	CookieCount    int    `json:"cookie_count"`
	HasAuthCookies bool   `json:"has_auth_cookies"`
	SyncedAt       string `json:"synced_at"`
}

// Cookies returns the decrypted cookies for entries whose domain contains
// the given domain. Entries synced longer than maxAge ago are skipped when
// maxAge is positive.
func (c *Client) Cookies(ctx context.Context, domain string, maxAge time.Duration) ([]Cookie, error) {
	query := fmt.Sprintf("cookie_entries?domain=ilike.*%s*&select=encrypted_data,iv,salt,synced_at,domain",
		url.QueryEscape(domain))

	var entries []entry
	if err := c.query(ctx, query, &entries); err != nil {
		return nil, err
	}

	var cookies []Cookie
	for _, e := range entries {
		if maxAge > 0 {
			synced, err := time.Parse(time.RFC3339, e.SyncedAt)
			if err != nil {
				return nil, fmt.Errorf("parse synced_at for %s: %w", e.Domain, err)
			}
			if c.now().Sub(synced) > maxAge {
				c.logger.Debug("skipping stale vault entry",
					logging.String("domain", e.Domain),
					logging.String("synced_at", e.SyncedAt))
				continue
			}
		}
		decrypted, err := decryptEntry(e.EncryptedData, e.IV, e.Salt, c.cfg.Key)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", e.Domain, err)
		}
		cookies = append(cookies, decrypted...)
	}
	return cookies, nil
}

// CookieHeader renders the matching cookies as a Cookie header value, or ""
// when none match.
func (c *Client) CookieHeader(ctx context.Context, domain string, maxAge time.Duration) (string, error) {
	cookies, err := c.Cookies(ctx, domain, maxAge)
	if err != nil {
		return "", err
	}
	pairs := make([]string, 0, len(cookies))
	for _, cookie := range cookies {
		pairs = append(pairs, cookie.Name+"="+cookie.Value)
	}
	return strings.Join(pairs, "; "), nil
}

// Domains lists every domain with cookies in the vault.
func (c *Client) Domains(ctx context.Context) ([]DomainEntry, error) {
	var entries []DomainEntry
	if err := c.query(ctx, "cookie_entries?select=domain,cookie_count,has_auth_cookies,synced_at", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) query(ctx context.Context, path string, out any) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.SupabaseURL+"/rest/v1/"+path, nil)
	if err != nil {
		return fmt.Errorf("build vault request: %w", err)
	}
	req.Header.Set("apikey", c.cfg.SupabaseKey)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("vault query: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("vault query: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("vault query: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("vault query: decode response: %w", err)
	}
	return nil
}

// token returns a valid Supabase access token, re-authenticating inside the
// expiry skew. A failed refresh grant falls back to the password grant once.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && c.tokenExpiry.After(c.now().Add(tokenSkew)) {
		return c.accessToken, nil
	}

	if c.refreshToken != "" {
		if err := c.grant(ctx, "refresh_token", map[string]string{"refresh_token": c.refreshToken}); err == nil {
			return c.accessToken, nil
		}
		c.logger.Debug("refresh grant failed, retrying with password")
		c.refreshToken = ""
	}

	if err := c.grant(ctx, "password", map[string]string{"email": c.cfg.Email, "password": c.cfg.Password}); err != nil {
		return "", err
	}
	return c.accessToken, nil
}

func (c *Client) grant(ctx context.Context, grantType string, body map[string]string) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode auth request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.SupabaseURL+"/auth/v1/token?grant_type="+grantType, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build auth request: %w", err)
	}
	req.Header.Set("apikey", c.cfg.SupabaseKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("vault auth: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("vault auth: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("vault auth (%s): status %d: %s", grantType, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var token struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
	}
	if err := json.Unmarshal(respBody, &token); err != nil {
		return fmt.Errorf("vault auth: decode response: %w", err)
	}
	if token.AccessToken == "" {
		return errors.New("vault auth: no access token in response")
	}
	if token.ExpiresIn == 0 {
		token.ExpiresIn = fallbackExpiresIn
	}

	c.accessToken = token.AccessToken
	c.refreshToken = token.RefreshToken
	c.tokenExpiry = c.now().Add(time.Duration(token.ExpiresIn) * time.Second)
	return nil
}
