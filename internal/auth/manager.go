package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"higgsctl/internal/logging"
)

const (
	defaultClerkBaseURL = "https://clerk.higgsfield.ai"
	defaultHTTPTimeout  = 15 * time.Second

	// expirySkew is how close to expiry a cached token may get before a
	// refresh is attempted.
	expirySkew = 10 * time.Second
	// fallbackTTL is assumed when a freshly issued token's claims cannot be
	// decoded.
	fallbackTTL = 50 * time.Second
)

// ErrUnavailable marks the absence of any usable credential.
var ErrUnavailable = errors.New("no token available and cannot refresh")

// Manager caches one session token and refreshes it through the Clerk
// frontend API when a __client cookie is held. All fields are plain values
// owned by the manager; there is no process-wide state.
type Manager struct {
	mu           sync.Mutex
	clerkBaseURL string
	clientCookie string
	sessionID    string
	cached       string
	expiry       time.Time
	httpClient   *http.Client
	logger       *slog.Logger
	now          func() time.Time
}

// Option customizes a Manager.
type Option func(*Manager)

// WithClerkBaseURL overrides the Clerk frontend API base (tests/mocks).
func WithClerkBaseURL(base string) Option {
	return func(m *Manager) {
		base = strings.TrimRight(strings.TrimSpace(base), "/")
		if base != "" {
			m.clerkBaseURL = base
		}
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(m *Manager) {
		if client != nil {
			m.httpClient = client
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func newManager(opts ...Option) *Manager {
	m := &Manager{
		clerkBaseURL: defaultClerkBaseURL,
		httpClient:   &http.Client{Timeout: defaultHTTPTimeout},
		logger:       logging.NewNop(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewFromStaticToken builds a Manager around a short-lived JWT with no
// refresh capability. The token's expiry and session id are read from its
// own claims when decodable.
func NewFromStaticToken(token string, opts ...Option) *Manager {
	m := newManager(opts...)
	m.cached = strings.TrimSpace(token)
	if claims, err := decodeClaims(m.cached); err == nil {
		m.expiry = claims.expiry
		m.sessionID = claims.sessionID
	}
	return m
}

// NewFromClientCookie builds a refreshing Manager from the long-lived
// __client cookie. When sessionID is empty it is auto-detected from the
// Clerk client state, preferring the first active session.
func NewFromClientCookie(ctx context.Context, clientCookie, sessionID string, opts ...Option) (*Manager, error) {
	m := newManager(opts...)
	m.clientCookie = strings.TrimSpace(clientCookie)
	m.sessionID = strings.TrimSpace(sessionID)
	if m.clientCookie == "" {
		return nil, fmt.Errorf("%w: empty __client cookie", ErrUnavailable)
	}
	if m.sessionID == "" {
		detected, err := m.detectSessionID(ctx)
		if err != nil {
			return nil, err
		}
		m.sessionID = detected
	}
	return m, nil
}

// Token returns a valid session token, refreshing when the cached one is
// within the expiry skew. A stale static token is still served when no
// refresh path exists; having neither is an ErrUnavailable.
func (m *Manager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cached != "" && m.expiry.After(m.now().Add(expirySkew)) {
		return m.cached, nil
	}

	if m.clientCookie != "" && m.sessionID != "" {
		return m.refresh(ctx)
	}

	if m.cached != "" {
		return m.cached, nil
	}

	return "", ErrUnavailable
}

// CanRefresh reports whether the manager holds a refresh credential.
func (m *Manager) CanRefresh() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clientCookie != "" && m.sessionID != ""
}

func (m *Manager) refresh(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/v1/client/sessions/%s/tokens", m.clerkBaseURL, m.sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return "", fmt.Errorf("build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "__client", Value: m.clientCookie})

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("refresh token: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("refresh token: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		JWT string `json:"jwt"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("refresh token: decode response: %w", err)
	}
	if payload.JWT == "" {
		return "", fmt.Errorf("refresh token: no JWT in Clerk response")
	}

	m.cached = payload.JWT
	if claims, err := decodeClaims(payload.JWT); err == nil {
		m.expiry = claims.expiry
	} else {
		m.expiry = m.now().Add(fallbackTTL)
	}
	m.logger.Debug("session token refreshed",
		logging.String("session_id", m.sessionID),
		logging.Duration("ttl", time.Until(m.expiry).Round(time.Second)))
	return m.cached, nil
}

func (m *Manager) detectSessionID(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.clerkBaseURL+"/v1/client", nil)
	if err != nil {
		return "", fmt.Errorf("build client request: %w", err)
	}
	req.AddCookie(&http.Cookie{Name: "__client", Value: m.clientCookie})

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("detect session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("detect session: status %d", resp.StatusCode)
	}

	var payload struct {
		Response struct {
			Sessions []struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"sessions"`
		} `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("detect session: decode response: %w", err)
	}

	sessions := payload.Response.Sessions
	if len(sessions) == 0 {
		return "", fmt.Errorf("%w: no active Clerk sessions found", ErrUnavailable)
	}
	for _, session := range sessions {
		if session.Status == "active" {
			return session.ID, nil
		}
	}
	return sessions[0].ID, nil
}
