package auth_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"higgsctl/internal/auth"
)

func mintToken(t *testing.T, exp time.Time, sessionID string) string {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"exp": exp.Unix(),
		"sid": sessionID,
	})
	require.NoError(t, err)
	encode := base64.RawURLEncoding.EncodeToString
	return encode([]byte(`{"alg":"none"}`)) + "." + encode(payload) + ".sig"
}

func TestStaticTokenServedWithinExpiry(t *testing.T) {
	token := mintToken(t, time.Now().Add(time.Hour), "sess_static")
	manager := auth.NewFromStaticToken(token)

	got, err := manager.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, token, got)
	require.False(t, manager.CanRefresh())
}

func TestStaleStaticTokenStillServedWithoutRefreshPath(t *testing.T) {
	token := mintToken(t, time.Now().Add(-time.Minute), "sess_static")
	manager := auth.NewFromStaticToken(token)

	got, err := manager.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, token, got)
}

func TestEmptyCredentialsUnavailable(t *testing.T) {
	manager := auth.NewFromStaticToken("")

	_, err := manager.Token(context.Background())
	require.ErrorIs(t, err, auth.ErrUnavailable)
}

func TestClientCookieDetectsActiveSession(t *testing.T) {
	fresh := mintToken(t, time.Now().Add(time.Minute), "sess_active")
	var tokenCalls atomic.Int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("__client")
		require.NoError(t, err)
		require.Equal(t, "client-cookie-value", cookie.Value)

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/v1/client":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"response": map[string]any{
					"sessions": []map[string]string{
						{"id": "sess_expired", "status": "expired"},
						{"id": "sess_active", "status": "active"},
					},
				},
			})
		case r.Method == http.MethodPost && r.URL.Path == "/v1/client/sessions/sess_active/tokens":
			tokenCalls.Add(1)
			_ = json.NewEncoder(w).Encode(map[string]string{"jwt": fresh})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	manager, err := auth.NewFromClientCookie(context.Background(), "client-cookie-value", "",
		auth.WithClerkBaseURL(server.URL))
	require.NoError(t, err)
	require.True(t, manager.CanRefresh())

	got, err := manager.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, fresh, got)
	require.EqualValues(t, 1, tokenCalls.Load())
}

func TestTokenCachedUntilExpirySkew(t *testing.T) {
	fresh := mintToken(t, time.Now().Add(time.Hour), "sess_1")
	var tokenCalls atomic.Int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/v1/client/sessions/sess_1/tokens" {
			tokenCalls.Add(1)
			_ = json.NewEncoder(w).Encode(map[string]string{"jwt": fresh})
			return
		}
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	}))
	defer server.Close()

	manager, err := auth.NewFromClientCookie(context.Background(), "cookie", "sess_1",
		auth.WithClerkBaseURL(server.URL))
	require.NoError(t, err)

	for range 3 {
		got, err := manager.Token(context.Background())
		require.NoError(t, err)
		require.Equal(t, fresh, got)
	}
	require.EqualValues(t, 1, tokenCalls.Load())
}

func TestExpiredTokenTriggersRefresh(t *testing.T) {
	stale := mintToken(t, time.Now().Add(2*time.Second), "sess_1")
	fresh := mintToken(t, time.Now().Add(time.Hour), "sess_1")

	// A token expiring inside the expiry skew must not be served from cache.
	responses := []string{stale, fresh}
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		idx := calls.Add(1) - 1
		require.Less(t, int(idx), len(responses))
		_ = json.NewEncoder(w).Encode(map[string]string{"jwt": responses[idx]})
	}))
	defer server.Close()

	manager, err := auth.NewFromClientCookie(context.Background(), "cookie", "sess_1",
		auth.WithClerkBaseURL(server.URL))
	require.NoError(t, err)

	got, err := manager.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, stale, got)

	got, err = manager.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, fresh, got)
	require.EqualValues(t, 2, calls.Load())
}

func TestRefreshFailureSurfacesStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "session revoked", http.StatusUnauthorized)
	}))
	defer server.Close()

	manager, err := auth.NewFromClientCookie(context.Background(), "cookie", "sess_1",
		auth.WithClerkBaseURL(server.URL))
	require.NoError(t, err)

	_, err = manager.Token(context.Background())
	require.ErrorContains(t, err, "status 401")
}

func TestClientCookieWithoutSessionsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"response": map[string]any{"sessions": []any{}},
		})
	}))
	defer server.Close()

	_, err := auth.NewFromClientCookie(context.Background(), "cookie", "",
		auth.WithClerkBaseURL(server.URL))
	require.ErrorIs(t, err, auth.ErrUnavailable)
}
