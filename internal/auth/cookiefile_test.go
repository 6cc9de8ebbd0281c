package auth_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"higgsctl/internal/auth"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSessionTokenFromCookieList(t *testing.T) {
	path := writeTempFile(t, "cookies.json", `[
		{"name": "__client", "value": "client-value"},
		{"name": "__session", "value": "session-jwt"}
	]`)

	token, err := auth.SessionTokenFromFile(path)
	require.NoError(t, err)
	require.Equal(t, "session-jwt", token)
}

func TestSessionTokenFromDomainKeyedLists(t *testing.T) {
	path := writeTempFile(t, "cookies.json", `{
		"example.com": [{"name": "other", "value": "x"}],
		"higgsfield.ai": [{"name": "__session", "value": "session-jwt"}]
	}`)

	token, err := auth.SessionTokenFromFile(path)
	require.NoError(t, err)
	require.Equal(t, "session-jwt", token)
}

func TestSessionTokenFromDomainKeyedValueMaps(t *testing.T) {
	path := writeTempFile(t, "cookies.json", `{
		"higgsfield.ai": {"__client": "client-value", "__session": "session-jwt"}
	}`)

	token, err := auth.SessionTokenFromFile(path)
	require.NoError(t, err)
	require.Equal(t, "session-jwt", token)
}

func TestSessionTokenMissing(t *testing.T) {
	path := writeTempFile(t, "cookies.json", `[{"name": "other", "value": "x"}]`)

	_, err := auth.SessionTokenFromFile(path)
	require.ErrorContains(t, err, "__session")
}

func TestSessionTokenBadJSON(t *testing.T) {
	path := writeTempFile(t, "cookies.json", `not json`)

	_, err := auth.SessionTokenFromFile(path)
	require.ErrorContains(t, err, "parse cookie file")
}

func TestReadClientCookieFileTrims(t *testing.T) {
	path := writeTempFile(t, "client.txt", "  cookie-value\n")

	value, err := auth.ReadClientCookieFile(path)
	require.NoError(t, err)
	require.Equal(t, "cookie-value", value)
}

func TestReadClientCookieFileEmpty(t *testing.T) {
	path := writeTempFile(t, "client.txt", "\n")

	_, err := auth.ReadClientCookieFile(path)
	require.ErrorContains(t, err, "empty")
}
