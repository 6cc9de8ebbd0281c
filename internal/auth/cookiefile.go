package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

const sessionCookieName = "__session"

type cookieRecord struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SessionTokenFromFile extracts the Clerk __session token from a
// cookie-extractor JSON export. The extractor writes either a flat list of
// cookie objects or a map keyed by domain whose values are cookie lists or
// name-to-value maps.
func SessionTokenFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read cookie file: %w", err)
	}

	var list []cookieRecord
	if err := json.Unmarshal(data, &list); err == nil {
		if token, ok := findSessionCookie(list); ok {
			return token, nil
		}
		return "", missingSessionErr(path)
	}

	var byDomain map[string]json.RawMessage
	if err := json.Unmarshal(data, &byDomain); err != nil {
		return "", fmt.Errorf("parse cookie file: %w", err)
	}
	for _, raw := range byDomain {
		var domainList []cookieRecord
		if err := json.Unmarshal(raw, &domainList); err == nil {
			if token, ok := findSessionCookie(domainList); ok {
				return token, nil
			}
			continue
		}
		var domainMap map[string]string
		if err := json.Unmarshal(raw, &domainMap); err == nil {
			if token, ok := domainMap[sessionCookieName]; ok {
				return token, nil
			}
		}
	}
	return "", missingSessionErr(path)
}

func findSessionCookie(cookies []cookieRecord) (string, bool) {
	for _, cookie := range cookies {
		if cookie.Name == sessionCookieName {
			return cookie.Value, true
		}
	}
	return "", false
}

func missingSessionErr(path string) error {
	return fmt.Errorf("no %s cookie in %s; make sure the cookie extractor has captured higgsfield.ai cookies", sessionCookieName, path)
}

// ReadClientCookieFile reads a plain-text file holding the __client cookie
// value.
func ReadClientCookieFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read client cookie file: %w", err)
	}
	value := strings.TrimSpace(string(data))
	if value == "" {
		return "", fmt.Errorf("client cookie file %s is empty", path)
	}
	return value, nil
}
