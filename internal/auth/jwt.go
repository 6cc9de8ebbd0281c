package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

type tokenClaims struct {
	expiry    time.Time
	sessionID string
}

// decodeClaims reads the exp and sid claims from a JWT payload without
// verifying the signature; the token is only inspected for cache bookkeeping.
func decodeClaims(token string) (tokenClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return tokenClaims{}, errors.New("not a JWT")
	}

	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return tokenClaims{}, err
	}

	var payload struct {
		Exp int64  `json:"exp"`
		Sid string `json:"sid"`
	}
	if err := json.Unmarshal(decoded, &payload); err != nil {
		return tokenClaims{}, err
	}
	if payload.Exp == 0 {
		return tokenClaims{}, errors.New("no exp claim")
	}
	return tokenClaims{expiry: time.Unix(payload.Exp, 0), sessionID: payload.Sid}, nil
}
