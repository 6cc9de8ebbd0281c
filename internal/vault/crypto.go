package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Key derivation parameters matching the browser extension's Web Crypto
// settings; changing either breaks decryption of existing entries.
const (
	pbkdf2Iterations = 100_000
	keyLength        = 32
)

// Cookie is one decrypted browser cookie.
type Cookie struct {
	Name           string  `json:"name"`
	Value          string  `json:"value"`
	Domain         string  `json:"domain"`
	Path           string  `json:"path"`
	Secure         bool    `json:"secure"`
	HTTPOnly       bool    `json:"httpOnly"`
	SameSite       string  `json:"sameSite"`
	ExpirationDate float64 `json:"expirationDate"`
}

func deriveKey(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, pbkdf2Iterations, keyLength, sha256.New)
}

// decryptEntry opens one encrypted_data/iv/salt triple (all base64) with the
// vault passphrase and decodes the cookie list inside.
func decryptEntry(encryptedData, iv, salt, passphrase string) ([]Cookie, error) {
	saltBytes, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return nil, fmt.Errorf("decode salt: %w", err)
	}
	ivBytes, err := base64.StdEncoding.DecodeString(iv)
	if err != nil {
		return nil, fmt.Errorf("decode iv: %w", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(encryptedData)
	if err != nil {
		return nil, fmt.Errorf("decode ciphertext: %w", err)
	}

	block, err := aes.NewCipher(deriveKey(passphrase, saltBytes))
	if err != nil {
		return nil, fmt.Errorf("build cipher: %w", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, len(ivBytes))
	if err != nil {
		return nil, fmt.Errorf("build GCM: %w", err)
	}
	plaintext, err := gcm.Open(nil, ivBytes, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt entry: %w: wrong vault key or corrupt entry", err)
	}

	var cookies []Cookie
	if err := json.Unmarshal(plaintext, &cookies); err != nil {
		return nil, fmt.Errorf("decode cookie payload: %w", err)
	}
	return cookies, nil
}
