package api

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	secureCookieVersion = "v1"
	secureCookieLabel   = "dailypulse.secure-cookie.v1"
	secureCookieAADBase = "dailypulse.cookie."
	authCookiePurpose   = "auth"
)

var (
	errInvalidSecureCookieValue = errors.New("invalid secure cookie value")
	errSecureCookieUnavailable  = errors.New("secure cookie codec is not initialized")
	errSecureCookiePurpose      = errors.New("secure cookie purpose is required")
)

// secureCookieCodec seals cookie values with AES-GCM under a key derived from
// the server secret. The purpose is bound as additional data so a value
// sealed for one cookie cannot be replayed into another.
type secureCookieCodec struct {
	aead cipher.AEAD
}

func newSecureCookieCodec(secretKey []byte) (*secureCookieCodec, error) {
	if len(secretKey) == 0 {
		return nil, errors.New("secure cookie secret key is required")
	}

	material := make([]byte, 0, len(secureCookieLabel)+len(secretKey))
	material = append(material, secureCookieLabel...)
	material = append(material, secretKey...)
	derivedKey := sha256.Sum256(material)

	block, err := aes.NewCipher(derivedKey[:])
	if err != nil {
		return nil, fmt.Errorf("init secure cookie cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init secure cookie aead: %w", err)
	}
	return &secureCookieCodec{aead: aead}, nil
}

func (codec *secureCookieCodec) additionalData(purpose string) ([]byte, error) {
	if codec == nil || codec.aead == nil {
		return nil, errSecureCookieUnavailable
	}
	trimmed := strings.TrimSpace(purpose)
	if trimmed == "" {
		return nil, errSecureCookiePurpose
	}
	return []byte(secureCookieAADBase + trimmed), nil
}

func (codec *secureCookieCodec) seal(purpose string, plaintext []byte) (string, error) {
	aad, err := codec.additionalData(purpose)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, codec.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate secure cookie nonce: %w", err)
	}

	payload := codec.aead.Seal(nonce, nonce, plaintext, aad)
	return secureCookieVersion + "." + base64.RawURLEncoding.EncodeToString(payload), nil
}

func (codec *secureCookieCodec) open(purpose string, rawValue string) ([]byte, error) {
	aad, err := codec.additionalData(purpose)
	if err != nil {
		return nil, err
	}

	version, encoded, found := strings.Cut(strings.TrimSpace(rawValue), ".")
	if !found || version != secureCookieVersion || encoded == "" {
		return nil, errInvalidSecureCookieValue
	}
	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errInvalidSecureCookieValue
	}

	nonceSize := codec.aead.NonceSize()
	if len(payload) <= nonceSize {
		return nil, errInvalidSecureCookieValue
	}
	plaintext, err := codec.aead.Open(nil, payload[:nonceSize], payload[nonceSize:], aad)
	if err != nil {
		return nil, errInvalidSecureCookieValue
	}
	return plaintext, nil
}

func isSealedCookieValue(rawValue string) bool {
	return strings.HasPrefix(strings.TrimSpace(rawValue), secureCookieVersion+".")
}
