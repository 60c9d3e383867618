package service

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDocTokenService(allowedHost string) *DocTokenService {
	return NewDocTokenService(&config.Config{
		Storage: config.StorageConfig{
			PublicHost:  "cdn.example.com",
			MinioBucket: "lms",
		},
		DocToken: config.DocTokenConfig{
			Secret:      "test-doc-token-secret-0123456789abcdef",
			ExpireTime:  2 * time.Hour,
			AllowedHost: allowedHost,
		},
	})
}

func TestDocTokenRoundTrip(t *testing.T) {
	svc := newDocTokenService("cdn.example.com")

	token, err := svc.Issue("files/guide.pdf", 123456789, "abcdef12-3456-7890-abcd-ef1234567890")
	require.NoError(t, err)
	assert.Contains(t, token, ".")

	payload, err := svc.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/lms/files/guide.pdf", payload.URL)
	assert.Equal(t, "456789", payload.UID)
	assert.Equal(t, "34567890", payload.DID)
	assert.Greater(t, payload.Exp, payload.Iat)
}

func TestDocTokenShortIdentifiers(t *testing.T) {
	svc := newDocTokenService("cdn.example.com")

	token, err := svc.Issue("files/a.pdf", 7, "doc1")
	require.NoError(t, err)

	payload, err := svc.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "7", payload.UID)
	assert.Equal(t, "doc1", payload.DID)
}

func TestDocTokenExpired(t *testing.T) {
	svc := newDocTokenService("cdn.example.com")

	restore := nowFunc
	nowFunc = func() time.Time { return time.Now().Add(-3 * time.Hour) }
	token, err := svc.Issue("files/guide.pdf", 1, "doc1")
	nowFunc = restore
	require.NoError(t, err)

	_, err = svc.Decode(token)
	assert.ErrorIs(t, err, util.ErrInvalidDocToken)
}

func TestDocTokenTampered(t *testing.T) {
	svc := newDocTokenService("cdn.example.com")

	token, err := svc.Issue("files/guide.pdf", 1, "doc1")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 2)

	// 篡改载荷中的URL后签名不再匹配
	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	require.NoError(t, err)
	forged := strings.Replace(string(raw), "guide.pdf", "secret.pdf", 1)
	tampered := base64.RawURLEncoding.EncodeToString([]byte(forged)) + "." + parts[1]

	_, err = svc.Decode(tampered)
	assert.ErrorIs(t, err, util.ErrInvalidDocToken)
}

func TestDocTokenWrongSignature(t *testing.T) {
	issuer := newDocTokenService("cdn.example.com")
	verifier := NewDocTokenService(&config.Config{
		Storage: config.StorageConfig{PublicHost: "cdn.example.com", MinioBucket: "lms"},
		DocToken: config.DocTokenConfig{
			Secret:      "a-completely-different-secret-value-here",
			ExpireTime:  2 * time.Hour,
			AllowedHost: "cdn.example.com",
		},
	})

	token, err := issuer.Issue("files/guide.pdf", 1, "doc1")
	require.NoError(t, err)

	_, err = verifier.Decode(token)
	assert.ErrorIs(t, err, util.ErrInvalidDocToken)
}

func TestDocTokenHostNotAllowed(t *testing.T) {
	svc := newDocTokenService("other.example.net")

	token, err := svc.Issue("files/guide.pdf", 1, "doc1")
	require.NoError(t, err)

	// 签名有效但host不在白名单
	_, err = svc.Decode(token)
	assert.ErrorIs(t, err, util.ErrInvalidDocToken)
}

func TestDocTokenAllowsSubdomain(t *testing.T) {
	svc := NewDocTokenService(&config.Config{
		Storage: config.StorageConfig{PublicHost: "cdn.example.com", MinioBucket: "lms"},
		DocToken: config.DocTokenConfig{
			Secret:      "test-doc-token-secret-0123456789abcdef",
			ExpireTime:  2 * time.Hour,
			AllowedHost: "example.com",
		},
	})

	token, err := svc.Issue("files/guide.pdf", 1, "doc1")
	require.NoError(t, err)

	payload, err := svc.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/lms/files/guide.pdf", payload.URL)
}

func TestDocTokenMalformed(t *testing.T) {
	svc := newDocTokenService("cdn.example.com")

	for _, token := range []string{"", "garbage", "a.b.c", "!!!.???"} {
		_, err := svc.Decode(token)
		assert.ErrorIs(t, err, util.ErrInvalidDocToken, "token %q", token)
	}
}
