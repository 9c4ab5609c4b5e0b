package token

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return raw
}

func TestDecode_ExtractsExpiry(t *testing.T) {
	exp := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC).Unix()
	raw := sign(t, jwt.MapClaims{"sub": "alice", "exp": exp})

	c, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, c.Raw)
	assert.Equal(t, exp, c.ExpiresAt)
}

func TestDecode_Malformed(t *testing.T) {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	badPayload := base64.RawURLEncoding.EncodeToString([]byte(`not json`))
	noExp := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"alice"}`))
	textExp := base64.RawURLEncoding.EncodeToString([]byte(`{"exp":"tomorrow"}`))

	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "two segments", raw: "a.b"},
		{name: "four segments", raw: "a.b.c.d"},
		{name: "payload not base64", raw: header + ".%%%.sig"},
		{name: "payload not json", raw: header + "." + badPayload + ".sig"},
		{name: "no exp", raw: header + "." + noExp + ".sig"},
		{name: "exp not numeric", raw: header + "." + textExp + ".sig"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw)
			var de *DecodeError
			require.ErrorAs(t, err, &de)
		})
	}
}

func TestDecode_IgnoresSignature(t *testing.T) {
	raw := sign(t, jwt.MapClaims{"exp": int64(1000)})
	tampered := raw[:len(raw)-2] + "xx"

	c, err := Decode(tampered)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), c.ExpiresAt)
}

func TestIsExpired(t *testing.T) {
	c := Credential{Raw: "x", ExpiresAt: 1000}

	assert.True(t, IsExpired(c, 1000), "boundary is inclusive")
	assert.True(t, IsExpired(c, 1001))
	assert.False(t, IsExpired(c, 999))
}
