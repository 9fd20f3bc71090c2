package credential_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daap14/questadmin/internal/credential"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestDecode_ValidToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := signed(t, jwt.MapClaims{"sub": "user-1", "exp": exp.Unix()})

	c, err := credential.Decode(tok)

	require.NoError(t, err)
	assert.Equal(t, "user-1", c.Subject)
	assert.True(t, exp.Equal(c.ExpiresAt))
}

func TestDecode_MissingExpiry(t *testing.T) {
	tok := signed(t, jwt.MapClaims{"sub": "user-1"})

	_, err := credential.Decode(tok)

	assert.ErrorIs(t, err, credential.ErrNoExpiry)
}

func TestExpired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	payload := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{name: "empty", token: "", want: true},
		{name: "two segments", token: "abc.def", want: true},
		{name: "four segments", token: "a.b.c.d", want: true},
		{name: "payload not base64", token: "eyJhbGciOiJIUzI1NiJ9.!!!.sig", want: true},
		{name: "payload not json", token: "eyJhbGciOiJIUzI1NiJ9." + payload("nope") + ".sig", want: true},
		{name: "exp not numeric", token: "eyJhbGciOiJIUzI1NiJ9." + payload(`{"exp":"soon"}`) + ".sig", want: true},
		{name: "no exp", token: signed(t, jwt.MapClaims{"sub": "x"}), want: true},
		{name: "exp one second ago", token: signed(t, jwt.MapClaims{"exp": now.Unix() - 1}), want: true},
		{name: "exp exactly now", token: signed(t, jwt.MapClaims{"exp": now.Unix()}), want: true},
		{name: "exp in future", token: signed(t, jwt.MapClaims{"exp": now.Unix() + 60}), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, credential.Expired(tt.token, now))
		})
	}
}
