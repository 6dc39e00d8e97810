package jwtutil

import (
	"testing"

	"notes-service/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCodec(expirationHours int) *Codec {
	return NewCodec(&config.JWTConfig{
		SigningKey:      "test-signing-key",
		ExpirationHours: expirationHours,
		Issuer:          "notes-service",
	})
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	codec := testCodec(168)

	token, err := codec.Issue(42, "admin@acme.test", "admin", 7, "acme")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := codec.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "admin@acme.test", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, uint(7), claims.TenantID)
	assert.Equal(t, "acme", claims.TenantSlug)
	assert.Equal(t, "notes-service", claims.Issuer)
}

func TestVerifyExpiredToken(t *testing.T) {
	codec := testCodec(-1)

	token, err := codec.Issue(1, "user@acme.test", "member", 1, "acme")
	require.NoError(t, err)

	_, err = codec.Verify(token)
	assert.Error(t, err)
}

func TestVerifyWrongKey(t *testing.T) {
	codec := testCodec(168)
	other := NewCodec(&config.JWTConfig{SigningKey: "another-key", ExpirationHours: 168, Issuer: "notes-service"})

	token, err := codec.Issue(1, "user@acme.test", "member", 1, "acme")
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestVerifyMalformedToken(t *testing.T) {
	codec := testCodec(168)

	_, err := codec.Verify("not-a-token")
	assert.Error(t, err)
}
