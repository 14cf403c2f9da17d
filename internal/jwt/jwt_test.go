package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVerifyRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, err := svc.Generate("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestGenerateProducesDistinctTokens(t *testing.T) {
	svc := NewJWTService("test-secret")

	first, err := svc.Generate("user-123")
	require.NoError(t, err)
	second, err := svc.Generate("user-123")
	require.NoError(t, err)

	// Each issuance is a separate session, even for the same user.
	assert.NotEqual(t, first, second)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, err := svc.Generate("user-123")
	require.NoError(t, err)

	_, err = svc.Verify(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a")
	verifier := NewJWTService("secret-b")

	token, err := issuer.Generate("user-123")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsMalformedToken(t *testing.T) {
	svc := NewJWTService("test-secret")

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := svc.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}
