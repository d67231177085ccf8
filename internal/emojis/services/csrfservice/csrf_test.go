package csrfservice

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidate(t *testing.T) {
	cs := New("secret", time.Hour)

	token, err := cs.Issue()
	require.NoError(t, err)
	require.NoError(t, cs.Validate(token))

	other, err := cs.Issue()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestValidateRejects(t *testing.T) {
	cs := New("secret", time.Hour)

	token, err := cs.Issue()
	require.NoError(t, err)

	require.ErrorIs(t, New("other secret", time.Hour).Validate(token), ErrInvalidToken)
	require.ErrorIs(t, cs.Validate("garbage"), ErrInvalidToken)
	require.ErrorIs(t, cs.Validate(token+"x"), ErrInvalidToken)
}

func TestValidateExpired(t *testing.T) {
	cs := New("secret", time.Minute)
	cs.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := cs.Issue()
	require.NoError(t, err)

	require.ErrorIs(t, cs.Validate(token), ErrInvalidToken)
}

func TestValidateWrongSubject(t *testing.T) {
	claims := jwt.StandardClaims{Subject: "session", ExpiresAt: time.Now().Add(time.Hour).Unix()} //nolint:exhaustruct

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	require.ErrorIs(t, New("secret", time.Hour).Validate(token), ErrInvalidToken)
}

func TestValidateRejectsNoneAlgorithm(t *testing.T) {
	claims := jwt.StandardClaims{Subject: "csrf", ExpiresAt: time.Now().Add(time.Hour).Unix()} //nolint:exhaustruct

	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	require.ErrorIs(t, New("secret", time.Hour).Validate(token), ErrInvalidToken)
}
