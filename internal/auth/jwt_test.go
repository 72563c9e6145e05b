package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerify(t *testing.T) {
	j := New("secret", "lingo")

	tok, err := j.Sign("u1", "Ana", time.Minute)
	require.NoError(t, err)

	claims, err := j.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "Ana", claims.Name)
	assert.Equal(t, "lingo", claims.Issuer)
}

func TestSign_EmptyUID(t *testing.T) {
	_, err := New("secret", "lingo").Sign("", "Ana", time.Minute)
	assert.Error(t, err)
}

func TestVerify_Rejects(t *testing.T) {
	j := New("secret", "lingo")

	expired, err := j.Sign("u1", "Ana", -time.Minute)
	require.NoError(t, err)
	_, err = j.Verify(expired)
	assert.ErrorIs(t, err, ErrExpiredToken)

	foreign, err := New("other", "lingo").Sign("u1", "Ana", time.Minute)
	require.NoError(t, err)
	_, err = j.Verify(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	otherIssuer, err := New("secret", "elsewhere").Sign("u1", "Ana", time.Minute)
	require.NoError(t, err)
	_, err = j.Verify(otherIssuer)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = j.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsMissingSubject(t *testing.T) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    "lingo",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = New("secret", "lingo").Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsOtherAlgorithm(t *testing.T) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", Issuer: "lingo"}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = New("secret", "lingo").Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
