// Copyright 2024 The go-equa Authors
// This file is part of the go-equa library.

package poa

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
)

func testJWTSecret() []byte {
	secret := make([]byte, 32)
	for i := range secret {
		secret[i] = byte(i)
	}
	return secret
}

func signTestToken(t *testing.T, secret []byte, iat time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat": jwt.NewNumericDate(iat),
	})
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func TestEngineAuthenticatorAcceptsFreshToken(t *testing.T) {
	secret := testJWTSecret()
	auth, err := NewEngineAuthenticator(secret)
	require.NoError(t, err)

	token := signTestToken(t, secret, time.Now())
	require.NoError(t, auth.Authenticate(token))
}

func TestEngineAuthenticatorRejectsClockSkew(t *testing.T) {
	secret := testJWTSecret()
	auth, err := NewEngineAuthenticator(secret)
	require.NoError(t, err)

	token := signTestToken(t, secret, time.Now().Add(-time.Hour))
	err = auth.Authenticate(token)
	require.ErrorIs(t, err, errClockSkew)
}

func TestEngineAuthenticatorRejectsWrongSecret(t *testing.T) {
	secret := testJWTSecret()
	auth, err := NewEngineAuthenticator(secret)
	require.NoError(t, err)

	other := make([]byte, 32)
	copy(other, secret)
	other[0] ^= 0xff
	token := signTestToken(t, other, time.Now())

	err = auth.Authenticate(token)
	require.Error(t, err)
}

func TestNewEngineAuthenticatorRejectsShortSecret(t *testing.T) {
	_, err := NewEngineAuthenticator(make([]byte, 16))
	require.Error(t, err)
}
