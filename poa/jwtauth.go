// Copyright 2024 The go-equa Authors
// This file is part of the go-equa library.

package poa

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// jwtClockSkew is the permitted drift between the caller's iat claim and
// this node's clock, the same five-second budget the Engine API spec
// allows and upstream go-ethereum's HTTP auth layer enforces.
const jwtClockSkew = 5 * time.Second

var (
	errMissingIssuedAt = errors.New("poa: engine API token missing iat claim")
	errClockSkew       = errors.New("poa: engine API token iat outside the permitted clock skew")
)

// EngineAuthenticator validates the bearer token the consensus-layer
// caller presents at the Engine API boundary the bridge (§4.F) sits
// behind. It is a narrow, HS256-only check: the secret is the 32-byte
// JWT secret shared out-of-band between the execution and consensus
// layers, exactly as the upstream Engine API spec requires.
type EngineAuthenticator struct {
	secret []byte
}

// NewEngineAuthenticator builds an authenticator around a 32-byte shared
// secret.
func NewEngineAuthenticator(secret []byte) (*EngineAuthenticator, error) {
	if len(secret) != 32 {
		return nil, errors.New("poa: engine API JWT secret must be 32 bytes")
	}
	return &EngineAuthenticator{secret: append([]byte(nil), secret...)}, nil
}

// Authenticate parses and validates a bearer token, returning an error
// if the signature doesn't verify or the iat claim is outside the
// permitted clock skew. It does not itself gate the bridge's conversion
// path (§4.F's five steps run regardless); it is the transport-level
// guard an HTTP handler in front of the bridge is expected to call.
func (a *EngineAuthenticator) Authenticate(tokenString string) error {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("poa: unexpected engine API token signing method")
		}
		return a.secret, nil
	})
	if err != nil {
		return err
	}

	iat, ok := claims["iat"]
	if !ok {
		return errMissingIssuedAt
	}
	issuedAt, err := parseIssuedAt(iat)
	if err != nil {
		return err
	}
	if drift := time.Since(issuedAt); drift > jwtClockSkew || drift < -jwtClockSkew {
		return errClockSkew
	}
	return nil
}

func parseIssuedAt(raw interface{}) (time.Time, error) {
	switch v := raw.(type) {
	case float64:
		return time.Unix(int64(v), 0), nil
	case jwt.NumericDate:
		return v.Time, nil
	default:
		return time.Time{}, errors.New("poa: engine API token iat claim has an unexpected type")
	}
}
