// Package token encodes and decodes the signed access/refresh tokens used
// for authentication. The codec is pure computation: it knows the signing
// secret and a clock, nothing about storage.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Type distinguishes the two token kinds issued together as a pair.
type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

var (
	// ErrMalformed is returned when a token cannot be parsed at all.
	ErrMalformed = errors.New("token is malformed")
	// ErrBadSignature is returned when the signature does not verify.
	ErrBadSignature = errors.New("token signature is invalid")
	// ErrExpired is returned by Validate for a token past its expiry.
	ErrExpired = errors.New("token has expired")
	// ErrTypeMismatch is returned by Validate when an access token is
	// presented where a refresh token is expected, or vice versa.
	ErrTypeMismatch = errors.New("unexpected token type")
)

// Claims is the payload carried by every signed token. ExpiresAt is an
// absolute instant fixed at issuance, so validation never depends on clock
// state at issue time.
type Claims struct {
	UserID    uint64 `json:"user_id"`
	Username  string `json:"username"`
	TokenType Type   `json:"token_type"`
	jwt.RegisteredClaims
}

// Codec issues and verifies HMAC-SHA256 signed tokens with a single shared
// secret. There is no key rotation; compromise mitigation relies on expiry.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// New creates a Codec signing with the given secret.
func New(secret string) *Codec {
	return &Codec{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// NewWithClock creates a Codec with an injected clock (used for testing).
func NewWithClock(secret string, now func() time.Time) *Codec {
	return &Codec{
		secret: []byte(secret),
		now:    now,
	}
}

// Issue signs a token of the given type expiring ttl from now.
func (c *Codec) Issue(userID uint64, username string, typ Type, ttl time.Duration) (string, error) {
	now := c.now()
	claims := Claims{
		UserID:    userID,
		Username:  username,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode verifies the signature and parses the payload. Expiry and token
// type are deliberately not checked here; callers run Validate, so expired
// and wrong-type tokens stay distinguishable from corrupt ones for logging.
func (c *Codec) Decode(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrMalformed
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadSignature
		}
		return c.secret, nil
	}, jwt.WithoutClaimsValidation())

	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, ErrBadSignature
	case err != nil:
		return nil, ErrMalformed
	case !parsed.Valid:
		return nil, ErrBadSignature
	}

	return &claims, nil
}

// Validate checks the decoded payload against the expected token type and
// the current time. The two checks are independent: a wrong-type token fails
// even when fresh, an expired token fails even when the type matches.
func (c *Codec) Validate(claims *Claims, expected Type) error {
	if claims.TokenType != expected {
		return ErrTypeMismatch
	}
	if claims.ExpiresAt == nil || c.now().After(claims.ExpiresAt.Time) {
		return ErrExpired
	}
	return nil
}
