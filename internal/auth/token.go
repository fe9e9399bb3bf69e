package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformedToken means the token is structurally invalid: wrong
	// encoding, wrong segment count, or missing required claims.
	ErrMalformedToken = errors.New("auth: malformed token")
	// ErrInvalidSignature means the claims do not match the signature under
	// the server secret (tampering, wrong key, or algorithm confusion).
	ErrInvalidSignature = errors.New("auth: invalid token signature")
	// ErrTokenExpired means the token's exp claim is at or before now.
	ErrTokenExpired = errors.New("auth: token expired")
)

// Claims is the claim set carried by a session token: the registered subject,
// issued-at and expiry, plus the numeric user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID int `json:"user_id"`
}

// Tokens issues and verifies HS256 session tokens. Verification is a pure
// function of (token, secret, clock) and is safe for concurrent use.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

// NewTokens returns a token service signing with secret and issuing tokens
// valid for ttl.
func NewTokens(secret []byte, ttl time.Duration) *Tokens {
	return &Tokens{secret: secret, ttl: ttl}
}

// Issue mints a signed token for the given user. The signature covers the full
// claim set, so any mutation of subject or expiry invalidates it.
func (t *Tokens) Issue(userID int, username string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify validates the token's signature and expiry and returns its claims.
// Failures map to exactly one of ErrMalformedToken, ErrInvalidSignature, or
// ErrTokenExpired. Tokens signed with any method other than HS256 (including
// "none") fail verification.
func (t *Tokens) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims,
		func(tok *jwt.Token) (interface{}, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrMalformedToken
		}
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrMalformedToken
	}
	return claims, nil
}
