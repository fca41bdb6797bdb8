// Package auth issues and verifies the bearer tokens that guard the API.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that cannot be trusted: bad
// signature, wrong algorithm, expired, or malformed.
var ErrInvalidToken = errors.New("invalid token")

// Principal identifies the caller behind a verified token.
type Principal struct {
	UserID int64
	Email  string
	Role   string
}

// Verifier turns a raw bearer token into a Principal.
type Verifier interface {
	Verify(token string) (Principal, error)
}

// Issuer signs tokens for an authenticated principal.
type Issuer interface {
	Issue(p Principal) (string, error)
}

type claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"rol"`
}

// JWT signs and verifies HS256 tokens with a shared secret.
type JWT struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWT builds a JWT signer. An empty secret is rejected.
func NewJWT(secret, issuer string, ttl time.Duration) (*JWT, error) {
	if secret == "" {
		return nil, errors.New("jwt: empty secret")
	}
	return &JWT{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}, nil
}

var (
	_ Verifier = (*JWT)(nil)
	_ Issuer   = (*JWT)(nil)
)

// Issue returns a signed token for p that expires after the configured ttl.
func (j *JWT) Issue(p Principal) (string, error) {
	now := j.now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   fmt.Sprint(p.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		UserID: p.UserID,
		Email:  p.Email,
		Role:   p.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(j.secret)
}

// Verify checks the signature and expiry of token and returns its principal.
func (j *JWT) Verify(token string) (Principal, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return j.secret, nil
	}, jwt.WithTimeFunc(j.now))
	if err != nil || !parsed.Valid {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return Principal{UserID: c.UserID, Email: c.Email, Role: c.Role}, nil
}
