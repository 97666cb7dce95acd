// Package auth issues and verifies access tokens and checks user credentials.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 24 * time.Hour

const issuer = "portfolio-backend"

// Identity is the authenticated caller carried inside a token.
type Identity struct {
	ID    uint        `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// IdentityOf builds the token identity of a stored user.
func IdentityOf(user *models.User) Identity {
	return Identity{ID: user.ID, Email: user.Email, Role: user.Role}
}

// Claims is the JWT payload.
type Claims struct {
	UserID uint   `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HS256 access tokens with a process-wide secret.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec fails when secret is empty; there is no fallback key.
func NewTokenCodec(secret string, ttl time.Duration) (*TokenCodec, error) {
	if secret == "" {
		return nil, errs.NewConfigError("JWT_SECRET", errors.New("signing secret is empty"))
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// WithClock returns a copy of the codec that reads the current time from now.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	clone := *c
	clone.now = now
	return &clone
}

// Issue returns a signed token for identity that expires after the codec's TTL.
func (c *TokenCodec) Issue(identity Identity) (string, error) {
	now := c.now()
	claims := Claims{
		UserID: identity.ID,
		Email:  identity.Email,
		Role:   string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   fmt.Sprint(identity.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry and returns the embedded identity.
// A token past its expiry is reported as expired whether or not its signature matches.
func (c *TokenCodec) Verify(tokenString string) (Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) || c.expired(tokenString) {
			return Identity{}, errs.NewExpiredTokenError(err)
		}
		return Identity{}, errs.NewInvalidTokenError(err)
	}

	role := models.Role(claims.Role)
	if !role.Valid() {
		return Identity{}, errs.NewInvalidTokenError(fmt.Errorf("unknown role %q", claims.Role))
	}

	return Identity{ID: claims.UserID, Email: claims.Email, Role: role}, nil
}

// expired reads exp without checking the signature.
func (c *TokenCodec) expired(tokenString string) bool {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !c.now().Before(claims.ExpiresAt.Time)
}
