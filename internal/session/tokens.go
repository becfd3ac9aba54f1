package session

import (
	"certprep/internal/model"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid or expired session token")

// Signer issues and validates the HS256 session tokens carried in the cookie
type Signer struct {
	secret []byte
	ttl    time.Duration
}

// NewSigner creates a signer. The secret is static; sessions are not a trust boundary.
func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// NewClaims starts a fresh anonymous session
func (s *Signer) NewClaims() *model.SessionClaims {
	return &model.SessionClaims{SessionID: uuid.New().String()}
}

// Issue signs claims, refreshing their issue and expiry times
func (s *Signer) Issue(claims *model.SessionClaims) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse validates a session token and returns its claims
func (s *Signer) Parse(tokenString string) (*model.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// TTL is the lifetime of an issued token
func (s *Signer) TTL() time.Duration {
	return s.ttl
}
