package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const CookieName = "tb_session"

var ErrInvalidToken = errors.New("invalid session token")

// CookieCodec signs the session id carried by the browser cookie.
type CookieCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCookieCodec(secret string, ttl time.Duration) *CookieCodec {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CookieCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// UseClock replaces the time source used for issuing and checking tokens.
func (c *CookieCodec) UseClock(now func() time.Time) {
	c.now = now
}

func (c *CookieCodec) TTL() time.Duration {
	return c.ttl
}

func (c *CookieCodec) Encode(sessionID string) (string, error) {
	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Decode returns the session id of a valid, unexpired token.
func (c *CookieCodec) Decode(value string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(value, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.now))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
