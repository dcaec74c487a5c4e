package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSessionToken is returned for tampered, malformed or expired session handles.
var ErrInvalidSessionToken = errors.New("invalid or expired session token")

const sessionTokenIssuer = "loan-request-service"

// SessionClaims is the payload of a session handle.
type SessionClaims struct {
	ClientID string `json:"cid,omitempty"`
	jwt.RegisteredClaims
}

// SessionTokens signs and verifies session handles so session ids cannot be guessed or forged.
type SessionTokens struct {
	secret []byte
	maxAge time.Duration
}

// NewSessionTokens creates a signer. A zero or negative maxAge issues handles without expiry;
// the session store's TTL still applies.
func NewSessionTokens(secret string, maxAge time.Duration) *SessionTokens {
	return &SessionTokens{secret: []byte(secret), maxAge: maxAge}
}

// Issue returns a signed handle for the session.
func (t *SessionTokens) Issue(sessionID, clientID string) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  sessionID,
			Issuer:   sessionTokenIssuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if t.maxAge > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(t.maxAge))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse verifies a handle and returns its claims.
func (t *SessionTokens) Parse(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return t.secret, nil
	}, jwt.WithIssuer(sessionTokenIssuer))
	if err != nil {
		return nil, ErrInvalidSessionToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidSessionToken
	}
	return claims, nil
}
