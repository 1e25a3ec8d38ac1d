// Package auth issues and verifies the bearer tokens that authenticate
// API requests.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/louisbranch/studyhall/internal/domain/problem"
)

// Token verification failures.
var (
	// ErrInvalidToken indicates an unparseable, expired, or forged token.
	ErrInvalidToken = problem.New("INVALID_TOKEN", "token is invalid")
	// ErrMissingSubject indicates a token without a member identity.
	ErrMissingSubject = problem.New("TOKEN_SUBJECT_REQUIRED", "token subject is required")
)

// Claims are the JWT claims carried by studyhall tokens.
type Claims struct {
	MemberID string `json:"member_id"`
	Nickname string `json:"nickname,omitempty"`
	jwt.RegisteredClaims
}

// Manager signs and verifies bearer tokens with a shared HMAC secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
	clock  func() time.Time
}

// NewManager creates a token manager. ttl bounds how long issued tokens
// stay valid.
func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret is required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		clock:  time.Now,
	}, nil
}

// Issue signs a token for the member.
func (m *Manager) Issue(memberID, nickname string) (string, error) {
	if memberID == "" {
		return "", ErrMissingSubject
	}
	now := m.clock().UTC()
	claims := Claims{
		MemberID: memberID,
		Nickname: nickname,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   memberID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a token and returns its claims. Tokens signed with any
// method other than HMAC are rejected.
func (m *Manager) Verify(tokenString string) (Claims, error) {
	claims := Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return m.secret, nil
		},
		jwt.WithTimeFunc(func() time.Time { return m.clock().UTC() }),
	)
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	if claims.MemberID == "" {
		return Claims{}, ErrMissingSubject
	}
	return claims, nil
}
