package security

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Roles carried by access tokens.
const (
	RoleMaintainer = "maintainer" // may record check runs
	RoleViewer     = "viewer"
)

var ErrInvalidToken = errors.New("invalid token")

type Token struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"` // seconds
}

type AccessClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

type JWTManager struct {
	signingKey []byte
	accessTTL  time.Duration
	now        func() time.Time
}

func NewJWTManager(signingKey string, accessTTL time.Duration) *JWTManager {
	return &JWTManager{
		signingKey: []byte(signingKey),
		accessTTL:  accessTTL,
		now:        time.Now,
	}
}

// Issue signs an HS256 access token for subject with the given role.
func (m *JWTManager) Issue(subject, role string) (Token, error) {
	if subject == "" || role == "" {
		return Token{}, fmt.Errorf("subject and role are required")
	}
	now := m.now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
		},
		Role: role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.signingKey)
	if err != nil {
		return Token{}, err
	}
	return Token{AccessToken: signed, ExpiresIn: int64(m.accessTTL.Seconds())}, nil
}

// ParseAccess verifies signature and expiry and returns the claims.
func (m *JWTManager) ParseAccess(tokenStr string) (*AccessClaims, error) {
	tok, err := jwt.ParseWithClaims(tokenStr, &AccessClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return m.signingKey, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := tok.Claims.(*AccessClaims)
	if !ok || !tok.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateToken adapts ParseAccess to middleware.TokenValidator.
func (m *JWTManager) ValidateToken(_ context.Context, token string) (subject, role string, err error) {
	claims, err := m.ParseAccess(token)
	if err != nil {
		return "", "", err
	}
	return claims.Subject, claims.Role, nil
}
