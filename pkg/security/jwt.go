package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Type   string `json:"type"`
}

// TokenIssuer signs and parses the HS256 access/refresh tokens handed out
// to users
type TokenIssuer struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		Secret:     []byte(secret),
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
	}
}

// Issue creates a signed token of the given type. The returned claims carry
// the generated token ID and expiry.
func (t *TokenIssuer) Issue(userID, typ string) (string, *Claims, error) {
	if userID == "" {
		return "", nil, errors.New("no user ID provided")
	}

	ttl := t.AccessTTL
	if typ == TokenTypeRefresh {
		ttl = t.RefreshTTL
	}

	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		Type:   typ,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token, %w", err)
	}

	return signed, claims, nil
}

// Parse validates the signature, expiry and type of a token
func (t *TokenIssuer) Parse(tokenStr, typ string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(tk *jwt.Token) (any, error) {
		return t.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w, %w", ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" || claims.Type != typ {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
