package security

import (
	"errors"
	"fmt"
	"time"

	"lifequest/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type claims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"-"`
	ExpiresIn    int    `json:"expiresIn"`
}

type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	now           func() time.Time
}

func NewTokenManager(accessSecret, refreshSecret string) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		now:           time.Now,
	}
}

// Generate issues an HS256 access/refresh pair for userID. Every refresh
// token carries a random jti so rotated tokens never collide.
func (m *TokenManager) Generate(userID uuid.UUID) (TokenPair, error) {
	now := m.now()

	accessToken, err := m.sign(userID, tokenTypeAccess, now, AccessTTL, m.accessSecret)
	if err != nil {
		return TokenPair{}, err
	}
	refreshToken, err := m.sign(userID, tokenTypeRefresh, now, RefreshTTL, m.refreshSecret)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(AccessTTL.Seconds()),
	}, nil
}

func (m *TokenManager) ValidateAccessToken(tokenStr string) (uuid.UUID, error) {
	return m.validate(tokenStr, tokenTypeAccess, m.accessSecret)
}

func (m *TokenManager) ValidateRefreshToken(tokenStr string) (uuid.UUID, error) {
	return m.validate(tokenStr, tokenTypeRefresh, m.refreshSecret)
}

func (m *TokenManager) sign(userID uuid.UUID, typ string, now time.Time, ttl time.Duration, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

func (m *TokenManager) validate(tokenStr, typ string, secret []byte) (uuid.UUID, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenStr, &c, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return uuid.Nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}
	if c.Type != typ {
		return uuid.Nil, fmt.Errorf("%w: expected %s token", domain.ErrUnauthorized, typ)
	}
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad subject", domain.ErrUnauthorized)
	}
	return id, nil
}
