// Package auth issues and verifies the bearer tokens that tie a created
// game to the client allowed to play it.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid = errors.New("invalid game token")
	ErrWrongGame    = errors.New("token issued for a different game")
)

// Claims carries the game binding on top of the registered claims.
type Claims struct {
	GameID string `json:"game_id"`
	jwt.RegisteredClaims
}

// Manager signs and verifies game tokens with a shared HS256 secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a token manager. An empty secret gets a random one,
// which is fine for a single process but invalidates tokens on restart.
func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate secret: %w", err)
		}
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{secret: key, ttl: ttl}, nil
}

// Issue mints a token bound to gameID.
func (m *Manager) Issue(gameID string) (string, error) {
	now := time.Now()
	claims := Claims{
		GameID: gameID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   gameID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        newTokenID(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry, and that the token was issued
// for gameID.
func (m *Manager) Verify(tokenString, gameID string) error {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return ErrTokenInvalid
	}
	if claims.GameID != gameID {
		return ErrWrongGame
	}
	return nil
}

func newTokenID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return hex.EncodeToString(b)
}
