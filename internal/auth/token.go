package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenManager signs and verifies the opaque bearer credentials the API
// accepts. In production the signing side lives with the auth collaborator;
// the core only needs verification to obtain the requester id.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// Claims is the token payload: the verified user id plus standard claims.
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// NewTokenManager returns a manager for HS256 tokens.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for a user id. Used by the seeder and tests.
func (m *TokenManager) Issue(userID uint64) (string, error) {
	claims := &Claims{
		UserID: strconv.FormatUint(userID, 10),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify parses and validates a token and returns the verified user id.
func (m *TokenManager) Verify(tokenString string) (uint64, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, errors.New("invalid token")
	}

	userID, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil || userID == 0 {
		return 0, errors.New("invalid user id claim")
	}
	return userID, nil
}
