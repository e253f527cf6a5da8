package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

var (
	jwtSecret  []byte
	accessTTL  = 15 * time.Minute
	refreshTTL = 7 * 24 * time.Hour

	ErrInvalidToken = errors.New("Invalid or expired token")
)

// Claims is the payload of both access and refresh tokens.
type Claims struct {
	UserID    uint      `json:"user_id"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func Init(secret string, access, refresh time.Duration) error {
	if secret == "" {
		return fmt.Errorf("JWT secret is not set")
	}
	jwtSecret = []byte(secret)
	if access > 0 {
		accessTTL = access
	}
	if refresh > 0 {
		refreshTTL = refresh
	}
	return nil
}

func GenerateTokenPair(userID uint) (TokenPair, error) {
	access, err := GenerateAccessToken(userID)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := generate(userID, RefreshToken, refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{Access: access, Refresh: refresh}, nil
}

func GenerateAccessToken(userID uint) (string, error) {
	return generate(userID, AccessToken, accessTTL)
}

func generate(userID uint, tokenType TokenType, ttl time.Duration) (string, error) {
	if len(jwtSecret) == 0 {
		return "", fmt.Errorf("JWT secret is not initialised")
	}

	now := time.Now()
	claims := Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// VerifyToken parses tokenString and checks its signature, expiry and type.
func VerifyToken(tokenString string, want TokenType) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret, nil
	})

	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != want || claims.UserID == 0 || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
