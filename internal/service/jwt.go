// internal/service/jwt.go
package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"payflow-wallet/internal/util"
)

const tokenLifetime = 24 * time.Hour

// JWTService issues and validates the HS256 bearer tokens used by the API.
type JWTService struct {
	secret []byte
}

// NewJWTService creates a JWTService signing with the given secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{secret: []byte(secret)}
}

// GenerateToken returns a signed token whose subject is the user id.
func (j *JWTService) GenerateToken(userID int64) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"iat": now.Unix(),
		"exp": now.Add(tokenLifetime).Unix(),
	})

	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken checks signature and expiry and returns the user id.
// Any validation failure maps to util.ErrUnauthorized.
func (j *JWTService) ValidateToken(tokenString string) (int64, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil || !parsed.Valid {
		if err != nil && errors.Is(err, jwt.ErrTokenExpired) {
			return 0, fmt.Errorf("%w: token expired", util.ErrUnauthorized)
		}
		return 0, util.ErrUnauthorized
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil {
		return 0, util.ErrUnauthorized
	}
	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return 0, util.ErrUnauthorized
	}
	return userID, nil
}
