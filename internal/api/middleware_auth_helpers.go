package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	contextUserKey  = "user_key"
	bearerPrefix    = "bearer "
	DefaultTokenTTL = 7 * 24 * time.Hour
)

type authClaims struct {
	UserKey string `json:"uid"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 bearer token for userKey.
func IssueToken(secret []byte, userKey string, ttl time.Duration, now time.Time) (string, error) {
	userKey = strings.TrimSpace(userKey)
	if userKey == "" {
		return "", errors.New("user key is required")
	}

	claims := authClaims{
		UserKey: userKey,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userKey,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (handler *Handler) authenticateRequest(c *fiber.Ctx) (string, error) {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", errors.New("missing bearer token")
	}
	tokenValue := strings.TrimSpace(header[len(bearerPrefix):])

	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenValue, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return handler.secretKey, nil
	}, jwt.WithTimeFunc(handler.now))
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(handler.now()) {
		return "", errors.New("token expired")
	}
	if strings.TrimSpace(claims.UserKey) == "" {
		return "", errors.New("token has no user")
	}
	return claims.UserKey, nil
}

func currentUserKey(c *fiber.Ctx) (string, bool) {
	userKey, ok := c.Locals(contextUserKey).(string)
	return userKey, ok && userKey != ""
}
