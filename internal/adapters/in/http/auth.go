package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"relay/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	userIDKey   = "user_id"
	bearerToken = "Bearer"
)

var (
	errUnexpectedSigningMethod = errors.New("unexpected signing method")
	errInvalidClaims           = errors.New("token claims are invalid")
)

// JWTAuth authenticates requests with an HS256 bearer token whose user_id
// claim carries the caller's id.
func JWTAuth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return unauthorized(c, "authorization header is required")
			}

			parts := strings.Split(header, " ")
			if len(parts) != 2 || parts[0] != bearerToken {
				return unauthorized(c, "invalid authorization format")
			}

			claims, err := parseToken(parts[1], secret)
			if err != nil {
				return unauthorized(c, "invalid token")
			}

			raw, ok := claims[userIDKey]
			if !ok {
				return unauthorized(c, "invalid token: missing user_id claim")
			}

			userID, err := kernel.UUIDFromString(fmt.Sprintf("%v", raw))
			if err != nil {
				return unauthorized(c, "invalid token: user_id is not a valid UUID")
			}

			c.Set(userIDKey, userID)
			return next(c)
		}
	}
}

// IssueToken signs a token for userID that expires after ttl.
func IssueToken(userID kernel.UUID, secret []byte, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		userIDKey: userID.String(),
		"exp":     time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parseToken(token string, secret []byte) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", errUnexpectedSigningMethod, t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, errInvalidClaims
	}
	return claims, nil
}

func currentUser(c echo.Context) (kernel.UUID, bool) {
	userID, ok := c.Get(userIDKey).(kernel.UUID)
	return userID, ok
}

func unauthorized(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, Error{Code: http.StatusUnauthorized, Message: message})
}
