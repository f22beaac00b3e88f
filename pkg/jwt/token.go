package jwtPkg

import (
	"FitnessGolang/internal/entity"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const AccessTokenSecretEnv = "JWT_ACCESS_TOKEN_SECRET"

var (
	ErrMissingToken = errors.New("missing access token")
	ErrSecretNotSet = errors.New("JWT secret not configured")
)

// Sign issues an HS256 token carrying data plus exp. It returns the token and
// its expiry as a unix timestamp.
func Sign(data map[string]interface{}, expiresIn time.Duration) (string, int64, error) {
	secret := os.Getenv(AccessTokenSecretEnv)
	if secret == "" {
		return "", 0, ErrSecretNotSet
	}

	expiredAt := time.Now().Add(expiresIn).Unix()
	claims := jwt.MapClaims{
		"exp":           expiredAt,
		"authorization": true,
	}
	for k, v := range data {
		claims[k] = v
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := token.SignedString([]byte(secret))
	if err != nil {
		logrus.WithError(err).Error("Failed to sign token")
		return "", 0, err
	}

	return accessToken, expiredAt, nil
}

// VerifyTokenHeader reads a bearer token from the Authorization header, or
// from the access_token query parameter for browser WebSocket upgrades.
func VerifyTokenHeader(c *fiber.Ctx, secretEnvKey string) (*jwt.Token, error) {
	raw := ""
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, "Bearer ", 2)
		if len(parts) != 2 {
			return nil, errors.New("invalid Authorization format")
		}
		raw = strings.TrimSpace(parts[1])
	} else {
		raw = c.Query("access_token")
	}

	if raw == "" {
		return nil, ErrMissingToken
	}

	return Parse(raw, os.Getenv(secretEnvKey))
}

func Parse(raw string, secret string) (*jwt.Token, error) {
	if secret == "" {
		return nil, ErrSecretNotSet
	}

	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	return token, nil
}

// UserFromClaims pulls the login data written by Sign.
func UserFromClaims(token *jwt.Token) (entity.UserLoginData, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return entity.UserLoginData{}, errors.New("invalid token claims")
	}

	id, _ := claims["id"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	if id == "" || email == "" {
		return entity.UserLoginData{}, errors.New("token claims are missing required fields")
	}

	return entity.UserLoginData{ID: id, Email: email, Name: name}, nil
}
