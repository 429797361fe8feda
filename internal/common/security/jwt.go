package security

import (
	"errors"
	"time"

	"authsystem/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

var TokenAuth *jwtauth.JWTAuth

var ErrNotInitialized = errors.New("token signing is not initialized")

// InitJWT sets up the process-wide HS256 signer. An empty secret is refused
// outright so the service never signs tokens with a default key.
func InitJWT() error {
	if len(config.AppConfig.JWTKey) == 0 {
		return errors.New("JWT_SECRET is not set")
	}
	TokenAuth = jwtauth.New("HS256", config.AppConfig.JWTKey, nil)
	return nil
}

// GenerateToken issues a signed token that embeds the user id and expires
// after the configured validity window.
func GenerateToken(userID string) (string, error) {
	if TokenAuth == nil {
		return "", ErrNotInitialized
	}
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(config.AppConfig.JWTExp).Unix(),
		"iat":     time.Now().Unix(),
	}
	_, tokenString, err := TokenAuth.Encode(claims)
	return tokenString, err
}

// VerifyToken checks the signature and expiry of tokenString and returns the
// user id it encodes.
func VerifyToken(tokenString string) (string, error) {
	if TokenAuth == nil {
		return "", ErrNotInitialized
	}
	token, err := jwtauth.VerifyToken(TokenAuth, tokenString)
	if err != nil {
		return "", err
	}
	raw, ok := token.Get("user_id")
	if !ok {
		return "", errors.New("user_id claim is missing")
	}
	userID, ok := raw.(string)
	if !ok {
		return "", errors.New("user_id claim is not a string")
	}
	return userID, nil
}

// GetUserIDFromClaims extracts the user id from decoded claims, for use in
// middleware after the verifier has run.
func GetUserIDFromClaims(claims jwt.MapClaims) (string, error) {
	id, ok := claims["user_id"].(string)
	if !ok {
		return "", errors.New("user_id claim is missing or not a string")
	}
	return id, nil
}
