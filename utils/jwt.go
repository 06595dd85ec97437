package utils

import (
	"fmt"
	"time"

	"finbook/config"

	"github.com/golang-jwt/jwt/v5"
)

// ScopeEmailVerify marks single-purpose tokens mailed out in verification
// links. Scoped tokens are rejected by the auth middleware.
const ScopeEmailVerify = "email-verify"

// GenerateToken creates a signed JWT with the given subject (a user ID).
// The token expires after the specified duration.
func GenerateToken(subject string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// GenerateScopedToken creates a signed JWT bound to a single purpose. It is
// not accepted as an API auth token.
func GenerateScopedToken(subject, scope string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   subject,
		"scope": scope,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// UserIDFromToken validates an auth token string and returns its subject
// claim. Scoped tokens are not auth tokens and are rejected.
func UserIDFromToken(tokenString string) (string, error) {
	claims, err := parseToken(tokenString)
	if err != nil {
		return "", err
	}
	if _, scoped := claims["scope"]; scoped {
		return "", fmt.Errorf("scoped token is not valid for authentication")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("token has no subject claim")
	}
	return sub, nil
}

// SubjectFromScopedToken validates a scoped token and returns its subject.
// The token's scope claim must match exactly.
func SubjectFromScopedToken(tokenString, scope string) (string, error) {
	claims, err := parseToken(tokenString)
	if err != nil {
		return "", err
	}
	if got, _ := claims["scope"].(string); got != scope {
		return "", fmt.Errorf("token scope mismatch")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("token has no subject claim")
	}
	return sub, nil
}
