package utils

import (
	"errors"  // Error values
	"strconv" // User ID conversion
	"time"    // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// TokenTTL is how long an access token stays valid
const TokenTTL = 24 * time.Hour

// ErrInvalidSubject is returned when the token subject is not a user ID
var ErrInvalidSubject = errors.New("token subject is not a user id")

// GenerateJWT creates a signed token whose subject is the user ID
func GenerateJWT(userID uint, secret string) (string, error) {
	return generateJWTAt(userID, secret, time.Now())
}

func generateJWTAt(userID uint, secret string, now time.Time) (string, error) {
	// Set token claims
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10), // Identity of the caller
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),  // Token expires in 24 hours
		IssuedAt:  jwt.NewNumericDate(now),                // Issued at current time
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseJWT validates a token string and returns the user ID it was issued for
func ParseJWT(tokenStr, secret string) (uint, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	// Check for parsing errors
	if err != nil {
		return 0, err // Return error if parsing fails
	}
	if !token.Valid {
		return 0, jwt.ErrSignatureInvalid
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64) // Subject carries the user ID
	if err != nil || id == 0 {
		return 0, ErrInvalidSubject
	}
	return uint(id), nil
}
