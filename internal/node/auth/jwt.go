// Package auth issues and parses the node's access tokens.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/flipkeeper/internal/common"
)

// Claims carries the authenticated identity address.
type Claims struct {
	jwt.RegisteredClaims
	Address string `json:"address"`
}

// GenerateToken signs an HS256 token for address expiring at expiresAt.
func GenerateToken(address string, secretKey []byte, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Subject:   address,
		},
		Address: address,
	})
	return token.SignedString(secretKey)
}

// GetAddressFromToken validates the token and returns its address.
// Expired tokens yield common.ErrTokenExpired, everything else that fails
// validation yields common.ErrInvalidToken.
func GetAddressFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Address == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Address, nil
}
