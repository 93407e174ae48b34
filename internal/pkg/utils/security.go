package utils

import (
	"checkout-service/internal/pkg/constvars"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

// AccessTokenClaims are the claims carried by Identity API access tokens.
type AccessTokenClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

func ParseAccessToken(tokenString, secret string) (*AccessTokenClaims, error) {
	claims := new(AccessTokenClaims)
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf(constvars.ErrDevAuthSigningMethod, token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
