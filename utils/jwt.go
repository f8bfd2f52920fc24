package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID    string
	Email     string
	Role      string
	StoreID   string
	StoreSlug string
}

func GenerateJWT(claims Claims, secret string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    claims.UserID,
		"email":      claims.Email,
		"role":       claims.Role,
		"store_id":   claims.StoreID,
		"store_slug": claims.StoreSlug,
		"iat":        time.Now().Unix(),
		"exp":        time.Now().Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}

func ParseJWT(tokenString, secret string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Claims{}, err
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Claims{}, errors.New("invalid token claims")
	}

	str := func(key string) string {
		v, _ := mapClaims[key].(string)
		return v
	}
	return Claims{
		UserID:    str("user_id"),
		Email:     str("email"),
		Role:      str("role"),
		StoreID:   str("store_id"),
		StoreSlug: str("store_slug"),
	}, nil
}
