package utils

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt"
)

func ExtractUserIDFromToken(authHeader string) (string, error) {
    parts := strings.SplitN(authHeader, " ", 2)
    if len(parts) != 2 || parts[0] != "Bearer" {
        return "", errors.New("invalid authorization header format")
    }

    tokenString := parts[1]

    token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
        return JwtSecret, nil
    })

    if err != nil || !token.Valid {
        return "", errors.New("invalid token")
    }

    claims, ok := token.Claims.(jwt.MapClaims)
    if !ok {
        return "", errors.New("invalid token claims")
    }

    userID, ok := claims["user_id"].(string)
    if !ok || userID == "" {
        return "", errors.New("invalid user ID in token")
    }

    return userID, nil
}
