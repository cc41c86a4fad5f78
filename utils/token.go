package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"os"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/joho/godotenv"
)

var JwtSecret []byte

func init() {
    // Load the .env file
    if err := godotenv.Load(); err != nil {
        // It's okay if the .env file isn't found; environment variables may be set elsewhere
        log.Println("No .env file found or error loading .env file:", err)
    }

    secret := os.Getenv("JWT_SECRET")
    if secret == "" {
        log.Println("JWT_SECRET is not set; using an insecure development secret")
        secret = "dev-secret-change-me"
    }

    JwtSecret = []byte(secret)
}

// GenerateAccessToken creates a new JWT access token
func GenerateAccessToken(userID string) (string, error) {
    token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
        "user_id": userID,
        "exp":     time.Now().Add(15 * time.Minute).Unix(), // Access token valid for 15 minutes
    })

    return token.SignedString(JwtSecret)
}

// GenerateRefreshToken creates a new opaque refresh token
func GenerateRefreshToken() (string, error) {
    b := make([]byte, 32)
    if _, err := rand.Read(b); err != nil {
        return "", err
    }
    return hex.EncodeToString(b), nil
}

// HashToken hashes a refresh token before it is stored
func HashToken(token string) string {
    sum := sha256.Sum256([]byte(token))
    return hex.EncodeToString(sum[:])
}
