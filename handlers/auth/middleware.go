package auth

import (
    "investor-portal-server/models"
    "investor-portal-server/utils"
    "net/http"
    "strings"

    "github.com/gin-gonic/gin"
    "github.com/golang-jwt/jwt"
)

func AuthMiddleware() gin.HandlerFunc {
    return func(c *gin.Context) {
        authHeader := c.GetHeader("Authorization")
        if authHeader == "" {
            c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
            c.Abort()
            return
        }

        // Split the header to get the token part
        parts := strings.SplitN(authHeader, " ", 2)
        if len(parts) != 2 || parts[0] != "Bearer" {
            c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
            c.Abort()
            return
        }

        tokenString := parts[1]

        // Parse the token
        token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
            return utils.JwtSecret, nil
        })

        if err != nil || !token.Valid {
            c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
            c.Abort()
            return
        }

        claims, ok := token.Claims.(jwt.MapClaims)
        if !ok {
            c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
            c.Abort()
            return
        }

        userID, ok := claims["user_id"].(string)
        if !ok || userID == "" {
            c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID in token"})
            c.Abort()
            return
        }

        // Fetch the user from the database
        var user models.User
        if err := utils.PortalDB.First(&user, "id = ?", userID).Error; err != nil {
            c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
            c.Abort()
            return
        }

        // Set the user in the context
        c.Set("user", user)

        c.Next()
    }
}

// RequirePersona rejects callers whose persona set contains none of the
// given names. Must run after AuthMiddleware.
func RequirePersona(names ...string) gin.HandlerFunc {
    return func(c *gin.Context) {
        userInterface, exists := c.Get("user")
        if !exists {
            c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
            c.Abort()
            return
        }
        user := userInterface.(models.User)

        var personas []models.Persona
        if err := utils.PortalDB.Where("user_id = ?", user.ID).Find(&personas).Error; err != nil {
            c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve personas"})
            c.Abort()
            return
        }

        for _, p := range personas {
            for _, name := range names {
                if p.Name == name {
                    c.Set("personas", personas)
                    c.Next()
                    return
                }
            }
        }

        c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action"})
        c.Abort()
    }
}
