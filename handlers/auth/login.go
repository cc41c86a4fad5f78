package auth

import (
	"investor-portal-server/models"
	"investor-portal-server/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

func Login(c *gin.Context) {
    var input struct {
        Email    string `json:"email"`
        Password string `json:"password"`
    }

    if err := c.ShouldBindJSON(&input); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data. Please provide a valid email and password."})
        return
    }

    var user models.User
    if err := utils.PortalDB.Where("email = ?", input.Email).First(&user).Error; err != nil {
        c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password."})
        return
    }

    // Check password
    if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
        c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password."})
        return
    }

    // Resolve the persona set so the client can shape its navigation
    var personas []models.Persona
    if err := utils.PortalDB.Where("user_id = ?", user.ID).Find(&personas).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve personas."})
        return
    }

    personaNames := make([]string, 0, len(personas))
    for _, p := range personas {
        personaNames = append(personaNames, p.Name)
    }

    accessToken, err := utils.GenerateAccessToken(user.ID)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
        return
    }

    refreshToken, err := utils.GenerateRefreshToken()
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate refresh token"})
        return
    }

    // Hash and save the refresh token
    user.RefreshToken = utils.HashToken(refreshToken)
    if err := utils.PortalDB.Save(&user).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save refresh token"})
        return
    }

    c.JSON(http.StatusOK, gin.H{
        "access_token":  accessToken,
        "refresh_token": refreshToken,
        "user": gin.H{
            "id":           user.ID,
            "email":        user.Email,
            "display_name": user.DisplayName,
            "title":        user.Title,
            "personas":     personaNames,
        },
    })
}
