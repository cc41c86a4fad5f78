package users

import (
	"log"
	"net/http"

	"investor-portal-server/models"
	"investor-portal-server/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

var allowedPersonas = map[string]bool{
	"ceo":                true,
	"staff":              true,
	"investor":           true,
	"partner":            true,
	"introducer":         true,
	"commercial_partner": true,
}

func GetUsers(c *gin.Context) {
	var users []models.User
	if err := utils.PortalDB.Order("created_at DESC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// CreateUser provisions a portal account with its persona set. Accounts
// are staff-created; there is no self-registration.
func CreateUser(c *gin.Context) {
	var input struct {
		Email       string   `json:"email"`
		Password    string   `json:"password"`
		DisplayName string   `json:"display_name"`
		Title       string   `json:"title"`
		Personas    []string `json:"personas"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if input.Email == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	for _, p := range input.Personas {
		if !allowedPersonas[p] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown persona: " + p})
			return
		}
	}

	var existing models.User
	if err := utils.PortalDB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A user with this email already exists"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while processing the password"})
		return
	}

	user := models.User{
		Email:       input.Email,
		Password:    string(hashed),
		DisplayName: input.DisplayName,
		Title:       input.Title,
	}

	if err := utils.PortalDB.Create(&user).Error; err != nil {
		log.Printf("Failed to create user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	for _, p := range input.Personas {
		if err := utils.PortalDB.Create(&models.Persona{UserID: user.ID, Name: p}).Error; err != nil {
			log.Printf("Failed to grant persona %s to %s: %v", p, user.ID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GrantPersona adds a persona to an existing user.
func GrantPersona(c *gin.Context) {
	userID := c.Param("user_id")

	var input struct {
		Name string `json:"name"`
	}

	if err := c.ShouldBindJSON(&input); err != nil || !allowedPersonas[input.Name] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid persona name is required"})
		return
	}

	var user models.User
	if err := utils.PortalDB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var existing models.Persona
	if err := utils.PortalDB.Where("user_id = ? AND name = ?", userID, input.Name).First(&existing).Error; err == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Persona already granted"})
		return
	}

	if err := utils.PortalDB.Create(&models.Persona{UserID: userID, Name: input.Name}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to grant persona"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Persona granted"})
}
