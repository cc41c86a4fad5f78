package investors

import (
	"net/http"

	"investor-portal-server/models"
	"investor-portal-server/utils"

	"github.com/gin-gonic/gin"
)

func GetInvestors(c *gin.Context) {
	query := utils.PortalDB.Order("created_at DESC")

	if status := c.Query("kyc_status"); status != "" {
		query = query.Where("kyc_status = ?", status)
	}

	var investors []models.Investor
	if err := query.Find(&investors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch investors"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"investors": investors})
}

func GetInvestor(c *gin.Context) {
	investorID := c.Param("investor_id")

	var investor models.Investor
	if err := utils.PortalDB.First(&investor, "id = ?", investorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Investor not found"})
		return
	}

	var links []models.InvestorUser
	if err := utils.PortalDB.Where("investor_id = ?", investorID).Find(&links).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch investor users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"investor": investor,
		"users":    links,
	})
}

func CreateInvestor(c *gin.Context) {
	var input struct {
		LegalName          string `json:"legal_name"`
		Email              string `json:"email"`
		Address            string `json:"address"`
		CountryOfResidence string `json:"country_of_residence"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if input.LegalName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Legal name is required"})
		return
	}

	investor := models.Investor{
		LegalName:          input.LegalName,
		Email:              input.Email,
		Address:            input.Address,
		CountryOfResidence: input.CountryOfResidence,
	}

	if err := utils.PortalDB.Create(&investor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create investor"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"investor": investor})
}

func UpdateInvestor(c *gin.Context) {
	investorID := c.Param("investor_id")

	var investor models.Investor
	if err := utils.PortalDB.First(&investor, "id = ?", investorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Investor not found"})
		return
	}

	var input struct {
		LegalName          string `json:"legal_name"`
		Email              string `json:"email"`
		Address            string `json:"address"`
		CountryOfResidence string `json:"country_of_residence"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if input.LegalName != "" {
		investor.LegalName = input.LegalName
	}
	if input.Email != "" {
		investor.Email = input.Email
	}
	if input.Address != "" {
		investor.Address = input.Address
	}
	if input.CountryOfResidence != "" {
		investor.CountryOfResidence = input.CountryOfResidence
	}

	if err := utils.PortalDB.Save(&investor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update investor"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"investor": investor})
}

// LinkUser attaches a portal user to an investor entity.
func LinkUser(c *gin.Context) {
	investorID := c.Param("investor_id")

	var input struct {
		UserID string `json:"user_id"`
	}

	if err := c.ShouldBindJSON(&input); err != nil || input.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A user_id is required"})
		return
	}

	var investor models.Investor
	if err := utils.PortalDB.First(&investor, "id = ?", investorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Investor not found"})
		return
	}

	var user models.User
	if err := utils.PortalDB.First(&user, "id = ?", input.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var existing models.InvestorUser
	if err := utils.PortalDB.Where("user_id = ? AND investor_id = ?", input.UserID, investorID).First(&existing).Error; err == nil {
		c.JSON(http.StatusOK, gin.H{"message": "User already linked"})
		return
	}

	if err := utils.PortalDB.Create(&models.InvestorUser{UserID: input.UserID, InvestorID: investorID}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to link user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User linked to investor"})
}
