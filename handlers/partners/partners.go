package partners

import (
	"net/http"

	"investor-portal-server/models"
	"investor-portal-server/utils"

	"github.com/gin-gonic/gin"
)

func GetCommercialPartners(c *gin.Context) {
	var partners []models.CommercialPartner
	if err := utils.PortalDB.Order("created_at DESC").Find(&partners).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch commercial partners"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"commercial_partners": partners})
}

func GetCommercialPartner(c *gin.Context) {
	partnerID := c.Param("partner_id")

	var partner models.CommercialPartner
	if err := utils.PortalDB.First(&partner, "id = ?", partnerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commercial partner not found"})
		return
	}

	var links []models.CommercialPartnerUser
	if err := utils.PortalDB.Where("commercial_partner_id = ?", partnerID).Find(&links).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch partner users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"commercial_partner": partner,
		"users":              links,
	})
}

func CreateCommercialPartner(c *gin.Context) {
	var input struct {
		LegalName string `json:"legal_name"`
		Email     string `json:"email"`
		Address   string `json:"address"`
		KYCStatus string `json:"kyc_status"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if input.LegalName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Legal name is required"})
		return
	}

	partner := models.CommercialPartner{
		LegalName: input.LegalName,
		Email:     input.Email,
		Address:   input.Address,
	}
	if input.KYCStatus != "" {
		partner.KYCStatus = input.KYCStatus
	}

	if err := utils.PortalDB.Create(&partner).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create commercial partner"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"commercial_partner": partner})
}

// LinkUser attaches a portal user to a commercial partner.
func LinkUser(c *gin.Context) {
	partnerID := c.Param("partner_id")

	var input struct {
		UserID string `json:"user_id"`
	}

	if err := c.ShouldBindJSON(&input); err != nil || input.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A user_id is required"})
		return
	}

	var partner models.CommercialPartner
	if err := utils.PortalDB.First(&partner, "id = ?", partnerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commercial partner not found"})
		return
	}

	var existing models.CommercialPartnerUser
	if err := utils.PortalDB.Where("user_id = ? AND commercial_partner_id = ?", input.UserID, partnerID).First(&existing).Error; err == nil {
		c.JSON(http.StatusOK, gin.H{"message": "User already linked"})
		return
	}

	if err := utils.PortalDB.Create(&models.CommercialPartnerUser{UserID: input.UserID, CommercialPartnerID: partnerID}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to link user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User linked to commercial partner"})
}
