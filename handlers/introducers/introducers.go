package introducers

import (
	"net/http"
	"time"

	"investor-portal-server/models"
	"investor-portal-server/utils"

	"github.com/gin-gonic/gin"
)

func GetIntroducers(c *gin.Context) {
	var introducers []models.Introducer
	if err := utils.PortalDB.Order("created_at DESC").Find(&introducers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch introducers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"introducers": introducers})
}

func GetIntroducer(c *gin.Context) {
	introducerID := c.Param("introducer_id")

	var introducer models.Introducer
	if err := utils.PortalDB.First(&introducer, "id = ?", introducerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Introducer not found"})
		return
	}

	var agreements []models.IntroducerAgreement
	if err := utils.PortalDB.Where("introducer_id = ?", introducerID).Find(&agreements).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch agreements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"introducer": introducer,
		"agreements": agreements,
	})
}

func CreateIntroducer(c *gin.Context) {
	var input struct {
		LegalName string `json:"legal_name"`
		Email     string `json:"email"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if input.LegalName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Legal name is required"})
		return
	}

	introducer := models.Introducer{
		LegalName: input.LegalName,
		Email:     input.Email,
	}

	if err := utils.PortalDB.Create(&introducer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create introducer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"introducer": introducer})
}

// LinkUser attaches a portal user to an introducer.
func LinkUser(c *gin.Context) {
	introducerID := c.Param("introducer_id")

	var input struct {
		UserID string `json:"user_id"`
	}

	if err := c.ShouldBindJSON(&input); err != nil || input.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A user_id is required"})
		return
	}

	var introducer models.Introducer
	if err := utils.PortalDB.First(&introducer, "id = ?", introducerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Introducer not found"})
		return
	}

	var existing models.IntroducerUser
	if err := utils.PortalDB.Where("user_id = ? AND introducer_id = ?", input.UserID, introducerID).First(&existing).Error; err == nil {
		c.JSON(http.StatusOK, gin.H{"message": "User already linked"})
		return
	}

	if err := utils.PortalDB.Create(&models.IntroducerUser{UserID: input.UserID, IntroducerID: introducerID}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to link user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User linked to introducer"})
}

func GetAgreements(c *gin.Context) {
	introducerID := c.Param("introducer_id")

	var introducer models.Introducer
	if err := utils.PortalDB.First(&introducer, "id = ?", introducerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Introducer not found"})
		return
	}

	var agreements []models.IntroducerAgreement
	if err := utils.PortalDB.Where("introducer_id = ?", introducerID).Order("created_at DESC").Find(&agreements).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch agreements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"agreements": agreements})
}

// CreateAgreement records a commission agreement for an introducer. The
// agreement only becomes usable for dispatch once activated with a signed
// date.
func CreateAgreement(c *gin.Context) {
	introducerID := c.Param("introducer_id")

	var input struct {
		CommissionBps int     `json:"commission_bps"`
		ExpiryDate    *string `json:"expiry_date"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	var introducer models.Introducer
	if err := utils.PortalDB.First(&introducer, "id = ?", introducerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Introducer not found"})
		return
	}

	agreement := models.IntroducerAgreement{
		IntroducerID:  introducerID,
		Status:        "draft",
		CommissionBps: input.CommissionBps,
	}

	if input.ExpiryDate != nil {
		expiry, err := time.Parse("2006-01-02", *input.ExpiryDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "expiry_date must be formatted YYYY-MM-DD"})
			return
		}
		agreement.ExpiryDate = &expiry
	}

	if err := utils.PortalDB.Create(&agreement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create agreement"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"agreement": agreement})
}

// ActivateAgreement marks an agreement as signed and active.
func ActivateAgreement(c *gin.Context) {
	agreementID := c.Param("agreement_id")

	var agreement models.IntroducerAgreement
	if err := utils.PortalDB.First(&agreement, "id = ?", agreementID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Agreement not found"})
		return
	}

	now := time.Now()
	agreement.Status = "active"
	agreement.SignedDate = &now
	if err := utils.PortalDB.Save(&agreement).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to activate agreement"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"agreement": agreement})
}
