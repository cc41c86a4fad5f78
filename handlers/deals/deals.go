package deals

import (
	"net/http"

	"investor-portal-server/models"
	"investor-portal-server/utils"

	"github.com/gin-gonic/gin"
)

func GetDeals(c *gin.Context) {
	var deals []models.Deal
	if err := utils.PortalDB.Order("created_at DESC").Find(&deals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch deals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deals": deals,
	})
}

func GetDeal(c *gin.Context) {
	dealID := c.Param("deal_id")

	var deal models.Deal
	if err := utils.PortalDB.First(&deal, "id = ?", dealID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Deal not found"})
		return
	}

	var memberships []models.DealMembership
	if err := utils.PortalDB.Where("deal_id = ?", dealID).Find(&memberships).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch memberships"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deal":        deal,
		"memberships": memberships,
	})
}

func CreateDeal(c *gin.Context) {
	var input struct {
		Name     string `json:"name"`
		DealType string `json:"deal_type"`
		Currency string `json:"currency"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if input.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Deal name is required"})
		return
	}

	userInterface, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}
	user := userInterface.(models.User)

	deal := models.Deal{
		Name:      input.Name,
		DealType:  input.DealType,
		Currency:  input.Currency,
		Status:    models.DealStatusOpen,
		CreatedBy: user.ID,
	}

	if err := utils.PortalDB.Create(&deal).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create deal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deal": deal})
}

func UpdateDealStatus(c *gin.Context) {
	dealID := c.Param("deal_id")

	var input struct {
		Status string `json:"status"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	switch input.Status {
	case models.DealStatusOpen, models.DealStatusClosed, models.DealStatusCancelled:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deal status"})
		return
	}

	var deal models.Deal
	if err := utils.PortalDB.First(&deal, "id = ?", dealID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Deal not found"})
		return
	}

	deal.Status = input.Status
	if err := utils.PortalDB.Save(&deal).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update deal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deal": deal})
}
