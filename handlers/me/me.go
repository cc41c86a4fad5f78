package me

import (
	"net/http"

	"investor-portal-server/models"
	"investor-portal-server/utils"

	"github.com/gin-gonic/gin"
)

// GetMyDeals returns the deals the caller has been dispatched into.
func GetMyDeals(c *gin.Context) {
	userInterface, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}
	user := userInterface.(models.User)

	var memberships []models.DealMembership
	if err := utils.PortalDB.Where("user_id = ? AND dispatched_at IS NOT NULL", user.ID).Find(&memberships).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch memberships"})
		return
	}

	dealIDs := make([]string, 0, len(memberships))
	for _, m := range memberships {
		dealIDs = append(dealIDs, m.DealID)
	}

	var deals []models.Deal
	if len(dealIDs) > 0 {
		if err := utils.PortalDB.Where("id IN ?", dealIDs).Find(&deals).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch deals"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"memberships": memberships,
		"deals":       deals,
	})
}

// GetMyCommissions returns the commissions of every entity the caller is
// linked to, for the partner/introducer self-service area.
func GetMyCommissions(c *gin.Context) {
	userInterface, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}
	user := userInterface.(models.User)

	entityIDs := make([]string, 0)

	var introducerLinks []models.IntroducerUser
	if err := utils.PortalDB.Where("user_id = ?", user.ID).Find(&introducerLinks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch introducer links"})
		return
	}
	for _, l := range introducerLinks {
		entityIDs = append(entityIDs, l.IntroducerID)
	}

	var partnerLinks []models.CommercialPartnerUser
	if err := utils.PortalDB.Where("user_id = ?", user.ID).Find(&partnerLinks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch partner links"})
		return
	}
	for _, l := range partnerLinks {
		entityIDs = append(entityIDs, l.CommercialPartnerID)
	}

	if len(entityIDs) == 0 {
		c.JSON(http.StatusOK, gin.H{"commissions": []models.Commission{}})
		return
	}

	var commissions []models.Commission
	if err := utils.PortalDB.Where("entity_id IN ?", entityIDs).Order("created_at DESC").Find(&commissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch commissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"commissions": commissions})
}
