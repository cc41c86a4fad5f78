package feeplans

import (
	"net/http"

	"investor-portal-server/models"
	"investor-portal-server/utils"

	"github.com/gin-gonic/gin"
)

func GetFeePlansByDeal(c *gin.Context) {
	dealID := c.Param("deal_id")

	var plans []models.FeePlan
	if err := utils.PortalDB.Where("deal_id = ?", dealID).Order("created_at DESC").Find(&plans).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch fee plans"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"fee_plans": plans})
}

func CreateFeePlan(c *gin.Context) {
	dealID := c.Param("deal_id")

	var input struct {
		EntityID          string `json:"entity_id"`
		EntityType        string `json:"entity_type"`
		Name              string `json:"name"`
		SubscriptionBps   int    `json:"subscription_bps"`
		ManagementFeeBps  int    `json:"management_fee_bps"`
		PerformanceFeeBps int    `json:"performance_fee_bps"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if input.EntityID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "An entity_id is required"})
		return
	}

	switch input.EntityType {
	case "partner", "introducer", "commercial_partner":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "entity_type must be one of partner, introducer, commercial_partner"})
		return
	}

	var deal models.Deal
	if err := utils.PortalDB.First(&deal, "id = ?", dealID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Deal not found"})
		return
	}

	plan := models.FeePlan{
		DealID:            dealID,
		EntityID:          input.EntityID,
		EntityType:        input.EntityType,
		Name:              input.Name,
		SubscriptionBps:   input.SubscriptionBps,
		ManagementFeeBps:  input.ManagementFeeBps,
		PerformanceFeeBps: input.PerformanceFeeBps,
		Status:            models.FeePlanStatusDraft,
		IsActive:          true,
	}

	if err := utils.PortalDB.Create(&plan).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create fee plan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"fee_plan": plan})
}

// UpdateFeePlanStatus moves a fee plan through its negotiation states.
// Allowed transitions: draft→sent, sent→accepted|rejected|pending_signature,
// pending_signature→accepted|rejected.
func UpdateFeePlanStatus(c *gin.Context) {
	planID := c.Param("fee_plan_id")

	var input struct {
		Status string `json:"status"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	var plan models.FeePlan
	if err := utils.PortalDB.First(&plan, "id = ?", planID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Fee plan not found"})
		return
	}

	if !validFeePlanTransition(plan.Status, input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot move fee plan from " + plan.Status + " to " + input.Status})
		return
	}

	plan.Status = input.Status
	if err := utils.PortalDB.Save(&plan).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update fee plan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"fee_plan": plan})
}

func validFeePlanTransition(from, to string) bool {
	switch from {
	case models.FeePlanStatusDraft:
		return to == models.FeePlanStatusSent
	case models.FeePlanStatusSent:
		return to == models.FeePlanStatusAccepted || to == models.FeePlanStatusRejected || to == models.FeePlanStatusPendingSignature
	case models.FeePlanStatusPendingSignature:
		return to == models.FeePlanStatusAccepted || to == models.FeePlanStatusRejected
	}
	return false
}

// DeactivateFeePlan retires a plan without deleting the negotiation record.
func DeactivateFeePlan(c *gin.Context) {
	planID := c.Param("fee_plan_id")

	var plan models.FeePlan
	if err := utils.PortalDB.First(&plan, "id = ?", planID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Fee plan not found"})
		return
	}

	plan.IsActive = false
	if err := utils.PortalDB.Save(&plan).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate fee plan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"fee_plan": plan})
}
