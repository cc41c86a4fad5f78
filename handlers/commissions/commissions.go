package commissions

import (
	"net/http"

	"investor-portal-server/models"
	"investor-portal-server/utils"

	"github.com/gin-gonic/gin"
)

func GetCommissions(c *gin.Context) {
	query := utils.PortalDB.Order("created_at DESC")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if dealID := c.Query("deal_id"); dealID != "" {
		query = query.Where("deal_id = ?", dealID)
	}

	var commissions []models.Commission
	if err := query.Find(&commissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch commissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"commissions": commissions})
}

// AccrueCommission computes a commission from an accepted fee plan and a
// base amount (the committed capital the entity introduced).
func AccrueCommission(c *gin.Context) {
	var input struct {
		FeePlanID  string  `json:"fee_plan_id"`
		BaseAmount float64 `json:"base_amount"`
		Currency   string  `json:"currency"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if input.FeePlanID == "" || input.BaseAmount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A fee_plan_id and a positive base_amount are required"})
		return
	}

	var plan models.FeePlan
	if err := utils.PortalDB.First(&plan, "id = ?", input.FeePlanID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Fee plan not found"})
		return
	}

	if plan.Status != models.FeePlanStatusAccepted || !plan.IsActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Commissions can only accrue against an accepted, active fee plan"})
		return
	}

	rateBps := plan.SubscriptionBps

	commission := models.Commission{
		DealID:     plan.DealID,
		EntityID:   plan.EntityID,
		EntityType: plan.EntityType,
		FeePlanID:  plan.ID,
		BaseAmount: input.BaseAmount,
		RateBps:    rateBps,
		Amount:     input.BaseAmount * float64(rateBps) / 10000,
		Currency:   input.Currency,
		Status:     models.CommissionStatusAccrued,
	}

	if err := utils.PortalDB.Create(&commission).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accrue commission"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"commission": commission})
}

// MarkInvoiced flags an accrued commission as invoiced by the entity.
func MarkInvoiced(c *gin.Context) {
	commissionID := c.Param("commission_id")

	var commission models.Commission
	if err := utils.PortalDB.First(&commission, "id = ?", commissionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commission not found"})
		return
	}

	if commission.Status != models.CommissionStatusAccrued {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only accrued commissions can be invoiced"})
		return
	}

	commission.Status = models.CommissionStatusInvoiced
	if err := utils.PortalDB.Save(&commission).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update commission"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"commission": commission})
}
