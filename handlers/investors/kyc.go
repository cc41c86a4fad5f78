package investors

import (
	"encoding/json"
	"log"
	"net/http"

	"investor-portal-server/models"
	"investor-portal-server/utils"

	"github.com/gin-gonic/gin"
)

// ApproveKYC marks an investor as verified and approves the account.
func ApproveKYC(c *gin.Context) {
	reviewKYC(c, "verified", "approved")
}

// RejectKYC marks an investor's KYC review as rejected.
func RejectKYC(c *gin.Context) {
	reviewKYC(c, "rejected", "rejected")
}

func reviewKYC(c *gin.Context, kycStatus, approvalStatus string) {
	investorID := c.Param("investor_id")

	userInterface, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}
	reviewer := userInterface.(models.User)

	var investor models.Investor
	if err := utils.PortalDB.First(&investor, "id = ?", investorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Investor not found"})
		return
	}

	investor.KYCStatus = kycStatus
	investor.AccountApprovalStatus = approvalStatus
	if err := utils.PortalDB.Save(&investor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update investor"})
		return
	}

	details, _ := json.Marshal(gin.H{"kyc_status": kycStatus, "account_approval_status": approvalStatus})
	entry := models.AuditLog{
		Actor:    reviewer.ID,
		Action:   "kyc_review",
		Entity:   "investor",
		EntityID: investor.ID,
		Details:  string(details),
	}
	if err := utils.PortalDB.Create(&entry).Error; err != nil {
		log.Printf("Failed to write KYC audit entry: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"investor": investor})
}

// BlacklistInvestor flags an investor so it can never be dispatched into a
// deal again.
func BlacklistInvestor(c *gin.Context) {
	investorID := c.Param("investor_id")

	userInterface, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}
	reviewer := userInterface.(models.User)

	var investor models.Investor
	if err := utils.PortalDB.First(&investor, "id = ?", investorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Investor not found"})
		return
	}

	investor.Status = "blacklisted"
	investor.AccountApprovalStatus = "blacklisted"
	if err := utils.PortalDB.Save(&investor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to blacklist investor"})
		return
	}

	entry := models.AuditLog{
		Actor:    reviewer.ID,
		Action:   "investor_blacklisted",
		Entity:   "investor",
		EntityID: investor.ID,
	}
	if err := utils.PortalDB.Create(&entry).Error; err != nil {
		log.Printf("Failed to write blacklist audit entry: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"investor": investor})
}
