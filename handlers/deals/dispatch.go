package deals

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"investor-portal-server/models"
	"investor-portal-server/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DispatchUsers grants a set of portal users access to a deal by writing
// membership rows. Already-linked users are skipped silently, users with a
// blacklisted investor are blocked and reported, and unmet fee-plan or
// introducer-agreement preconditions fail the whole call.
func DispatchUsers(c *gin.Context) {
	userInterface, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}
	invoker := userInterface.(models.User)

	dealID := c.Param("deal_id")

	var req dispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ValidationError", "message": "Invalid request payload"})
		return
	}

	if fields := validateDispatchRequest(req); len(fields) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "ValidationError",
			"message": "The dispatch request is invalid.",
			"details": fields,
		})
		return
	}

	// Fee plan precondition, scoped to the deal and the referring entity
	if req.AssignedFeePlanID != "" {
		var feePlan models.FeePlan
		if err := utils.PortalDB.Where("id = ? AND deal_id = ? AND entity_id = ?", req.AssignedFeePlanID, dealID, req.ReferredByEntityID).First(&feePlan).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "InvalidFeePlan",
				"message": "The selected fee plan does not exist for this deal and entity.",
			})
			return
		}

		if !feePlan.IsActive {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "FeePlanInactive",
				"message": "The selected fee plan is no longer active.",
			})
			return
		}

		if feePlan.Status != models.FeePlanStatusAccepted {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "FeePlanNotAccepted",
				"message": feePlanNotAcceptedMessage(feePlan.Status),
			})
			return
		}
	}

	// Introducer dispatches require a current signed commission agreement.
	// One missing agreement blocks the whole call.
	if req.Role == models.RoleIntroducerInvestor {
		missing, err := usersMissingIntroducerAgreement(req.UserIDs)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check introducer agreements"})
			return
		}
		if len(missing) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":         "AgreementRequired",
				"message":       "Some users belong to an introducer without a current signed commission agreement.",
				"users_blocked": missing,
			})
			return
		}
	}

	var deal models.Deal
	if err := utils.PortalDB.First(&deal, "id = ?", dealID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "DealNotFound", "message": "Deal not found"})
		return
	}

	if deal.Status == models.DealStatusClosed || deal.Status == models.DealStatusCancelled {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "DealNotAvailable",
			"message": "This deal is " + deal.Status + " and can no longer be dispatched.",
		})
		return
	}

	// Partition targets: already a member (skip), blacklisted (block), eligible
	var existing []models.DealMembership
	if err := utils.PortalDB.Where("deal_id = ? AND user_id IN ?", dealID, req.UserIDs).Find(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch memberships"})
		return
	}

	alreadyMember := make(map[string]bool, len(existing))
	for _, m := range existing {
		alreadyMember[m.UserID] = true
	}

	var skipped, eligible []string
	blocked := make([]string, 0)
	for _, userID := range req.UserIDs {
		if alreadyMember[userID] {
			skipped = append(skipped, userID)
			continue
		}

		blacklisted, err := hasBlacklistedInvestor(userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check investor status"})
			return
		}
		if blacklisted {
			blocked = append(blocked, userID)
			continue
		}

		eligible = append(eligible, userID)
	}

	if len(eligible) == 0 {
		if len(blocked) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":         "AllUsersBlacklisted",
				"message":       "Cannot dispatch blacklisted users.",
				"users_blocked": blocked,
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "AllUsersAlreadyMembers",
			"message": "All selected users are already members of this deal.",
		})
		return
	}

	now := time.Now()
	memberships := make([]models.DealMembership, 0, len(eligible))
	for _, userID := range eligible {
		investorID, err := resolveInvestorForUser(userID, req.Role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "WriteFailed", "message": "Failed to resolve investor for user"})
			return
		}

		membership := models.DealMembership{
			DealID:       dealID,
			UserID:       userID,
			InvestorID:   investorID,
			Role:         req.Role,
			InvitedBy:    invoker.ID,
			InvitedAt:    now,
			DispatchedAt: &now,
		}
		if req.ReferredByEntityID != "" {
			entityID := req.ReferredByEntityID
			entityType := req.ReferredByEntityType
			feePlanID := req.AssignedFeePlanID
			membership.ReferredByEntityID = &entityID
			membership.ReferredByEntityType = &entityType
			membership.AssignedFeePlanID = &feePlanID
		}
		memberships = append(memberships, membership)
	}

	if err := utils.PortalDB.Create(&memberships).Error; err != nil {
		log.Printf("Failed to insert deal memberships: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "WriteFailed", "message": "Failed to create deal memberships"})
		return
	}

	writeDispatchAudit(invoker.ID, dealID, eligible, len(skipped), blocked)

	notifyDispatchedUsers(deal, eligible)

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"dispatched_count": len(eligible),
		"skipped_count":    len(skipped),
		"blocked_count":    len(blocked),
		"users_blocked":    blocked,
		"memberships":      memberships,
	})
}

// resolveInvestorForUser returns the investor a new membership should point
// at. Commercial partner users without an investor link get one provisioned
// from their partner record.
func resolveInvestorForUser(userID, role string) (*string, error) {
	investors, err := linkedInvestors(userID)
	if err != nil {
		return nil, err
	}
	if len(investors) > 0 {
		id := investors[0].ID
		return &id, nil
	}

	if role != models.RoleCommercialPartnerInvestor {
		return nil, nil
	}

	// Auto-provision an investor derived from the user's commercial partner
	var link models.CommercialPartnerUser
	if err := utils.PortalDB.Where("user_id = ?", userID).First(&link).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		log.Printf("User %s has no commercial partner link; dispatching without investor", userID)
		return nil, nil
	}

	var partner models.CommercialPartner
	if err := utils.PortalDB.First(&partner, "id = ?", link.CommercialPartnerID).Error; err != nil {
		return nil, err
	}

	var investor models.Investor
	err = utils.PortalDB.Where("commercial_partner_id = ?", partner.ID).First(&investor).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		kycStatus := "pending"
		if partner.KYCStatus == "approved" {
			kycStatus = "verified"
		}
		partnerID := partner.ID
		investor = models.Investor{
			LegalName:             partner.LegalName,
			Email:                 partner.Email,
			Address:               partner.Address,
			KYCStatus:             kycStatus,
			Status:                "active",
			AccountApprovalStatus: "pending",
			CommercialPartnerID:   &partnerID,
		}
		if err := utils.PortalDB.Create(&investor).Error; err != nil {
			return nil, err
		}
	}

	if err := utils.PortalDB.Create(&models.InvestorUser{UserID: userID, InvestorID: investor.ID}).Error; err != nil {
		return nil, err
	}

	id := investor.ID
	return &id, nil
}

// writeDispatchAudit appends the audit trail entry for a successful
// dispatch. Best effort: a failed audit write is logged, not surfaced.
func writeDispatchAudit(actorID, dealID string, dispatched []string, skippedCount int, blocked []string) {
	details, err := json.Marshal(gin.H{
		"dispatched_users": dispatched,
		"skipped_count":    skippedCount,
		"users_blocked":    blocked,
	})
	if err != nil {
		log.Printf("Failed to marshal dispatch audit details: %v", err)
		return
	}

	entry := models.AuditLog{
		Actor:    actorID,
		Action:   "deal_dispatch",
		Entity:   "deal",
		EntityID: dealID,
		Details:  string(details),
	}
	if err := utils.PortalDB.Create(&entry).Error; err != nil {
		log.Printf("Failed to write dispatch audit entry: %v", err)
	}
}

// notifyDispatchedUsers records an in-app notification and sends a
// best-effort email to every user that was just dispatched.
func notifyDispatchedUsers(deal models.Deal, userIDs []string) {
	var users []models.User
	if err := utils.PortalDB.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		log.Printf("Failed to fetch dispatched users for notification: %v", err)
		return
	}

	for _, u := range users {
		notification := models.Notification{
			UserID: u.ID,
			Title:  "New deal access",
			Body:   "You have been granted access to the deal " + deal.Name + ".",
		}
		if err := utils.PortalDB.Create(&notification).Error; err != nil {
			log.Printf("Failed to create dispatch notification for %s: %v", u.ID, err)
		}

		if u.Email != "" {
			utils.SendDealAccessEmail(u.Email, deal.Name)
		}
	}
}

// GetDispatch returns the current memberships of a deal plus the users that
// can still be dispatched, for populating the selection UI. Users whose
// linked investor is blacklisted are pre-filtered.
func GetDispatch(c *gin.Context) {
	dealID := c.Param("deal_id")

	var deal models.Deal
	if err := utils.PortalDB.First(&deal, "id = ?", dealID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "DealNotFound", "message": "Deal not found"})
		return
	}

	var memberships []models.DealMembership
	if err := utils.PortalDB.Where("deal_id = ?", dealID).Find(&memberships).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch memberships"})
		return
	}

	memberIDs := make(map[string]bool, len(memberships))
	for _, m := range memberships {
		memberIDs[m.UserID] = true
	}

	var users []models.User
	if err := utils.PortalDB.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	eligible := make([]gin.H, 0)
	for _, u := range users {
		if memberIDs[u.ID] {
			continue
		}

		blacklisted, err := hasBlacklistedInvestor(u.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check investor status"})
			return
		}
		if blacklisted {
			continue
		}

		eligible = append(eligible, gin.H{
			"id":           u.ID,
			"email":        u.Email,
			"display_name": u.DisplayName,
			"title":        u.Title,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"deal":           deal,
		"memberships":    memberships,
		"eligible_users": eligible,
	})
}
