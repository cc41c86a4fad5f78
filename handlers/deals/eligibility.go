package deals

import (
	"fmt"
	"strings"
	"time"

	"investor-portal-server/models"
	"investor-portal-server/utils"

	"github.com/google/uuid"
)

type dispatchRequest struct {
	UserIDs              []string `json:"user_ids"`
	Role                 string   `json:"role"`
	ReferredByEntityID   string   `json:"referred_by_entity_id"`
	ReferredByEntityType string   `json:"referred_by_entity_type"`
	AssignedFeePlanID    string   `json:"assigned_fee_plan_id"`
}

// validateDispatchRequest checks the request body against the dispatch
// schema and returns the offending fields, empty when valid.
func validateDispatchRequest(req dispatchRequest) []string {
	var fields []string

	if len(req.UserIDs) == 0 {
		fields = append(fields, "user_ids: at least one user is required")
	}
	for _, id := range req.UserIDs {
		if _, err := uuid.Parse(id); err != nil {
			fields = append(fields, fmt.Sprintf("user_ids: %q is not a valid uuid", id))
		}
	}

	switch req.Role {
	case models.RoleInvestor, models.RolePartnerInvestor, models.RoleIntroducerInvestor, models.RoleCommercialPartnerInvestor:
	default:
		fields = append(fields, "role: must be one of investor, partner_investor, introducer_investor, commercial_partner_investor")
	}

	if req.ReferredByEntityID != "" {
		if _, err := uuid.Parse(req.ReferredByEntityID); err != nil {
			fields = append(fields, "referred_by_entity_id: not a valid uuid")
		}
		switch req.ReferredByEntityType {
		case "partner", "introducer", "commercial_partner":
		default:
			fields = append(fields, "referred_by_entity_type: must be one of partner, introducer, commercial_partner")
		}
		// An entity referral is only valid together with a negotiated fee plan
		if req.AssignedFeePlanID == "" {
			fields = append(fields, "assigned_fee_plan_id: required when referred_by_entity_id is set")
		}
	}

	if req.AssignedFeePlanID != "" {
		if _, err := uuid.Parse(req.AssignedFeePlanID); err != nil {
			fields = append(fields, "assigned_fee_plan_id: not a valid uuid")
		}
	}

	return fields
}

// feePlanNotAcceptedMessage maps a fee plan status to the message shown to
// the operator when the plan cannot back a dispatch.
func feePlanNotAcceptedMessage(status string) string {
	switch status {
	case models.FeePlanStatusDraft:
		return "The selected fee plan is still a draft and has not been sent to the entity."
	case models.FeePlanStatusSent:
		return "The selected fee plan has been sent but not yet accepted by the entity."
	case models.FeePlanStatusRejected:
		return "The selected fee plan was rejected by the entity."
	case models.FeePlanStatusPendingSignature:
		return "The selected fee plan is awaiting signature."
	default:
		return fmt.Sprintf("The selected fee plan is in status %q and cannot be used.", status)
	}
}

// isBlacklisted reports whether an investor must never be granted new deal
// access. Both the status and the account approval field are honoured,
// case-insensitively.
func isBlacklisted(inv models.Investor) bool {
	for _, v := range []string{inv.Status, inv.AccountApprovalStatus} {
		switch strings.ToLower(v) {
		case "unauthorized", "blacklisted":
			return true
		}
	}
	return false
}

// linkedInvestors returns the investors a user acts for.
func linkedInvestors(userID string) ([]models.Investor, error) {
	var links []models.InvestorUser
	if err := utils.PortalDB.Where("user_id = ?", userID).Find(&links).Error; err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.InvestorID)
	}

	var investors []models.Investor
	if err := utils.PortalDB.Where("id IN ?", ids).Find(&investors).Error; err != nil {
		return nil, err
	}
	return investors, nil
}

// hasBlacklistedInvestor reports whether any investor linked to the user is
// blacklisted.
func hasBlacklistedInvestor(userID string) (bool, error) {
	investors, err := linkedInvestors(userID)
	if err != nil {
		return false, err
	}
	for _, inv := range investors {
		if isBlacklisted(inv) {
			return true, nil
		}
	}
	return false, nil
}

// introducerAgreementCurrent reports whether the introducer holds at least
// one agreement that is active, signed, and not expired as of today.
func introducerAgreementCurrent(introducerID string) (bool, error) {
	var agreements []models.IntroducerAgreement
	if err := utils.PortalDB.Where("introducer_id = ? AND status = ?", introducerID, "active").Find(&agreements).Error; err != nil {
		return false, err
	}

	today := time.Now().Truncate(24 * time.Hour)
	for _, a := range agreements {
		if a.SignedDate == nil {
			continue
		}
		if a.ExpiryDate != nil && a.ExpiryDate.Before(today) {
			continue
		}
		return true, nil
	}
	return false, nil
}

// usersMissingIntroducerAgreement returns the target users linked to an
// introducer without a current signed agreement. Any hit blocks the whole
// dispatch call.
func usersMissingIntroducerAgreement(userIDs []string) ([]string, error) {
	var blocked []string
	for _, userID := range userIDs {
		var links []models.IntroducerUser
		if err := utils.PortalDB.Where("user_id = ?", userID).Find(&links).Error; err != nil {
			return nil, err
		}

		for _, link := range links {
			ok, err := introducerAgreementCurrent(link.IntroducerID)
			if err != nil {
				return nil, err
			}
			if !ok {
				blocked = append(blocked, userID)
				break
			}
		}
	}
	return blocked, nil
}
