package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
    RoleInvestor                  = "investor"
    RolePartnerInvestor           = "partner_investor"
    RoleIntroducerInvestor        = "introducer_investor"
    RoleCommercialPartnerInvestor = "commercial_partner_investor"
)

// DealMembership authorizes a portal user to act on a deal. A non-null
// dispatched_at is what grants access; there is exactly one row per
// (deal_id, user_id) and this service never updates a row once written.
type DealMembership struct {
    ID                   string     `gorm:"primaryKey;size:36" json:"id"`
    DealID               string     `gorm:"size:36;index:idx_deal_user,unique" json:"deal_id"`
    UserID               string     `gorm:"size:36;index:idx_deal_user,unique" json:"user_id"`
    InvestorID           *string    `gorm:"size:36" json:"investor_id"`
    Role                 string     `gorm:"not null" json:"role"`
    InvitedBy            string     `gorm:"size:36" json:"invited_by"`
    InvitedAt            time.Time  `json:"invited_at"`
    DispatchedAt         *time.Time `json:"dispatched_at"`
    ReferredByEntityID   *string    `gorm:"size:36;column:referred_by_entity_id" json:"referred_by_entity_id"`
    ReferredByEntityType *string    `gorm:"column:referred_by_entity_type" json:"referred_by_entity_type"`
    AssignedFeePlanID    *string    `gorm:"size:36;column:assigned_fee_plan_id" json:"assigned_fee_plan_id"`
    CreatedAt            time.Time  `json:"created_at"`
}

func (m *DealMembership) BeforeCreate(tx *gorm.DB) error {
    if m.ID == "" {
        m.ID = uuid.NewString()
    }
    return nil
}
