package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
    FeePlanStatusDraft            = "draft"
    FeePlanStatusSent             = "sent"
    FeePlanStatusAccepted         = "accepted"
    FeePlanStatusRejected         = "rejected"
    FeePlanStatusPendingSignature = "pending_signature"
)

// FeePlan is a negotiated commission/fee schedule tied to an entity
// (partner, introducer or commercial partner) and a deal. Only an accepted,
// active plan can be referenced by a new deal membership.
type FeePlan struct {
    ID                string    `gorm:"primaryKey;size:36" json:"id"`
    DealID            string    `gorm:"size:36;index" json:"deal_id"`
    EntityID          string    `gorm:"size:36;index" json:"entity_id"`
    EntityType        string    `json:"entity_type"` // partner, introducer, commercial_partner
    Name              string    `json:"name"`
    SubscriptionBps   int       `gorm:"column:subscription_bps" json:"subscription_bps"`
    ManagementFeeBps  int       `gorm:"column:management_fee_bps" json:"management_fee_bps"`
    PerformanceFeeBps int       `gorm:"column:performance_fee_bps" json:"performance_fee_bps"`
    Status            string    `gorm:"default:'draft'" json:"status"`
    IsActive          bool      `gorm:"column:is_active" json:"is_active"`
    CreatedAt         time.Time `json:"created_at"`
    UpdatedAt         time.Time `json:"updated_at"`
}

func (f *FeePlan) BeforeCreate(tx *gorm.DB) error {
    if f.ID == "" {
        f.ID = uuid.NewString()
    }
    return nil
}
