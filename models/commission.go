package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
    CommissionStatusAccrued  = "accrued"
    CommissionStatusInvoiced = "invoiced"
    CommissionStatusPaid     = "paid"
)

type Commission struct {
    ID         string     `gorm:"primaryKey;size:36" json:"id"`
    DealID     string     `gorm:"size:36;index" json:"deal_id"`
    EntityID   string     `gorm:"size:36;index" json:"entity_id"`
    EntityType string     `json:"entity_type"`
    FeePlanID  string     `gorm:"size:36;column:fee_plan_id" json:"fee_plan_id"`
    BaseAmount float64    `gorm:"column:base_amount" json:"base_amount"`
    RateBps    int        `gorm:"column:rate_bps" json:"rate_bps"`
    Amount     float64    `json:"amount"`
    Currency   string     `json:"currency"`
    Status     string     `gorm:"default:'accrued'" json:"status"` // accrued, invoiced, paid
    PaidAt     *time.Time `json:"paid_at"`
    CreatedAt  time.Time  `json:"created_at"`
    UpdatedAt  time.Time  `json:"updated_at"`
}

func (cm *Commission) BeforeCreate(tx *gorm.DB) error {
    if cm.ID == "" {
        cm.ID = uuid.NewString()
    }
    return nil
}
