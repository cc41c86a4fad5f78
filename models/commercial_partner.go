package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommercialPartner is a distribution entity whose represented clients can
// be dispatched into deals as proxy investors.
type CommercialPartner struct {
    ID        string    `gorm:"primaryKey;size:36" json:"id"`
    LegalName string    `gorm:"not null" json:"legal_name"`
    Email     string    `json:"email"`
    Address   string    `json:"address"`
    KYCStatus string    `gorm:"column:kyc_status;default:'pending'" json:"kyc_status"` // pending, approved, rejected
    Status    string    `gorm:"default:'active'" json:"status"`
    CreatedAt time.Time `json:"created_at"`
    UpdatedAt time.Time `json:"updated_at"`
}

func (p *CommercialPartner) BeforeCreate(tx *gorm.DB) error {
    if p.ID == "" {
        p.ID = uuid.NewString()
    }
    return nil
}

type CommercialPartnerUser struct {
    ID                  uint   `gorm:"primaryKey" json:"id"`
    UserID              string `gorm:"size:36;index" json:"user_id"`
    CommercialPartnerID string `gorm:"size:36;index;column:commercial_partner_id" json:"commercial_partner_id"`
}

func (CommercialPartnerUser) TableName() string {
    return "commercial_partner_users"
}
