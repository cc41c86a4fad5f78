package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Investor struct {
    ID                    string    `gorm:"primaryKey;size:36" json:"id"`
    LegalName             string    `gorm:"not null" json:"legal_name"`
    Email                 string    `json:"email"`
    Address               string    `json:"address"`
    CountryOfResidence    string    `json:"country_of_residence"`
    KYCStatus             string    `gorm:"column:kyc_status;default:'pending'" json:"kyc_status"` // pending, verified, rejected
    Status                string    `gorm:"default:'active'" json:"status"`
    AccountApprovalStatus string    `gorm:"column:account_approval_status;default:'pending'" json:"account_approval_status"`
    CommercialPartnerID   *string   `gorm:"size:36;column:commercial_partner_id" json:"commercial_partner_id"`
    CreatedAt             time.Time `json:"created_at"`
    UpdatedAt             time.Time `json:"updated_at"`
}

func (i *Investor) BeforeCreate(tx *gorm.DB) error {
    if i.ID == "" {
        i.ID = uuid.NewString()
    }
    return nil
}

// InvestorUser links a portal user to an investor entity they act for.
type InvestorUser struct {
    ID         uint   `gorm:"primaryKey" json:"id"`
    UserID     string `gorm:"size:36;index" json:"user_id"`
    InvestorID string `gorm:"size:36;index" json:"investor_id"`
}

func (InvestorUser) TableName() string {
    return "investor_users"
}
