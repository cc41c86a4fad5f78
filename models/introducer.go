package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Introducer struct {
    ID        string    `gorm:"primaryKey;size:36" json:"id"`
    LegalName string    `gorm:"not null" json:"legal_name"`
    Email     string    `json:"email"`
    Status    string    `gorm:"default:'active'" json:"status"`
    CreatedAt time.Time `json:"created_at"`
    UpdatedAt time.Time `json:"updated_at"`
}

func (i *Introducer) BeforeCreate(tx *gorm.DB) error {
    if i.ID == "" {
        i.ID = uuid.NewString()
    }
    return nil
}

type IntroducerUser struct {
    ID           uint   `gorm:"primaryKey" json:"id"`
    UserID       string `gorm:"size:36;index" json:"user_id"`
    IntroducerID string `gorm:"size:36;index" json:"introducer_id"`
}

func (IntroducerUser) TableName() string {
    return "introducer_users"
}

// IntroducerAgreement is the signed commission agreement an introducer must
// hold before any of its users can be dispatched as introducer investors.
type IntroducerAgreement struct {
    ID            string     `gorm:"primaryKey;size:36" json:"id"`
    IntroducerID  string     `gorm:"size:36;index" json:"introducer_id"`
    Status        string     `gorm:"default:'draft'" json:"status"` // draft, active, expired, terminated
    SignedDate    *time.Time `gorm:"column:signed_date" json:"signed_date"`
    ExpiryDate    *time.Time `gorm:"column:expiry_date" json:"expiry_date"`
    CommissionBps int        `gorm:"column:commission_bps" json:"commission_bps"`
    CreatedAt     time.Time  `json:"created_at"`
    UpdatedAt     time.Time  `json:"updated_at"`
}

func (a *IntroducerAgreement) BeforeCreate(tx *gorm.DB) error {
    if a.ID == "" {
        a.ID = uuid.NewString()
    }
    return nil
}
