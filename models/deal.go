package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
    DealStatusOpen      = "open"
    DealStatusClosed    = "closed"
    DealStatusCancelled = "cancelled"
)

type Deal struct {
    ID        string    `gorm:"primaryKey;size:36" json:"id"`
    Name      string    `gorm:"not null" json:"name"`
    DealType  string    `gorm:"column:deal_type" json:"deal_type"`
    Currency  string    `json:"currency"`
    Status    string    `gorm:"not null;default:'open'" json:"status"` // open, closed, cancelled
    CreatedBy string    `gorm:"size:36" json:"created_by"`
    CreatedAt time.Time `json:"created_at"`
    UpdatedAt time.Time `json:"updated_at"`
}

func (d *Deal) BeforeCreate(tx *gorm.DB) error {
    if d.ID == "" {
        d.ID = uuid.NewString()
    }
    return nil
}
