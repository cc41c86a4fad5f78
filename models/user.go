package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
    ID             string     `gorm:"primaryKey;size:36" json:"id"`
    Email          string     `gorm:"unique;not null" json:"email"`
    Password       string     `gorm:"not null" json:"-"`
    DisplayName    string     `gorm:"column:display_name" json:"display_name"`
    Title          string     `json:"title"`
    OTP            string     `json:"-"`
    OTPGeneratedAt *time.Time `json:"-"`
    RefreshToken   string     `json:"-"`
    CreatedAt      time.Time  `json:"created_at"`
    UpdatedAt      time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
    if u.ID == "" {
        u.ID = uuid.NewString()
    }
    return nil
}
