package models

import "time"

type Notification struct {
    ID        uint      `gorm:"primaryKey" json:"id"`
    UserID    string    `gorm:"size:36;index" json:"user_id"`
    Title     string    `json:"title"`
    Body      string    `json:"body"`
    Read      bool      `gorm:"default:false" json:"read"`
    CreatedAt time.Time `json:"created_at"`
    UpdatedAt time.Time `json:"updated_at"`
}
