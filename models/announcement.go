package models

import "time"

// Announcement is a staff-published notice shown to portal users, e.g. a
// new deal opening or a reporting deadline.
type Announcement struct {
    ID          uint      `gorm:"primaryKey" json:"id"`
    Title       string    `json:"title"`
    Description string    `json:"description"`
    Link        string    `json:"link"`
    Featured    bool      `gorm:"default:false" json:"featured"`
    PublishedAt time.Time `gorm:"column:published_at" json:"published_at"`
    CreatedAt   time.Time `json:"created_at"`
}
