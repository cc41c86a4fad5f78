package models

import "time"

// AuditLog rows are append-only; nothing in the portal updates or deletes
// them. Details carries a JSON payload specific to the action.
type AuditLog struct {
    ID        uint      `gorm:"primaryKey" json:"id"`
    Actor     string    `gorm:"size:36;index" json:"actor"`
    Action    string    `gorm:"index" json:"action"`
    Entity    string    `json:"entity"`
    EntityID  string    `gorm:"size:36;column:entity_id" json:"entity_id"`
    Details   string    `gorm:"type:text" json:"details"`
    CreatedAt time.Time `json:"created_at"`
}
