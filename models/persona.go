package models

// Persona is a capability bucket granted to a portal user, e.g. "ceo",
// "staff", "investor", "partner". A user can hold several; the elevated
// ones gate the deal administration endpoints.
type Persona struct {
    ID     uint   `gorm:"primaryKey" json:"id"`
    UserID string `gorm:"size:36;index" json:"user_id"`
    Name   string `gorm:"not null" json:"name"`
}
