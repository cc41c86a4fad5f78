package models

import "time"

// CapitalCallPayment tracks a Stripe payment an investor makes against a
// deal commitment. Paid is flipped by the webhook handler.
type CapitalCallPayment struct {
    ID              uint      `gorm:"primaryKey" json:"id"`
    DealID          string    `gorm:"size:36;index" json:"deal_id"`
    InvestorID      string    `gorm:"size:36;index" json:"investor_id"`
    UserID          string    `gorm:"size:36" json:"user_id"`
    Amount          int64     `json:"amount"` // minor units
    Currency        string    `json:"currency"`
    PaymentIntentID string    `gorm:"column:payment_intent_id;index" json:"payment_intent_id"`
    Paid            bool      `gorm:"default:false" json:"paid"`
    CreatedAt       time.Time `json:"created_at"`
    UpdatedAt       time.Time `json:"updated_at"`
}
