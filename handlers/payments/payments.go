package payments

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"investor-portal-server/models"
	"investor-portal-server/utils"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/paymentintent"
	"github.com/stripe/stripe-go/v80/webhook"
)

type CreatePaymentIntentRequest struct {
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
	DealID     string `json:"deal_id"`
	InvestorID string `json:"investor_id"`
}

// CreateCapitalCallPayment starts a Stripe payment for an investor's
// commitment on a deal and records it for the webhook to settle.
func CreateCapitalCallPayment(c *gin.Context) {
	var req CreatePaymentIntentRequest

	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Amount <= 0 || req.Currency == "" || req.DealID == "" || req.InvestorID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount, currency, deal_id and investor_id are required"})
		return
	}

	userInterface, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}
	user := userInterface.(models.User)

	// Only a dispatched member of the deal can pay into it
	var membership models.DealMembership
	if err := utils.PortalDB.Where("deal_id = ? AND user_id = ? AND dispatched_at IS NOT NULL", req.DealID, user.ID).First(&membership).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this deal"})
		return
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(req.Currency),
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card",
		}),
	}

	if user.Email != "" {
		params.ReceiptEmail = stripe.String(user.Email)
	}

	params.Metadata = map[string]string{
		"deal_id":     req.DealID,
		"investor_id": req.InvestorID,
		"user_id":     user.ID,
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	payment := models.CapitalCallPayment{
		DealID:          req.DealID,
		InvestorID:      req.InvestorID,
		UserID:          user.ID,
		Amount:          req.Amount,
		Currency:        req.Currency,
		PaymentIntentID: pi.ID,
	}
	if err := utils.PortalDB.Create(&payment).Error; err != nil {
		log.Printf("Failed to record capital call payment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clientSecret": pi.ClientSecret,
	})
}

func HandleStripeWebhook(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Writer.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	endpointSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	event, err := webhook.ConstructEvent(payload, c.Request.Header.Get("Stripe-Signature"), endpointSecret)
	if err != nil {
		log.Printf("Webhook signature verification failed: %v", err)
		c.Writer.WriteHeader(http.StatusBadRequest)
		return
	}

	if event.Type == "payment_intent.succeeded" {
		var paymentIntent stripe.PaymentIntent
		err := json.Unmarshal(event.Data.Raw, &paymentIntent)
		if err != nil {
			log.Printf("Error parsing webhook JSON: %v", err)
			c.Writer.WriteHeader(http.StatusBadRequest)
			return
		}

		handlePaymentSuccess(paymentIntent)
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func handlePaymentSuccess(paymentIntent stripe.PaymentIntent) {
	var payment models.CapitalCallPayment
	if err := utils.PortalDB.Where("payment_intent_id = ?", paymentIntent.ID).First(&payment).Error; err != nil {
		log.Printf("No recorded payment for intent %s", paymentIntent.ID)
		return
	}

	if payment.Paid {
		return
	}

	payment.Paid = true
	if err := utils.PortalDB.Save(&payment).Error; err != nil {
		log.Printf("Failed to mark payment %d as paid: %v", payment.ID, err)
		return
	}

	// Settle any invoiced commission tied to the same deal once the capital
	// call clears. Best effort.
	now := time.Now()
	if err := utils.PortalDB.Model(&models.Commission{}).
		Where("deal_id = ? AND status = ?", payment.DealID, models.CommissionStatusInvoiced).
		Updates(map[string]interface{}{"status": models.CommissionStatusPaid, "paid_at": now}).Error; err != nil {
		log.Printf("Failed to settle commissions for deal %s: %v", payment.DealID, err)
	}

	notification := models.Notification{
		UserID: payment.UserID,
		Title:  "Payment received",
		Body:   "Your capital call payment was received.",
	}
	if err := utils.PortalDB.Create(&notification).Error; err != nil {
		log.Printf("Failed to create payment notification: %v", err)
	}
}
