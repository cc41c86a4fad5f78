package utils

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/gomail.v2"
)

// SendOTPEmail sends the OTP to the user's email address
func SendOTPEmail(email string, otp string) {
	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("SMTP_SENDER"))
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Your OTP Code")
	m.SetBody("text/plain", "Your OTP code is: "+otp)

	d := gomail.NewDialer(
		os.Getenv("SMTP_HOST"),
		465,
		os.Getenv("SMTP_USER"),
		os.Getenv("SMTP_PASS"),
	)

	if err := d.DialAndSend(m); err != nil {
		log.Printf("Failed to send OTP email to %s: %v", email, err)
		return
	}

	log.Printf("OTP email successfully sent to %s", email)
}

// SendDealAccessEmail notifies a user that a deal has been opened for them.
// Best effort; dispatch does not fail when the email cannot be delivered.
func SendDealAccessEmail(email, dealName string) {
	if os.Getenv("SMTP_HOST") == "" {
		log.Printf("SMTP not configured; skipping deal access email to %s", email)
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("SMTP_SENDER"))
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("Deal access granted: %s", dealName))
	m.SetBody("text/plain", fmt.Sprintf("You have been granted access to the deal %q. Log in to the portal to review the opportunity.", dealName))

	d := gomail.NewDialer(
		os.Getenv("SMTP_HOST"),
		465,
		os.Getenv("SMTP_USER"),
		os.Getenv("SMTP_PASS"),
	)

	if err := d.DialAndSend(m); err != nil {
		log.Printf("Failed to send deal access email to %s: %v", email, err)
		return
	}

	log.Printf("Deal access email sent to %s", email)
}
