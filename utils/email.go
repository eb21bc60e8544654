package utils

import (
	"fmt"
	"os"

	"github.com/keighl/postmark"
	log "github.com/sirupsen/logrus"

	"freshcart/models"
)

// EmailService handles sending emails using Postmark
type EmailService struct {
	client *postmark.Client
}

// NewEmailService initializes and returns a new EmailService instance. With
// no POSTMARK_API_TOKEN set, sends become no-ops so local runs work without
// the provider.
func NewEmailService() *EmailService {
	apiToken := os.Getenv("POSTMARK_API_TOKEN")
	if apiToken == "" {
		log.Warn("POSTMARK_API_TOKEN not set, outgoing email disabled")
		return &EmailService{}
	}
	return &EmailService{
		client: postmark.NewClient(apiToken, ""),
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	if es.client == nil {
		log.WithField("to", toEmail).Debug("email disabled, skipping send")
		return nil
	}
	_, err := es.client.SendEmail(postmark.Email{
		From:     os.Getenv("EMAIL_SENDER"),
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendOrderConfirmationEmail sends an order confirmation email to the shopper
func (es *EmailService) SendOrderConfirmationEmail(toEmail string, order models.Order) error {
	subject := "Order Confirmation"
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>Thank you for your purchase! Your order (ID: %s) has been placed successfully.<br><br>Total Amount: <strong>$%.2f</strong><br>Transaction: <strong>%s</strong><br><br>Thank you for shopping with us!",
		order.ID.Hex(),
		order.Total,
		order.TransactionID,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}

// SendRoleChangeEmail notifies a user that an admin changed their dashboard role
func (es *EmailService) SendRoleChangeEmail(toEmail, role string) error {
	subject := "Your Account Role Was Updated"
	htmlContent := fmt.Sprintf(
		"<strong>Hello,</strong><br><br>Your dashboard role is now <strong>%s</strong>. Sign in again to pick up the new permissions.",
		role,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}
