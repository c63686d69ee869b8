package services

import (
	"fmt"
	"log"
	"strings"

	"lexdesk_app_go/config"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// SendEmail sends an email via Resend. In test mode the email is logged to
// the console instead of sent.
func SendEmail(cfg *config.Config, email *Email) error {
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)

	fromAddress := fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom)

	params := &resend.SendEmailRequest{
		From:    fromAddress,
		To:      email.To,
		Subject: email.Subject,
	}

	if email.HTMLBody != "" {
		params.Html = email.HTMLBody
	}
	if email.TextBody != "" {
		params.Text = email.TextBody
	}

	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %v", err)
	}

	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// SendEmailAsync sends an email in a goroutine, logging failures
func SendEmailAsync(cfg *config.Config, email *Email) {
	// Copy to avoid race conditions with the caller
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}

	go func(cfg *config.Config, email *Email) {
		if err := SendEmail(cfg, email); err != nil {
			log.Printf("Error sending async email: %v", err)
		}
	}(cfg, emailCopy)
}

func logEmailToConsole(email *Email) {
	log.Printf("---- EMAIL (test mode, not sent) ----")
	log.Printf("To: %s", strings.Join(email.To, ", "))
	log.Printf("Subject: %s", email.Subject)
	if email.TextBody != "" {
		log.Printf("Body: %s", email.TextBody)
	} else {
		log.Printf("Body (HTML): %s", email.HTMLBody)
	}
	log.Printf("-------------------------------------")
}

// DeadlineReminderEmailData contains data for the deadline reminder email
type DeadlineReminderEmailData struct {
	Title        string
	MatterNumber string
	MatterTitle  string
	DueDate      string
	DaysLeft     int
	Link         string
}

// BuildDeadlineReminderEmail creates a reminder for an upcoming deadline
func BuildDeadlineReminderEmail(toEmail string, data DeadlineReminderEmailData) *Email {
	subject := fmt.Sprintf("Deadline approaching: %s (%s)", data.Title, data.MatterNumber)

	text := fmt.Sprintf(
		"The deadline %q on matter %s (%s) is due %s (%d day(s) from now).\n\nView it here: %s\n",
		data.Title, data.MatterNumber, data.MatterTitle, data.DueDate, data.DaysLeft, data.Link,
	)

	html := fmt.Sprintf(
		`<p>The deadline <strong>%s</strong> on matter <strong>%s</strong> (%s) is due <strong>%s</strong> (%d day(s) from now).</p><p><a href="%s">View deadline</a></p>`,
		data.Title, data.MatterNumber, data.MatterTitle, data.DueDate, data.DaysLeft, data.Link,
	)

	return &Email{
		To:       []string{toEmail},
		Subject:  subject,
		HTMLBody: html,
		TextBody: text,
	}
}

// PortalInviteEmailData contains data for the portal invite email
type PortalInviteEmailData struct {
	ClientName string
	PortalURL  string
	FirmName   string
}

// BuildPortalInviteEmail creates the email sent when portal access is enabled
func BuildPortalInviteEmail(toEmail string, data PortalInviteEmailData) *Email {
	subject := fmt.Sprintf("%s has enabled your client portal", data.FirmName)

	text := fmt.Sprintf(
		"Hello %s,\n\nYou can now view your matters, documents, and invoices online:\n%s\n",
		data.ClientName, data.PortalURL,
	)

	html := fmt.Sprintf(
		`<p>Hello %s,</p><p>You can now view your matters, documents, and invoices online:</p><p><a href="%s">Open client portal</a></p>`,
		data.ClientName, data.PortalURL,
	)

	return &Email{
		To:       []string{toEmail},
		Subject:  subject,
		HTMLBody: html,
		TextBody: text,
	}
}
