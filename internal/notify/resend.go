package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/resend/resend-go/v2"

	"asistente/internal/database"
)

// ResendNotifier emails a copy of each delivered reminder via the Resend
// API. The recipient address lives in the config table so the user can set
// it from the chat.
type ResendNotifier struct {
	client      *resend.Client
	db          *database.DB
	fromAddress string
}

// NewResendNotifier creates the email notifier. Returns nil when no API key
// is configured, which disables email copies entirely.
func NewResendNotifier(apiKey, from string, db *database.DB) *ResendNotifier {
	if apiKey == "" || from == "" {
		return nil
	}
	return &ResendNotifier{
		client:      resend.NewClient(apiKey),
		db:          db,
		fromAddress: from,
	}
}

// ReminderDelivered sends the email copy. A chat with no configured
// recipient address is a silent no-op.
func (r *ResendNotifier) ReminderDelivered(ctx context.Context, chatID, text string) error {
	recipient, err := r.db.GetConfig(database.ConfigKeyEmailCopy)
	if err != nil {
		return fmt.Errorf("failed to read email recipient: %w", err)
	}
	if recipient == "" {
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    r.fromAddress,
		To:      []string{recipient},
		Subject: "🔔 Recordatorio enviado",
		Html:    r.formatEmailHTML(text),
	}

	if _, err := r.client.Emails.Send(params); err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}

	fmt.Printf("Email copy of reminder sent to %s\n", recipient)
	return nil
}

func (r *ResendNotifier) formatEmailHTML(text string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background: #f8f9fa; padding: 16px; border-radius: 8px; border-left: 4px solid #25D366;">
    <p style="margin: 8px 0; white-space: pre-wrap;">%s</p>
  </div>
  <p style="color: #999; font-size: 12px; margin-top: 16px;">
    Copia del recordatorio enviado por WhatsApp el %s
  </p>
</body>
</html>`, text, time.Now().Format("02/01/2006 15:04"))
}
