package mailer

import (
	"context"
	"fmt"
	"net/http"

	"quiz-admin/internal/config"
	"quiz-admin/internal/domain"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	defaultHost = "https://api.sendgrid.com"
	endpoint    = "/v3/mail/send"
)

// SendgridMailer delivers mail through the SendGrid v3 API.
type SendgridMailer struct {
	key        string
	host       string
	from       *sgmail.Email
	subjPrefix string
}

var _ domain.Mailer = (*SendgridMailer)(nil)

func NewSendgridMailer(cfg config.EmailConfig, appName string) *SendgridMailer {
	return &SendgridMailer{
		key:        cfg.SendgridAPIKey,
		host:       defaultHost,
		from:       sgmail.NewEmail(cfg.FromName, cfg.FromAddress),
		subjPrefix: "[" + appName + "] ",
	}
}

func (m *SendgridMailer) prepare(msg domain.EmailMessage) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = m.subjPrefix + msg.Subject
	p.AddTos(sgmail.NewEmail("", msg.To))

	mail := sgmail.NewV3Mail()
	mail.SetFrom(m.from)
	mail.AddPersonalizations(p)
	mail.AddContent(sgmail.NewContent("text/plain", msg.Text))
	if msg.HTML != "" {
		mail.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}
	if msg.Category != "" {
		mail.AddCategories(msg.Category)
	}
	return mail
}

func (m *SendgridMailer) Send(ctx context.Context, msg domain.EmailMessage) error {
	if msg.To == "" {
		return fmt.Errorf("email recipient is empty")
	}
	req := sendgrid.GetRequest(m.key, endpoint, m.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m.prepare(msg))

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid rejected email with status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
