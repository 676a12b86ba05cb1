package mail

import (
	"errors"
	"fmt"
	"net/textproto"

	"gopkg.in/gomail.v2"

	"aiacademy/backend/apperr"
)

// ErrNotConfigured is returned when no sender credentials are set. Callers
// treat it as "delivery skipped", not as a failure.
var ErrNotConfigured = errors.New("mail: sender credentials not configured")

// Mailer delivers the family invitation notification. One MIME HTML message
// per invitation, no retries.
type Mailer interface {
	SendFamilyInvite(to, senderName, acceptURL string) error
}

type SMTPMailer struct {
	dialer   *gomail.Dialer
	from     string
	password string
}

func NewSMTPMailer(host string, port int, from, password string) *SMTPMailer {
	return &SMTPMailer{
		dialer:   gomail.NewDialer(host, port, from, password),
		from:     from,
		password: password,
	}
}

func (m *SMTPMailer) SendFamilyInvite(to, senderName, acceptURL string) error {
	if m.password == "" {
		return ErrNotConfigured
	}

	message := gomail.NewMessage()
	message.SetHeader("From", m.from)
	message.SetHeader("To", to)
	message.SetHeader("Subject", "AI Academy Family Account Link Request")
	message.SetBody("text/html", fmt.Sprintf(`
		<p>%s has invited you to link family accounts with AI Academy.</p>
		<p>If you accept, your family account will be authenticated and data will be shared between accounts.</p>
		<p><a href="%s" style="display: inline-block; padding: 15px 25px; background-color: #4CAF50; color: #fff; text-decoration: none;">Accept Invitation</a></p>
	`, senderName, acceptURL))

	if err := m.dialer.DialAndSend(message); err != nil {
		return classify(err)
	}
	return nil
}

// classify maps an SMTP failure to a distinct EmailDelivery error message:
// authentication failures, protocol-level failures, and everything else.
func classify(err error) error {
	var proto *textproto.Error
	if errors.As(err, &proto) {
		switch proto.Code {
		case 530, 534, 535:
			return apperr.Wrap(apperr.EmailDelivery,
				"Failed to authenticate with email server. Please check credentials.", err)
		default:
			return apperr.Wrap(apperr.EmailDelivery, "Failed to send email", err)
		}
	}
	return apperr.Wrap(apperr.EmailDelivery,
		"An unexpected error occurred while sending email.", err)
}
