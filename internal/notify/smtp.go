package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/examind/proctor-backend/internal/config"
)

type smtpNotifier struct {
	addr string
	auth smtp.Auth
	from string
}

// NewSMTP builds a Notifier speaking plain SMTP with optional AUTH PLAIN.
func NewSMTP(cfg *config.Config) Notifier {
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}
	return &smtpNotifier{
		addr: fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		auth: auth,
		from: cfg.MailFrom,
	}
}

func (n *smtpNotifier) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", n.from)
	fmt.Fprintf(&b, "To: %s\r\n", m.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", m.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(m.HTML)

	envelope := n.from
	if start := strings.LastIndex(n.from, "<"); start != -1 {
		envelope = strings.TrimSuffix(n.from[start+1:], ">")
	}

	if err := smtp.SendMail(n.addr, n.auth, envelope, []string{m.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", m.To, err)
	}
	return nil
}
