package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/Stewz00/go-otp-service/internal/interfaces"
)

const dialTimeout = 5 * time.Second

// Config holds the SMTP settings for the mailer.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer delivers one-time passcodes over SMTP. It authenticates with
// PlainAuth when credentials are configured and upgrades to STARTTLS when the
// server offers it, which covers both local relays like MailHog and real
// providers.
type Mailer struct {
	addr string
	host string
	from string
	auth smtp.Auth
}

// Verify that Mailer implements Notifier interface
var _ interfaces.Notifier = (*Mailer)(nil)

func New(cfg Config) *Mailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &Mailer{
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		host: cfg.Host,
		from: cfg.From,
		auth: auth,
	}
}

// Deliver sends the code to the recipient. The caller's context deadline
// bounds the whole exchange; any failure propagates so the caller can report
// the attempt as undelivered.
func (m *Mailer) Deliver(ctx context.Context, email, code string) error {
	dialer := &net.Dialer{Timeout: dialTimeout}
	if deadline, ok := ctx.Deadline(); ok {
		dialer.Deadline = deadline
	}

	conn, err := dialer.DialContext(ctx, "tcp", m.addr)
	if err != nil {
		return fmt.Errorf("dialing SMTP server: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return err
		}
	}

	if m.auth != nil {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(m.auth); err != nil {
				return err
			}
		}
	}

	if err := c.Mail(m.from); err != nil {
		return err
	}
	if err := c.Rcpt(email); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(buildMessage(m.from, email, code))); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return c.Quit()
}

// buildMessage renders the OTP email. The body is parameterized solely by the
// code; everything else is fixed template.
func buildMessage(from, to, code string) string {
	headers := []string{
		"From: " + from,
		"To: " + to,
		"Subject: OTP Verification",
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
	}

	body := fmt.Sprintf(
		`<h2>OTP Verification</h2><p>Your one-time passcode is <b>%s</b>.</p><p>It expires in 5 minutes.</p>`,
		code)

	return strings.Join(headers, "\r\n") + "\r\n\r\n" + body
}
