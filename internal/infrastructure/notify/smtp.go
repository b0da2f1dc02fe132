package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"vvnews/internal/domain"
)

const smtpTimeout = 30 * time.Second

// SMTPProvider delivers through one SMTP account. Gmail-style accounts are
// tried on implicit TLS (465) first and STARTTLS (587) second; a single-port
// provider sets sslPort or startTLSPort to zero.
type SMTPProvider struct {
	name         string
	host         string
	sslPort      int
	startTLSPort int
	username     string
	password     string
	from         string
}

// NewZoho builds the primary provider on smtp.zoho.com implicit TLS.
func NewZoho(email, appPass string) *SMTPProvider {
	return &SMTPProvider{
		name:     "zoho",
		host:     "smtp.zoho.com",
		sslPort:  465,
		username: email,
		password: appPass,
		from:     email,
	}
}

// NewGmail builds the last-resort provider on smtp.gmail.com, 465 then 587.
func NewGmail(email, password string) *SMTPProvider {
	return &SMTPProvider{
		name:         "gmail",
		host:         "smtp.gmail.com",
		sslPort:      465,
		startTLSPort: 587,
		username:     email,
		password:     password,
		from:         email,
	}
}

func (p *SMTPProvider) Name() string { return p.name }

func (p *SMTPProvider) Configured() bool {
	return p.username != "" && p.password != ""
}

func (p *SMTPProvider) Send(ctx context.Context, msg Message) error {
	m := mail.NewMsg()
	if err := m.From(p.from); err != nil {
		return fmt.Errorf("%s from: %w", p.name, err)
	}
	if err := m.To(msg.To...); err != nil {
		return fmt.Errorf("%s recipients: %w", p.name, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	var lastErr error
	for _, attempt := range p.attempts() {
		client, err := attempt.build()
		if err != nil {
			lastErr = err
			continue
		}
		if err := client.DialAndSendWithContext(ctx, m); err != nil {
			lastErr = fmt.Errorf("%s via %s:%d: %v", p.name, p.host, attempt.port, err)
			continue
		}
		return nil
	}
	return fmt.Errorf("%w: %v", domain.ErrProviderFailure, lastErr)
}

type smtpAttempt struct {
	port  int
	build func() (*mail.Client, error)
}

func (p *SMTPProvider) attempts() []smtpAttempt {
	base := []mail.Option{
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(p.username),
		mail.WithPassword(p.password),
		mail.WithTimeout(smtpTimeout),
	}
	var out []smtpAttempt
	if p.sslPort > 0 {
		port := p.sslPort
		out = append(out, smtpAttempt{port: port, build: func() (*mail.Client, error) {
			return mail.NewClient(p.host, append([]mail.Option{mail.WithPort(port), mail.WithSSL()}, base...)...)
		}})
	}
	if p.startTLSPort > 0 {
		port := p.startTLSPort
		out = append(out, smtpAttempt{port: port, build: func() (*mail.Client, error) {
			return mail.NewClient(p.host, append([]mail.Option{mail.WithPort(port), mail.WithTLSPolicy(mail.TLSMandatory)}, base...)...)
		}})
	}
	return out
}
