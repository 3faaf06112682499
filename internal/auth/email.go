// internal/auth/email.go
// Outbound email providers for verification and password reset links.
// The email path is the only outbound call with a fixed dial timeout.

package auth

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const smtpDialTimeout = 10 * time.Second

// EmailProvider defines the email provider interface
type EmailProvider interface {
	SendVerificationEmail(ctx context.Context, to, name, link string) error
	SendPasswordResetEmail(ctx context.Context, to, name, link string) error
}

// SendGridEmailProvider implements EmailProvider using SendGrid
type SendGridEmailProvider struct {
	apiKey string
	from   string
}

// NewSendGridEmailProvider creates a new SendGrid email provider
func NewSendGridEmailProvider(apiKey, from string) EmailProvider {
	return &SendGridEmailProvider{apiKey: apiKey, from: from}
}

func (p *SendGridEmailProvider) SendVerificationEmail(ctx context.Context, to, name, link string) error {
	body := fmt.Sprintf("Hi %s,\n\nConfirm your email address by opening the link below:\n\n%s\n\nThe link expires in 15 minutes.", name, link)
	return p.send(to, name, "Verify your Vibely account", body)
}

func (p *SendGridEmailProvider) SendPasswordResetEmail(ctx context.Context, to, name, link string) error {
	body := fmt.Sprintf("Hi %s,\n\nReset your password by opening the link below:\n\n%s\n\nThe link expires in 15 minutes. If you did not request this, ignore this email.", name, link)
	return p.send(to, name, "Reset your Vibely password", body)
}

func (p *SendGridEmailProvider) send(to, name, subject, body string) error {
	message := mail.NewSingleEmail(
		mail.NewEmail("Vibely", p.from),
		subject,
		mail.NewEmail(name, to),
		body,
		"",
	)

	response, err := sendgrid.NewSendClient(p.apiKey).Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email via SendGrid: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("SendGrid returned error status: %d", response.StatusCode)
	}
	return nil
}

// SMTPEmailProvider implements EmailProvider using SMTP
type SMTPEmailProvider struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPEmailProvider creates a new SMTP email provider
func NewSMTPEmailProvider(host string, port int, username, password, from string) EmailProvider {
	return &SMTPEmailProvider{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (p *SMTPEmailProvider) SendVerificationEmail(ctx context.Context, to, name, link string) error {
	body := fmt.Sprintf("Hi %s,\n\nConfirm your email address: %s\n\nThe link expires in 15 minutes.", name, link)
	return p.send(to, "Verify your Vibely account", body)
}

func (p *SMTPEmailProvider) SendPasswordResetEmail(ctx context.Context, to, name, link string) error {
	body := fmt.Sprintf("Hi %s,\n\nReset your password: %s\n\nThe link expires in 15 minutes.", name, link)
	return p.send(to, "Reset your Vibely password", body)
}

func (p *SMTPEmailProvider) send(to, subject, body string) error {
	message := fmt.Sprintf("From: %s\r\n", p.from)
	message += fmt.Sprintf("To: %s\r\n", to)
	message += fmt.Sprintf("Subject: %s\r\n", subject)
	message += "\r\n"
	message += body

	addr := fmt.Sprintf("%s:%d", p.host, p.port)

	conn, err := net.DialTimeout("tcp", addr, smtpDialTimeout)
	if err != nil {
		return fmt.Errorf("failed to reach SMTP server: %w", err)
	}

	client, err := smtp.NewClient(conn, p.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to start SMTP session: %w", err)
	}
	defer client.Close()

	if p.username != "" {
		auth := smtp.PlainAuth("", p.username, p.password, p.host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP auth failed: %w", err)
		}
	}

	if err := client.Mail(p.from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(message)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return client.Quit()
}

// MockEmailProvider logs instead of sending, for development and tests
type MockEmailProvider struct {
	SentEmails []string
}

// NewMockEmailProvider creates a new mock email provider
func NewMockEmailProvider() *MockEmailProvider {
	return &MockEmailProvider{SentEmails: make([]string, 0)}
}

func (p *MockEmailProvider) SendVerificationEmail(ctx context.Context, to, name, link string) error {
	log.Printf("mock email: verification for %s: %s", to, link)
	p.SentEmails = append(p.SentEmails, to)
	return nil
}

func (p *MockEmailProvider) SendPasswordResetEmail(ctx context.Context, to, name, link string) error {
	log.Printf("mock email: password reset for %s: %s", to, link)
	p.SentEmails = append(p.SentEmails, to)
	return nil
}
