// Package mailer delivers HTML email through SMTP or an HTTP mail relay.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"time"

	"github.com/go-resty/resty/v2"
)

type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type Config struct {
	Transport string `yaml:"transport"` // "smtp" (default) or "http"
	Host      string `yaml:"host"`
	Port      string `yaml:"port"`
	User      string `yaml:"user"`
	Password  string `yaml:"password"`
	APIURL    string `yaml:"apiUrl"`
	APIKey    string `yaml:"apiKey"`
}

// New picks the transport named in cfg.
func New(cfg Config) (Mailer, error) {
	switch cfg.Transport {
	case "", "smtp":
		if cfg.Host == "" {
			return nil, errors.New("mailer: MAIL_HOST is required for smtp transport")
		}
		return NewSMTPMailer(cfg), nil
	case "http":
		if cfg.APIURL == "" {
			return nil, errors.New("mailer: MAIL_API_URL is required for http transport")
		}
		return NewHTTPMailer(cfg, resty.New().SetTimeout(15*time.Second)), nil
	}
	return nil, fmt.Errorf("mailer: unknown transport %q", cfg.Transport)
}

type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(cfg Config) *SMTPMailer {
	m := &SMTPMailer{
		addr: net.JoinHostPort(cfg.Host, cfg.Port),
		from: cfg.User,
		send: smtp.SendMail,
	}
	if cfg.User != "" {
		m.auth = smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)
	}
	return m
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		m.from, msg.To, msg.Subject, msg.HTML,
	)
	if err := m.send(m.addr, m.auth, m.from, []string{msg.To}, []byte(body)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// HTTPMailer posts the message as JSON to a mail relay.
type HTTPMailer struct {
	client *resty.Client
	url    string
	apiKey string
	from   string
}

func NewHTTPMailer(cfg Config, client *resty.Client) *HTTPMailer {
	return &HTTPMailer{client: client, url: cfg.APIURL, apiKey: cfg.APIKey, from: cfg.User}
}

func (m *HTTPMailer) Send(ctx context.Context, msg Message) error {
	req := m.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetBody(map[string]string{
			"from":    m.from,
			"to":      msg.To,
			"subject": msg.Subject,
			"html":    msg.HTML,
		})
	if m.apiKey != "" {
		req.SetAuthToken(m.apiKey)
	}

	resp, err := req.Post(m.url)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("mail relay responded with status %d: %s", resp.StatusCode(), string(resp.Body()))
	}
	return nil
}

const PasswordResetSubject = "Request to reset Password"

var passwordResetTemplate = template.Must(template.New("pw-reset").Parse(`<h1>Greetings.</h1>
<br/>
<p>Please click the link in order to reset your password!</p>
<br/>
<br/>
<a href="{{.Link}}">Link to reset password</a>
<br/>
<p>Kind regards</p>`))

// RenderPasswordReset builds the HTML body carrying the reset link.
func RenderPasswordReset(link string) (string, error) {
	var body bytes.Buffer
	if err := passwordResetTemplate.Execute(&body, struct{ Link string }{link}); err != nil {
		return "", fmt.Errorf("template execution error: %w", err)
	}
	return body.String(), nil
}
