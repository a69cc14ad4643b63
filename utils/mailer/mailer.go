package mailer

import (
	"bytes"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"time"

	"github.com/certainlyMohneeesh/AuthSys/config"
)

//go:embed templates/*.html
var emailTemplates embed.FS

var (
	resetCodeTemplate       = template.Must(template.New("reset_code.html").ParseFS(emailTemplates, "templates/reset_code.html"))
	passwordChangedTemplate = template.Must(template.New("password_changed.html").ParseFS(emailTemplates, "templates/password_changed.html"))
	welcomeTemplate         = template.Must(template.New("welcome.html").ParseFS(emailTemplates, "templates/welcome.html"))
	loginNoticeTemplate     = template.Must(template.New("login_notification.html").ParseFS(emailTemplates, "templates/login_notification.html"))
)

// dialTimeout bounds the SMTP connection attempt so a dead provider
// cannot stall a reset request indefinitely.
const dialTimeout = 10 * time.Second

type Client struct {
	cfg config.EmailConfig
}

func NewClient(cfg config.EmailConfig) *Client {
	return &Client{cfg: cfg}
}

// Send delivers one HTML email, at most once, with no retry.
func (c *Client) Send(toEmail, subject, htmlBody string) error {
	if c.cfg.Host == "" {
		return fmt.Errorf("smtp host is not configured")
	}

	from := c.cfg.FromAddress
	if from == "" {
		from = c.cfg.Username
	}
	if from == "" {
		return fmt.Errorf("smtp from address is not configured")
	}

	addr := fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)
	msg := buildHTMLMessage(from, toEmail, subject, htmlBody)

	var auth smtp.Auth
	if c.cfg.Username != "" || c.cfg.Password != "" {
		auth = smtp.PlainAuth("", c.cfg.Username, c.cfg.Password, c.cfg.Host)
	}

	if c.cfg.Port == 465 {
		return c.sendSMTPTLS(addr, auth, from, toEmail, msg)
	}
	return c.sendSMTP(addr, auth, from, toEmail, msg)
}

func (c *Client) SendResetCodeEmail(toEmail, otp string) error {
	body, err := render(resetCodeTemplate, struct{ Code string }{Code: otp})
	if err != nil {
		return err
	}
	return c.Send(toEmail, "Reset Your Password", body)
}

func (c *Client) SendPasswordChangedEmail(toEmail, name string) error {
	body, err := render(passwordChangedTemplate, struct{ Name string }{Name: name})
	if err != nil {
		return err
	}
	return c.Send(toEmail, "Password Changed Successfully", body)
}

func (c *Client) SendWelcomeEmail(toEmail, name string) error {
	body, err := render(welcomeTemplate, struct{ Name string }{Name: name})
	if err != nil {
		return err
	}
	return c.Send(toEmail, "Welcome!", body)
}

func (c *Client) SendLoginNotificationEmail(toEmail, name string) error {
	body, err := render(loginNoticeTemplate, struct {
		Name string
		Time string
	}{Name: name, Time: time.Now().UTC().Format(time.RFC1123)})
	if err != nil {
		return err
	}
	return c.Send(toEmail, "New Sign-In to Your Account", body)
}

func render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render email template: %w", err)
	}
	return buf.String(), nil
}

func (c *Client) sendSMTP(addr string, auth smtp.Auth, from, toEmail, msg string) error {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return err
	}

	client, err := smtp.NewClient(conn, c.cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: c.cfg.Host}); err != nil {
			return err
		}
	}

	return c.transmit(client, auth, from, toEmail, msg)
}

func (c *Client) sendSMTPTLS(addr string, auth smtp.Auth, from, toEmail, msg string) error {
	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := tls.DialWithDialer(dialer, "tcp", addr, &tls.Config{ServerName: c.cfg.Host})
	if err != nil {
		return err
	}

	client, err := smtp.NewClient(conn, c.cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	return c.transmit(client, auth, from, toEmail, msg)
}

func (c *Client) transmit(client *smtp.Client, auth smtp.Auth, from, toEmail, msg string) error {
	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(toEmail); err != nil {
		return err
	}

	wc, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		return err
	}
	if err := wc.Close(); err != nil {
		return err
	}

	return client.Quit()
}

func buildHTMLMessage(from, to, subject, htmlBody string) string {
	return fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"utf-8\"\r\n\r\n%s", from, to, subject, htmlBody)
}
