package email

import (
	"bytes"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/feedbox/internal/config"
	mail "github.com/xhit/go-simple-mail/v2"
)

// NotificationService sends account emails.
type NotificationService struct {
	config    *config.EmailConfig
	serverURL string
}

// Welcome contains the data for a welcome email.
type Welcome struct {
	Email     string
	Username  string
	FirstName string
}

type welcomeData struct {
	Welcome
	ProfileURL string
}

// New creates a new email notification service.
func New(cfg *config.EmailConfig, serverURL string) *NotificationService {
	if cfg == nil {
		cfg = &config.EmailConfig{}
	}
	return &NotificationService{
		config:    cfg,
		serverURL: serverURL,
	}
}

// SendWelcome greets a newly registered user.
func (n *NotificationService) SendWelcome(w Welcome) error {
	if !n.config.Enabled {
		log.Debug("Email notifications are disabled, skipping welcome email")
		return nil
	}

	if w.Email == "" {
		log.Warn("User email is empty, skipping welcome email", "user", w.Username)
		return nil
	}

	body, err := n.generateEmailBody(w)
	if err != nil {
		return fmt.Errorf("failed to generate email body: %w", err)
	}

	return n.sendEmail(w.Email, "[Feedbox] Welcome to Feedbox", body)
}

//go:embed templates/*.html
var templatesFS embed.FS

// generateEmailBody creates the HTML email body.
func (n *NotificationService) generateEmailBody(w Welcome) (string, error) {
	t, err := template.New("").ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return "", err
	}

	data := welcomeData{Welcome: w}
	if n.serverURL != "" {
		data.ProfileURL = n.serverURL + "/users/" + url.PathEscape(w.Username)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "welcome.html", data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// sendEmail sends an email using go-simple-mail library.
func (n *NotificationService) sendEmail(to, subject, body string) error {
	server := mail.NewSMTPClient()
	server.Host = n.config.SMTPHost
	server.Port = n.config.SMTPPort
	server.Username = n.config.Username
	server.Password = n.config.Password

	if n.config.UseSSL {
		server.Encryption = mail.EncryptionSSLTLS
	} else if n.config.UseTLS {
		server.Encryption = mail.EncryptionSTARTTLS
	} else {
		server.Encryption = mail.EncryptionNone
	}

	if n.config.InsecureSkipVerify {
		server.TLSConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	server.KeepAlive = false
	server.ConnectTimeout = 10 * time.Second
	server.SendTimeout = 10 * time.Second

	smtpClient, err := server.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer func() {
		if closeErr := smtpClient.Close(); closeErr != nil {
			log.Warn("Failed to close SMTP client", "error", closeErr)
		}
	}()

	email := mail.NewMSG()

	fromName := n.config.FromName
	if fromName == "" {
		fromName = "Feedbox"
	}
	email.SetFrom(fmt.Sprintf("%s <%s>", fromName, n.config.FromEmail))
	email.AddTo(to)
	email.SetSubject(subject)
	email.SetBody(mail.TextHTML, body)

	if err := email.Send(smtpClient); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Info("Welcome email sent", "to", to)
	return nil
}
