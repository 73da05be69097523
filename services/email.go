package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"os"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
)

type EmailService struct {
	context.DefaultService

	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string
	fromName     string
	baseURL      string

	waitlistTmpl *template.Template
	sendMail     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

const EMAIL_SVC = "email_svc"

type WaitlistEmailData struct {
	AppName  string
	Name     string
	Position int64
	BaseURL  string
}

const waitlistWelcomeHTML = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>You're on the list - {{.AppName}}</title></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <h2>Hi {{if .Name}}{{.Name}}{{else}}there{{end}},</h2>
    <p>Thanks for joining the {{.AppName}} waitlist. You are number <strong>{{.Position}}</strong> in line.</p>
    <p>We will email you as soon as your spot opens up. In the meantime you can browse launches at <a href="{{.BaseURL}}">{{.BaseURL}}</a>.</p>
</body>
</html>
`

func (svc EmailService) Id() string {
	return EMAIL_SVC
}

func (svc *EmailService) Configure(ctx *context.Context) error {
	svc.smtpHost = os.Getenv("SMTP_HOST")
	svc.smtpPort = envOr("SMTP_PORT", "587")
	svc.smtpUsername = os.Getenv("SMTP_USERNAME")
	svc.smtpPassword = os.Getenv("SMTP_PASSWORD")
	svc.fromEmail = os.Getenv("FROM_EMAIL")
	svc.fromName = envOr("FROM_NAME", "Launchpad")
	svc.baseURL = envOr("BASE_URL", "http://localhost:3000")

	return svc.DefaultService.Configure(ctx)
}

func (svc *EmailService) Start() error {
	return svc.init()
}

func (svc *EmailService) init() error {
	tmpl, err := template.New("waitlist_welcome").Parse(waitlistWelcomeHTML)
	if err != nil {
		return fmt.Errorf("failed to parse waitlist email template: %v", err)
	}
	svc.waitlistTmpl = tmpl
	if svc.sendMail == nil {
		svc.sendMail = smtp.SendMail
	}

	if svc.smtpHost == "" {
		log.Warn("SMTP not configured, outgoing email is disabled")
	}
	return nil
}

// Enabled reports whether an SMTP host is configured.
func (svc *EmailService) Enabled() bool {
	return svc.smtpHost != ""
}

func (svc *EmailService) SendWaitlistWelcome(email, name string, position int64) error {
	if !svc.Enabled() {
		log.WithField("email", email).Debug("SMTP not configured, skipping waitlist email")
		return nil
	}

	data := WaitlistEmailData{
		AppName:  svc.fromName,
		Name:     name,
		Position: position,
		BaseURL:  svc.baseURL,
	}

	var body bytes.Buffer
	if err := svc.waitlistTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute template: %v", err)
	}

	return svc.sendEmail(email, "You're on the "+svc.fromName+" waitlist", body.String())
}

func (svc *EmailService) sendEmail(to, subject, body string) error {
	auth := smtp.PlainAuth("", svc.smtpUsername, svc.smtpPassword, svc.smtpHost)

	msg := []byte(fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		svc.fromName, svc.fromEmail, to, subject, body))

	err := svc.sendMail(svc.smtpHost+":"+svc.smtpPort, auth, svc.fromEmail, []string{to}, msg)
	if err != nil {
		log.WithFields(log.Fields{"to": to, "subject": subject}).WithError(err).Error("Failed to send email")
		return fmt.Errorf("failed to send email: %v", err)
	}

	log.WithFields(log.Fields{"to": to, "subject": subject}).Info("Email sent")
	return nil
}
