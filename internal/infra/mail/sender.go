package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/pythonpro/coaching-backend/internal/entity"
)

type templateData struct {
	Name         string
	Email        string
	Course       string
	Password     string
	DashboardURL string
}

type renderedTemplate struct {
	subject *template.Template
	body    *template.Template
}

// Sender is the SMTP email channel adapter.
type Sender struct {
	host         string
	port         int
	user         string
	password     string
	from         string
	dashboardURL string

	templates map[string]renderedTemplate
}

func NewSender(host string, port int, user, password, from, dashboardURL string) *Sender {
	return &Sender{
		host:         host,
		port:         port,
		user:         user,
		password:     password,
		from:         from,
		dashboardURL: dashboardURL,
		templates: map[string]renderedTemplate{
			"welcome": {
				subject: template.Must(template.New("s").Parse(welcomeSubject)),
				body:    template.Must(template.New("b").Parse(welcomeBody)),
			},
			"credentials": {
				subject: template.Must(template.New("s").Parse(credentialsSubject)),
				body:    template.Must(template.New("b").Parse(credentialsBody)),
			},
			"confirmation": {
				subject: template.Must(template.New("s").Parse(confirmationSubject)),
				body:    template.Must(template.New("b").Parse(confirmationBody)),
			},
		},
	}
}

func (s *Sender) Name() string { return entity.ChannelEmail }

func (s *Sender) Configured() bool {
	return s.host != "" && s.user != ""
}

func (s *Sender) Send(ctx context.Context, target, tmplName string, params map[string]string) error {
	tmpl, ok := s.templates[tmplName]
	if !ok {
		return fmt.Errorf("no email template %q", tmplName)
	}

	data := templateData{
		Name:         params["name"],
		Email:        params["email"],
		Course:       params["course"],
		Password:     params["password"],
		DashboardURL: s.dashboardURL,
	}
	if data.Course == "" {
		data.Course = "Python Mastery Program"
	}

	var subject, body bytes.Buffer
	if err := tmpl.subject.Execute(&subject, data); err != nil {
		return fmt.Errorf("rendering subject: %w", err)
	}
	if err := tmpl.body.Execute(&body, data); err != nil {
		return fmt.Errorf("rendering body: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", target)
	m.SetHeader("Subject", subject.String())
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.host, s.port, s.user, s.password)

	// gomail has no context support; bound it ourselves so a stuck SMTP
	// server cannot hold a worker forever. After a timeout the goroutine
	// lingers until the dial hits the OS TCP timeout, then exits through
	// the buffered channel; one goroutine per abandoned send, never more.
	done := make(chan error, 1)
	go func() { done <- d.DialAndSend(m) }()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
