// Package delivery renders and sends the out-of-band copies of notifications:
// email through SendGrid (or the console) and Telegram chat messages.
package delivery

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"path"
	"strings"
	"sync"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// ErrSkipped is returned by a channel that does not apply to a message.
var ErrSkipped = errors.New("delivery skipped")

// Channel sends a rendered message over one medium.
type Channel interface {
	Name() string
	Send(ctx context.Context, msg *Message) error
}

type Template string

const (
	TemplateLessonScheduled    Template = "lesson_scheduled"
	TemplateLessonRescheduled  Template = "lesson_rescheduled"
	TemplateLessonUpdated      Template = "lesson_updated"
	TemplateResourceAdded      Template = "resource_added"
	TemplateExtraClassRequest  Template = "extra_class_request"
	TemplateExtraClassDecision Template = "extra_class_decision"
)

type Recipient struct {
	Name           string
	Email          string
	TelegramChatID *int64
}

// Message is one recipient's copy of an event.
type Message struct {
	To       Recipient
	Subject  string
	Template Template
	Data     any
	// Text is the short notice used for chat channels and the text/plain part.
	Text string
	// Link is the app path the notice points at.
	Link string
	HTML string
}

type templateContext struct {
	BaseURL string
	Link    string
	Data    any
}

var (
	templates     map[Template]*template.Template
	templatesErr  error
	templatesOnce sync.Once
	baseURL       string
)

// SetBaseURL sets the absolute prefix of links rendered into emails.
func SetBaseURL(u string) {
	baseURL = strings.TrimRight(u, "/")
}

func parseTemplates() {
	templates = make(map[Template]*template.Template)

	files, err := templateFS.ReadDir("templates")
	if err != nil {
		templatesErr = fmt.Errorf("read templates: %w", err)
		return
	}

	for _, f := range files {
		name := f.Name()
		if name == "layout.gohtml" {
			continue
		}
		tmpl, err := template.New("layout.gohtml").
			Option("missingkey=error").
			ParseFS(templateFS, "templates/layout.gohtml", path.Join("templates", name))
		if err != nil {
			templatesErr = fmt.Errorf("parse template %s: %w", name, err)
			return
		}
		templates[Template(strings.TrimSuffix(name, ".gohtml"))] = tmpl
	}
}

// Render fills HTML from the message template. Messages without a template keep HTML empty.
func (m *Message) Render() error {
	if m.Template == "" || m.HTML != "" {
		return nil
	}

	templatesOnce.Do(parseTemplates)
	if templatesErr != nil {
		return templatesErr
	}

	tmpl, ok := templates[m.Template]
	if !ok {
		return fmt.Errorf("unknown template %q", m.Template)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, templateContext{BaseURL: baseURL, Link: m.Link, Data: m.Data}); err != nil {
		return fmt.Errorf("render %s: %w", m.Template, err)
	}
	m.HTML = buf.String()
	return nil
}

// PlainText is the body of the text/plain part and chat messages.
func (m *Message) PlainText() string {
	if m.Link == "" {
		return m.Text
	}
	return m.Text + "\n" + baseURL + m.Link
}
