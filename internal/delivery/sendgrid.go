package delivery

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

var (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendgridChannel delivers email through the SendGrid v3 API.
type SendgridChannel struct {
	key  string
	from *sgmail.Email
}

var _ Channel = (*SendgridChannel)(nil)

func NewSendgridChannel(key, fromName, fromEmail string) *SendgridChannel {
	return &SendgridChannel{
		key:  key,
		from: sgmail.NewEmail(fromName, fromEmail),
	}
}

func (c *SendgridChannel) Name() string { return "email" }

func (c *SendgridChannel) prepare(msg *Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail(msg.To.Name, msg.To.Email))

	m := sgmail.NewV3Mail()
	m.SetFrom(c.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", msg.PlainText()))
	if msg.HTML != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}
	return m
}

func (c *SendgridChannel) Send(ctx context.Context, msg *Message) error {
	if msg.To.Email == "" {
		return ErrSkipped
	}

	req := sendgrid.GetRequest(c.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(c.prepare(msg))

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
