// Package email delivers generated reports over SMTP.
package email

import (
	"context"
	"fmt"
	"html/template"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/KaramelBytes/reportloom-cli/internal/config"
)

// Sender mails report files to the configured recipients.
type Sender struct {
	cfg config.Email
}

// NewSender validates the email configuration and returns a sender.
func NewSender(cfg config.Email) (*Sender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("email.host is required")
	}
	if cfg.Sender == "" {
		return nil, fmt.Errorf("email.sender is required")
	}
	if len(cfg.Recipients) == 0 {
		return nil, fmt.Errorf("email.recipients is empty")
	}
	return &Sender{cfg: cfg}, nil
}

// Send mails the report outputs as attachments. Outputs maps format name
// to file path; attachments are added in format-name order so repeated
// runs produce identical messages.
func (s *Sender) Send(ctx context.Context, title string, outputs map[string]string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.cfg.Sender); err != nil {
		return fmt.Errorf("invalid sender %q: %w", s.cfg.Sender, err)
	}
	if err := msg.To(s.cfg.Recipients...); err != nil {
		return fmt.Errorf("invalid recipients: %w", err)
	}
	msg.Subject(fmt.Sprintf("%s - %s", title, time.Now().Format("2006-01-02")))
	body, err := renderBody(title, outputs)
	if err != nil {
		return err
	}
	msg.SetBodyString(mail.TypeTextHTML, body)

	formats := make([]string, 0, len(outputs))
	for f := range outputs {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	for _, f := range formats {
		msg.AttachFile(outputs[f])
	}

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}
	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send report email: %w", err)
	}
	return nil
}

type bodyData struct {
	Title string
	Date  string
	Files []string
}

// renderBody builds the HTML message body listing the attached files.
func renderBody(title string, outputs map[string]string) (string, error) {
	data := bodyData{
		Title: title,
		Date:  time.Now().Format("January 2, 2006"),
	}
	for _, path := range outputs {
		data.Files = append(data.Files, filepath.Base(path))
	}
	sort.Strings(data.Files)

	var b strings.Builder
	if err := bodyTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render email body: %w", err)
	}
	return b.String(), nil
}

var bodyTmpl = template.Must(template.New("body").Parse(`<html>
<body style="font-family: Helvetica, Arial, sans-serif; color: #333;">
<h2 style="color: #1f3864;">{{.Title}}</h2>
<p>The scheduled report generated on {{.Date}} is attached.</p>
{{if .Files}}
<ul>
{{range .Files}}<li>{{.}}</li>
{{end}}</ul>
{{end}}
<p style="color: #888; font-size: 12px;">Sent automatically by reportloom.</p>
</body>
</html>
`))
