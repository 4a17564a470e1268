package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/gatehouse-api/gatehouse/web"
)

// TemplateVerification names the email-verification message.
const TemplateVerification = "verification"

type contentConfig struct {
	file    string
	subject string
}

var contents = map[string]contentConfig{
	TemplateVerification: {
		file:    "mail/verification.html",
		subject: "Verify your email",
	},
}

var mailTemplates = template.Must(
	template.New("mail").ParseFS(web.Templates, "templates/mail/*.html"),
)

// Render produces the subject and HTML body for a named mail template.
func Render(name string, data map[string]string) (subject, html string, err error) {
	cfg, ok := contents[name]
	if !ok {
		return "", "", fmt.Errorf("mail: unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := mailTemplates.ExecuteTemplate(&buf, cfg.file, data); err != nil {
		return "", "", fmt.Errorf("mail: render %q: %w", name, err)
	}
	return cfg.subject, buf.String(), nil
}
