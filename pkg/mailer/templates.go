package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

const TemplateWelcome = "welcome"

var welcomeHTML = template.Must(template.New(TemplateWelcome).Parse(`
<html>
  <body style="font-family: sans-serif; color: #222;">
    <h2>Welcome to Reelist{{if .Username}}, {{.Username}}{{end}}!</h2>
    <p>Your account is ready. Log in and start building your watchlist.</p>
  </body>
</html>`))

// Render produces subject, text and HTML bodies for a named template.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	switch name {
	case TemplateWelcome:
		var buf bytes.Buffer
		if err = welcomeHTML.Execute(&buf, data); err != nil {
			return "", "", "", err
		}
		username, _ := data["Username"].(string)
		text = "Welcome to Reelist"
		if username != "" {
			text = "Welcome to Reelist, " + username
		}
		return "Welcome to Reelist", text, buf.String(), nil
	default:
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
}
