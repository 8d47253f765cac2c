package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

var tmpl = template.Must(template.New("emails").Parse(`
{{define "welcome"}}
<h2>Welcome to delicioso, {{.Name}}!</h2>
<p>Your best online store directory. Create a listing, review your favourite
places and heart the ones you love.</p>
{{end}}

{{define "password_reset"}}
<h2>Hi {{.Name}},</h2>
<p>You requested a password reset. The link below is valid for 10 minutes:</p>
<p><a href="{{.ResetURL}}">Reset your password</a></p>
<p>If you did not request this, you can safely ignore this email.</p>
{{end}}
`))

var subjects = map[string]string{
	"welcome":        "Welcome to delicioso! Your best online store directory.",
	"password_reset": "Your delicioso password reset token (valid for 10 mins)",
}

// Render produces subject and HTML body for a named template.
func Render(name string, data map[string]any) (subject, html string, err error) {
	subject, ok := subjects[name]
	if !ok {
		return "", "", fmt.Errorf("unknown email template %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", "", err
	}
	return subject, buf.String(), nil
}
