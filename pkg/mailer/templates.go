package mailer

import (
	"bytes"
	"fmt"
	htmltpl "html/template"
)

var welcomeHTML = htmltpl.Must(htmltpl.New("welcome").Parse(`
<html>
  <body style="font-family: sans-serif;">
    <h2>Welcome to {{.AppName}}, {{.Name}}!</h2>
    <p>Your account is ready. Sign in, finish your student profile and start
    exploring lessons.</p>
    <p><a href="{{.SignInURL}}">Sign in</a></p>
  </body>
</html>
`))

// RenderWelcome renders the welcome email from job data. Missing fields fall
// back to neutral values so a malformed job still produces a sendable email.
func RenderWelcome(appName string, data map[string]any) (subject, text, html string, err error) {
	name := str(data, "Name", "there")
	signIn := str(data, "SignInURL", "")

	subject = fmt.Sprintf("Welcome to %s", appName)
	text = fmt.Sprintf("Hi %s,\n\nYour %s account is ready. Sign in, finish your student profile and start exploring lessons.\n", name, appName)
	if signIn != "" {
		text += "\nSign in: " + signIn + "\n"
	}

	var buf bytes.Buffer
	err = welcomeHTML.Execute(&buf, map[string]any{
		"AppName":   appName,
		"Name":      name,
		"SignInURL": signIn,
	})
	if err != nil {
		return subject, text, "", err
	}
	return subject, text, buf.String(), nil
}

func str(data map[string]any, key, def string) string {
	if data == nil {
		return def
	}
	if v, ok := data[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return def
}
