package email

import (
	"bytes"
	"fmt"
	"html/template"
)

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Confirm your email</title>
</head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1>Confirm your email</h1>
    <p>Thanks for signing up. Click the button below to confirm your email address.</p>
    <p style="text-align: center;">
        <a href="{{.ConfirmURL}}"
           style="display: inline-block; background-color: #4CAF50; color: white; text-decoration: none; padding: 10px 20px; border-radius: 5px;">
            Confirm email
        </a>
    </p>
    <p>If you did not sign up, you can safely ignore this message.</p>
    <p style="font-size: 12px; color: #777;">The link expires in 7 days.</p>
</body>
</html>
`))

func renderConfirmation(confirmURL string) (string, error) {
	var body bytes.Buffer
	data := struct{ ConfirmURL string }{ConfirmURL: confirmURL}
	if err := confirmationTmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("template error: %w", err)
	}
	return body.String(), nil
}
