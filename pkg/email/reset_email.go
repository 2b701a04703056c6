package email

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/a-h/templ"
)

// ResetPasswordParams carries everything needed to compose a password
// reset email.
type ResetPasswordParams struct {
	AppURL    string
	Token     string
	ExpiresIn time.Duration
}

// ResetURL builds the reset landing page link. The token is query-escaped
// even though generated tokens are URL-safe; the composer does not assume
// where the token came from.
func (p ResetPasswordParams) ResetURL() string {
	return strings.TrimSuffix(p.AppURL, "/") + "/auth/reset-password?token=" + url.QueryEscape(p.Token)
}

// NewResetPasswordEmail composes the reset email for the given recipient.
func NewResetPasswordEmail(to string, p ResetPasswordParams) SendEmailParams {
	return SendEmailParams{
		SendTo:   to,
		Subject:  "Reset your password",
		BodyHTML: render(resetPasswordBody(p)),
		Tag:      "password-reset",
	}
}

func resetPasswordBody(p ResetPasswordParams) templ.Component {
	link := p.ResetURL()
	expiry := formatExpiry(p.ExpiresIn)

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<!DOCTYPE html>`+
			`<html><body style="font-family:sans-serif;max-width:480px;margin:0 auto;padding:24px">`+
			`<h2>Reset your password</h2>`+
			`<p>We received a request to reset the password for this email address. `+
			`Click the button below to choose a new one.</p>`+
			`<p style="margin:32px 0"><a href="`+templ.EscapeString(link)+`" `+
			`style="background:#111;color:#fff;padding:12px 24px;border-radius:6px;text-decoration:none">`+
			`Reset password</a></p>`+
			`<p>This link expires in `+templ.EscapeString(expiry)+` and can be used once.</p>`+
			`<p style="color:#666">If you did not request this, you can safely ignore this email; `+
			`your password will not change.</p>`+
			`</body></html>`)
		return err
	})
}

// render draws a component into a string. Components here only write to
// the builder, which cannot fail, so the error path is unreachable in
// practice; it is kept to surface programming mistakes loudly.
func render(c templ.Component) string {
	var sb strings.Builder
	if err := c.Render(context.Background(), &sb); err != nil {
		panic(fmt.Sprintf("email: render component: %v", err))
	}
	return sb.String()
}

func formatExpiry(d time.Duration) string {
	if d <= 0 {
		d = time.Hour
	}
	if d < time.Hour {
		m := int(d.Round(time.Minute) / time.Minute)
		if m <= 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", m)
	}
	h := int(d.Round(time.Hour) / time.Hour)
	if h <= 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", h)
}
