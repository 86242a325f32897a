package dashboard

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/sbauth/core/supabase"
)

func homePage(appName string, user *supabase.User, session *supabase.Session) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := templ.EscapeString(appName)
		if _, err := fmt.Fprintf(w, "<!doctype html><html><head><meta charset=\"utf-8\"><title>%s</title></head><body><h1>%s</h1>", title, title); err != nil {
			return err
		}

		var err error
		if user == nil {
			_, err = io.WriteString(w, `<p id="status">You are not signed in.</p>`)
		} else {
			err = signedIn(user, session).Render(ctx, w)
		}
		if err != nil {
			return err
		}

		_, err = io.WriteString(w, "</body></html>")
		return err
	})
}

func signedIn(user *supabase.User, session *supabase.Session) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		name := user.Email
		if name == "" {
			name = user.Phone
		}
		if name == "" {
			name = user.ID.String()
		}
		if _, err := fmt.Fprintf(w, `<p id="status">Signed in as <strong>%s</strong></p><dl><dt>User ID</dt><dd>%s</dd><dt>Role</dt><dd>%s</dd>`,
			templ.EscapeString(name), templ.EscapeString(user.ID.String()), templ.EscapeString(user.Role)); err != nil {
			return err
		}
		if session != nil {
			if exp := session.ExpiresAtTime(); !exp.IsZero() {
				if _, err := fmt.Fprintf(w, `<dt>Session expires</dt><dd>%s</dd>`, templ.EscapeString(exp.UTC().Format(time.RFC3339))); err != nil {
					return err
				}
			}
		}
		_, err := io.WriteString(w, `</dl><form method="post" action="/auth/signout"><button type="submit">Sign out</button></form>`)
		return err
	})
}
