package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"crumb/internal/views/layout"
)

// Login renders the sign-in form with an optional status message.
func Login(message, email string) templ.Component {
	return layout.Layout("Sign in", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b htmlBuilder
		b.raw(`<h1>Sign in</h1>`)
		writeMessage(&b, message)
		b.raw(`<form method="post" action="/login">`)
		writeInput(&b, "email", "email", "Email", email)
		writeInput(&b, "password", "password", "Password", "")
		b.raw(`<button type="submit">Sign in</button></form>`)
		b.raw(`<p><a href="/signup">Create an account</a></p>`)
		return b.flush(w)
	}))
}

// Signup renders the account creation form.
func Signup(message, name, email string) templ.Component {
	return layout.Layout("Create account", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b htmlBuilder
		b.raw(`<h1>Create account</h1>`)
		writeMessage(&b, message)
		b.raw(`<form method="post" action="/signup">`)
		writeInput(&b, "text", "name", "Name", name)
		writeInput(&b, "email", "email", "Email", email)
		writeInput(&b, "password", "password", "Password", "")
		writeInput(&b, "password", "confirm_password", "Confirm password", "")
		b.raw(`<button type="submit">Create account</button></form>`)
		b.raw(`<p><a href="/login">Already have an account?</a></p>`)
		return b.flush(w)
	}))
}

func writeMessage(b *htmlBuilder, message string) {
	if message == "" {
		return
	}
	b.raw(`<p class="message" role="alert">`)
	b.text(message)
	b.raw(`</p>`)
}

func writeInput(b *htmlBuilder, kind, name, label, value string) {
	b.raw(`<label>`)
	b.text(label)
	b.raw(` <input type="`, kind, `" name="`, name, `"`)
	if value != "" {
		b.raw(` value="`)
		b.text(value)
		b.raw(`"`)
	}
	b.raw(`></label>`)
}
