package handlers

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"gorm.io/gorm"

	applog "crumb/internal/log"
	"crumb/internal/views/pages"
)

const (
	minPasswordLength   = 8
	signupFailedMessage = "We couldn't create your account right now. Please try again."
)

type signupForm struct {
	Name     string
	Email    string
	Password string
	Confirm  string
}

func parseSignupForm(r *http.Request) signupForm {
	return signupForm{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Confirm:  r.PostFormValue("confirm_password"),
	}
}

// problem returns the message to show for an invalid form, or "".
func (f signupForm) problem() string {
	if _, err := mail.ParseAddress(f.Email); err != nil || !strings.Contains(f.Email, "@") {
		return "Please provide a valid email address."
	}
	if len(f.Password) < minPasswordLength {
		return "Password must be at least 8 characters long."
	}
	if f.Password != f.Confirm {
		return "Passwords do not match."
	}
	return ""
}

// Signup displays the account creation form and registers new bakers.
func Signup(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if ActiveSession(r) {
			redirectToApp(w, r)
			return
		}
		renderComponent(w, r, pages.Signup("", "", ""))
	case http.MethodPost:
		submitSignup(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func submitSignup(w http.ResponseWriter, r *http.Request) {
	if sessionManager == nil || database == nil {
		applog.Warn(r.Context(), "signup unavailable", "hasSession", sessionManager != nil, "hasDatabase", database != nil)
		http.Error(w, "registration not available", http.StatusServiceUnavailable)
		return
	}
	if err := r.ParseForm(); err != nil {
		applog.Debug(r.Context(), "failed to parse signup form", "error", err)
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	form := parseSignupForm(r)
	rerender := func(message string) {
		renderComponent(w, r, pages.Signup(message, form.Name, form.Email))
	}
	if message := form.problem(); message != "" {
		applog.Debug(r.Context(), "signup form rejected", "reason", message)
		rerender(message)
		return
	}

	_, err := findUserByEmail(r, form.Email)
	switch {
	case err == nil:
		rerender("An account with that email already exists.")
		return
	case !errors.Is(err, gorm.ErrRecordNotFound):
		applog.Error(r.Context(), "failed to check existing user", "error", err)
		rerender(signupFailedMessage)
		return
	}

	user, err := createUser(r, form.Email, form.Name, form.Password)
	if err != nil {
		applog.Error(r.Context(), "failed to create user", "error", err)
		rerender(signupFailedMessage)
		return
	}
	if err := establishSession(r, user); err != nil {
		applog.Error(r.Context(), "failed to establish session after signup", "error", err)
		rerender("We couldn't sign you in after creating your account. Please try again.")
		return
	}

	applog.Info(r.Context(), "baker registered", "userID", user.ID)
	redirectAfterSignIn(w, r)
}
