package handlers

import (
	"net/http"
	"strings"

	applog "crumb/internal/log"
	"crumb/internal/views/pages"
)

const signInFailedMessage = "We were unable to sign you in. Please try again."

// Login renders the sign-in form and processes submissions. A successful
// sign-in returns the baker to the page that asked for it.
func Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		showLogin(w, r)
	case http.MethodPost:
		submitLogin(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func showLogin(w http.ResponseWriter, r *http.Request) {
	if ActiveSession(r) {
		redirectAfterSignIn(w, r)
		return
	}
	message := ""
	if sessionManager != nil {
		message = sessionManager.PopString(r.Context(), sessionLoginMessageKey)
	}
	renderComponent(w, r, pages.Login(message, ""))
}

func submitLogin(w http.ResponseWriter, r *http.Request) {
	if sessionManager == nil || database == nil {
		applog.Warn(r.Context(), "login unavailable", "hasSession", sessionManager != nil, "hasDatabase", database != nil)
		http.Error(w, "authentication not available", http.StatusServiceUnavailable)
		return
	}
	if err := r.ParseForm(); err != nil {
		applog.Debug(r.Context(), "failed to parse login form", "error", err)
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		renderComponent(w, r, pages.Login("Email and password are required.", email))
		return
	}

	if !authenticate(w, r, email, password) {
		applog.Info(r.Context(), "sign-in rejected", "email", strings.ToLower(email))
		message := sessionManager.PopString(r.Context(), sessionLoginMessageKey)
		if message == "" {
			message = signInFailedMessage
		}
		renderComponent(w, r, pages.Login(message, email))
		return
	}

	applog.Info(r.Context(), "baker signed in", "email", strings.ToLower(email))
	redirectAfterSignIn(w, r)
}

// redirectAfterSignIn sends the baker to the workspace page they were
// turned away from, or to /app.
func redirectAfterSignIn(w http.ResponseWriter, r *http.Request) {
	target := ""
	if sessionManager != nil {
		target = sessionManager.PopString(r.Context(), sessionReturnToKey)
	}
	if !safeReturnPath(target) {
		redirectToApp(w, r)
		return
	}
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// safeReturnPath accepts only local paths inside the workspace.
func safeReturnPath(path string) bool {
	if !strings.HasPrefix(path, "/app/") || strings.HasPrefix(path, "//") {
		return false
	}
	return !strings.ContainsAny(path, "\\\r\n")
}
