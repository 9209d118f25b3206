package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"crumb/internal/handlers"
	applog "crumb/internal/log"
)

// requestFields tags every log line written while serving a request with its
// id, method and path.
func requestFields(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := applog.With(r.Context(),
			"requestID", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
		)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func newRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestFields)
	r.Use(middleware.Recoverer)

	applog.Debug(context.Background(), "registering http routes")
	r.Get("/healthz", handlers.Health)
	r.HandleFunc("/login", handlers.Login)
	r.HandleFunc("/signup", handlers.Signup)
	r.HandleFunc("/logout", handlers.Logout)
	r.Get("/", handlers.Home)
	applog.Debug(context.Background(), "public routes registered", "paths", []string{"/healthz", "/login", "/signup", "/logout", "/"})

	r.Group(func(r chi.Router) {
		r.Use(handlers.RequireAuthentication)
		r.Get("/app", handlers.Workspace)
		r.Get("/app/formulas/{formulaID}/sheet", handlers.BakeSheet)
	})
	applog.Debug(context.Background(), "route registered", "path", "/app", "protected", true)

	r.Route("/app/api/formulas", func(r chi.Router) {
		r.Use(handlers.RequireAPIAuthentication)
		r.Get("/", handlers.ListFormulas)
		r.Post("/", handlers.CreateFormula)
		r.Post("/import", handlers.ImportFormula)
		r.Route("/{formulaID}", func(r chi.Router) {
			r.Get("/", handlers.GetFormula)
			r.Put("/", handlers.UpdateFormula)
			r.Delete("/", handlers.DeleteFormula)
			r.Get("/table", handlers.FormulaTable)
			r.Get("/analysis", handlers.FormulaAnalysis)
			r.Post("/scale", handlers.ScaleFormula)
			r.Get("/versions", handlers.ListFormulaVersions)
			r.Post("/revert", handlers.RevertFormula)
			r.Post("/undo", handlers.UndoFormula)
			r.Post("/redo", handlers.RedoFormula)
		})
	})
	applog.Debug(context.Background(), "route registered", "path", "/app/api/formulas", "protected", true)
	return r
}
