package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/sixpicks/internal/web/handlers"
	"github.com/kozaktomas/sixpicks/internal/web/middleware"
)

//go:embed static
var staticFiles embed.FS

func (s *Server) setupRoutes() {
	configHandler := handlers.NewConfigHandler(s.config)
	monthsHandler := handlers.NewMonthsHandler(s.config)
	dumpsHandler := handlers.NewDumpsHandler(s.config)
	collagesHandler := handlers.NewCollagesHandler(s.config)

	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/config", configHandler.Get)

		// Everything touching the photo library gets the dump service injected
		r.Group(func(r chi.Router) {
			r.Use(middleware.WithService(s.service))

			r.Get("/months", monthsHandler.List)
			r.Get("/months/{month}/photos", monthsHandler.Photos)

			r.Post("/dumps", dumpsHandler.Generate)
			r.Post("/dumps/replace", dumpsHandler.Replace)

			r.Post("/collages", collagesHandler.Create)
		})
	})

	s.router.Handle("/*", staticHandler())
}

// staticHandler serves the single page UI.
func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		// embedded at build time
		panic("failed to open embedded static files: " + err.Error())
	}
	files := http.FileServerFS(sub)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		files.ServeHTTP(w, r)
	})
}
