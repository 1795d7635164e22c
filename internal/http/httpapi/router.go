package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"ministudio/internal/http/handlers"
	"ministudio/internal/infra"
	"ministudio/internal/middleware"
)

// NewRouter builds the HTTP surface: the single-page form, the JSON API and
// the clip downloads.
func NewRouter(app *handlers.App, logger infra.Logger, defaultLocale string, lookup middleware.CountryLookup) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimiddleware.RealIP,
		chimiddleware.Recoverer,
		middleware.Logger(logger),
		middleware.I18N(defaultLocale, lookup),
	)

	// Web form
	r.Get("/", app.Page)
	r.Post("/generate", app.GenerateForm)
	r.Get("/videos/{name}", app.VideoDownload)

	// JSON API
	r.Get("/v1/healthz", app.Health)
	r.Post("/v1/videos/generate", app.VideosGenerate)
	r.Get("/v1/videos", app.VideosList)

	return r
}
