package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/libre_office", func(r chi.Router) {
		r.Post("/converter_to_pdf", h.ConvertToPDF)
		r.Post("/converter_to_pdf_async", h.ConvertToPDFAsync)
		r.Get("/converter_result/{task_id}", h.ConvertResult)
	})

	r.Route("/mineru", func(r chi.Router) {
		r.Post("/parse/file", h.ParseFile)
		r.Post("/parse_async/file", h.ParseFileAsync)
		r.Get("/parse_result/{task_id}", h.ParseResult)
	})

	r.Route("/kkfileview", func(r chi.Router) {
		r.Post("/preview/url", h.PreviewURL)
		r.Post("/preview/file", h.PreviewFile)
		r.Get("/temp/{file_id}", h.TempFile)
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return r
}
