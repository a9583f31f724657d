package api

import (
	"net/http"

	_ "fxconv/docs"
	"fxconv/internal/api/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	swagger "github.com/swaggo/http-swagger"
)

func NewRouter(h *handler.Handler, metrics http.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	// Swagger UI
	router.Get("/swagger/*", swagger.WrapHandler)

	if metrics != nil {
		router.Method(http.MethodGet, "/metrics", metrics)
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/rates", h.GetRates)
		r.Post("/rates/refresh", h.RefreshRates)

		r.Get("/currencies/catalog", h.GetCatalog)
		r.Get("/currencies/supported", h.GetSupportedCodes)

		r.Get("/board", h.GetBoard)
		r.Post("/board/currencies", h.AddCurrency)
		r.Delete("/board/currencies/{code:[A-Za-z]{3}}", h.RemoveCurrency)
		r.Put("/board/amounts/{code:[A-Za-z]{3}}", h.SetAmount)
		r.Delete("/board/amounts", h.ClearAmounts)

		r.Get("/history", h.GetHistory)
		r.Delete("/history", h.ClearHistory)
		r.Post("/history/{id}/restore", h.RestoreHistory)

		r.Get("/settings", h.GetSettings)
		r.Patch("/settings", h.PatchSettings)
		r.Delete("/settings", h.ResetSettings)

		r.Get("/i18n/{key}", h.Translate)
	})
	return router
}
