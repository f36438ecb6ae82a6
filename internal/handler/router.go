package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/mmeshcher/order-summary/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware сервиса сводки заказов.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.GetOrders)
		r.Get("/import-summary", h.ImportSummary)
		r.Get("/stored/{orderID}", h.GetStoredOrder)
		r.Get("/{uuid}", h.GetOrderByUUID)
	})

	r.Get("/file/csv", h.DownloadCSV)

	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
