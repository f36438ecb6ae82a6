// Package handler содержит HTTP-обработчики API сервиса сводки заказов.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/order-summary/internal/export"
	"github.com/mmeshcher/order-summary/internal/metrics"
	"github.com/mmeshcher/order-summary/internal/model"
	"github.com/mmeshcher/order-summary/internal/repository"
	"github.com/mmeshcher/order-summary/internal/service"
	"github.com/mmeshcher/order-summary/internal/source"
	"github.com/mmeshcher/order-summary/internal/summary"
	"github.com/mmeshcher/order-summary/internal/validation"
)

const (
	defaultPage       = "1"
	defaultMaxPerPage = "100"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	ImportAndSummarize(ctx context.Context, page, maxPerPage string) (*model.Summary, error)
	GetOrderByUUID(ctx context.Context, uuid string) (*model.OrderView, error)
	GetOrders(ctx context.Context) ([]model.OrderView, error)
	GetStoredOrder(ctx context.Context, orderID string) (*model.OrderView, error)
	ExportCSV(ctx context.Context) (*model.TabularExport, error)
}

// Handler реализует HTTP-обработчики API сервиса сводки заказов.
type Handler struct {
	service Service
	logger  *zap.Logger
	metrics *metrics.Registry
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, m *metrics.Registry) *Handler {
	return &Handler{
		service: s,
		logger:  logger,
		metrics: m,
	}
}

// orderResponse описывает заказ в ответе API. Отсутствующие поля отдаются как null.
type orderResponse struct {
	OrderID       string  `json:"orderId"`
	UUID          string  `json:"uuid"`
	OrderPriority string  `json:"orderPriority"`
	OrderDate     *string `json:"orderDate"`
	Region        string  `json:"region"`
	Country       string  `json:"country"`
	ItemType      string  `json:"itemType"`
	SalesChannel  string  `json:"salesChannel"`
	ShipDate      *string `json:"shipDate"`
	UnitsSold     *int64  `json:"unitsSold"`
	UnitPrice     *string `json:"unitPrice"`
	UnitCost      *string `json:"unitCost"`
	TotalRevenue  *string `json:"totalRevenue"`
	TotalCost     *string `json:"totalCost"`
	TotalProfit   *string `json:"totalProfit"`
}

func newOrderResponse(v *model.OrderView) orderResponse {
	resp := orderResponse{
		OrderID:       v.OrderID,
		UUID:          v.UUID,
		OrderPriority: v.OrderPriority,
		OrderDate:     optionalDate(v.OrderDate),
		Region:        v.Region,
		Country:       v.Country,
		ItemType:      v.ItemType,
		SalesChannel:  v.SalesChannel,
		ShipDate:      optionalDate(v.ShipDate),
		UnitPrice:     optionalAmount(v.UnitPrice),
		UnitCost:      optionalAmount(v.UnitCost),
		TotalRevenue:  optionalAmount(v.TotalRevenue),
		TotalCost:     optionalAmount(v.TotalCost),
		TotalProfit:   optionalAmount(v.TotalProfit),
	}
	if v.UnitsSold.Valid {
		units := v.UnitsSold.Int64
		resp.UnitsSold = &units
	}
	return resp
}

func optionalDate(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := model.FormatDate(t)
	return &s
}

func optionalAmount(n decimal.NullDecimal) *string {
	if !n.Valid {
		return nil
	}
	s := model.FormatAmount(n.Decimal)
	return &s
}

type summaryResponse struct {
	Summary *model.Summary `json:"summary"`
}

type singleOrderResponse struct {
	Order orderResponse `json:"order"`
}

type ordersListResponse struct {
	Orders []orderResponse `json:"orders"`
}

// ImportSummary импортирует страницу заказов и возвращает сводку по категориям.
func (h *Handler) ImportSummary(w http.ResponseWriter, r *http.Request) {
	page := queryOrDefault(r, "page", defaultPage)
	maxPerPage := queryOrDefault(r, "maxPerPage", defaultMaxPerPage)

	if !isPositiveInt(page) || !isPositiveInt(maxPerPage) {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	s, err := h.service.ImportAndSummarize(r.Context(), page, maxPerPage)
	if err != nil {
		h.writeError(w, "import summary error", err)
		return
	}

	h.writeJSON(w, summaryResponse{Summary: s})
}

// GetOrderByUUID возвращает заказ из внешнего источника по его uuid.
func (h *Handler) GetOrderByUUID(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")

	v, err := h.service.GetOrderByUUID(r.Context(), uuid)
	if err != nil {
		h.writeError(w, "get order error", err, zap.String("uuid", uuid))
		return
	}

	h.writeJSON(w, singleOrderResponse{Order: newOrderResponse(v)})
}

// GetStoredOrder возвращает сохранённый заказ по его идентификатору.
func (h *Handler) GetStoredOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	v, err := h.service.GetStoredOrder(r.Context(), orderID)
	if err != nil {
		h.writeError(w, "get stored order error", err, zap.String("orderID", orderID))
		return
	}

	h.writeJSON(w, singleOrderResponse{Order: newOrderResponse(v)})
}

// GetOrders возвращает список сохранённых заказов.
func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.GetOrders(r.Context())
	if err != nil {
		h.writeError(w, "get orders error", err)
		return
	}

	resp := ordersListResponse{Orders: make([]orderResponse, 0, len(views))}
	for i := range views {
		resp.Orders = append(resp.Orders, newOrderResponse(&views[i]))
	}

	h.writeJSON(w, resp)
}

// DownloadCSV отдаёт CSV-файл со всеми сохранёнными заказами.
func (h *Handler) DownloadCSV(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.ExportCSV(r.Context())
	if err != nil {
		h.writeError(w, "export csv error", err)
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", res.Disposition)
	w.Header().Set("Content-Length", strconv.Itoa(res.ContentLength))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Content); err != nil {
		h.logger.Error("write csv error", zap.Error(err), zap.String("file", res.FileName))
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
}

// writeError переводит ошибку конвейера в HTTP-ответ.
func (h *Handler) writeError(w http.ResponseWriter, msg string, err error, fields ...zap.Field) {
	status, body := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, append(fields, zap.Error(err))...)
	} else {
		h.logger.Warn(msg, append(fields, zap.Error(err))...)
	}
	http.Error(w, body, status)
}

func statusFor(err error) (int, string) {
	var (
		procErr    *service.RecordProcessingError
		fetchErr   *source.FetchError
		persistErr *repository.PersistenceError
		exportErr  *export.FailureError
	)

	switch {
	case errors.As(err, &exportErr):
		return http.StatusInternalServerError, "export failure"
	case errors.As(err, &procErr), errors.Is(err, validation.ErrInvalidRecord):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, summary.ErrEmptyInput):
		return http.StatusUnprocessableEntity, "no orders to summarize"
	case errors.Is(err, source.ErrNotFound), errors.Is(err, repository.ErrOrderNotFound):
		return http.StatusNotFound, http.StatusText(http.StatusNotFound)
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway, "remote source failure"
	case errors.As(err, &persistErr):
		return http.StatusInternalServerError, "persistence failure"
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}

func queryOrDefault(r *http.Request, key, def string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	return def
}

func isPositiveInt(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n > 0
}
