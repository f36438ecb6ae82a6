// Package service реализует конвейер импорта, сводки и выгрузки заказов.
package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/order-summary/internal/cache"
	"github.com/mmeshcher/order-summary/internal/export"
	"github.com/mmeshcher/order-summary/internal/mapper"
	"github.com/mmeshcher/order-summary/internal/metrics"
	"github.com/mmeshcher/order-summary/internal/model"
	"github.com/mmeshcher/order-summary/internal/summary"
	"github.com/mmeshcher/order-summary/internal/validation"
)

const (
	cacheOpOrder       = "order"
	cacheOpOrders      = "orders"
	cacheOpStoredOrder = "stored-order"
)

// Repository описывает контракт хранилища заказов, используемый сервисом.
type Repository interface {
	Close() error
	SaveAll(ctx context.Context, orders []model.Order) error
	FindAll(ctx context.Context) ([]model.Order, error)
	FindByID(ctx context.Context, orderID string) (*model.Order, error)
}

// Source описывает контракт внешнего источника заказов.
type Source interface {
	FetchPage(ctx context.Context, page, maxPerPage string) (*model.RawRecordPage, error)
	FetchByID(ctx context.Context, id string) (*model.RawRecord, error)
}

// RecordProcessingError оборачивает ошибку валидации или преобразования одной записи.
// Импорт партии прерывается на первой такой ошибке.
type RecordProcessingError struct {
	RecordID string
	Err      error
}

func (e *RecordProcessingError) Error() string {
	return fmt.Sprintf("process order id %s: %v", e.RecordID, e.Err)
}

func (e *RecordProcessingError) Unwrap() error { return e.Err }

// Service содержит бизнес-логику сервиса сводки заказов.
type Service struct {
	repo     Repository
	source   Source
	cache    *cache.Cache
	exporter *export.Exporter
	metrics  *metrics.Registry
	logger   *zap.Logger
}

// NewService создаёт новый сервис.
func NewService(repo Repository, src Source, c *cache.Cache, m *metrics.Registry, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		source:   src,
		cache:    c,
		exporter: export.NewExporter(),
		metrics:  m,
		logger:   logger,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// ImportAndSummarize загружает страницу заказов, проверяет и сохраняет их целиком и возвращает сводку.
// Первая некорректная запись прерывает импорт без сохранения.
func (s *Service) ImportAndSummarize(ctx context.Context, page, maxPerPage string) (*model.Summary, error) {
	s.logger.Info("importing orders", zap.String("page", page), zap.String("maxPerPage", maxPerPage))

	start := time.Now()
	p, err := s.source.FetchPage(ctx, page, maxPerPage)
	s.metrics.RemoteFetchSec.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.ImportsFailed.WithLabelValues("fetch").Inc()
		return nil, fmt.Errorf("fetch orders page: %w", err)
	}

	var records []model.RawRecord
	if p != nil {
		records = p.Content
	}
	s.logger.Info("received orders from remote source", zap.Int("count", len(records)))
	s.metrics.ImportBatchSize.Observe(float64(len(records)))

	orders, err := s.convertRecords(records)
	if err != nil {
		s.metrics.ImportsFailed.WithLabelValues("validation").Inc()
		return nil, err
	}

	if err := s.repo.SaveAll(ctx, orders); err != nil {
		s.metrics.ImportsFailed.WithLabelValues("persistence").Inc()
		s.logger.Error("save orders error", zap.Error(err), zap.Int("count", len(orders)))
		return nil, fmt.Errorf("save orders: %w", err)
	}
	s.cache.Flush()
	s.metrics.OrdersImported.Add(float64(len(orders)))
	s.logger.Info("orders saved", zap.Int("count", len(orders)))

	return summary.Summarize(mapper.ViewsFromOrders(orders))
}

func (s *Service) convertRecords(records []model.RawRecord) ([]model.Order, error) {
	orders := make([]model.Order, 0, len(records))
	for i := range records {
		r := &records[i]
		id := validation.RecordID(r)

		if err := validation.Validate(r); err != nil {
			s.logger.Error("order validation error", zap.String("id", id), zap.Error(err))
			return nil, &RecordProcessingError{RecordID: id, Err: err}
		}

		o, err := mapper.ToOrder(r)
		if err != nil {
			s.logger.Error("order mapping error", zap.String("id", id), zap.Error(err))
			return nil, &RecordProcessingError{RecordID: id, Err: err}
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// GetOrderByUUID возвращает заказ напрямую из внешнего источника.
// Запись не валидируется: пустые даты и отсутствующие числа отдаются как отсутствующие поля,
// ошибкой считается только непустая дата в неверном формате.
func (s *Service) GetOrderByUUID(ctx context.Context, uuid string) (*model.OrderView, error) {
	key := cache.Key(cacheOpOrder, uuid)
	if view, ok := lookup[model.OrderView](s, key); ok {
		return &view, nil
	}

	start := time.Now()
	rec, err := s.source.FetchByID(ctx, uuid)
	s.metrics.RemoteFetchSec.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("fetch order %s: %w", uuid, err)
	}

	view, err := mapper.ViewFromRecord(rec)
	if err != nil {
		return nil, &RecordProcessingError{RecordID: validation.RecordID(rec), Err: err}
	}

	s.cache.Set(key, view)
	return &view, nil
}

// GetOrders возвращает все сохранённые заказы. Каждый вызов получает собственную копию списка.
func (s *Service) GetOrders(ctx context.Context) ([]model.OrderView, error) {
	key := cache.Key(cacheOpOrders)
	if views, ok := lookup[[]model.OrderView](s, key); ok {
		return slices.Clone(views), nil
	}

	orders, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}

	views := mapper.ViewsFromOrders(orders)
	s.cache.Set(key, slices.Clone(views))
	return views, nil
}

// GetStoredOrder возвращает сохранённый заказ по первичному ключу.
func (s *Service) GetStoredOrder(ctx context.Context, orderID string) (*model.OrderView, error) {
	key := cache.Key(cacheOpStoredOrder, orderID)
	if view, ok := lookup[model.OrderView](s, key); ok {
		return &view, nil
	}

	o, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("find order %s: %w", orderID, err)
	}

	view := mapper.ViewFromOrder(*o)
	s.cache.Set(key, view)
	return &view, nil
}

// ExportCSV формирует CSV-файл со всеми сохранёнными заказами.
// Любая ошибка чтения или сериализации возвращается как export.FailureError.
func (s *Service) ExportCSV(ctx context.Context) (*model.TabularExport, error) {
	views, err := s.GetOrders(ctx)
	if err != nil {
		s.logger.Error("export read error", zap.Error(err))
		return nil, &export.FailureError{Err: err}
	}
	s.logger.Info("exporting orders", zap.Int("count", len(views)))

	res, err := s.exporter.Export(views, export.DefaultBaseName)
	if err != nil {
		s.logger.Error("export error", zap.Error(err))
		return nil, err
	}

	s.metrics.ExportedRows.Add(float64(len(views)))
	return res, nil
}

func lookup[T any](s *Service, key string) (T, bool) {
	v, ok := cache.Get[T](s.cache, key)
	if !ok {
		s.metrics.CacheMisses.Inc()
		return v, false
	}
	s.metrics.CacheHits.Inc()
	s.logger.Debug("cache hit", zap.String("key", key))
	return v, true
}
