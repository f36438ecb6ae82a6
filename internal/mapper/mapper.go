// Package mapper преобразует записи внешнего источника в сохраняемые заказы и их внешнее представление.
//
// Функции не валидируют входные данные: записи, поступающие в ToOrder, должны быть
// предварительно проверены пакетом validation. ViewFromRecord допускает отсутствующие поля.
package mapper

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/order-summary/internal/model"
)

var errNilRecord = errors.New("nil record")

// ToOrder преобразует запись источника в сохраняемый заказ.
func ToOrder(r *model.RawRecord) (model.Order, error) {
	if r == nil {
		return model.Order{}, errNilRecord
	}

	orderDate, err := model.ParseDate(r.Date)
	if err != nil {
		return model.Order{}, fmt.Errorf("parse date: %w", err)
	}
	shipDate, err := model.ParseDate(r.ShipDate)
	if err != nil {
		return model.Order{}, fmt.Errorf("parse ship date: %w", err)
	}

	return model.Order{
		OrderID:       r.ID,
		UUID:          r.UUID,
		OrderPriority: r.Priority,
		Region:        r.Region,
		Country:       r.Country,
		ItemType:      r.ItemType,
		SalesChannel:  r.SalesChannel,
		OrderDate:     orderDate,
		ShipDate:      shipDate,
		UnitsSold:     intValue(r.UnitsSold),
		UnitPrice:     decimalValue(r.UnitPrice),
		UnitCost:      decimalValue(r.UnitCost),
		TotalRevenue:  decimalValue(r.TotalRevenue),
		TotalCost:     decimalValue(r.TotalCost),
		TotalProfit:   decimalValue(r.TotalProfit),
	}, nil
}

// ViewFromOrder возвращает внешнее представление сохранённого заказа.
func ViewFromOrder(o model.Order) model.OrderView {
	return model.OrderView{
		OrderID:       o.OrderID,
		UUID:          o.UUID,
		OrderPriority: o.OrderPriority,
		Region:        o.Region,
		Country:       o.Country,
		ItemType:      o.ItemType,
		SalesChannel:  o.SalesChannel,
		OrderDate:     o.OrderDate,
		ShipDate:      o.ShipDate,
		UnitsSold:     sql.NullInt64{Int64: int64(o.UnitsSold), Valid: true},
		UnitPrice:     decimal.NewNullDecimal(o.UnitPrice),
		UnitCost:      decimal.NewNullDecimal(o.UnitCost),
		TotalRevenue:  decimal.NewNullDecimal(o.TotalRevenue),
		TotalCost:     decimal.NewNullDecimal(o.TotalCost),
		TotalProfit:   decimal.NewNullDecimal(o.TotalProfit),
	}
}

// ViewsFromOrders преобразует список заказов, сохраняя порядок.
func ViewsFromOrders(orders []model.Order) []model.OrderView {
	views := make([]model.OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, ViewFromOrder(o))
	}
	return views
}

// ViewFromRecord строит внешнее представление напрямую из записи источника, минуя хранение.
// Пустые даты и отсутствующие числа остаются отсутствующими, непустая дата в неверном формате
// возвращает ошибку.
func ViewFromRecord(r *model.RawRecord) (model.OrderView, error) {
	if r == nil {
		return model.OrderView{}, errNilRecord
	}

	orderDate, err := parseOptionalDate(r.Date)
	if err != nil {
		return model.OrderView{}, fmt.Errorf("parse date: %w", err)
	}
	shipDate, err := parseOptionalDate(r.ShipDate)
	if err != nil {
		return model.OrderView{}, fmt.Errorf("parse ship date: %w", err)
	}

	return model.OrderView{
		OrderID:       r.ID,
		UUID:          r.UUID,
		OrderPriority: r.Priority,
		Region:        r.Region,
		Country:       r.Country,
		ItemType:      r.ItemType,
		SalesChannel:  r.SalesChannel,
		OrderDate:     orderDate,
		ShipDate:      shipDate,
		UnitsSold:     nullInt(r.UnitsSold),
		UnitPrice:     nullDecimal(r.UnitPrice),
		UnitCost:      nullDecimal(r.UnitCost),
		TotalRevenue:  nullDecimal(r.TotalRevenue),
		TotalCost:     nullDecimal(r.TotalCost),
		TotalProfit:   nullDecimal(r.TotalProfit),
	}, nil
}

func parseOptionalDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	return model.ParseDate(s)
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullDecimal(v *decimal.Decimal) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*v)
}

func intValue(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func decimalValue(v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return *v
}
