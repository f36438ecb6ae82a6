// Package model содержит доменные сущности сервиса сводки заказов.
package model

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout задаёт формат дат день/месяц/год, в котором даты приходят из внешнего источника
// и выгружаются в CSV.
const (
	DateLayout      = "02/01/2006"
	dateParseLayout = "2/1/2006"
)

// ParseDate разбирает дату в формате день/месяц/год. Допускаются одно- и двузначные день и месяц.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateParseLayout, s)
}

// FormatDate форматирует дату как dd/MM/yyyy. Нулевая дата означает её отсутствие и даёт пустую строку.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// FormatAmount форматирует сумму с её собственным масштабом: 5000.00 остаётся 5000.00.
func FormatAmount(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}

// FormatNullAmount форматирует необязательную сумму, отсутствующая сумма даёт пустую строку.
func FormatNullAmount(n decimal.NullDecimal) string {
	if !n.Valid {
		return ""
	}
	return FormatAmount(n.Decimal)
}

// RecordLinks содержит ссылки записи во внешнем источнике.
type RecordLinks struct {
	Self string `json:"self"`
}

// RawRecord описывает заказ в том виде, в котором он получен из внешнего источника.
// Числовые поля могут отсутствовать (null), поэтому хранятся указателями.
type RawRecord struct {
	UUID         string           `json:"uuid"`
	ID           string           `json:"id"`
	Region       string           `json:"region"`
	Country      string           `json:"country"`
	ItemType     string           `json:"item_type"`
	SalesChannel string           `json:"sales_channel"`
	Priority     string           `json:"priority"`
	Date         string           `json:"date"`
	ShipDate     string           `json:"ship_date"`
	UnitsSold    *int             `json:"units_sold"`
	UnitPrice    *decimal.Decimal `json:"unit_price"`
	UnitCost     *decimal.Decimal `json:"unit_cost"`
	TotalRevenue *decimal.Decimal `json:"total_revenue"`
	TotalCost    *decimal.Decimal `json:"total_cost"`
	TotalProfit  *decimal.Decimal `json:"total_profit"`
	Links        *RecordLinks     `json:"links,omitempty"`
}

// PageLinks содержит ссылки постраничной выдачи.
type PageLinks struct {
	Next string `json:"next"`
	Self string `json:"self"`
}

// RawRecordPage описывает одну страницу заказов внешнего источника.
type RawRecordPage struct {
	Page    int         `json:"page"`
	Content []RawRecord `json:"content"`
	Links   PageLinks   `json:"links"`
}

// Order описывает сохранённый заказ с ключом хранения OrderID.
type Order struct {
	OrderID       string
	UUID          string
	OrderPriority string
	Region        string
	Country       string
	ItemType      string
	SalesChannel  string
	OrderDate     time.Time
	ShipDate      time.Time
	UnitsSold     int
	UnitPrice     decimal.Decimal
	UnitCost      decimal.Decimal
	TotalRevenue  decimal.Decimal
	TotalCost     decimal.Decimal
	TotalProfit   decimal.Decimal
}

// OrderView описывает внешнее представление заказа, не зависящее от формы хранения.
// Заказ, полученный напрямую из источника, может не иметь дат и числовых полей:
// нулевая дата и невалидные Null-значения означают отсутствие поля.
type OrderView struct {
	OrderID       string
	UUID          string
	OrderPriority string
	Region        string
	Country       string
	ItemType      string
	SalesChannel  string
	OrderDate     time.Time
	ShipDate      time.Time
	UnitsSold     sql.NullInt64
	UnitPrice     decimal.NullDecimal
	UnitCost      decimal.NullDecimal
	TotalRevenue  decimal.NullDecimal
	TotalCost     decimal.NullDecimal
	TotalProfit   decimal.NullDecimal
}

// Summary содержит количество заказов по каждому из пяти измерений.
type Summary struct {
	RegionSummary        map[string]int64 `json:"regionSummary"`
	CountrySummary       map[string]int64 `json:"countrySummary"`
	ItemTypeSummary      map[string]int64 `json:"itemTypeSummary"`
	SalesChannelSummary  map[string]int64 `json:"salesChannelSummary"`
	OrderPrioritySummary map[string]int64 `json:"orderPrioritySummary"`
}

// TabularExport содержит сформированный CSV-файл и метаданные для его отдачи.
type TabularExport struct {
	FileName      string
	Content       []byte
	ContentType   string
	Disposition   string
	ContentLength int
}
