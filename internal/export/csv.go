// Package export формирует CSV-выгрузку заказов.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"mime"
	"strconv"

	"github.com/mmeshcher/order-summary/internal/model"
)

// DefaultBaseName задаёт базовое имя файла выгрузки заказов.
const DefaultBaseName = "orders_file"

const contentTypeOctetStream = "application/octet-stream"

// Header содержит фиксированный заголовок CSV-файла.
var Header = []string{
	"Order ID", "Order Priority", "Order Date", "Region", "Country", "Item Type",
	"Sales Channel", "Ship Date", "Units Sold", "Unit Price", "Unit Cost",
	"Total Revenue", "Total Cost", "Total Profit",
}

// FailureError возвращается при ошибке формирования выгрузки или чтения данных для неё.
type FailureError struct {
	Err error
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("export orders: %v", e.Err)
}

func (e *FailureError) Unwrap() error { return e.Err }

// Exporter формирует CSV-файл и его метаданные.
type Exporter struct {
	suffix func() int
}

// NewExporter создаёт экспортёр со случайным пятизначным суффиксом имени файла.
func NewExporter() *Exporter {
	return &Exporter{
		suffix: func() int { return 10000 + rand.Intn(90000) },
	}
}

// Export сериализует заказы в CSV в порядке входного списка.
func (e *Exporter) Export(orders []model.OrderView, baseName string) (*model.TabularExport, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, orders); err != nil {
		return nil, &FailureError{Err: err}
	}

	name := fmt.Sprintf("%s_%05d.csv", baseName, e.suffix())
	content := buf.Bytes()

	return &model.TabularExport{
		FileName:      name,
		Content:       content,
		ContentType:   contentTypeOctetStream,
		Disposition:   mime.FormatMediaType("attachment", map[string]string{"filename": name}),
		ContentLength: len(content),
	}, nil
}

// WriteCSV пишет заголовок и по одной строке на заказ.
func WriteCSV(w io.Writer, orders []model.OrderView) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range orders {
		if err := cw.Write(row(&orders[i])); err != nil {
			return fmt.Errorf("write order %s: %w", orders[i].OrderID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func row(o *model.OrderView) []string {
	return []string{
		o.OrderID,
		o.OrderPriority,
		model.FormatDate(o.OrderDate),
		o.Region,
		o.Country,
		o.ItemType,
		o.SalesChannel,
		model.FormatDate(o.ShipDate),
		formatUnits(o),
		model.FormatNullAmount(o.UnitPrice),
		model.FormatNullAmount(o.UnitCost),
		model.FormatNullAmount(o.TotalRevenue),
		model.FormatNullAmount(o.TotalCost),
		model.FormatNullAmount(o.TotalProfit),
	}
}

func formatUnits(o *model.OrderView) string {
	if !o.UnitsSold.Valid {
		return ""
	}
	return strconv.FormatInt(o.UnitsSold.Int64, 10)
}
