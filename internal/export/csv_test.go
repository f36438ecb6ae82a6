package export

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/order-summary/internal/model"
)

func sampleView(id string) model.OrderView {
	return model.OrderView{
		OrderID:       id,
		OrderPriority: "H",
		OrderDate:     time.Date(2024, time.July, 5, 0, 0, 0, 0, time.UTC),
		Region:        "Europe",
		Country:       "Spain, Kingdom of",
		ItemType:      "Fruits",
		SalesChannel:  "Online",
		ShipDate:      time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC),
		UnitsSold:     sql.NullInt64{Int64: 12, Valid: true},
		UnitPrice:     amount("9.33"),
		UnitCost:      amount("6.92"),
		TotalRevenue:  amount("111.96"),
		TotalCost:     amount("83.04"),
		TotalProfit:   amount("28.92"),
	}
}

func amount(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func readCSV(t *testing.T, content []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(content)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestExport_RowsAndHeader(t *testing.T) {
	e := NewExporter()
	orders := []model.OrderView{sampleView("2"), sampleView("1"), sampleView("3")}

	res, err := e.Export(orders, DefaultBaseName)
	require.NoError(t, err)

	records := readCSV(t, res.Content)
	require.Len(t, records, len(orders)+1)
	assert.Equal(t, Header, records[0])
	assert.Len(t, records[0], 14)

	assert.Equal(t, []string{
		"2", "H", "05/07/2024", "Europe", "Spain, Kingdom of", "Fruits", "Online",
		"15/07/2024", "12", "9.33", "6.92", "111.96", "83.04", "28.92",
	}, records[1])
	assert.Equal(t, "1", records[2][0])
	assert.Equal(t, "3", records[3][0])
}

func TestExport_Metadata(t *testing.T) {
	e := NewExporter()

	res, err := e.Export([]model.OrderView{sampleView("1")}, "orders_file")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^orders_file_\d{5}\.csv$`), res.FileName)
	assert.Equal(t, len(res.Content), res.ContentLength)
	assert.Equal(t, "application/octet-stream", res.ContentType)
	assert.Contains(t, res.Disposition, "attachment")
	assert.Contains(t, res.Disposition, res.FileName)
}

func TestExport_SuffixIsFiveDigits(t *testing.T) {
	e := NewExporter()
	for i := 0; i < 200; i++ {
		n := e.suffix()
		require.GreaterOrEqual(t, n, 10000)
		require.Less(t, n, 100000)
	}

	fixed := &Exporter{suffix: func() int { return 42 }}
	res, err := fixed.Export(nil, "base")
	require.NoError(t, err)
	assert.Equal(t, "base_00042.csv", res.FileName)
}

func TestExport_EmptyInputHasOnlyHeader(t *testing.T) {
	res, err := NewExporter().Export(nil, DefaultBaseName)
	require.NoError(t, err)

	records := readCSV(t, res.Content)
	require.Len(t, records, 1)
	assert.Equal(t, Header, records[0])
}

func TestExport_LargeAmountsAreFixedPoint(t *testing.T) {
	v := sampleView("1")
	v.TotalRevenue = amount("123456789012.5")

	res, err := NewExporter().Export([]model.OrderView{v}, DefaultBaseName)
	require.NoError(t, err)

	records := readCSV(t, res.Content)
	assert.Equal(t, "123456789012.5", records[1][11])
}

func TestExport_AmountsKeepTrailingZeros(t *testing.T) {
	var rec model.RawRecord
	require.NoError(t, json.Unmarshal([]byte(`{"unit_price": 5000.00, "total_revenue": 651.20}`), &rec))

	v := sampleView("1")
	v.UnitPrice = decimal.NewNullDecimal(*rec.UnitPrice)
	v.TotalRevenue = decimal.NewNullDecimal(*rec.TotalRevenue)

	res, err := NewExporter().Export([]model.OrderView{v}, DefaultBaseName)
	require.NoError(t, err)

	records := readCSV(t, res.Content)
	assert.Equal(t, "5000.00", records[1][9])
	assert.Equal(t, "651.20", records[1][11])
}

func TestExport_AbsentFieldsAreEmptyCells(t *testing.T) {
	v := sampleView("1")
	v.ShipDate = time.Time{}
	v.UnitsSold = sql.NullInt64{}
	v.TotalProfit = decimal.NullDecimal{}

	res, err := NewExporter().Export([]model.OrderView{v}, DefaultBaseName)
	require.NoError(t, err)

	records := readCSV(t, res.Content)
	assert.Equal(t, "", records[1][7])
	assert.Equal(t, "", records[1][8])
	assert.Equal(t, "", records[1][13])
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteCSV_WriterFailure(t *testing.T) {
	err := WriteCSV(failingWriter{}, []model.OrderView{sampleView("1")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestFailureError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &FailureError{Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "boom")
}
