package mapper

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/order-summary/internal/model"
)

func ptrInt(v int) *int { return &v }

func ptrDec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func sampleRecord() *model.RawRecord {
	return &model.RawRecord{
		UUID:         "1858f59d-8884-41d7-b4fc-88cfbbf00c53",
		ID:           "443368995",
		Region:       "Sub-Saharan Africa",
		Country:      "South Africa",
		ItemType:     "Fruits",
		SalesChannel: "Offline",
		Priority:     "M",
		Date:         "27/07/2012",
		ShipDate:     "28/07/2012",
		UnitsSold:    ptrInt(1593),
		UnitPrice:    ptrDec("9.33"),
		UnitCost:     ptrDec("6.92"),
		TotalRevenue: ptrDec("14862.69"),
		TotalCost:    ptrDec("11023.56"),
		TotalProfit:  ptrDec("3839.13"),
	}
}

func TestToOrder(t *testing.T) {
	r := sampleRecord()

	o, err := ToOrder(r)
	require.NoError(t, err)

	assert.Equal(t, "443368995", o.OrderID)
	assert.Equal(t, r.UUID, o.UUID)
	assert.Equal(t, "M", o.OrderPriority)
	assert.True(t, o.OrderDate.Equal(time.Date(2012, time.July, 27, 0, 0, 0, 0, time.UTC)))
	assert.True(t, o.ShipDate.Equal(time.Date(2012, time.July, 28, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1593, o.UnitsSold)
	assert.True(t, o.TotalRevenue.Equal(decimal.RequireFromString("14862.69")))
}

func TestRoundTripPreservesFields(t *testing.T) {
	r := sampleRecord()

	o, err := ToOrder(r)
	require.NoError(t, err)
	v := ViewFromOrder(o)

	assert.Equal(t, r.ID, v.OrderID)
	assert.Equal(t, r.UUID, v.UUID)
	assert.Equal(t, r.Priority, v.OrderPriority)
	assert.Equal(t, r.Region, v.Region)
	assert.Equal(t, r.Country, v.Country)
	assert.Equal(t, r.ItemType, v.ItemType)
	assert.Equal(t, r.SalesChannel, v.SalesChannel)
	assert.Equal(t, r.Date, model.FormatDate(v.OrderDate))
	assert.Equal(t, r.ShipDate, model.FormatDate(v.ShipDate))
	assert.Equal(t, int64(*r.UnitsSold), v.UnitsSold.Int64)
	assert.True(t, v.UnitsSold.Valid)
	assert.Equal(t, r.UnitPrice.String(), model.FormatNullAmount(v.UnitPrice))
	assert.Equal(t, r.UnitCost.String(), model.FormatNullAmount(v.UnitCost))
	assert.Equal(t, r.TotalRevenue.String(), model.FormatNullAmount(v.TotalRevenue))
	assert.Equal(t, r.TotalCost.String(), model.FormatNullAmount(v.TotalCost))
	assert.Equal(t, r.TotalProfit.String(), model.FormatNullAmount(v.TotalProfit))

	direct, err := ViewFromRecord(r)
	require.NoError(t, err)
	assert.Equal(t, v, direct)
}

func TestToOrder_BadDate(t *testing.T) {
	r := sampleRecord()
	r.ShipDate = "2012-07-28"

	_, err := ToOrder(r)
	assert.Error(t, err)
}

func TestViewFromRecord_MissingFieldsStayAbsent(t *testing.T) {
	r := sampleRecord()
	r.UnitsSold = nil
	r.TotalProfit = nil
	r.Date = ""
	r.ShipDate = "  "

	v, err := ViewFromRecord(r)
	require.NoError(t, err)
	assert.False(t, v.UnitsSold.Valid)
	assert.False(t, v.TotalProfit.Valid)
	assert.True(t, v.UnitPrice.Valid)
	assert.True(t, v.OrderDate.IsZero())
	assert.True(t, v.ShipDate.IsZero())
	assert.Equal(t, "", model.FormatDate(v.ShipDate))
}

func TestViewFromRecord_ZeroUnitsIsNotAbsent(t *testing.T) {
	r := sampleRecord()
	r.UnitsSold = ptrInt(0)

	v, err := ViewFromRecord(r)
	require.NoError(t, err)
	assert.True(t, v.UnitsSold.Valid)
	assert.Equal(t, int64(0), v.UnitsSold.Int64)
}

func TestViewFromRecord_BadDate(t *testing.T) {
	r := sampleRecord()
	r.Date = "2012-07-27"

	_, err := ViewFromRecord(r)
	assert.Error(t, err)
}

func TestViewFromRecord_KeepsAmountScale(t *testing.T) {
	r := sampleRecord()
	r.UnitPrice = ptrDec("5000.00")

	v, err := ViewFromRecord(r)
	require.NoError(t, err)
	assert.Equal(t, "5000.00", model.FormatNullAmount(v.UnitPrice))
}

func TestViewsFromOrdersKeepsOrder(t *testing.T) {
	orders := []model.Order{{OrderID: "3"}, {OrderID: "1"}, {OrderID: "2"}}

	views := ViewsFromOrders(orders)

	require.Len(t, views, 3)
	assert.Equal(t, "3", views[0].OrderID)
	assert.Equal(t, "1", views[1].OrderID)
	assert.Equal(t, "2", views[2].OrderID)
}

func TestToOrder_NilRecord(t *testing.T) {
	_, err := ToOrder(nil)
	assert.Error(t, err)

	_, err = ViewFromRecord(nil)
	assert.Error(t, err)
}
