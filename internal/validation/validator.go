// Package validation проверяет записи заказов, полученные из внешнего источника.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/order-summary/internal/model"
)

// UnknownRecordID подставляется в ошибки, если у записи нет идентификатора.
const UnknownRecordID = "unknown"

// ErrInvalidRecord совпадает (errors.Is) с любой ошибкой валидации записи.
var ErrInvalidRecord = errors.New("invalid record")

// EmptyFieldError возвращается, если обязательное строковое поле пустое.
type EmptyFieldError struct {
	Field    string
	RecordID string
}

func (e *EmptyFieldError) Error() string {
	return fmt.Sprintf("field %s is empty, id: %s", e.Field, e.RecordID)
}

// Is позволяет сопоставить ошибку с ErrInvalidRecord.
func (e *EmptyFieldError) Is(target error) bool { return target == ErrInvalidRecord }

// DateFormatError возвращается, если дата не в формате день/месяц/год.
type DateFormatError struct {
	Field    string
	RecordID string
	Value    string
	Err      error
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("field %s has invalid date %q, id: %s", e.Field, e.Value, e.RecordID)
}

func (e *DateFormatError) Unwrap() error { return e.Err }

// Is позволяет сопоставить ошибку с ErrInvalidRecord.
func (e *DateFormatError) Is(target error) bool { return target == ErrInvalidRecord }

// NonPositiveValueError возвращается, если числовое поле отсутствует или не больше нуля.
type NonPositiveValueError struct {
	Field    string
	RecordID string
}

func (e *NonPositiveValueError) Error() string {
	return fmt.Sprintf("field %s must be a positive number, id: %s", e.Field, e.RecordID)
}

// Is позволяет сопоставить ошибку с ErrInvalidRecord.
func (e *NonPositiveValueError) Is(target error) bool { return target == ErrInvalidRecord }

type check func(r *model.RawRecord, id string) error

// checks перечислены в порядке проверки; первая ошибка прерывает валидацию.
var checks = []check{
	notEmpty("uuid", func(r *model.RawRecord) string { return r.UUID }),
	notEmpty("id", func(r *model.RawRecord) string { return r.ID }),
	notEmpty("region", func(r *model.RawRecord) string { return r.Region }),
	notEmpty("country", func(r *model.RawRecord) string { return r.Country }),
	notEmpty("itemType", func(r *model.RawRecord) string { return r.ItemType }),
	notEmpty("salesChannel", func(r *model.RawRecord) string { return r.SalesChannel }),
	notEmpty("priority", func(r *model.RawRecord) string { return r.Priority }),
	validDate("date", func(r *model.RawRecord) string { return r.Date }),
	validDate("shipDate", func(r *model.RawRecord) string { return r.ShipDate }),
	positiveInt("unitsSold", func(r *model.RawRecord) *int { return r.UnitsSold }),
	positiveDecimal("unitPrice", func(r *model.RawRecord) *decimal.Decimal { return r.UnitPrice }),
	positiveDecimal("unitCost", func(r *model.RawRecord) *decimal.Decimal { return r.UnitCost }),
	positiveDecimal("totalRevenue", func(r *model.RawRecord) *decimal.Decimal { return r.TotalRevenue }),
	positiveDecimal("totalCost", func(r *model.RawRecord) *decimal.Decimal { return r.TotalCost }),
	positiveDecimal("totalProfit", func(r *model.RawRecord) *decimal.Decimal { return r.TotalProfit }),
}

// Validate проверяет запись и возвращает первую найденную ошибку.
func Validate(r *model.RawRecord) error {
	if r == nil {
		return &EmptyFieldError{Field: "uuid", RecordID: UnknownRecordID}
	}

	id := RecordID(r)
	for _, c := range checks {
		if err := c(r, id); err != nil {
			return err
		}
	}
	return nil
}

// RecordID возвращает идентификатор записи для сообщений об ошибках.
func RecordID(r *model.RawRecord) string {
	if r == nil || r.ID == "" {
		return UnknownRecordID
	}
	return r.ID
}

func notEmpty(field string, get func(*model.RawRecord) string) check {
	return func(r *model.RawRecord, id string) error {
		if strings.TrimSpace(get(r)) == "" {
			return &EmptyFieldError{Field: field, RecordID: id}
		}
		return nil
	}
}

func validDate(field string, get func(*model.RawRecord) string) check {
	return func(r *model.RawRecord, id string) error {
		v := get(r)
		if _, err := model.ParseDate(v); err != nil {
			return &DateFormatError{Field: field, RecordID: id, Value: v, Err: err}
		}
		return nil
	}
}

func positiveInt(field string, get func(*model.RawRecord) *int) check {
	return func(r *model.RawRecord, id string) error {
		v := get(r)
		if v == nil || *v <= 0 {
			return &NonPositiveValueError{Field: field, RecordID: id}
		}
		return nil
	}
}

func positiveDecimal(field string, get func(*model.RawRecord) *decimal.Decimal) check {
	return func(r *model.RawRecord, id string) error {
		v := get(r)
		if v == nil || !v.IsPositive() {
			return &NonPositiveValueError{Field: field, RecordID: id}
		}
		return nil
	}
}
