// Package summary считает количество заказов по категориям.
package summary

import (
	"errors"

	"github.com/mmeshcher/order-summary/internal/model"
)

// ErrEmptyInput возвращается при попытке построить сводку по пустому списку заказов.
var ErrEmptyInput = errors.New("orders list must not be empty")

// Summarize группирует заказы по региону, стране, типу товара, каналу продаж и приоритету.
// Ключи сравниваются как есть, без нормализации регистра и пробелов.
func Summarize(orders []model.OrderView) (*model.Summary, error) {
	if len(orders) == 0 {
		return nil, ErrEmptyInput
	}

	return &model.Summary{
		RegionSummary:        countBy(orders, func(o *model.OrderView) string { return o.Region }),
		CountrySummary:       countBy(orders, func(o *model.OrderView) string { return o.Country }),
		ItemTypeSummary:      countBy(orders, func(o *model.OrderView) string { return o.ItemType }),
		SalesChannelSummary:  countBy(orders, func(o *model.OrderView) string { return o.SalesChannel }),
		OrderPrioritySummary: countBy(orders, func(o *model.OrderView) string { return o.OrderPriority }),
	}, nil
}

func countBy(orders []model.OrderView, key func(*model.OrderView) string) map[string]int64 {
	counts := make(map[string]int64)
	for i := range orders {
		counts[key(&orders[i])]++
	}
	return counts
}
