package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

// Форматы дат, принимаемые в query-параметрах и в теле заказа.
var acceptedTimeLayouts = []string{time.RFC3339, "2006-01-02"}

func parseCustomerFilter(r *http.Request) (domain.CustomerFilter, error) {
	q := r.URL.Query()

	filter := domain.CustomerFilter{
		NameContains:  q.Get("name"),
		EmailContains: q.Get("email"),
		PhonePrefix:   q.Get("phone_prefix"),
	}

	var err error
	if filter.CreatedFrom, err = parseTimeParam(q.Get("created_from"), "created_from"); err != nil {
		return domain.CustomerFilter{}, err
	}
	if filter.CreatedTo, err = parseTimeParam(q.Get("created_to"), "created_to"); err != nil {
		return domain.CustomerFilter{}, err
	}

	return filter, nil
}

func parseProductFilter(r *http.Request) (domain.ProductFilter, error) {
	q := r.URL.Query()

	filter := domain.ProductFilter{
		NameContains: q.Get("name"),
	}

	var err error
	if filter.PriceMin, err = parseDecimalParam(q.Get("price_min"), "price_min"); err != nil {
		return domain.ProductFilter{}, err
	}
	if filter.PriceMax, err = parseDecimalParam(q.Get("price_max"), "price_max"); err != nil {
		return domain.ProductFilter{}, err
	}
	if filter.StockMin, err = parseInt32Param(q.Get("stock_min"), "stock_min"); err != nil {
		return domain.ProductFilter{}, err
	}
	if filter.StockMax, err = parseInt32Param(q.Get("stock_max"), "stock_max"); err != nil {
		return domain.ProductFilter{}, err
	}

	return filter, nil
}

func parseOrderFilter(r *http.Request) (domain.OrderFilter, error) {
	q := r.URL.Query()

	filter := domain.OrderFilter{
		CustomerNameContains: q.Get("customer_name"),
		ProductNameContains:  q.Get("product_name"),
	}

	var err error
	if filter.TotalMin, err = parseDecimalParam(q.Get("total_min"), "total_min"); err != nil {
		return domain.OrderFilter{}, err
	}
	if filter.TotalMax, err = parseDecimalParam(q.Get("total_max"), "total_max"); err != nil {
		return domain.OrderFilter{}, err
	}
	if filter.OrderedFrom, err = parseTimeParam(q.Get("ordered_from"), "ordered_from"); err != nil {
		return domain.OrderFilter{}, err
	}
	if filter.OrderedTo, err = parseTimeParam(q.Get("ordered_to"), "ordered_to"); err != nil {
		return domain.OrderFilter{}, err
	}

	return filter, nil
}

func parseTimeParam(raw, name string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range acceptedTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid %s: expected RFC3339 or YYYY-MM-DD", name)
}

func parseOptionalTime(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := parseTimeParam(raw, "order_date")
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseDecimalParam(raw, name string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: expected decimal number", name)
	}
	return &d, nil
}

func parseInt32Param(raw, name string) (*int32, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: expected integer", name)
	}
	v32 := int32(v)
	return &v32, nil
}
