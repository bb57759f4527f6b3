package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CRMMetrics содержит метрики операций CRM.
type CRMMetrics struct {
	// Счётчики созданных сущностей
	customersCreated prometheus.Counter
	productsCreated  prometheus.Counter
	ordersCreated    prometheus.Counter

	// Счётчики отказов по типам
	conflicts    prometheus.Counter
	invalidInput prometheus.Counter
	notFound     prometheus.Counter

	// Счётчик ошибок отдельных записей bulk-создания
	bulkFailures prometheus.Counter

	// Гистограмма времени выполнения операций
	operationDuration *prometheus.HistogramVec
}

// NewCRMMetrics создаёт новый экземпляр метрик CRM.
func NewCRMMetrics() *CRMMetrics {
	return newCRMMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newCRMMetricsWithRegisterer(registerer prometheus.Registerer) *CRMMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &CRMMetrics{
		customersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "crm_customers_created_total",
			Help: "Total number of customers created",
		}),
		productsCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "crm_products_created_total",
			Help: "Total number of products created",
		}),
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "crm_orders_created_total",
			Help: "Total number of orders created",
		}),
		conflicts: registerCounter(registerer, prometheus.CounterOpts{
			Name: "crm_write_conflicts_total",
			Help: "Total number of writes rejected with a uniqueness conflict",
		}),
		invalidInput: registerCounter(registerer, prometheus.CounterOpts{
			Name: "crm_invalid_input_total",
			Help: "Total number of writes rejected with invalid input",
		}),
		notFound: registerCounter(registerer, prometheus.CounterOpts{
			Name: "crm_not_found_total",
			Help: "Total number of writes rejected because a referenced entity was missing",
		}),
		bulkFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "crm_bulk_customer_failures_total",
			Help: "Total number of failed entries in bulk customer creation",
		}),
		operationDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "crm_operation_duration_seconds",
			Help:    "Duration of CRM operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"operation"}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordCustomerCreated увеличивает счётчик созданных клиентов.
func (m *CRMMetrics) RecordCustomerCreated() {
	m.customersCreated.Inc()
}

// RecordProductCreated увеличивает счётчик созданных товаров.
func (m *CRMMetrics) RecordProductCreated() {
	m.productsCreated.Inc()
}

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *CRMMetrics) RecordOrderCreated() {
	m.ordersCreated.Inc()
}

// RecordConflict увеличивает счётчик конфликтов уникальности.
func (m *CRMMetrics) RecordConflict() {
	m.conflicts.Inc()
}

// RecordInvalidInput увеличивает счётчик отказов по валидации.
func (m *CRMMetrics) RecordInvalidInput() {
	m.invalidInput.Inc()
}

// RecordNotFound увеличивает счётчик отказов из-за отсутствующих сущностей.
func (m *CRMMetrics) RecordNotFound() {
	m.notFound.Inc()
}

// RecordBulkFailure увеличивает счётчик ошибочных записей bulk-создания.
func (m *CRMMetrics) RecordBulkFailure() {
	m.bulkFailures.Inc()
}

// RecordOperationDuration записывает время выполнения операции.
func (m *CRMMetrics) RecordOperationDuration(operation string, duration time.Duration) {
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
