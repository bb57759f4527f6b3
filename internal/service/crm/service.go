package crm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/crm/internal/metrics"
)

const (
	opCreateCustomer      = "create_customer"
	opBulkCreateCustomers = "bulk_create_customers"
	opCreateProduct       = "create_product"
	opCreateOrder         = "create_order"

	aggregateCustomer = "customer"
	aggregateProduct  = "product"
	aggregateOrder    = "order"

	customerCreatedMessage = "customer created successfully"
)

// Service реализует операции записи и выборки CRM поверх доменных репозиториев.
type Service struct {
	customers domain.CustomerRepository
	products  domain.ProductRepository
	orders    domain.OrderRepository
	outbox    domain.OutboxRepository
	logger    *log.Entry
	metrics   *metrics.CRMMetrics

	// bulkAllOrNothing переключает BulkCreateCustomers из partial-success
	// в режим единой валидации "всё или ничего".
	bulkAllOrNothing bool
}

// Options задаёт опциональные зависимости сервиса.
type Options struct {
	Logger           *log.Entry
	Outbox           domain.OutboxRepository
	Metrics          *metrics.CRMMetrics
	BulkAllOrNothing bool
}

// Option настраивает Service.
type Option func(*Options)

// WithLogger задаёт logger сервиса.
func WithLogger(logger *log.Entry) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithOutbox включает постановку событий в transactional outbox.
func WithOutbox(outbox domain.OutboxRepository) Option {
	return func(opts *Options) {
		opts.Outbox = outbox
	}
}

// WithMetrics включает запись метрик операций.
func WithMetrics(m *metrics.CRMMetrics) Option {
	return func(opts *Options) {
		opts.Metrics = m
	}
}

// WithBulkAllOrNothing переключает bulk-создание в режим "всё или ничего".
func WithBulkAllOrNothing(enabled bool) Option {
	return func(opts *Options) {
		opts.BulkAllOrNothing = enabled
	}
}

// NewService конструирует сервис с зависимостями.
func NewService(
	customers domain.CustomerRepository,
	products domain.ProductRepository,
	orders domain.OrderRepository,
	options ...Option,
) *Service {
	opts := Options{}
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New().WithField("component", "crm-service")
	}

	return &Service{
		customers:        customers,
		products:         products,
		orders:           orders,
		outbox:           opts.Outbox,
		logger:           logger,
		metrics:          opts.Metrics,
		bulkAllOrNothing: opts.BulkAllOrNothing,
	}
}

// CreateCustomerInput — типизированный запрос создания клиента.
type CreateCustomerInput struct {
	Name  string
	Email string
	Phone string
}

// CustomerResult содержит созданного клиента и сообщение для вызывающей стороны.
type CustomerResult struct {
	Customer domain.Customer
	Message  string
}

// BulkCreateResult содержит успешно созданных клиентов (в порядке входа)
// и строки ошибок по каждой неудачной записи (в порядке возникновения).
type BulkCreateResult struct {
	Customers []domain.Customer
	Errors    []string
}

// CreateProductInput — типизированный запрос создания товара.
type CreateProductInput struct {
	Name  string
	Price decimal.Decimal
	Stock int32
}

// CreateOrderInput — типизированный запрос создания заказа.
// OrderDate принимается для совместимости формы запроса, но хранимое
// значение всегда равно моменту создания.
type CreateOrderInput struct {
	CustomerID string
	ProductIDs []string
	OrderDate  *time.Time
}

// OrderResult содержит созданный заказ и разрешённого клиента.
type OrderResult struct {
	Order    domain.Order
	Customer domain.Customer
}

// CreateCustomer валидирует вход и сохраняет нового клиента.
func (s *Service) CreateCustomer(_ context.Context, input CreateCustomerInput) (CustomerResult, error) {
	defer s.observe(opCreateCustomer, time.Now())

	customer := domain.Customer{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		CreatedAt: time.Now().UTC(),
	}

	if errs := customer.ValidateInvariants(); len(errs) > 0 {
		s.recordFailure(errors.Join(errs...))
		return CustomerResult{}, errors.Join(errs...)
	}

	// Предварительная проверка уникальности даёт понятную ошибку без
	// обращения к constraint; гонку закрывает уникальный индекс хранилища.
	exists, err := s.customers.EmailExists(customer.Email)
	if err != nil {
		s.logger.WithError(err).Error("failed to check email uniqueness")
		return CustomerResult{}, fmt.Errorf("check email uniqueness: %w", err)
	}
	if exists {
		s.recordFailure(domain.ErrEmailExists)
		return CustomerResult{}, domain.ErrEmailExists
	}

	if err := s.customers.Create(customer); err != nil {
		if !domain.IsConflict(err) {
			s.logger.WithError(err).Error("failed to create customer")
			return CustomerResult{}, fmt.Errorf("create customer: %w", err)
		}
		s.recordFailure(err)
		return CustomerResult{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordCustomerCreated()
	}
	s.enqueueEvent(aggregateCustomer, customer.ID, string(kafka.EventTypeCustomerCreated), kafka.CustomerEvent{
		EventType:  kafka.EventTypeCustomerCreated,
		CustomerID: customer.ID,
		Email:      customer.Email,
		Timestamp:  customer.CreatedAt,
	})

	return CustomerResult{Customer: customer, Message: customerCreatedMessage}, nil
}

// BulkCreateCustomers создаёт клиентов по списку входов.
// По умолчанию действует partial success: ошибка одной записи не прерывает
// обработку остальных. В режиме bulkAllOrNothing весь батч валидируется
// заранее и при любой ошибке ничего не записывается.
func (s *Service) BulkCreateCustomers(ctx context.Context, inputs []CreateCustomerInput) (BulkCreateResult, error) {
	defer s.observe(opBulkCreateCustomers, time.Now())

	if s.bulkAllOrNothing {
		return s.bulkCreateAtomic(ctx, inputs)
	}

	result := BulkCreateResult{
		Customers: make([]domain.Customer, 0, len(inputs)),
		Errors:    make([]string, 0),
	}

	for _, input := range inputs {
		created, err := s.CreateCustomer(ctx, input)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", input.Email, err))
			if s.metrics != nil {
				s.metrics.RecordBulkFailure()
			}
			continue
		}
		result.Customers = append(result.Customers, created.Customer)
	}

	return result, nil
}

func (s *Service) bulkCreateAtomic(ctx context.Context, inputs []CreateCustomerInput) (BulkCreateResult, error) {
	result := BulkCreateResult{
		Customers: make([]domain.Customer, 0, len(inputs)),
		Errors:    make([]string, 0),
	}

	// Сначала валидируем весь батч, включая дубликаты email внутри него.
	seen := make(map[string]struct{}, len(inputs))
	for _, input := range inputs {
		candidate := domain.Customer{Name: input.Name, Email: input.Email, Phone: input.Phone}
		if errs := candidate.ValidateInvariants(); len(errs) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", input.Email, errors.Join(errs...)))
			continue
		}
		if _, dup := seen[input.Email]; dup {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", input.Email, domain.ErrEmailExists))
			continue
		}
		seen[input.Email] = struct{}{}

		exists, err := s.customers.EmailExists(input.Email)
		if err != nil {
			return BulkCreateResult{}, fmt.Errorf("check email uniqueness: %w", err)
		}
		if exists {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", input.Email, domain.ErrEmailExists))
		}
	}

	if len(result.Errors) > 0 {
		if s.metrics != nil {
			for range result.Errors {
				s.metrics.RecordBulkFailure()
			}
		}
		return result, nil
	}

	for _, input := range inputs {
		created, err := s.CreateCustomer(ctx, input)
		if err != nil {
			// Гонка с конкурентной вставкой после предварительной проверки.
			s.logger.WithError(err).WithField("email", input.Email).Error("atomic bulk insert failed mid-batch")
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", input.Email, err))
			return result, nil
		}
		result.Customers = append(result.Customers, created.Customer)
	}

	return result, nil
}

// CreateProduct валидирует вход и сохраняет новый товар.
// Порядок проверок фиксирован: цена, затем остаток; первая ошибка
// прерывает операцию без записи.
func (s *Service) CreateProduct(_ context.Context, input CreateProductInput) (domain.Product, error) {
	defer s.observe(opCreateProduct, time.Now())

	if !input.Price.IsPositive() {
		s.recordFailure(domain.ErrPriceNotPositive)
		return domain.Product{}, domain.ErrPriceNotPositive
	}
	if input.Stock < 0 {
		s.recordFailure(domain.ErrStockNegative)
		return domain.Product{}, domain.ErrStockNegative
	}
	if input.Name == "" {
		s.recordFailure(domain.ErrNameRequired)
		return domain.Product{}, domain.ErrNameRequired
	}

	product := domain.Product{
		ID:        uuid.NewString(),
		Name:      input.Name,
		Price:     input.Price,
		Stock:     input.Stock,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.products.Create(product); err != nil {
		s.logger.WithError(err).Error("failed to create product")
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordProductCreated()
	}
	s.enqueueEvent(aggregateProduct, product.ID, string(kafka.EventTypeProductCreated), kafka.ProductEvent{
		EventType: kafka.EventTypeProductCreated,
		ProductID: product.ID,
		Price:     product.Price.StringFixed(2),
		Timestamp: product.CreatedAt,
	})

	return product, nil
}

// CreateOrder разрешает клиента и товары, считает сумму-снимок и сохраняет
// заказ вместе с ассоциациями атомарно.
func (s *Service) CreateOrder(_ context.Context, input CreateOrderInput) (OrderResult, error) {
	defer s.observe(opCreateOrder, time.Now())

	customer, err := s.customers.Get(input.CustomerID)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			s.recordFailure(err)
			return OrderResult{}, err
		}
		s.logger.WithError(err).WithField("customer_id", input.CustomerID).Error("failed to resolve customer")
		return OrderResult{}, fmt.Errorf("resolve customer: %w", err)
	}

	if len(input.ProductIDs) == 0 {
		s.recordFailure(domain.ErrNoValidProducts)
		return OrderResult{}, domain.ErrNoValidProducts
	}

	// Повторы идентификаторов допустимы, но каждый товар учитывается один
	// раз: сверка идёт по уникальным запрошенным идентификаторам.
	uniqueIDs := dedupe(input.ProductIDs)
	products, err := s.products.GetByIDs(uniqueIDs)
	if err != nil {
		s.logger.WithError(err).Error("failed to resolve products")
		return OrderResult{}, fmt.Errorf("resolve products: %w", err)
	}
	if len(products) == 0 {
		s.recordFailure(domain.ErrNoValidProducts)
		return OrderResult{}, domain.ErrNoValidProducts
	}
	if len(products) != len(uniqueIDs) {
		s.recordFailure(domain.ErrProductIDsInvalid)
		return OrderResult{}, domain.ErrProductIDsInvalid
	}

	total := decimal.Zero
	for _, product := range products {
		total = total.Add(product.Price)
	}

	now := time.Now().UTC()
	if input.OrderDate != nil {
		// Переданная дата игнорируется: хранимое значение всегда момент
		// создания. Поведение унаследовано и зафиксировано тестами.
		s.logger.WithField("requested_order_date", input.OrderDate.Format(time.RFC3339)).
			Debug("order_date input is ignored, storing creation time")
	}

	order := domain.Order{
		ID:          uuid.NewString(),
		CustomerID:  customer.ID,
		Products:    products,
		TotalAmount: total,
		OrderDate:   now,
		CreatedAt:   now,
	}

	if errs := order.ValidateInvariants(); len(errs) > 0 {
		s.recordFailure(errors.Join(errs...))
		return OrderResult{}, errors.Join(errs...)
	}

	if err := s.orders.Create(order); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Error("failed to create order")
		return OrderResult{}, fmt.Errorf("create order: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordOrderCreated()
	}
	s.enqueueEvent(aggregateOrder, order.ID, string(kafka.EventTypeOrderCreated), kafka.OrderEvent{
		EventType:   kafka.EventTypeOrderCreated,
		OrderID:     order.ID,
		CustomerID:  customer.ID,
		ProductIDs:  uniqueIDs,
		TotalAmount: total.StringFixed(2),
		Timestamp:   now,
	})

	return OrderResult{Order: order, Customer: customer}, nil
}

// ListCustomers возвращает клиентов по фильтру.
func (s *Service) ListCustomers(_ context.Context, filter domain.CustomerFilter) ([]domain.Customer, error) {
	customers, err := s.customers.List(filter)
	if err != nil {
		s.logger.WithError(err).Error("failed to list customers")
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

// ListProducts возвращает товары по фильтру.
func (s *Service) ListProducts(_ context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	products, err := s.products.List(filter)
	if err != nil {
		s.logger.WithError(err).Error("failed to list products")
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// ListOrders возвращает заказы по фильтру.
func (s *Service) ListOrders(_ context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	orders, err := s.orders.List(filter)
	if err != nil {
		s.logger.WithError(err).Error("failed to list orders")
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// enqueueEvent ставит событие в outbox; сбой постановки не валит операцию,
// так как запись сущности уже зафиксирована.
func (s *Service) enqueueEvent(aggregateType, aggregateID, eventType string, payload any) {
	if s.outbox == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.WithError(err).WithField("event_type", eventType).Warn("failed to marshal outbox payload")
		return
	}

	if _, err := s.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       data,
	}); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"aggregate_id": aggregateID,
			"event_type":   eventType,
		}).Warn("failed to enqueue outbox event")
	}
}

func (s *Service) observe(operation string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordOperationDuration(operation, time.Since(start))
}

func (s *Service) recordFailure(err error) {
	if s.metrics == nil {
		return
	}
	switch {
	case domain.IsConflict(err):
		s.metrics.RecordConflict()
	case domain.IsNotFound(err):
		s.metrics.RecordNotFound()
	case domain.IsInvalid(err):
		s.metrics.RecordInvalidInput()
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
