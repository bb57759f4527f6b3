package kafka

import "time"

// EventType определяет тип события CRM.
type EventType string

const (
	// Customer события
	EventTypeCustomerCreated EventType = "customer.created"

	// Product события
	EventTypeProductCreated EventType = "product.created"

	// Order события
	EventTypeOrderCreated EventType = "order.created"
)

// Topics для Kafka
const (
	TopicCustomerEvents  = "crm.customer.events"
	TopicProductEvents   = "crm.product.events"
	TopicOrderEvents     = "crm.order.events"
	TopicCRMEvents       = "crm.events"
	TopicDeadLetterQueue = "crm.dlq" // Dead Letter Queue для failed messages
)

// Kafka headers для retry логики
const (
	HeaderRetryCount    = "x-retry-count"
	HeaderOriginalTopic = "x-original-topic"
	HeaderErrorMessage  = "x-error-message"
	HeaderFailedAt      = "x-failed-at"
)

// CustomerEvent представляет событие клиента.
type CustomerEvent struct {
	EventType  EventType `json:"event_type"`
	CustomerID string    `json:"customer_id"`
	Email      string    `json:"email"`
	Timestamp  time.Time `json:"timestamp"`
}

// ProductEvent представляет событие товара.
type ProductEvent struct {
	EventType EventType `json:"event_type"`
	ProductID string    `json:"product_id"`
	Price     string    `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderEvent представляет событие заказа.
type OrderEvent struct {
	EventType   EventType `json:"event_type"`
	OrderID     string    `json:"order_id"`
	CustomerID  string    `json:"customer_id"`
	ProductIDs  []string  `json:"product_ids"`
	TotalAmount string    `json:"total_amount"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewCustomerEvent создает новое событие клиента
func NewCustomerEvent(eventType EventType, customerID, email string) *CustomerEvent {
	return &CustomerEvent{
		EventType:  eventType,
		CustomerID: customerID,
		Email:      email,
		Timestamp:  time.Now(),
	}
}

// NewProductEvent создает новое событие товара
func NewProductEvent(eventType EventType, productID, price string) *ProductEvent {
	return &ProductEvent{
		EventType: eventType,
		ProductID: productID,
		Price:     price,
		Timestamp: time.Now(),
	}
}

// NewOrderEvent создает новое событие заказа
func NewOrderEvent(eventType EventType, orderID, customerID string, productIDs []string, totalAmount string) *OrderEvent {
	return &OrderEvent{
		EventType:   eventType,
		OrderID:     orderID,
		CustomerID:  customerID,
		ProductIDs:  productIDs,
		TotalAmount: totalAmount,
		Timestamp:   time.Now(),
	}
}
