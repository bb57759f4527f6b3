package httpapi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

// Денежные значения сериализуются строками, чтобы не терять точность
// на стороне JSON-клиентов.

type createCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type bulkCreateCustomersRequest struct {
	Customers []createCustomerRequest `json:"customers"`
}

type customerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type createCustomerResponse struct {
	Message  string           `json:"message"`
	Customer customerResponse `json:"customer"`
}

type bulkCreateCustomersResponse struct {
	Customers []customerResponse `json:"customers"`
	Errors    []string           `json:"errors"`
}

type createProductRequest struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int32           `json:"stock"`
}

type productResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int32           `json:"stock"`
	CreatedAt time.Time       `json:"created_at"`
}

type createOrderRequest struct {
	CustomerID string   `json:"customer_id"`
	ProductIDs []string `json:"product_ids"`
	OrderDate  string   `json:"order_date,omitempty"`
}

type orderResponse struct {
	ID          string            `json:"id"`
	CustomerID  string            `json:"customer_id"`
	Customer    *customerResponse `json:"customer,omitempty"`
	Products    []productResponse `json:"products"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	OrderDate   time.Time         `json:"order_date"`
	CreatedAt   time.Time         `json:"created_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func customerToResponse(c domain.Customer) customerResponse {
	return customerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
	}
}

func customersToResponse(customers []domain.Customer) []customerResponse {
	result := make([]customerResponse, 0, len(customers))
	for _, c := range customers {
		result = append(result, customerToResponse(c))
	}
	return result
}

func productToResponse(p domain.Product) productResponse {
	return productResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt,
	}
}

func productsToResponse(products []domain.Product) []productResponse {
	result := make([]productResponse, 0, len(products))
	for _, p := range products {
		result = append(result, productToResponse(p))
	}
	return result
}

func orderToResponse(o domain.Order, customer *domain.Customer) orderResponse {
	resp := orderResponse{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		Products:    productsToResponse(o.Products),
		TotalAmount: o.TotalAmount,
		OrderDate:   o.OrderDate,
		CreatedAt:   o.CreatedAt,
	}
	if customer != nil {
		c := customerToResponse(*customer)
		resp.Customer = &c
	}
	return resp
}

func ordersToResponse(orders []domain.Order) []orderResponse {
	result := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		result = append(result, orderToResponse(o, nil))
	}
	return result
}
