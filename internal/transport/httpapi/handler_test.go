package httpapi_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/crm/internal/service/crm"
	"github.com/vladislavdragonenkov/crm/internal/storage/memory"
	"github.com/vladislavdragonenkov/crm/internal/transport/httpapi"
)

func loggerForTests() *log.Entry {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return logger.WithField("component", "httpapi-test")
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	customers := memory.NewCustomerRepository()
	products := memory.NewProductRepository()
	orders := memory.NewOrderRepository(customers)

	service := crm.NewService(customers, products, orders, crm.WithLogger(loggerForTests()))
	handler := httpapi.NewHandler(
		service,
		httpapi.WithLogger(loggerForTests()),
		httpapi.WithIdempotency(memory.NewIdempotencyRepository()),
	)

	server := httptest.NewServer(handler.Routes())
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, server *httptest.Server, method, path string, payload any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, server.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	return resp, raw
}

func createTestCustomer(t *testing.T, server *httptest.Server, name, email string) string {
	t.Helper()

	resp, raw := doJSON(t, server, http.MethodPost, "/api/customers", map[string]string{
		"name":  name,
		"email": email,
		"phone": "+79990000001",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var decoded struct {
		Customer struct {
			ID string `json:"id"`
		} `json:"customer"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.NotEmpty(t, decoded.Customer.ID)
	return decoded.Customer.ID
}

func createTestProduct(t *testing.T, server *httptest.Server, name, price string, stock int32) string {
	t.Helper()

	resp, raw := doJSON(t, server, http.MethodPost, "/api/products", map[string]any{
		"name":  name,
		"price": price,
		"stock": stock,
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var decoded struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.NotEmpty(t, decoded.ID)
	return decoded.ID
}

func TestHandler_CreateCustomer(t *testing.T) {
	server := newTestServer(t)

	resp, raw := doJSON(t, server, http.MethodPost, "/api/customers", map[string]string{
		"name":  "Alice",
		"email": "alice@example.com",
		"phone": "+79990000001",
	}, nil)

	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var decoded struct {
		Message  string `json:"message"`
		Customer struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"customer"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, "customer created successfully", decoded.Message)
	require.NotEmpty(t, decoded.Customer.ID)
	require.Equal(t, "alice@example.com", decoded.Customer.Email)
}

func TestHandler_CreateCustomerStatusMapping(t *testing.T) {
	server := newTestServer(t)
	createTestCustomer(t, server, "Alice", "alice@example.com")

	t.Run("duplicate email is conflict", func(t *testing.T) {
		resp, raw := doJSON(t, server, http.MethodPost, "/api/customers", map[string]string{
			"name":  "Alice Clone",
			"email": "Alice@Example.com",
		}, nil)
		require.Equal(t, http.StatusConflict, resp.StatusCode, string(raw))
	})

	t.Run("validation failure is bad request", func(t *testing.T) {
		resp, raw := doJSON(t, server, http.MethodPost, "/api/customers", map[string]string{
			"name": "No Email",
		}, nil)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, string(raw))

		var decoded struct {
			Error string `json:"error"`
		}
		require.NoError(t, json.Unmarshal(raw, &decoded))
		require.Contains(t, decoded.Error, "email")
	})

	t.Run("malformed body is bad request", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, server.URL+"/api/customers", bytes.NewReader([]byte("{not json")))
		require.NoError(t, err)
		resp, err := server.Client().Do(req)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandler_BulkCreateCustomers(t *testing.T) {
	server := newTestServer(t)
	createTestCustomer(t, server, "Carol", "carol@example.com")

	resp, raw := doJSON(t, server, http.MethodPost, "/api/customers/bulk", map[string]any{
		"customers": []map[string]string{
			{"name": "Bob", "email": "bob@example.com"},
			{"name": "Carol Clone", "email": "carol@example.com"},
		},
	}, nil)

	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var decoded struct {
		Customers []struct {
			Email string `json:"email"`
		} `json:"customers"`
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded.Customers, 1)
	require.Equal(t, "bob@example.com", decoded.Customers[0].Email)
	require.Len(t, decoded.Errors, 1)
	require.Contains(t, decoded.Errors[0], "carol@example.com")
}

func TestHandler_BulkCreateCustomersEmptyList(t *testing.T) {
	server := newTestServer(t)

	resp, raw := doJSON(t, server, http.MethodPost, "/api/customers/bulk", map[string]any{
		"customers": []map[string]string{},
	}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode, string(raw))
}

func TestHandler_CreateOrder(t *testing.T) {
	server := newTestServer(t)

	customerID := createTestCustomer(t, server, "Alice", "alice@example.com")
	laptopID := createTestProduct(t, server, "Laptop", "999.99", 5)
	mouseID := createTestProduct(t, server, "Mouse", "50.00", 10)

	resp, raw := doJSON(t, server, http.MethodPost, "/api/orders", map[string]any{
		"customer_id": customerID,
		"product_ids": []string{laptopID, mouseID},
	}, nil)

	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var decoded struct {
		ID       string `json:"id"`
		Customer struct {
			ID string `json:"id"`
		} `json:"customer"`
		Products []struct {
			Name string `json:"name"`
		} `json:"products"`
		TotalAmount string `json:"total_amount"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.NotEmpty(t, decoded.ID)
	require.Equal(t, customerID, decoded.Customer.ID)
	require.Len(t, decoded.Products, 2)
	require.Equal(t, "1049.99", decoded.TotalAmount)
}

func TestHandler_CreateOrderErrors(t *testing.T) {
	server := newTestServer(t)
	customerID := createTestCustomer(t, server, "Alice", "alice@example.com")
	laptopID := createTestProduct(t, server, "Laptop", "999.99", 5)

	t.Run("unknown customer is not found", func(t *testing.T) {
		resp, raw := doJSON(t, server, http.MethodPost, "/api/orders", map[string]any{
			"customer_id": "missing",
			"product_ids": []string{laptopID},
		}, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode, string(raw))
	})

	t.Run("empty products is bad request", func(t *testing.T) {
		resp, raw := doJSON(t, server, http.MethodPost, "/api/orders", map[string]any{
			"customer_id": customerID,
			"product_ids": []string{},
		}, nil)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, string(raw))
	})

	t.Run("bad order date is bad request", func(t *testing.T) {
		resp, raw := doJSON(t, server, http.MethodPost, "/api/orders", map[string]any{
			"customer_id": customerID,
			"product_ids": []string{laptopID},
			"order_date":  "yesterday",
		}, nil)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, string(raw))
	})
}

func TestHandler_ListCustomersFilters(t *testing.T) {
	server := newTestServer(t)
	createTestCustomer(t, server, "John Smith", "john@example.com")
	createTestCustomer(t, server, "Joan Brown", "joan@example.com")
	createTestCustomer(t, server, "Alice Green", "alice@example.com")

	resp, raw := doJSON(t, server, http.MethodGet, "/api/customers?name=jo", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var decoded struct {
		Customers []struct {
			Name string `json:"name"`
		} `json:"customers"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded.Customers, 2)
}

func TestHandler_ListProductsFilters(t *testing.T) {
	server := newTestServer(t)
	createTestProduct(t, server, "Laptop", "999.99", 5)
	createTestProduct(t, server, "Mouse", "50.00", 10)
	createTestProduct(t, server, "Keyboard", "120.00", 3)

	resp, raw := doJSON(t, server, http.MethodGet, "/api/products?price_min=100&price_max=1000", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var decoded struct {
		Products []struct {
			Name string `json:"name"`
		} `json:"products"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded.Products, 2)
}

func TestHandler_ListProductsBadFilter(t *testing.T) {
	server := newTestServer(t)

	resp, raw := doJSON(t, server, http.MethodGet, "/api/products?price_min=cheap", nil, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode, string(raw))

	var decoded struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Contains(t, decoded.Error, "price_min")
}

func TestHandler_ListOrdersFilters(t *testing.T) {
	server := newTestServer(t)

	aliceID := createTestCustomer(t, server, "Alice Smith", "alice@example.com")
	bobID := createTestCustomer(t, server, "Bob Jones", "bob@example.com")
	laptopID := createTestProduct(t, server, "Laptop", "999.99", 5)
	mouseID := createTestProduct(t, server, "Mouse", "50.00", 10)

	for _, order := range []map[string]any{
		{"customer_id": aliceID, "product_ids": []string{laptopID}},
		{"customer_id": bobID, "product_ids": []string{mouseID}},
	} {
		resp, raw := doJSON(t, server, http.MethodPost, "/api/orders", order, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	}

	var decoded struct {
		Orders []struct {
			CustomerID string `json:"customer_id"`
		} `json:"orders"`
	}

	resp, raw := doJSON(t, server, http.MethodGet, "/api/orders?customer_name=smith", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded.Orders, 1)
	require.Equal(t, aliceID, decoded.Orders[0].CustomerID)

	resp, raw = doJSON(t, server, http.MethodGet, "/api/orders?total_min=100", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded.Orders, 1)

	resp, raw = doJSON(t, server, http.MethodGet, "/api/orders?product_name=laptop", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded.Orders, 1)
}

func TestHandler_IdempotentCreateCustomer(t *testing.T) {
	server := newTestServer(t)

	payload := map[string]string{
		"name":  "Alice",
		"email": "alice@example.com",
	}
	headers := map[string]string{"Idempotency-Key": "create-alice-1"}

	first, firstRaw := doJSON(t, server, http.MethodPost, "/api/customers", payload, headers)
	require.Equal(t, http.StatusCreated, first.StatusCode, string(firstRaw))

	second, secondRaw := doJSON(t, server, http.MethodPost, "/api/customers", payload, headers)
	require.Equal(t, http.StatusCreated, second.StatusCode, string(secondRaw))
	require.Equal(t, "true", second.Header.Get("Idempotency-Replayed"))
	require.JSONEq(t, string(firstRaw), string(secondRaw))

	// Повтор не создаёт второго клиента.
	resp, raw := doJSON(t, server, http.MethodGet, "/api/customers", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var decoded struct {
		Customers []struct {
			ID string `json:"id"`
		} `json:"customers"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded.Customers, 1)
}

func TestHandler_IdempotencyKeyReuseWithDifferentBody(t *testing.T) {
	server := newTestServer(t)
	headers := map[string]string{"Idempotency-Key": "shared-key"}

	first, firstRaw := doJSON(t, server, http.MethodPost, "/api/customers", map[string]string{
		"name":  "Alice",
		"email": "alice@example.com",
	}, headers)
	require.Equal(t, http.StatusCreated, first.StatusCode, string(firstRaw))

	second, secondRaw := doJSON(t, server, http.MethodPost, "/api/customers", map[string]string{
		"name":  "Bob",
		"email": "bob@example.com",
	}, headers)
	require.Equal(t, http.StatusConflict, second.StatusCode, string(secondRaw))

	var decoded struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(secondRaw, &decoded))
	require.Contains(t, decoded.Error, "different request payload")
}

func TestHandler_IdempotencyReplaysFailures(t *testing.T) {
	server := newTestServer(t)
	createTestCustomer(t, server, "Alice", "alice@example.com")

	payload := map[string]string{
		"name":  "Alice Clone",
		"email": "alice@example.com",
	}
	headers := map[string]string{"Idempotency-Key": "dup-alice"}

	first, firstRaw := doJSON(t, server, http.MethodPost, "/api/customers", payload, headers)
	require.Equal(t, http.StatusConflict, first.StatusCode, string(firstRaw))

	second, secondRaw := doJSON(t, server, http.MethodPost, "/api/customers", payload, headers)
	require.Equal(t, http.StatusConflict, second.StatusCode, string(secondRaw))
	require.Equal(t, "true", second.Header.Get("Idempotency-Replayed"))
	require.JSONEq(t, string(firstRaw), string(secondRaw))
}

func TestHandler_RequestsWithoutIdempotencyKeyAreIndependent(t *testing.T) {
	server := newTestServer(t)

	for i := 0; i < 2; i++ {
		resp, raw := doJSON(t, server, http.MethodPost, "/api/customers", map[string]string{
			"name":  fmt.Sprintf("Customer %d", i),
			"email": fmt.Sprintf("customer%d@example.com", i),
		}, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	}
}
