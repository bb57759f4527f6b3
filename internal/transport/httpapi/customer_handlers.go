package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/vladislavdragonenkov/crm/internal/service/crm"
)

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondBadRequest(w, "invalid request body")
		return
	}

	result, err := h.service.CreateCustomer(r.Context(), crm.CreateCustomerInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, createCustomerResponse{
		Message:  result.Message,
		Customer: customerToResponse(result.Customer),
	})
}

// bulkCreateCustomers принимает список клиентов; по умолчанию ошибки
// отдельных записей не прерывают обработку остальных.
func (h *Handler) bulkCreateCustomers(w http.ResponseWriter, r *http.Request) {
	var req bulkCreateCustomersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondBadRequest(w, "invalid request body")
		return
	}
	if len(req.Customers) == 0 {
		h.respondBadRequest(w, "customers list is empty")
		return
	}

	inputs := make([]crm.CreateCustomerInput, 0, len(req.Customers))
	for _, c := range req.Customers {
		inputs = append(inputs, crm.CreateCustomerInput{
			Name:  c.Name,
			Email: c.Email,
			Phone: c.Phone,
		})
	}

	result, err := h.service.BulkCreateCustomers(r.Context(), inputs)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, bulkCreateCustomersResponse{
		Customers: customersToResponse(result.Customers),
		Errors:    result.Errors,
	})
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	filter, err := parseCustomerFilter(r)
	if err != nil {
		h.respondBadRequest(w, err.Error())
		return
	}

	customers, err := h.service.ListCustomers(r.Context(), filter)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string][]customerResponse{
		"customers": customersToResponse(customers),
	})
}
