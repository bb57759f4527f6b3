package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/vladislavdragonenkov/crm/internal/service/crm"
)

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondBadRequest(w, "invalid request body")
		return
	}

	orderDate, err := parseOptionalTime(req.OrderDate)
	if err != nil {
		h.respondBadRequest(w, "invalid order_date: expected RFC3339 or YYYY-MM-DD")
		return
	}

	result, err := h.service.CreateOrder(r.Context(), crm.CreateOrderInput{
		CustomerID: req.CustomerID,
		ProductIDs: req.ProductIDs,
		OrderDate:  orderDate,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, orderToResponse(result.Order, &result.Customer))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	filter, err := parseOrderFilter(r)
	if err != nil {
		h.respondBadRequest(w, err.Error())
		return
	}

	orders, err := h.service.ListOrders(r.Context(), filter)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string][]orderResponse{
		"orders": ordersToResponse(orders),
	})
}
