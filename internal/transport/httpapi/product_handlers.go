package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/vladislavdragonenkov/crm/internal/service/crm"
)

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondBadRequest(w, "invalid request body")
		return
	}

	product, err := h.service.CreateProduct(r.Context(), crm.CreateProductInput{
		Name:  req.Name,
		Price: req.Price,
		Stock: req.Stock,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, productToResponse(product))
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseProductFilter(r)
	if err != nil {
		h.respondBadRequest(w, err.Error())
		return
	}

	products, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string][]productResponse{
		"products": productsToResponse(products),
	})
}
