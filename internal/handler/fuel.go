package handler

import (
	"log"
	"net/http"

	"cargram/internal/fuel"
	"cargram/internal/httputil"
)

// FuelHandler proxies national average fuel prices.
type FuelHandler struct {
	client *fuel.Client
}

func NewFuelHandler(client *fuel.Client) *FuelHandler {
	return &FuelHandler{client: client}
}

// GetPrices handles GET /fuel-prices
func (h *FuelHandler) GetPrices(w http.ResponseWriter, r *http.Request) {
	prices, err := h.client.GetPrices(r.Context())
	if err != nil {
		log.Printf("[ERROR] GetPrices handler: %v", err)
		httputil.WriteBadGateway(w, "Fuel price service unavailable")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, prices)
}
