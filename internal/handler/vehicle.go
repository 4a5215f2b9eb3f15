package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"cargram/internal/httputil"
	"cargram/internal/model"
	"cargram/internal/service"
	"cargram/internal/transport/http/middleware"
	"cargram/internal/vindecoder"
)

// VehicleHandler serves VIN decode and vehicle store endpoints.
type VehicleHandler struct {
	vehicleService *service.VehicleService
}

func NewVehicleHandler(vehicleService *service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService}
}

// Decode handles POST /vehicles/decode
// Decodes the VIN through the remote service and replaces the caller's
// stored vehicle with the result.
func (h *VehicleHandler) Decode(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.DecodeVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.VIN) == "" {
		httputil.WriteBadRequest(w, "VIN is required")
		return
	}

	vehicle, err := h.vehicleService.DecodeAndSave(r.Context(), userID, req.VIN)
	if err != nil {
		var svcErr *vindecoder.ServiceError
		if errors.As(err, &svcErr) {
			log.Printf("[ERROR] Decode handler: user=%s status=%d", userID, svcErr.Status)
			// The caller displays the raw upstream answer, so pass it through.
			httputil.WriteBadGatewayUpstream(w, "VIN decode service rejected the request", svcErr.Status, svcErr.Body)
			return
		}
		log.Printf("[ERROR] Decode handler: user=%s err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to decode VIN")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, model.VehicleResponse{Vehicle: vehicle})
}

// Save handles PUT /vehicles
// Stores a manually entered vehicle, replacing whatever the user had.
func (h *VehicleHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var vehicle model.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&vehicle); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}
	if strings.TrimSpace(vehicle.VIN) == "" {
		httputil.WriteBadRequest(w, "VIN is required")
		return
	}

	if err := h.vehicleService.Save(r.Context(), userID, &vehicle); err != nil {
		log.Printf("[ERROR] Save vehicle handler: user=%s err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to save vehicle")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, model.VehicleResponse{Vehicle: &vehicle})
}

// GetMine handles GET /vehicles/me
// A user with no vehicle gets {"vehicle": null}, not an error.
func (h *VehicleHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	vehicle, err := h.vehicleService.GetForUser(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] GetMine vehicle handler: user=%s err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to load vehicle")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, model.VehicleResponse{Vehicle: vehicle})
}
