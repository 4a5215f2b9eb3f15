package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"cargram/internal/httputil"
	"cargram/internal/prefs"
	"cargram/internal/transport/http/middleware"
)

// ThemeResponse is the settings payload for the theme endpoints.
type ThemeResponse struct {
	DarkMode bool `json:"dark_mode"`
}

// SettingsHandler serves per-user preference endpoints.
type SettingsHandler struct {
	prefs prefs.Store
}

func NewSettingsHandler(store prefs.Store) *SettingsHandler {
	return &SettingsHandler{prefs: store}
}

// GetTheme handles GET /settings/theme
func (h *SettingsHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	darkMode, err := h.prefs.GetDarkMode(r.Context(), userID)
	if err != nil {
		log.Printf("[ERROR] GetTheme handler: user=%s err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to load theme")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ThemeResponse{DarkMode: darkMode})
}

// SetTheme handles PUT /settings/theme
func (h *SettingsHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req ThemeResponse
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := h.prefs.SetDarkMode(r.Context(), userID, req.DarkMode); err != nil {
		log.Printf("[ERROR] SetTheme handler: user=%s err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to save theme")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, req)
}
