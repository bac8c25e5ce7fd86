package handlers

import (
	"net/http"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"cinematix/dao/redis"
)

// PreferenceHandler exposes the small persisted user preferences.
type PreferenceHandler struct {
	dao *redis.PreferenceDAO
	log *zap.Logger
}

func NewPreferenceHandler(dao *redis.PreferenceDAO, log *zap.Logger) *PreferenceHandler {
	return &PreferenceHandler{dao: dao, log: log}
}

type installPromptResponse struct {
	Declined bool `json:"declined"`
}

// GetInstallPrompt reports whether the install prompt was declined.
func (h *PreferenceHandler) GetInstallPrompt(w http.ResponseWriter, r *http.Request) {
	declined, err := h.dao.InstallPromptDeclined(r.Context())
	if err != nil {
		h.log.Warn("failed to read install prompt preference", zap.Error(err))
		http.Error(w, "preference read failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(installPromptResponse{Declined: declined}); err != nil {
		h.log.Warn("failed to encode preference response", zap.Error(err))
	}
}

// DeclineInstallPrompt records that the user dismissed the install prompt.
func (h *PreferenceHandler) DeclineInstallPrompt(w http.ResponseWriter, r *http.Request) {
	if err := h.dao.SetInstallPromptDeclined(r.Context(), true); err != nil {
		h.log.Warn("failed to persist install prompt preference", zap.Error(err))
		http.Error(w, "preference write failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
