// Package endpoints provides HTTP endpoint handlers for the demo server
package endpoints

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Pelican-Party/adlad-plugin-google-ad-placement/internal/adbreak"
	"github.com/Pelican-Party/adlad-plugin-google-ad-placement/internal/plugin"
	"github.com/Pelican-Party/adlad-plugin-google-ad-placement/pkg/logger"
)

// AdService is the plugin surface the ad handlers call into
type AdService interface {
	ShowFullScreenAd(ctx context.Context) (adbreak.Result, error)
	ShowRewardedAd(ctx context.Context) (adbreak.Result, error)
}

// FullScreenHandler handles POST /ads/fullscreen
type FullScreenHandler struct {
	svc AdService
}

// NewFullScreenHandler creates a full-screen ad handler
func NewFullScreenHandler(svc AdService) *FullScreenHandler {
	return &FullScreenHandler{svc: svc}
}

// ServeHTTP runs one full-screen ad attempt and reports the normalized result
func (h *FullScreenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	res, err := h.svc.ShowFullScreenAd(r.Context())
	if err != nil {
		writeAdError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// RewardedHandler handles POST /ads/rewarded
type RewardedHandler struct {
	svc AdService
}

// NewRewardedHandler creates a rewarded ad handler
func NewRewardedHandler(svc AdService) *RewardedHandler {
	return &RewardedHandler{svc: svc}
}

// ServeHTTP invokes the display trigger and reports the normalized result.
// An unavailable rewarded ad is a 200 with didShowAd=false, not an error.
func (h *RewardedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	res, err := h.svc.ShowRewardedAd(r.Context())
	if err != nil {
		writeAdError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// writeAdError maps plugin errors to HTTP status codes
func writeAdError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, plugin.ErrNotInitialized):
		writeError(w, "plugin not initialized", http.StatusServiceUnavailable)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, "request cancelled", http.StatusGatewayTimeout)
	default:
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("Ad request failed")
		writeError(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Warn().Err(err).Msg("Failed to encode response")
	}
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
