package endpoints

import "net/http"

// State is the host-visible plugin state reported by the status endpoint
type State struct {
	Initialized       bool `json:"initialized"`
	CanShowRewardedAd bool `json:"canShowRewardedAd"`
	NeedsPause        bool `json:"needsPause"`
	NeedsMute         bool `json:"needsMute"`
	TestAds           bool `json:"testAds"`
}

// StateSource provides a snapshot of the current host state
type StateSource interface {
	Snapshot() State
}

// StatusHandler handles GET /status
type StatusHandler struct {
	source StateSource
}

// NewStatusHandler creates a status handler
func NewStatusHandler(source StateSource) *StatusHandler {
	return &StatusHandler{source: source}
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.source.Snapshot())
}
