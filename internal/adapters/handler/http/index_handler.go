package http

import (
	"encoding/json"
	"net/http"
	"time"
)

type IndexHandler struct {
	version string
	now     func() time.Time
}

func NewIndexHandler(version string) *IndexHandler {
	return &IndexHandler{version: version, now: time.Now}
}

type statusResponse struct {
	App       string    `json:"app"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
}

func (h *IndexHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		App:       "votebot",
		Version:   h.version,
		Timestamp: h.now().UTC(),
		Status:    "OK",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
