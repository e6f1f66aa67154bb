package handlers

import (
	"net/http"

	"github.com/thebluefish/eureka-notify/internal/models"
	"github.com/thebluefish/eureka-notify/internal/status"
)

// Health handles GET /health
// Reports unhealthy when the report zones cannot be resolved from the loaded tables.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.Health{
		Status:    models.StatusOK,
		Zones:     h.resolver.Tables().Maps.Count(),
		Timestamp: h.now().UTC(),
	}

	for _, name := range status.ReportZones {
		if _, err := h.resolver.Resolve(name); err != nil {
			resp.Status = models.StatusError
			resp.Error = err.Error()
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
