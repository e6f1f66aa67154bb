package handlers

import (
	"net/http"

	"github.com/thebluefish/eureka-notify/internal/models"
	"github.com/thebluefish/eureka-notify/internal/ocean"
)

const (
	defaultVoyageCount = 12
	maxVoyageCount     = ocean.Period
)

// GetOcean handles GET /api/ocean
// Lists the next count voyages departing at or after "at", optionally only
// those sailing the given route
func (h *Handler) GetOcean(w http.ResponseWriter, r *http.Request) {
	count, ok := queryCount(r, defaultVoyageCount, maxVoyageCount)
	if !ok {
		writeError(w, http.StatusBadRequest, "count must be between 1 and 144", nil)
		return
	}
	at, err := h.queryTime(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	var voyages []ocean.Voyage
	if raw := r.URL.Query().Get("route"); raw != "" {
		route, err := ocean.ParseRoute(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		voyages = ocean.ScheduleOf(at, route, count)
	} else {
		voyages = ocean.Schedule(at, count)
	}
	out := make([]models.Voyage, 0, len(voyages))
	for _, v := range voyages {
		out = append(out, toVoyage(v))
	}

	w.Header().Set("Cache-Control", "public, max-age=60")
	writeJSON(w, http.StatusOK, out)
}

// GetNextVoyage handles GET /api/ocean/next
// The optional tier parameter is a comma separated tier list (default BEST,GOOD)
func (h *Handler) GetNextVoyage(w http.ResponseWriter, r *http.Request) {
	tiers, err := ocean.ParseTiers(r.URL.Query().Get("tier"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if len(tiers) == 0 {
		tiers = ocean.DefaultNotifyTiers
	}
	at, err := h.queryTime(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	v, ok := ocean.NextInTiers(at, tiers...)
	if !ok {
		writeError(w, http.StatusNotFound, "No voyage in the requested tiers", nil)
		return
	}
	writeJSON(w, http.StatusOK, toVoyage(v))
}

func toVoyage(v ocean.Voyage) models.Voyage {
	mv := models.Voyage{
		Departure: v.Departure.UTC(),
		Route:     v.Route.String(),
		Name:      v.Route.Name(),
		Tiers:     []string{},
	}
	for _, t := range v.Route.Tiers() {
		mv.Tiers = append(mv.Tiers, t.String())
	}
	return mv
}
