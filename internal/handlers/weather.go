package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/thebluefish/eureka-notify/internal/eorzea"
	"github.com/thebluefish/eureka-notify/internal/models"
	"github.com/thebluefish/eureka-notify/internal/weather"
)

const (
	defaultWeatherCount = 6
	maxWeatherCount     = 100
)

// GetWeather handles GET /api/weather/{zone}
// Returns the current cycle and the following count-1 cycles
func (h *Handler) GetWeather(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "zone")

	count, ok := queryCount(r, defaultWeatherCount, maxWeatherCount)
	if !ok {
		writeError(w, http.StatusBadRequest, "count must be between 1 and 100", nil)
		return
	}
	at, err := h.queryTime(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	zone, err := h.resolver.Find(name)
	if err != nil {
		h.zoneError(w, name, err)
		return
	}

	weathers, err := zone.Weathers()
	if err != nil {
		h.zoneError(w, name, err)
		return
	}
	forecast := models.ZoneForecast{Zone: zone.Name(), ID: zone.ID(), Weathers: make([]string, 0, len(weathers))}
	for _, wx := range weathers {
		forecast.Weathers = append(forecast.Weathers, wx.Name)
	}

	cycle := eorzea.FromReal(at).Cycle()
	for i := 0; i < count; i++ {
		wx, err := zone.WeatherAt(cycle)
		if err != nil {
			h.zoneError(w, name, err)
			return
		}
		forecast.Windows = append(forecast.Windows, models.WeatherWindow{
			Start:       cycle.ToReal().UTC(),
			End:         cycle.AddCycles(1).ToReal().UTC(),
			Weather:     wx.Name,
			EorzeaStart: cycle.Timestamp(),
		})
		cycle = cycle.AddCycles(1)
	}

	// A cycle lasts 23m20s; cache for a minute
	w.Header().Set("Cache-Control", "public, max-age=60")
	writeJSON(w, http.StatusOK, forecast)
}

func (h *Handler) zoneError(w http.ResponseWriter, name string, err error) {
	var nf *weather.NotFoundError
	if errors.As(err, &nf) {
		details := map[string]interface{}{"zone": name}
		if nf.Suggestion != "" {
			details["suggestion"] = nf.Suggestion
		}
		writeError(w, http.StatusNotFound, "Zone not found", details)
		return
	}

	h.writeSearchError(w, "Failed to compute weather", err, map[string]interface{}{"zone": name})
}
