package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/thebluefish/eureka-notify/internal/eorzea"
	"github.com/thebluefish/eureka-notify/internal/models"
	"github.com/thebluefish/eureka-notify/internal/status"
)

// GetStatus handles GET /api/status
// Returns every named condition relative to the cycle containing "at" (default now)
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	at, err := h.queryTime(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	et := eorzea.FromReal(at)
	report, err := h.reporter.Build(et)
	if err != nil {
		h.writeSearchError(w, "Failed to build status report", err, nil)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=60")
	out := toStatusReport(report)
	out.EorzeaTime = fmt.Sprintf("%02d:%02d", et.Hour(), et.Minute())
	writeJSON(w, http.StatusOK, out)
}

// GetCondition handles GET /api/status/{condition}
// Finds one condition in the given direction ("future" or "past") from "at"
func (h *Handler) GetCondition(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "condition")

	cond, err := status.LookupCondition(name)
	if err != nil {
		details := map[string]interface{}{"condition": name}
		var unknown *status.UnknownConditionError
		if errors.As(err, &unknown) && unknown.Suggestion != "" {
			details["suggestion"] = unknown.Suggestion
		}
		writeError(w, http.StatusNotFound, "Condition not found", details)
		return
	}

	dir, err := status.ParseDirection(r.URL.Query().Get("direction"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	at, err := h.queryTime(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if cond.Run && dir == status.Past {
		writeError(w, http.StatusBadRequest, "run conditions only search forward", map[string]interface{}{
			"condition": cond.Key,
		})
		return
	}

	searcher, ok := h.reporter.Searcher(cond.Key)
	if !ok {
		writeError(w, http.StatusNotFound, "Condition not available", map[string]interface{}{"condition": cond.Key})
		return
	}

	start := eorzea.FromReal(at)
	resp := models.ConditionSearch{
		Key:       cond.Key,
		Name:      cond.Name,
		Zone:      cond.Zone,
		Direction: dir.String(),
		From:      at.UTC(),
	}

	var found eorzea.Instant
	if cond.Run {
		found, resp.Length, err = searcher.Run(start)
	} else {
		found, err = searcher.Status(start, dir)
	}
	if err != nil {
		h.writeSearchError(w, "Failed to search condition", err, map[string]interface{}{"condition": cond.Key})
		return
	}
	resp.At = found.ToReal().UTC()

	writeJSON(w, http.StatusOK, resp)
}

func toStatusReport(r *status.Report) models.StatusReport {
	out := models.StatusReport{At: r.At.ToReal().UTC()}

	for _, z := range r.Zones {
		out.Zones = append(out.Zones, models.ZoneWeather{
			Zone:      strings.TrimPrefix(z.Zone, "Eureka "),
			Current:   z.Current.Name,
			Next:      z.Next.Name,
			NextStart: z.NextStart.ToReal().UTC(),
		})
	}
	for _, c := range r.Conditions {
		out.Conditions = append(out.Conditions, models.ConditionStatus{
			Key:      c.Condition.Key,
			Name:     c.Condition.Name,
			Zone:     c.Condition.Zone,
			Weathers: c.Condition.Weathers,
			Next:     c.Next.ToReal().UTC(),
			Previous: c.Previous.ToReal().UTC(),
			Active:   c.Active,
			Upcoming: c.Upcoming,
		})
	}
	for _, run := range r.Runs {
		out.Runs = append(out.Runs, models.RunStatus{
			Key:      run.Condition.Key,
			Name:     run.Condition.Name,
			Zone:     run.Condition.Zone,
			Start:    run.Start.ToReal().UTC(),
			Length:   run.Length,
			Upcoming: run.Upcoming,
		})
	}
	return out
}
