package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/thebluefish/eureka-notify/internal/eorzea"
	"github.com/thebluefish/eureka-notify/internal/status"
	"github.com/thebluefish/eureka-notify/internal/weather"
)

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Handler serves forecast queries over the reference tables
type Handler struct {
	resolver *weather.Resolver
	reporter *status.Reporter
	logger   *zap.Logger
	now      func() time.Time
}

// NewHandler creates a handler. A nil logger discards logs.
func NewHandler(resolver *weather.Resolver, reporter *status.Reporter, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{resolver: resolver, reporter: reporter, logger: logger, now: time.Now}
}

// NewRouter wires every endpoint onto a chi router with CORS for allowedOrigins
func NewRouter(h *Handler, allowedOrigins []string) chi.Router {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", h.Health)

	r.Get("/api/weather/{zone}", h.GetWeather)
	r.Get("/api/status", h.GetStatus)
	r.Get("/api/status/{condition}", h.GetCondition)
	r.Get("/api/ocean", h.GetOcean)
	r.Get("/api/ocean/next", h.GetNextVoyage)
	return r
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string, details map[string]interface{}) {
	writeJSON(w, code, ErrorResponse{Error: msg, Details: details})
}

// queryTime reads the optional "at" parameter as Unix seconds, defaulting
// to now. Times the weather generator does not cover are rejected.
func (h *Handler) queryTime(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("at")
	if raw == "" {
		return h.now(), nil
	}
	secs, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, errors.New("at must be Unix seconds")
	}
	t := time.Unix(secs, 0).UTC()
	if !eorzea.RealInRange(t) {
		return time.Time{}, fmt.Errorf("at must be between 0 and %d", eorzea.MaxInstant.ToReal().Unix()-1)
	}
	return t, nil
}

// writeSearchError answers a failed forecast computation; a scan that ran
// off the generator's range is the caller's fault
func (h *Handler) writeSearchError(w http.ResponseWriter, msg string, err error, details map[string]interface{}) {
	if details == nil {
		details = map[string]interface{}{}
	}
	if errors.Is(err, eorzea.ErrOutOfRange) {
		details["reason"] = err.Error()
		writeError(w, http.StatusBadRequest, "Search left the supported time range", details)
		return
	}

	h.logger.Error(msg, zap.Error(err))
	details["internal"] = err.Error()
	writeError(w, http.StatusInternalServerError, msg, details)
}

// queryCount reads the optional "count" parameter, bounded to [1, max]
func queryCount(r *http.Request, def, max int) (int, bool) {
	raw := r.URL.Query().Get("count")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > max {
		return 0, false
	}
	return n, true
}
