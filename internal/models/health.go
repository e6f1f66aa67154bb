package models

import "time"

// Health status constants
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Health is the response of GET /health
type Health struct {
	Status    string    `json:"status"`
	Zones     int       `json:"zones"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error,omitempty"`
}
