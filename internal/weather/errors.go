package weather

import (
	"errors"
	"fmt"
)

// ErrZoneNotFound is returned when a zone name is not in the map table
var ErrZoneNotFound = errors.New("zone not found")

// ConfigurationError reports missing or corrupt reference data.
// It is never transient; callers must not retry.
type ConfigurationError struct {
	Zone   string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("reference data for %q: %s", e.Zone, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// NotFoundError wraps ErrZoneNotFound with the closest known name, if any
type NotFoundError struct {
	Name       string
	Suggestion string
}

func (e *NotFoundError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s: %q (did you mean %q?)", ErrZoneNotFound, e.Name, e.Suggestion)
	}
	return fmt.Sprintf("%s: %q", ErrZoneNotFound, e.Name)
}

func (e *NotFoundError) Unwrap() error {
	return ErrZoneNotFound
}
