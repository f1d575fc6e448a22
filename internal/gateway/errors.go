package gateway

import (
	"errors"
	"fmt"
)

// Category normalizes why a backend call failed.
type Category string

const (
	CategoryTimeout        Category = "timeout"
	CategoryProviderOutage Category = "provider_outage"
	CategoryBadStatus      Category = "bad_status"
	CategoryBadData        Category = "bad_data"
	CategoryCircuitOpen    Category = "circuit_open"
	CategoryCanceled       Category = "canceled"
)

// Error is returned for every failed backend call.
type Error struct {
	Category   Category
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	switch e.Category {
	case CategoryBadStatus:
		return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
	case CategoryTimeout:
		return fmt.Sprintf("%s: request timed out", e.Endpoint)
	case CategoryCircuitOpen:
		return fmt.Sprintf("%s: circuit open", e.Endpoint)
	case CategoryCanceled:
		return fmt.Sprintf("%s: request canceled", e.Endpoint)
	case CategoryBadData:
		return fmt.Sprintf("%s: invalid response body: %v", e.Endpoint, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CategoryOf returns the category of err, or "" when err is not a gateway error.
func CategoryOf(err error) Category {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Category
	}
	return ""
}

// countsAgainstBreaker reports whether the failure says the upstream is unhealthy.
func (e *Error) countsAgainstBreaker() bool {
	switch e.Category {
	case CategoryTimeout, CategoryProviderOutage:
		return true
	case CategoryBadStatus:
		return e.StatusCode >= 500 || e.StatusCode == 429
	default:
		return false
	}
}
