package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and the gateway return
// these (optionally wrapped) so services can translate them into domain errors.
//
// - ErrNotFound: session or record does not exist (or was never committed)
// - ErrExpired: session outlived its TTL
// - ErrInvalidState: persisted data cannot be decoded or is in the wrong state
// - ErrUnavailable: backing service temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrExpired      = errors.New("expired")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
