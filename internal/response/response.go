// Package response defines the uniform success/failure envelope returned by
// every service call. Services never leak errors across their public
// boundary; every exit path becomes an envelope.
package response

import (
	"encoding/json"
	"net/http"
)

// Status marks an envelope as a success or a failure.
type Status string

const (
	StatusSuccess Status = "Success"
	StatusFailed  Status = "Failed"
)

// Envelope is the uniform wrapper around a service result. Payload is nil on
// failure; StatusCode is the HTTP status the transport should use.
type Envelope[T any] struct {
	Status     Status `json:"status"`
	Message    string `json:"message"`
	Payload    T      `json:"payload"`
	StatusCode int    `json:"statusCode"`
}

// Success builds a success envelope with the given payload.
func Success[T any](message string, payload T, statusCode int) Envelope[T] {
	return Envelope[T]{Status: StatusSuccess, Message: message, Payload: payload, StatusCode: statusCode}
}

// Failure builds a failure envelope. The payload is the zero value of T,
// which marshals to null for pointer and slice payloads.
func Failure[T any](message string, statusCode int) Envelope[T] {
	return Envelope[T]{Status: StatusFailed, Message: message, StatusCode: statusCode}
}

// Write renders the envelope as JSON with its own status code.
func (e Envelope[T]) Write(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(e)
}
