// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Success responses for writes and every error response share one
// envelope, so clients always know what to look for:
//
//	{ "status": "ok", "message": "Employee created successfully", "id": 1 }
//	{ "status": "error", "error": "Invalid input data", "fields": ["name"] }
package response

import (
	"encoding/json"
	"net/http"
)

// Response is the standard envelope.
type Response struct {
	Status  string   `json:"status"`
	Message string   `json:"message,omitempty"`
	ID      int64    `json:"id,omitempty"`
	Error   string   `json:"error,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Messages sent to clients. Storage details never leave the server.
const (
	MsgInvalidInput  = "Invalid input data"
	MsgInternalError = "Internal Server Error"
	MsgNotFound      = "Employee not found"
)

// WriteJSON writes data as JSON with the given HTTP status code.
// Header() must be set before WriteHeader(), and WriteHeader() before
// the body, or the header changes are silently dropped.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// OK wraps a confirmation message.
func OK(message string) Response {
	return Response{Status: StatusOK, Message: message}
}

// Created is OK plus the id the database assigned.
func Created(message string, id int64) Response {
	return Response{Status: StatusOK, Message: message, ID: id}
}

// GeneralError wraps a client-facing message into the error envelope.
// Pass a fixed message, not err.Error(), for server-side failures.
func GeneralError(message string) Response {
	return Response{Status: StatusError, Error: message}
}

// ValidationError lists the request fields that failed validation.
func ValidationError(fields []string) Response {
	return Response{
		Status: StatusError,
		Error:  MsgInvalidInput,
		Fields: fields,
	}
}
