// Package response writes the JSON envelope every endpoint answers with:
//
//	{"status":200,"message":"...","data":...,"errors":{...},"error":"..."}
package response

import (
	"encoding/json"
	"net/http"
)

// Envelope is exported so clients and tests can decode responses.
type Envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// JSON writes body as-is with the given status.
func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

func write(w http.ResponseWriter, body Envelope) {
	JSON(w, body.Status, body)
}

// Success sends a 200 JSON response with data.
func Success(w http.ResponseWriter, data any) {
	write(w, Envelope{Status: http.StatusOK, Data: data})
}

// SuccessMessage sends a 200 with a message alongside the data.
func SuccessMessage(w http.ResponseWriter, message string, data any) {
	write(w, Envelope{Status: http.StatusOK, Message: message, Data: data})
}

// Created sends a 201 JSON response with data.
func Created(w http.ResponseWriter, message string, data any) {
	write(w, Envelope{Status: http.StatusCreated, Message: message, Data: data})
}

// Error sends a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, Envelope{Status: status, Message: message})
}

// Internal sends a 500 carrying the underlying error text.
func Internal(w http.ResponseWriter, err error) {
	body := Envelope{Status: http.StatusInternalServerError, Message: "Server error"}
	if err != nil {
		body.Error = err.Error()
	}
	write(w, body)
}

// ValidationError sends a 422 with field-level error map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	write(w, Envelope{
		Status:  http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  errs,
	})
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, message)
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}
