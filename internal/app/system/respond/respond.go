// Package respond writes the JSON envelope every API endpoint returns:
//
//	{ "success": true,  "data": ... }
//	{ "success": false, "error": { "code": "NOT_FOUND", "message": "...", "details": "..." } }
package respond

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/dalemusser/campushub/internal/app/system/apperr"
	"github.com/dalemusser/campushub/internal/app/system/limits"
	"go.uber.org/zap"
)

// Envelope is the response body shape.
type Envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

// APIError is the error half of Envelope.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// JSON writes data wrapped in a success envelope.
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Envelope{Success: status >= 200 && status < 300, Data: data})
}

// OK is JSON with 200.
func OK(w http.ResponseWriter, data any) { JSON(w, http.StatusOK, data) }

// Created is JSON with 201.
func Created(w http.ResponseWriter, data any) { JSON(w, http.StatusCreated, data) }

// Error writes err as an error envelope. Classified errors keep their
// message; anything else becomes a 500 with a generic message. Server
// faults are logged with the request path.
func Error(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		ae = apperr.Server("internal server error", err)
	}

	status := StatusFor(ae.Kind)
	body := &APIError{Code: ae.Kind.String(), Message: ae.Message}

	if ae.Kind == apperr.KindServer {
		if log != nil {
			log.Error("request failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("message", ae.Message),
				zap.Error(ae.Err))
		}
		if ae.Err != nil {
			body.Details = shortDetail(ae.Err)
		}
	}

	write(w, status, Envelope{Success: false, Error: body})
}

// TooManyRequests writes a 429 with a Retry-After hint in whole seconds.
func TooManyRequests(w http.ResponseWriter, retryAfter time.Duration) {
	secs := int(retryAfter.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(secs))
	write(w, http.StatusTooManyRequests, Envelope{Success: false, Error: &APIError{
		Code:    "RATE_LIMITED",
		Message: "too many requests, slow down",
	}})
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(k apperr.Kind) int {
	switch k {
	case apperr.KindClient:
		return http.StatusBadRequest
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindAuthorization:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Decode reads a JSON body into v. Malformed or empty bodies are client
// errors.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, limits.MaxJSONBody))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Client("request body is required")
		}
		return apperr.Client("request body is not valid JSON")
	}
	return nil
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// maxDetail caps Details in bytes; the cut never splits a rune.
const maxDetail = 200

func shortDetail(err error) string {
	s := err.Error()
	if len(s) <= maxDetail {
		return s
	}
	n := maxDetail
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
