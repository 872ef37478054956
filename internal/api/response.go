package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
)

// Rejection status codes carried in the error response body so the UI can
// branch behavior (distinct "come back later" message for rate limits).
const (
	statusRateLimited = "rate_limited"
	statusInvalid     = "invalid"
	statusError       = "error"
)

// answerResponse is the success body for /api/ask.
type answerResponse struct {
	Answer    string `json:"answer"`
	Remaining int    `json:"remaining_messages,omitempty"`
}

// errorResponse is the failure body for every endpoint.
type errorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

// writeJSON writes a JSON response with the given status code. Encoding into
// a buffer first means headers are only sent after successful encoding.
func writeJSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		// Client disconnects are common and expected.
		logger.Debug("failed to write response body", "error", err)
	}
}

// writeError writes a JSON error response with a reason status the caller
// can branch on.
func writeError(w http.ResponseWriter, httpStatus int, message, status string, logger *slog.Logger) {
	writeJSON(w, httpStatus, errorResponse{Error: message, Status: status}, logger)
}
