package mockbackend

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// messageBody is the { message } shape used for signup confirmations and
// every error response, matching what the client's error mapping decodes.
type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; nothing left to do but log.
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageBody{Message: message})
}
