package utils

import (
	"encoding/json"
	"net/http"
)

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// WriteFieldErrors returns per-field validation messages in the shape the
// form layer renders: {"errors": {"email": ["..."], "global": ["..."]}}.
func WriteFieldErrors(w http.ResponseWriter, status int, errs map[string][]string) {
	WriteJSON(w, status, map[string]interface{}{"errors": errs})
}
