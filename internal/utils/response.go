package utils

import (
	"encoding/json"
	"net/http"
)

// RespondJSON writes payload as JSON with the given status code
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(payload)
}

// RespondError writes the standard {"msg": ...} error body
func RespondError(w http.ResponseWriter, status int, msg string) error {
	return RespondJSON(w, status, map[string]string{"msg": msg})
}
