package middleware

import (
	"encoding/json"
	"net/http"
)

// WriteDetail writes a {"detail": msg} error body.
func WriteDetail(w http.ResponseWriter, code int, msg string) {
	response, _ := json.Marshal(map[string]string{"detail": msg})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
