package middleware

import (
	"encoding/json"
	"net/http"
)

// writeJSONError emits a {"error": msg} body so middleware rejections look
// like handler ones.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
