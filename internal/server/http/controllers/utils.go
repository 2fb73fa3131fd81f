package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// maxFilterLen bounds the filter query parameter so arbitrary clients cannot
// feed the expression compiler unbounded input.
const maxFilterLen = 2048

// writeJSON writes v as a JSON response. The dashboard polls these endpoints,
// so responses are marked uncacheable.
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// writeError writes a JSON error body with the given status.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// parseOffset reads an offset query value. Absent, malformed, and negative
// values all mean "from the start".
func parseOffset(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
