package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/joestump/rwdb/internal/rwdb"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeError writes a JSON error response with the given HTTP status code.
func writeError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{Error: message, Code: code})
}

// writeJSON writes a JSON response with the given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeDBError maps a facade error to a 503 response. The code is the native
// driver code when there is one.
func writeDBError(w http.ResponseWriter, err error) {
	code := "unavailable"
	var ce *rwdb.ConnectionError
	var qe *rwdb.QueryError
	switch {
	case errors.As(err, &ce):
		code = "connection_failed"
		if ce.Code != "" {
			code = ce.Code
		}
	case errors.As(err, &qe):
		code = "query_failed"
		if qe.Code != "" {
			code = qe.Code
		}
	}
	writeError(w, http.StatusServiceUnavailable, err.Error(), code)
}
