package server

import (
	"encoding/json"
	"net/http"

	"github.com/teranos/tripgen/db"
	"github.com/teranos/tripgen/errors"
)

// maxBodyBytes bounds request bodies; scenario documents are small.
const maxBodyBytes = 4 << 20

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return errors.Wrap(err, "failed to encode JSON")
	}
	return nil
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// readJSON reads and decodes a JSON request body, rejecting unknown fields.
// On failure it has already written a 400 response.
func readJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return errors.Wrap(errors.ErrInvalidRequest, err.Error())
	}
	return nil
}

// statusFor maps an error to the HTTP status the API reports for it. A
// closed database means the server is shutting down.
func statusFor(err error) int {
	switch {
	case db.IsDatabaseClosed(err):
		return http.StatusServiceUnavailable
	case errors.IsNotFoundError(err):
		return http.StatusNotFound
	case errors.IsInvalidInput(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
