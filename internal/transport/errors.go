package transport

import (
	"errors"
	"net/http"

	"listings-be/internal/criteria"
	"listings-be/internal/favorites"
	"listings-be/internal/listing"
)

var ErrBadQuery = errors.New("malformed query parameters")

type errorResponse struct {
	Error string `json:"error"`
}

func WriteJSONError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, errorResponse{Error: message})
}

// StatusFor maps a service error to the HTTP status reported to clients.
func StatusFor(err error) int {
	var verr *criteria.ValidationError
	switch {
	case errors.As(err, &verr), errors.Is(err, ErrBadQuery), errors.Is(err, favorites.ErrEmptyName):
		return http.StatusBadRequest
	case errors.Is(err, listing.ErrListingNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := StatusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = http.StatusText(code)
	}
	WriteJSONError(w, msg, code)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
