package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mdelacroix/cinetheque/internal/repository"
)

// ErrorBody is the body of every non-2xx response.
type ErrorBody struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// WriteJSON writes data as the JSON response body.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func WriteError(w http.ResponseWriter, status int, code, detail string) {
	WriteJSON(w, status, ErrorBody{Code: code, Detail: detail})
}

// WriteStorageError maps repository sentinels onto HTTP statuses: missing
// rows are 404, a still-referenced company is 409, anything else is 500.
// resource names the entity for the 404 detail ("film", "company", "user").
func WriteStorageError(w http.ResponseWriter, err error, resource string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", resource+" not found")
	case errors.Is(err, repository.ErrCompanyHasFilms):
		WriteError(w, http.StatusConflict, "CONFLICT", "cannot delete company with associated films")
	default:
		WriteError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
	}
}

func ReadJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
