package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/TWRT/taskdesk/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps the error taxonomy onto status codes: validation 400,
// not found 404, anything else 500.
func writeError(w http.ResponseWriter, err error) {
	var validation *models.ValidationError
	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   validation.Error(),
			"field":   validation.Field,
			"message": validation.Message,
		})
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func readBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Error trying to read the body: " + err.Error(),
		})
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "JSON error: " + err.Error(),
		})
		return false
	}
	return true
}
