package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/pollbox/api/internal/core/domain"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("error encoding response: %v", err)
	}
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// respondError maps domain errors to HTTP statuses. Anything unclassified
// is logged and surfaced as a generic 500 so backend detail stays inside.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err):
		respondMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrAuthRequired):
		respondMessage(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondMessage(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrPollNotFound):
		respondMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidPollID):
		respondMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidOption):
		respondMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrPollExpired):
		respondMessage(w, http.StatusGone, err.Error())
	case errors.Is(err, domain.ErrAlreadyVoted):
		respondMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrEmailTaken):
		respondMessage(w, http.StatusConflict, err.Error())
	case isStorage(err):
		respondMessage(w, http.StatusInternalServerError, err.Error())
	default:
		log.Printf("internal error: %v", err)
		respondMessage(w, http.StatusInternalServerError, domain.ErrInternal.Error())
	}
}

func isStorage(err error) bool {
	var se *domain.StorageError
	return errors.As(err, &se)
}
