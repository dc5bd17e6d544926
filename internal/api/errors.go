package api

import (
	"errors"
	"net/http"

	"shareit/internal/database"
	"shareit/internal/models"
)

// statusForError переводит ошибку сервиса в HTTP-статус
func statusForError(err error) int {
	var unknownState *models.UnknownStateError
	switch {
	case errors.As(err, &unknownState):
		return http.StatusBadRequest
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, database.ErrDuplicateEmail),
		errors.Is(err, database.ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, database.ErrValidation),
		errors.Is(err, database.ErrInvalidInterval),
		errors.Is(err, database.ErrNotAvailable),
		errors.Is(err, database.ErrAlreadyApproved),
		errors.Is(err, database.ErrAlreadyDecided):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).Msg("Unhandled service error")
		message = "internal server error"
	}
	writeError(w, status, message)
}
