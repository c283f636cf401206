package handlers

import (
	"errors"
	"net/http"

	"quizlive/services"
)

// statusFor maps the service error taxonomy onto HTTP statuses:
// not-found lookups to 404, duplicate answers to 409 so clients can
// show "already answered", phase violations and bad input to 400, and
// anything else to 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrGameNotFound),
		errors.Is(err, services.ErrPlayerNotFound),
		errors.Is(err, services.ErrQuestionNotFound),
		errors.Is(err, services.ErrOptionNotFound),
		errors.Is(err, services.ErrQuizNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrAlreadyAnswered):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrNameTaken):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
