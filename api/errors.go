package api

import (
	"errors"
	"net/http"

	"ynovair/internal/domain"

	"github.com/gin-gonic/gin"
)

// statusForError maps the core error taxonomy to HTTP status codes. The
// core returns structured errors only; the message text is surfaced
// verbatim.
func statusForError(err error) int {
	var missing domain.MissingFieldError
	switch {
	case errors.Is(err, domain.ErrFlightNotFound), errors.Is(err, domain.ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyCancelled),
		errors.Is(err, domain.ErrInsufficientSeats),
		errors.Is(err, domain.ErrFlightNotBookable),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrPersistence):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrReferenceExhausted):
		return http.StatusInternalServerError
	case errors.Is(err, domain.ErrInvalidPassengerCount),
		errors.Is(err, domain.ErrBaggageOverweight),
		errors.As(err, &missing):
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusForError(err), gin.H{"error": err.Error()})
}
