package http

import (
	"errors"
	"net/http"

	"relay/internal/core/application/usecases/commands"
	"relay/internal/core/domain/model/parcel"
	"relay/internal/core/domain/model/transit"
	"relay/internal/core/domain/services"
	"relay/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusOf maps domain errors to HTTP status codes. Store rejections of a
// transition are conflicts; the client shows them and does not retry.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrPickupRaceLost),
		errors.Is(err, services.ErrNotEligible),
		errors.Is(err, services.ErrRecordAlreadyOpen),
		errors.Is(err, services.ErrOpenRecordNotFound),
		errors.Is(err, parcel.ErrNotHeldByMover),
		errors.Is(err, transit.ErrRecordIsClosed),
		errors.Is(err, transit.ErrMovementOutOfOrder),
		errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, commands.ErrCategoryIsRequired),
		errors.Is(err, commands.ErrDueDateIsInPast):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c echo.Context, err error) error {
	status := statusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
		message = http.StatusText(status)
	}
	return c.JSON(status, Error{Code: status, Message: message})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}
