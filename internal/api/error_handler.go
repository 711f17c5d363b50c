package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/feedboard/social-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors:
// {message, status, data} with data populated only for validation failures.
type errorResponse struct {
	Message string                `json:"message"`
	Status  int                   `json:"status"`
	Data    []domain.FieldProblem `json:"data,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Renders resolver-level APIErrors with their status and problem list.
//   - Maps repository sentinels that escape a resolver to 404.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		resp := resolveError(err, log, c)
		_ = c.JSON(resp.Status, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) errorResponse {
	var ae *domain.APIError
	if errors.As(err, &ae) {
		return errorResponse{Message: ae.Message, Status: ae.Status, Data: ae.Data}
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return errorResponse{Message: fmt.Sprintf("%v", he.Message), Status: he.Code}
	}

	// Repository sentinels that were not translated by a service.
	switch {
	case errors.Is(err, domain.ErrPostNotFound):
		return errorResponse{Message: "No post found", Status: http.StatusNotFound}
	case errors.Is(err, domain.ErrUserNotFound):
		return errorResponse{Message: "No user found", Status: http.StatusNotFound}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return errorResponse{Message: "Internal server error", Status: http.StatusInternalServerError}
}
