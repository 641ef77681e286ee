package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"kanban-api/usecase"
)

type fieldErrorsResponse struct {
	Errors map[string]string `json:"errors"`
}

type messageResponse struct {
	Error string `json:"error"`
}

// writeError maps a usecase failure onto the wire. Validation failures carry
// the full field map so clients can render every violation at once;
// everything unclassified is a 500.
func writeError(c echo.Context, err error) error {
	var invalid usecase.InvalidInputError
	if errors.As(err, &invalid) {
		return c.JSON(http.StatusBadRequest, fieldErrorsResponse{Errors: invalid.Fields})
	}
	var notFound usecase.EntityNotFoundError
	if errors.As(err, &notFound) {
		return c.JSON(http.StatusNotFound, messageResponse{Error: notFound.Error()})
	}
	var unauthorized usecase.UnauthorizedError
	if errors.As(err, &unauthorized) {
		return c.JSON(http.StatusUnauthorized, messageResponse{Error: unauthorized.Error()})
	}
	var conflict usecase.ConflictError
	if errors.As(err, &conflict) {
		return c.JSON(http.StatusConflict, fieldErrorsResponse{
			Errors: map[string]string{conflict.Field: conflict.Message},
		})
	}

	c.Logger().Error(err)
	return c.JSON(http.StatusInternalServerError, messageResponse{Error: "internal error"})
}
