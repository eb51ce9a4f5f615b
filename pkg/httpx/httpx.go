// Package httpx holds the JSON error shape shared by the HTTP controllers.
package httpx

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"krishibondhu/pkg/datasync"
)

func Error(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"error": msg})
}

// StoreError maps datasync sentinel errors to HTTP statuses.
func StoreError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, datasync.ErrNotFound):
		return Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, datasync.ErrDuplicateID):
		return Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, datasync.ErrInvalid):
		return Error(c, http.StatusBadRequest, err.Error())
	}
	return Error(c, http.StatusInternalServerError, err.Error())
}
