package controller

import "github.com/labstack/echo/v4"

type AdController interface {
	Active(c echo.Context) error

	// admin
	List(c echo.Context) error
	Save(c echo.Context) error
	Delete(c echo.Context) error
}
