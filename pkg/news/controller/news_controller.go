package controller

import "github.com/labstack/echo/v4"

type NewsController interface {
	List(c echo.Context) error

	// admin
	Create(c echo.Context) error
	Update(c echo.Context) error
	Delete(c echo.Context) error
	ImportURL(c echo.Context) error
}
