package controller

import "github.com/labstack/echo/v4"

type CropController interface {
	List(c echo.Context) error
	Get(c echo.Context) error

	// admin
	Create(c echo.Context) error
	Update(c echo.Context) error
	Delete(c echo.Context) error
	Export(c echo.Context) error
	Import(c echo.Context) error
}
