package controller

import "github.com/labstack/echo/v4"

type AdminController interface {
	Login(c echo.Context) error
	Logout(c echo.Context) error
	Session(c echo.Context) error
	Reset(c echo.Context) error
	SyncStatus(c echo.Context) error
}
