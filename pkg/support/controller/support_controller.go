package controller

import "github.com/labstack/echo/v4"

type SupportController interface {
	ExpertCall(c echo.Context) error
}
