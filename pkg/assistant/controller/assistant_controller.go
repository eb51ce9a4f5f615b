package controller

import "github.com/labstack/echo/v4"

type AssistantController interface {
	Diagnose(c echo.Context) error
	Chat(c echo.Context) error
}
