package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"krishibondhu/pkg/datasync"
)

type WeatherCtrl struct{ store *datasync.Store }

func NewWeatherCtrl(store *datasync.Store) *WeatherCtrl { return &WeatherCtrl{store: store} }

func (h *WeatherCtrl) Forecast(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Weather())
}
