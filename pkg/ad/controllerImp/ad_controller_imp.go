package controllerImp

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"

	"krishibondhu/entities"
	"krishibondhu/pkg/datasync"
	"krishibondhu/pkg/httpx"
)

type AdCtrl struct{ store *datasync.Store }

func New(store *datasync.Store) *AdCtrl { return &AdCtrl{store: store} }

// Active returns the ad shown in a slot, or 204 when the slot is empty.
func (h *AdCtrl) Active(c echo.Context) error {
	a, ok := h.store.ActiveAd(c.Param("position"))
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *AdCtrl) List(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"positions": entities.AdPositions,
		"ads":       h.store.Ads(),
	})
}

// Save stores the ad for its slot, replacing whatever the slot held.
func (h *AdCtrl) Save(c echo.Context) error {
	var in entities.AdItem
	if err := c.Bind(&in); err != nil {
		return httpx.Error(c, http.StatusBadRequest, "invalid json")
	}
	if !slices.Contains(entities.AdPositions, in.PositionID) {
		return httpx.Error(c, http.StatusBadRequest, "unknown positionId")
	}
	if in.Type != "" && in.Type != entities.AdAdSense && in.Type != entities.AdImage {
		return httpx.Error(c, http.StatusBadRequest, "unknown ad type")
	}
	out, err := h.store.SaveAd(in)
	if err != nil {
		return httpx.StoreError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdCtrl) Delete(c echo.Context) error {
	if !h.store.DeleteAd(c.Param("id")) {
		return httpx.Error(c, http.StatusNotFound, "ad not found")
	}
	return c.NoContent(http.StatusNoContent)
}
