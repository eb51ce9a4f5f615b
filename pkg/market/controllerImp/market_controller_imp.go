package controllerImp

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"krishibondhu/entities"
	"krishibondhu/pkg/datasync"
	"krishibondhu/pkg/httpx"
	"krishibondhu/pkg/relay"
)

type MarketCtrl struct {
	store *datasync.Store
	relay *relay.Relay
}

func New(store *datasync.Store, r *relay.Relay) *MarketCtrl {
	return &MarketCtrl{store: store, relay: r}
}

// List returns listings, optionally narrowed with ?type=seed|fertilizer|crop|equipment.
func (h *MarketCtrl) List(c echo.Context) error {
	items := h.store.Market()
	if t := c.QueryParam("type"); t != "" {
		want := entities.MarketType(t)
		if !want.Valid() {
			return httpx.Error(c, http.StatusBadRequest, "unknown type")
		}
		out := items[:0]
		for _, m := range items {
			if m.Type == want {
				out = append(out, m)
			}
		}
		items = out
	}
	return c.JSON(http.StatusOK, items)
}

func (h *MarketCtrl) Get(c echo.Context) error {
	m, ok := h.store.MarketItem(c.Param("id"))
	if !ok {
		return httpx.Error(c, http.StatusNotFound, "listing not found")
	}
	return c.JSON(http.StatusOK, m)
}

type contactReq struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Contact relays a buyer's message to the seller of a listing.
func (h *MarketCtrl) Contact(c echo.Context) error {
	m, ok := h.store.MarketItem(c.Param("id"))
	if !ok {
		return httpx.Error(c, http.StatusNotFound, "listing not found")
	}
	var req contactReq
	if err := c.Bind(&req); err != nil {
		return httpx.Error(c, http.StatusBadRequest, "invalid json")
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Phone) == "" {
		return httpx.Error(c, http.StatusBadRequest, "name and phone are required")
	}
	ok = h.relay.Submit(c.Request().Context(), relay.Submission{
		Subject: fmt.Sprintf("Marketplace inquiry: %s (%s)", m.Name, m.Seller),
		Fields: map[string]string{
			"name":     req.Name,
			"phone":    req.Phone,
			"message":  req.Message,
			"item_id":  m.ID,
			"item":     m.Name,
			"price":    m.Price,
			"seller":   m.Seller,
			"location": m.Location,
		},
	})
	return c.JSON(http.StatusOK, echo.Map{"ok": ok})
}

func bindItem(c echo.Context) (entities.MarketItem, error) {
	var in entities.MarketItem
	if err := c.Bind(&in); err != nil {
		return in, errors.New("invalid json")
	}
	if strings.TrimSpace(in.Name) == "" {
		return in, errors.New("name is required")
	}
	if !in.Type.Valid() {
		return in, errors.New("unknown type")
	}
	return in, nil
}

func (h *MarketCtrl) Create(c echo.Context) error {
	in, err := bindItem(c)
	if err != nil {
		return httpx.Error(c, http.StatusBadRequest, err.Error())
	}
	out, err := h.store.AddMarketItem(in)
	if err != nil {
		return httpx.StoreError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *MarketCtrl) Update(c echo.Context) error {
	in, err := bindItem(c)
	if err != nil {
		return httpx.Error(c, http.StatusBadRequest, err.Error())
	}
	in.ID = c.Param("id")
	if err := h.store.UpdateMarketItem(in); err != nil {
		return httpx.StoreError(c, err)
	}
	return c.JSON(http.StatusOK, in)
}

func (h *MarketCtrl) Delete(c echo.Context) error {
	if !h.store.DeleteMarketItem(c.Param("id")) {
		return httpx.Error(c, http.StatusNotFound, "listing not found")
	}
	return c.NoContent(http.StatusNoContent)
}
