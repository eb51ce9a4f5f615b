package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"krishibondhu/pkg/admin/controller"
	"krishibondhu/pkg/datasync"
	"krishibondhu/pkg/httpx"
	"krishibondhu/pkg/middleware"
)

type adminCtrl struct {
	store    *datasync.Store
	password string
	log      *zap.Logger
}

func NewAdminController(store *datasync.Store, password string, log *zap.Logger) controller.AdminController {
	return &adminCtrl{store: store, password: password, log: log}
}

// Login checks the shared admin password and stores it in the admin_token cookie.
func (h *adminCtrl) Login(c echo.Context) error {
	var body struct {
		Password string `json:"password" form:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return httpx.Error(c, http.StatusBadRequest, "invalid body")
	}
	if !middleware.ValidAdminToken(h.password, body.Password) {
		h.log.Warn("admin login rejected", zap.String("remote_ip", c.RealIP()))
		return httpx.Error(c, http.StatusUnauthorized, "wrong password")
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.AdminCookie,
		Value:    body.Password,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	return c.JSON(http.StatusOK, map[string]bool{"admin": true})
}

func (h *adminCtrl) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{Name: middleware.AdminCookie, Value: "", Path: "/", MaxAge: -1})
	return c.NoContent(http.StatusNoContent)
}

func (h *adminCtrl) Session(c echo.Context) error {
	admin, _ := c.Get("admin").(bool)
	return c.JSON(http.StatusOK, map[string]bool{"admin": admin})
}

// Reset wipes local data, restores the built-in set and starts a fresh remote refresh.
func (h *adminCtrl) Reset(c echo.Context) error {
	if err := h.store.ResetAll(); err != nil {
		h.log.Error("reset failed", zap.Error(err))
		return httpx.Error(c, http.StatusInternalServerError, err.Error())
	}
	h.store.Initialize()
	return c.JSON(http.StatusOK, h.store.Status())
}

func (h *adminCtrl) SyncStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Status())
}
