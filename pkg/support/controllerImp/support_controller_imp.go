package controllerImp

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"krishibondhu/pkg/httpx"
	"krishibondhu/pkg/middleware"
	"krishibondhu/pkg/relay"
)

type SupportCtrl struct{ relay *relay.Relay }

func New(r *relay.Relay) *SupportCtrl { return &SupportCtrl{relay: r} }

type expertCallReq struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Crop     string `json:"crop"`
	Problem  string `json:"problem"`
}

// ExpertCall asks an agronomist to call the farmer back.
func (h *SupportCtrl) ExpertCall(c echo.Context) error {
	var req expertCallReq
	if err := c.Bind(&req); err != nil {
		return httpx.Error(c, http.StatusBadRequest, "invalid json")
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Phone) == "" {
		return httpx.Error(c, http.StatusBadRequest, "name and phone are required")
	}
	ok := h.relay.Submit(c.Request().Context(), relay.Submission{
		Subject: "Expert call request: " + strings.TrimSpace(req.Name),
		Fields: map[string]string{
			"name":     req.Name,
			"phone":    req.Phone,
			"location": req.Location,
			"crop":     req.Crop,
			"problem":  req.Problem,
			"lang":     string(middleware.LangOf(c)),
		},
	})
	return c.JSON(http.StatusOK, echo.Map{"ok": ok})
}
