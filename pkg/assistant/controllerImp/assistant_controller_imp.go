package controllerImp

import (
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"krishibondhu/entities"
	"krishibondhu/pkg/ai"
	"krishibondhu/pkg/httpx"
	"krishibondhu/pkg/middleware"
)

const maxImageBytes = 8 << 20

type AssistantCtrl struct{ ai ai.Client }

func New(client ai.Client) *AssistantCtrl { return &AssistantCtrl{ai: client} }

type diagnoseJSON struct {
	Image    string `json:"image"` // base64, optionally a data: URL
	MimeType string `json:"mimeType"`
	Lang     string `json:"lang"`
}

// Diagnose accepts a multipart "image" file or a JSON body with a base64 image.
func (h *AssistantCtrl) Diagnose(c echo.Context) error {
	lang := middleware.LangOf(c)
	var (
		img  []byte
		mime string
	)
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		fh, err := c.FormFile("image")
		if err != nil {
			return httpx.Error(c, http.StatusBadRequest, "image required")
		}
		if fh.Size > maxImageBytes {
			return httpx.Error(c, http.StatusRequestEntityTooLarge, "image too large")
		}
		f, err := fh.Open()
		if err != nil {
			return httpx.Error(c, http.StatusBadRequest, err.Error())
		}
		defer f.Close()
		if img, err = io.ReadAll(io.LimitReader(f, maxImageBytes)); err != nil {
			return httpx.Error(c, http.StatusBadRequest, err.Error())
		}
		mime = fh.Header.Get(echo.HeaderContentType)
		if l := c.FormValue("lang"); l != "" {
			lang = entities.ParseLanguage(l)
		}
	} else {
		var req diagnoseJSON
		if err := c.Bind(&req); err != nil {
			return httpx.Error(c, http.StatusBadRequest, "invalid json")
		}
		var err error
		img, mime, err = decodeImage(req.Image)
		if err != nil {
			return httpx.Error(c, http.StatusBadRequest, "image must be base64")
		}
		if req.MimeType != "" {
			mime = req.MimeType
		}
		if req.Lang != "" {
			lang = entities.ParseLanguage(req.Lang)
		}
	}
	if len(img) == 0 {
		return httpx.Error(c, http.StatusBadRequest, "image required")
	}
	if !strings.HasPrefix(mime, "image/") {
		mime = ai.DefaultImageMIME
	}

	result := h.ai.DiagnoseImage(c.Request().Context(), img, mime, lang)
	return c.JSON(http.StatusOK, echo.Map{"result": result, "lang": lang})
}

// decodeImage accepts raw base64 or a data URL and returns the bytes and any declared type.
func decodeImage(s string) ([]byte, string, error) {
	mime := ""
	if rest, ok := strings.CutPrefix(s, "data:"); ok {
		meta, data, found := strings.Cut(rest, ",")
		if !found {
			return nil, "", base64.CorruptInputError(0)
		}
		mime, _, _ = strings.Cut(meta, ";")
		s = data
	}
	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	return b, mime, err
}

type chatReq struct {
	Message string                 `json:"message"`
	History []entities.ChatMessage `json:"history"`
	Lang    string                 `json:"lang"`
}

// Chat answers message in the context of history and returns the history with
// both new turns appended.
func (h *AssistantCtrl) Chat(c echo.Context) error {
	var req chatReq
	if err := c.Bind(&req); err != nil {
		return httpx.Error(c, http.StatusBadRequest, "invalid json")
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return httpx.Error(c, http.StatusBadRequest, "message required")
	}
	lang := middleware.LangOf(c)
	if req.Lang != "" {
		lang = entities.ParseLanguage(req.Lang)
	}

	reply := h.ai.Chat(c.Request().Context(), req.Message, req.History, lang)

	history := make([]entities.ChatMessage, 0, len(req.History)+2)
	history = append(history, req.History...)
	history = append(history,
		entities.ChatMessage{ID: uuid.NewString(), Role: entities.RoleUser, Text: req.Message},
		entities.ChatMessage{ID: uuid.NewString(), Role: entities.RoleModel, Text: reply},
	)
	return c.JSON(http.StatusOK, echo.Map{"reply": reply, "history": history})
}
