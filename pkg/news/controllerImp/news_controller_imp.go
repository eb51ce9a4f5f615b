package controllerImp

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"krishibondhu/entities"
	"krishibondhu/pkg/datasync"
	"krishibondhu/pkg/httpx"
	"krishibondhu/pkg/news/ingest"
)

type NewsCtrl struct {
	store   *datasync.Store
	fetcher *ingest.Fetcher
	log     *zap.Logger
}

func New(store *datasync.Store, fetcher *ingest.Fetcher, log *zap.Logger) *NewsCtrl {
	return &NewsCtrl{store: store, fetcher: fetcher, log: log}
}

// List returns the feed, optionally narrowed with ?category=News|Loan|Training.
func (h *NewsCtrl) List(c echo.Context) error {
	items := h.store.News()
	if cat := c.QueryParam("category"); cat != "" {
		want := entities.NewsCategory(cat)
		if !want.Valid() {
			return httpx.Error(c, http.StatusBadRequest, "unknown category")
		}
		out := items[:0]
		for _, n := range items {
			if n.Category == want {
				out = append(out, n)
			}
		}
		items = out
	}
	return c.JSON(http.StatusOK, items)
}

func bindNews(c echo.Context) (entities.NewsItem, error) {
	var in entities.NewsItem
	if err := c.Bind(&in); err != nil {
		return in, errors.New("invalid json")
	}
	if strings.TrimSpace(in.Title) == "" {
		return in, errors.New("title is required")
	}
	if in.Category == "" {
		in.Category = entities.CategoryNews
	}
	if !in.Category.Valid() {
		return in, errors.New("unknown category")
	}
	return in, nil
}

func (h *NewsCtrl) Create(c echo.Context) error {
	in, err := bindNews(c)
	if err != nil {
		return httpx.Error(c, http.StatusBadRequest, err.Error())
	}
	out, err := h.store.AddNews(in)
	if err != nil {
		return httpx.StoreError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *NewsCtrl) Update(c echo.Context) error {
	in, err := bindNews(c)
	if err != nil {
		return httpx.Error(c, http.StatusBadRequest, err.Error())
	}
	in.ID = c.Param("id")
	if err := h.store.UpdateNews(in); err != nil {
		return httpx.StoreError(c, err)
	}
	return c.JSON(http.StatusOK, in)
}

func (h *NewsCtrl) Delete(c echo.Context) error {
	if !h.store.DeleteNews(c.Param("id")) {
		return httpx.Error(c, http.StatusNotFound, "news item not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// ImportURL builds a news item from an article page and adds it to the feed.
// Body: {url, category?, title?}.
func (h *NewsCtrl) ImportURL(c echo.Context) error {
	var body struct {
		URL      string                `json:"url"`
		Category entities.NewsCategory `json:"category"`
		Title    string                `json:"title"`
	}
	if err := c.Bind(&body); err != nil || strings.TrimSpace(body.URL) == "" {
		return httpx.Error(c, http.StatusBadRequest, "url required")
	}
	if body.Category != "" && !body.Category.Valid() {
		return httpx.Error(c, http.StatusBadRequest, "unknown category")
	}

	item, err := h.fetcher.Fetch(c.Request().Context(), body.URL)
	switch {
	case errors.Is(err, ingest.ErrBadURL):
		return httpx.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ingest.ErrDomainNotAllowed):
		return httpx.Error(c, http.StatusForbidden, err.Error())
	case err != nil:
		h.log.Warn("news import failed", zap.String("url", body.URL), zap.Error(err))
		return httpx.Error(c, http.StatusBadGateway, err.Error())
	}
	if body.Category != "" {
		item.Category = body.Category
	}
	if t := strings.TrimSpace(body.Title); t != "" {
		item.Title = t
	}

	out, err := h.store.AddNews(item)
	if err != nil {
		return httpx.StoreError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}
