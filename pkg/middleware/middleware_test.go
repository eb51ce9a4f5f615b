package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"krishibondhu/entities"
	"krishibondhu/pkg/middleware"
)

func resolve(t *testing.T, req *http.Request) (entities.Language, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var got entities.Language
	h := middleware.Lang()(func(c echo.Context) error {
		got = middleware.LangOf(c)
		return c.NoContent(http.StatusOK)
	})
	rec := httptest.NewRecorder()
	assert.NoError(t, h(e.NewContext(req, rec)))
	return got, rec
}

func TestLangResolution(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	lang, _ := resolve(t, req)
	assert.Equal(t, entities.LangBN, lang)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-GB,en;q=0.8")
	lang, _ = resolve(t, req)
	assert.Equal(t, entities.LangEN, lang)

	// cookie beats Accept-Language
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-GB")
	req.AddCookie(&http.Cookie{Name: "lang", Value: "bn"})
	lang, _ = resolve(t, req)
	assert.Equal(t, entities.LangBN, lang)

	// query beats cookie and is remembered
	req = httptest.NewRequest(http.MethodGet, "/?lang=en", nil)
	req.AddCookie(&http.Cookie{Name: "lang", Value: "bn"})
	lang, rec := resolve(t, req)
	assert.Equal(t, entities.LangEN, lang)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "lang=en")
}

func TestLangOfWithoutMiddleware(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Equal(t, entities.LangBN, middleware.LangOf(c))
}

func TestAdminToken(t *testing.T) {
	e := echo.New()
	h := middleware.AdminToken("pw")(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	call := func(mod func(*http.Request)) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		mod(req)
		rec := httptest.NewRecorder()
		_ = h(e.NewContext(req, rec))
		return rec.Code
	}
	assert.Equal(t, http.StatusUnauthorized, call(func(*http.Request) {}))
	assert.Equal(t, http.StatusOK, call(func(r *http.Request) { r.Header.Set(middleware.AdminHeader, "pw") }))
	assert.Equal(t, http.StatusOK, call(func(r *http.Request) { r.AddCookie(&http.Cookie{Name: middleware.AdminCookie, Value: "pw"}) }))
	assert.Equal(t, http.StatusUnauthorized, call(func(r *http.Request) { r.Header.Set(middleware.AdminHeader, "PW") }))

	assert.False(t, middleware.ValidAdminToken("", ""))
}
