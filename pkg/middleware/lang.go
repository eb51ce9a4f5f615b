package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"krishibondhu/entities"
)

const (
	langKey    = "lang"
	langCookie = "lang"
)

// Lang resolves the UI language from ?lang=, the lang cookie, then Accept-Language.
// An explicit ?lang= is remembered in the cookie.
func Lang() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			lang := entities.LangBN
			switch {
			case c.QueryParam("lang") != "":
				lang = entities.ParseLanguage(c.QueryParam("lang"))
				c.SetCookie(&http.Cookie{Name: langCookie, Value: string(lang), Path: "/", MaxAge: 365 * 24 * 3600})
			default:
				if ck, err := c.Cookie(langCookie); err == nil && ck.Value != "" {
					lang = entities.ParseLanguage(ck.Value)
				} else if al := c.Request().Header.Get("Accept-Language"); al != "" {
					lang = entities.ParseLanguage(strings.TrimSpace(strings.Split(al, ",")[0]))
				}
			}
			c.Set(langKey, lang)
			return next(c)
		}
	}
}

// LangOf returns the language resolved by Lang, or Bengali when the middleware did not run.
func LangOf(c echo.Context) entities.Language {
	if l, ok := c.Get(langKey).(entities.Language); ok {
		return l
	}
	return entities.LangBN
}
