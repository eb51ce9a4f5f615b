package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	AdminHeader = "X-Admin-Token"
	AdminCookie = "admin_token"
)

// AdminToken lets a request through when the X-Admin-Token header or the
// admin_token cookie matches password. An empty password locks the admin API.
func AdminToken(password string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tok := c.Request().Header.Get(AdminHeader)
			if tok == "" {
				if ck, err := c.Cookie(AdminCookie); err == nil {
					tok = ck.Value
				}
			}
			if !ValidAdminToken(password, tok) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "admin login required"})
			}
			c.Set("admin", true)
			return next(c)
		}
	}
}

func ValidAdminToken(password, tok string) bool {
	return password != "" && subtle.ConstantTimeCompare([]byte(password), []byte(tok)) == 1
}
