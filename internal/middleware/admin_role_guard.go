package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RoleAdmin はJWTのroleクレームで管理者を表す値。
const RoleAdmin = "ADMIN"

// AdminRoleGuard は管理者以外のアクセスを遮断します。
// roleの判定はこの境界でだけ行い、usecase側には持ち込まない。
func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxUserRoleKey).(string)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			if role != RoleAdmin {
				return c.JSON(http.StatusForbidden, errorJSON("admin only"))
			}
			return next(c)
		}
	}
}
