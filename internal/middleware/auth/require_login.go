package auth

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shopfront/internal/logging"
)

const userIDKey = "user_id"

type Authenticator interface {
	Authenticate(token string) (uint, error)
}

// RequireLogin accepts "Authorization: Bearer <token>" and stores the
// authenticated user id in the echo context.
func RequireLogin(guard Authenticator) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  userIDKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (any, error) {
			return guard.Authenticate(auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			logging.FromContext(c.Request().Context()).
				Warn("auth_rejected", "status", http.StatusUnauthorized, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
		},
	})
}

func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(userIDKey).(uint)
	return id, ok && id != 0
}
