package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shopfront/internal/logging"
	"github.com/Skotchmaster/shopfront/internal/middleware/auth"
	"github.com/Skotchmaster/shopfront/internal/service"
	"github.com/Skotchmaster/shopfront/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.signup")

	var req transport.SignupRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("signup_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("signup_error", "status", 400, "reason", err.Error())
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.Svc.CreateUser(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrValidation) || errors.Is(err, service.ErrConflict) {
			l.Warn("signup_error", "status", 400, "reason", err.Error())
			return echo.NewHTTPError(http.StatusBadRequest, publicMessage(err))
		}
		l.Error("signup_error", "status", 500, "reason", "cannot create user", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, internalErrorMessage)
	}

	l.Info("signup_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, transport.SignupResponse{
		Message: "Signup successful",
		User: transport.UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		},
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", err.Error())
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			l.Warn("login_failed", "status", 401)
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password")
		case errors.Is(err, service.ErrValidation):
			l.Warn("login_failed", "status", 400, "reason", err.Error())
			return echo.NewHTTPError(http.StatusBadRequest, publicMessage(err))
		}
		l.Error("login_failed", "status", 500, "reason", "cannot log in", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, internalErrorMessage)
	}

	l.Info("login_successful", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, transport.LoginResponse{
		Message:     "Login successful",
		AccessToken: res.AccessToken,
	})
}

func (h *AuthHTTP) Protected(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.protected")

	id, ok := auth.UserID(c)
	if !ok {
		l.Warn("protected_denied", "status", 401, "reason", "no user in context")
		return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
	}

	user, err := h.Svc.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("protected_denied", "status", 401, "reason", "user no longer exists", "user_id", id)
			return echo.NewHTTPError(http.StatusUnauthorized, "user not found")
		}
		l.Error("protected_error", "status", 500, "reason", "cannot load user", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, internalErrorMessage)
	}

	return c.JSON(http.StatusOK, transport.ProtectedResponse{LoggedInAs: user.Username})
}
