package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/shopfront/internal/metrics"
	"github.com/Skotchmaster/shopfront/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/shopfront/internal/middleware/logging"
	"github.com/Skotchmaster/shopfront/internal/validation"
)

type Deps struct {
	CatalogHandler *CatalogHTTP
	AuthHandler    *AuthHTTP
	HealthHandler  *HealthHTTP
	Guard          auth.Authenticator
	Metrics        *metrics.HTTPMetrics
}

// NewEcho builds the echo instance with the shared middleware chain.
// m may be nil.
func NewEcho(logger *slog.Logger, m *metrics.HTTPMetrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = ErrorHandler

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORS())
	if m != nil {
		e.Use(m.Middleware())
	}
	e.Use(loggingmw.RequestLogger(logger))
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", d.HealthHandler.Live)
	e.GET("/health/ready", d.HealthHandler.Ready)
	if d.Metrics != nil {
		e.GET("/metrics", d.Metrics.Handler())
	}

	requireLogin := auth.RequireLogin(d.Guard)

	e.GET("/products", d.CatalogHandler.GetProducts)
	e.GET("/products/:id", d.CatalogHandler.GetProduct)
	e.POST("/products", d.CatalogHandler.CreateProduct, requireLogin)
	e.GET("/search", d.CatalogHandler.Search)

	e.POST("/signup", d.AuthHandler.Signup)
	e.POST("/login", d.AuthHandler.Login)
	e.GET("/protected", d.AuthHandler.Protected, requireLogin)
}
