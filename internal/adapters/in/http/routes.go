package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Config holds what the router needs besides the server itself.
type Config struct {
	JWTSecret []byte
}

// NewRouter builds the echo instance serving the relay API: request logging,
// panic recovery, OpenAPI validation and JWT authentication on /api/v1, plus
// unauthenticated /health and /swagger.
func NewRouter(server *Server, cfg Config, logger *slog.Logger) (*echo.Echo, error) {
	doc, err := LoadSpec()
	if err != nil {
		return nil, fmt.Errorf("failed to load api spec: %w", err)
	}
	if err = registerSwaggerDoc(doc); err != nil {
		return nil, fmt.Errorf("failed to register api docs: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1", JWTAuth(cfg.JWTSecret), requestValidator(doc))
	RegisterHandlers(api, server)

	return e, nil
}

// RegisterHandlers mounts the operations on router, which is expected to
// serve /api/v1. Path and query parameters are bound before dispatching to
// server.
func RegisterHandlers(router *echo.Group, server *Server) {
	w := wrapper{server: server}

	router.POST("/packages", server.CreatePackage)
	router.GET("/packages/nearby", w.GetNearbyPackages)
	router.GET("/packages/:packageId", w.GetPackage)
	router.GET("/packages/:packageId/eligibility", w.GetEligibility)
	router.POST("/packages/:packageId/pickup", w.RequestPickup)
	router.POST("/packages/:packageId/dropoff", w.RequestDropoff)
	router.POST("/packages/:packageId/movements", w.RecordMovement)
}

type wrapper struct {
	server *Server
}

func (w wrapper) GetNearbyPackages(c echo.Context) error {
	var lat, lon float64
	if err := runtime.BindQueryParameter("form", true, true, "lat", c.QueryParams(), &lat); err != nil {
		return badRequest(c, fmt.Sprintf("invalid format for parameter lat: %s", err))
	}
	if err := runtime.BindQueryParameter("form", true, true, "lon", c.QueryParams(), &lon); err != nil {
		return badRequest(c, fmt.Sprintf("invalid format for parameter lon: %s", err))
	}
	return w.server.GetNearbyPackages(c, lat, lon)
}

func (w wrapper) GetPackage(c echo.Context) error {
	packageID, err := bindPackageID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return w.server.GetPackage(c, packageID)
}

func (w wrapper) GetEligibility(c echo.Context) error {
	packageID, err := bindPackageID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	var lat, lon *float64
	if err = runtime.BindQueryParameter("form", true, false, "lat", c.QueryParams(), &lat); err != nil {
		return badRequest(c, fmt.Sprintf("invalid format for parameter lat: %s", err))
	}
	if err = runtime.BindQueryParameter("form", true, false, "lon", c.QueryParams(), &lon); err != nil {
		return badRequest(c, fmt.Sprintf("invalid format for parameter lon: %s", err))
	}
	return w.server.GetEligibility(c, packageID, lat, lon)
}

func (w wrapper) RequestPickup(c echo.Context) error {
	packageID, err := bindPackageID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return w.server.RequestPickup(c, packageID)
}

func (w wrapper) RequestDropoff(c echo.Context) error {
	packageID, err := bindPackageID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return w.server.RequestDropoff(c, packageID)
}

func (w wrapper) RecordMovement(c echo.Context) error {
	packageID, err := bindPackageID(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return w.server.RecordMovement(c, packageID)
}

func bindPackageID(c echo.Context) (openapi_types.UUID, error) {
	var packageID openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "packageId", c.Param("packageId"), &packageID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return packageID, fmt.Errorf("invalid format for parameter packageId: %w", err)
	}
	return packageID, nil
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	logger = logger.With("component", "http")

	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
			}
			if userID, ok := currentUser(c); ok {
				attrs = append(attrs, "user_id", userID.String())
			}

			switch {
			case v.Error != nil || v.Status >= http.StatusInternalServerError:
				logger.Error("request", append(attrs, "error", v.Error)...)
			case v.Status >= http.StatusBadRequest:
				logger.Warn("request", attrs...)
			default:
				logger.Info("request", attrs...)
			}
			return nil
		},
	})
}
