package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"relay/internal/core/application/usecases/commands"
	"relay/internal/core/application/usecases/queries"
	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/transit"
	"relay/internal/core/domain/services"
	"relay/internal/core/ports"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

type (
	CreatePackageHandler interface {
		Handle(ctx context.Context, cmd commands.CreatePackageCommand) error
	}

	RequestPickupHandler interface {
		Handle(ctx context.Context, cmd commands.RequestPickupCommand) (services.Reward, error)
	}

	RequestDropoffHandler interface {
		Handle(ctx context.Context, cmd commands.RequestDropoffCommand) (services.Reward, error)
	}

	RecordMovementHandler interface {
		Handle(ctx context.Context, cmd commands.RecordMovementCommand) error
	}

	GetPackageHandler interface {
		Handle(ctx context.Context, query queries.GetPackageQuery) (queries.GetPackageQueryResponse, error)
	}

	GetNearbyPackagesHandler interface {
		Handle(ctx context.Context, query queries.GetNearbyPackagesQuery) ([]queries.GetNearbyPackagesQueryResponse, error)
	}

	GetEligibilityHandler interface {
		Handle(ctx context.Context, query queries.GetEligibilityQuery) (queries.GetEligibilityQueryResponse, error)
	}
)

// Handlers groups the use cases the API exposes.
type Handlers struct {
	CreatePackage     CreatePackageHandler
	RequestPickup     RequestPickupHandler
	RequestDropoff    RequestDropoffHandler
	RecordMovement    RecordMovementHandler
	GetPackage        GetPackageHandler
	GetNearbyPackages GetNearbyPackagesHandler
	GetEligibility    GetEligibilityHandler
}

// Server adapts HTTP requests to the relay's commands and queries.
type Server struct {
	handlers Handlers
	inFlight ports.InFlightGuard
	logger   *slog.Logger
	now      func() time.Time
}

func NewServer(handlers Handlers, inFlight ports.InFlightGuard, logger *slog.Logger) *Server {
	return &Server{
		handlers: handlers,
		inFlight: inFlight,
		logger:   logger.With("component", "http"),
		now:      time.Now,
	}
}

func (s *Server) CreatePackage(c echo.Context) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c, "unknown user")
	}

	var req NewPackage
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	params, err := req.toParams(s.now())
	if err != nil {
		return s.fail(c, err)
	}

	id := kernel.NewUUID()
	cmd, err := commands.NewCreatePackageCommand(id, userID, params)
	if err != nil {
		return s.fail(c, err)
	}

	if err = s.handlers.CreatePackage.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, Created{ID: id.String()})
}

func (s *Server) GetNearbyPackages(c echo.Context, lat, lon float64) error {
	location, err := kernel.NewGeoPoint(lat, lon)
	if err != nil {
		return s.fail(c, err)
	}

	query, err := queries.NewGetNearbyPackagesQuery(location)
	if err != nil {
		return s.fail(c, err)
	}

	rows, err := s.handlers.GetNearbyPackages.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, nearbyFromQuery(rows))
}

func (s *Server) GetPackage(c echo.Context, packageID openapi_types.UUID) error {
	id, err := kernel.UUIDFromBytes(packageID[:])
	if err != nil {
		return s.fail(c, err)
	}

	query, err := queries.NewGetPackageQuery(id, s.now())
	if err != nil {
		return s.fail(c, err)
	}

	view, err := s.handlers.GetPackage.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, packageViewFromQuery(view))
}

// GetEligibility evaluates without a location when lat and lon are both absent.
func (s *Server) GetEligibility(c echo.Context, packageID openapi_types.UUID, lat, lon *float64) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c, "unknown user")
	}

	id, err := kernel.UUIDFromBytes(packageID[:])
	if err != nil {
		return s.fail(c, err)
	}

	var location *kernel.GeoPoint
	switch {
	case lat != nil && lon != nil:
		point, pointErr := kernel.NewGeoPoint(*lat, *lon)
		if pointErr != nil {
			return s.fail(c, pointErr)
		}
		location = &point
	case lat != nil || lon != nil:
		return badRequest(c, "lat and lon must be given together")
	}

	query, err := queries.NewGetEligibilityQuery(id, userID, location, s.now())
	if err != nil {
		return s.fail(c, err)
	}

	result, err := s.handlers.GetEligibility.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, eligibilityFromQuery(result))
}

func (s *Server) RequestPickup(c echo.Context, packageID openapi_types.UUID) error {
	return s.transition(c, packageID, func(ctx context.Context, id, userID kernel.UUID, at kernel.GeoPoint) (services.Reward, error) {
		cmd, err := commands.NewRequestPickupCommand(id, userID, at, s.now())
		if err != nil {
			return services.Reward{}, err
		}
		return s.handlers.RequestPickup.Handle(ctx, cmd)
	})
}

func (s *Server) RequestDropoff(c echo.Context, packageID openapi_types.UUID) error {
	return s.transition(c, packageID, func(ctx context.Context, id, userID kernel.UUID, at kernel.GeoPoint) (services.Reward, error) {
		cmd, err := commands.NewRequestDropoffCommand(id, userID, at, s.now())
		if err != nil {
			return services.Reward{}, err
		}
		return s.handlers.RequestDropoff.Handle(ctx, cmd)
	})
}

func (s *Server) RecordMovement(c echo.Context, packageID openapi_types.UUID) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c, "unknown user")
	}

	id, err := kernel.UUIDFromBytes(packageID[:])
	if err != nil {
		return s.fail(c, err)
	}

	var req Movement
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	point, err := req.toDomain()
	if err != nil {
		return s.fail(c, err)
	}

	movement, err := transit.NewMovement(req.Date, point)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewRecordMovementCommand(id, userID, movement)
	if err != nil {
		return s.fail(c, err)
	}

	if err = s.handlers.RecordMovement.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

type transitionFunc func(ctx context.Context, packageID, userID kernel.UUID, at kernel.GeoPoint) (services.Reward, error)

// transition runs a pickup or dropoff while holding the caller's in-flight
// slot for the package. A duplicate arriving meanwhile gets 429.
func (s *Server) transition(c echo.Context, packageID openapi_types.UUID, run transitionFunc) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c, "unknown user")
	}

	id, err := kernel.UUIDFromBytes(packageID[:])
	if err != nil {
		return s.fail(c, err)
	}

	var req Location
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	at, err := req.toDomain()
	if err != nil {
		return s.fail(c, err)
	}

	ctx := c.Request().Context()

	release, acquired, err := s.inFlight.Acquire(ctx, id, userID)
	if err != nil {
		s.logger.Error("in-flight guard unavailable", "package_id", id.String(), "error", err)
		return c.JSON(http.StatusServiceUnavailable, Error{
			Code:    http.StatusServiceUnavailable,
			Message: "try again later",
		})
	}
	if !acquired {
		return c.JSON(http.StatusTooManyRequests, Error{
			Code:    http.StatusTooManyRequests,
			Message: "a request for this package is already in flight",
		})
	}
	defer release()

	reward, err := run(ctx, id, userID, at)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, rewardFromDomain(reward))
}
