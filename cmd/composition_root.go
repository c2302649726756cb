package cmd

import (
	"log/slog"

	relayhttp "relay/internal/adapters/in/http"
	"relay/internal/adapters/out/postgres"
	"relay/internal/adapters/out/postgres/outboxrepo"
	"relay/internal/adapters/out/redisguard"
	"relay/internal/core/application/usecases/commands"
	"relay/internal/core/application/usecases/queries"
	"relay/internal/core/ports"
	"relay/internal/jobs"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg         Config
	gormDB      *gorm.DB
	redisClient *redis.Client
	publisher   ports.ChangePublisher
	logger      *slog.Logger
	uowFactory  *postgres.GormUnitOfWorkFactory
}

func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	redisClient *redis.Client,
	publisher ports.ChangePublisher,
	logger *slog.Logger,
) CompositionRoot {
	return CompositionRoot{
		cfg:         cfg,
		gormDB:      gormDB,
		redisClient: redisClient,
		publisher:   publisher,
		logger:      logger,
		uowFactory:  postgres.NewGormUnitOfWorkFactory(gormDB),
	}
}

func (c *CompositionRoot) CreateCreatePackageCommandHandler() commands.CreatePackageCommandHandler {
	var f commands.PackageUoWFactory = FuncPackageUoWFactory(func() commands.PackageUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreatePackageCommandHandler(f)
}

func (c *CompositionRoot) CreateRecordMovementCommandHandler() commands.RecordMovementCommandHandler {
	var f commands.MovementUoWFactory = FuncMovementUoWFactory(func() commands.MovementUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRecordMovementCommandHandler(f)
}

func (c *CompositionRoot) CreateRequestPickupCommandHandler() commands.RequestPickupCommandHandler {
	return commands.NewRequestPickupCommandHandler(c.relayUoWFactory())
}

func (c *CompositionRoot) CreateRequestDropoffCommandHandler() commands.RequestDropoffCommandHandler {
	return commands.NewRequestDropoffCommandHandler(c.relayUoWFactory())
}

func (c *CompositionRoot) CreateGetPackageQueryHandler() queries.GetPackageQueryHandler {
	return queries.NewGetPackageQueryHandler(c.readUoWFactory())
}

func (c *CompositionRoot) CreateGetEligibilityQueryHandler() queries.GetEligibilityQueryHandler {
	return queries.NewGetEligibilityQueryHandler(c.readUoWFactory())
}

func (c *CompositionRoot) CreateGetNearbyPackagesQueryHandler() queries.GetNearbyPackagesQueryHandler {
	return queries.NewGetNearbyPackagesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateInFlightGuard() ports.InFlightGuard {
	return redisguard.NewGuard(c.redisClient, c.cfg.InFlightTTL)
}

func (c *CompositionRoot) CreateServer() *relayhttp.Server {
	return relayhttp.NewServer(relayhttp.Handlers{
		CreatePackage:     c.CreateCreatePackageCommandHandler(),
		RequestPickup:     c.CreateRequestPickupCommandHandler(),
		RequestDropoff:    c.CreateRequestDropoffCommandHandler(),
		RecordMovement:    c.CreateRecordMovementCommandHandler(),
		GetPackage:        c.CreateGetPackageQueryHandler(),
		GetNearbyPackages: c.CreateGetNearbyPackagesQueryHandler(),
		GetEligibility:    c.CreateGetEligibilityQueryHandler(),
	}, c.CreateInFlightGuard(), c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		outboxrepo.NewGormOutboxRepository(c.gormDB),
		c.publisher,
		jobs.Config{RelaySchedule: c.cfg.OutboxSchedule, OutboxRetention: c.cfg.OutboxRetention},
		c.logger,
	)
}

func (c *CompositionRoot) relayUoWFactory() commands.RelayUoWFactory {
	return FuncRelayUoWFactory(func() commands.RelayUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) readUoWFactory() queries.ReadUoWFactory {
	return FuncReadUoWFactory(func() queries.ReadUoW {
		return c.uowFactory.Create()
	})
}

type FuncPackageUoWFactory func() commands.PackageUoW

func (f FuncPackageUoWFactory) Create() commands.PackageUoW {
	return f()
}

type FuncMovementUoWFactory func() commands.MovementUoW

func (f FuncMovementUoWFactory) Create() commands.MovementUoW {
	return f()
}

type FuncRelayUoWFactory func() commands.RelayUoW

func (f FuncRelayUoWFactory) Create() commands.RelayUoW {
	return f()
}

type FuncReadUoWFactory func() queries.ReadUoW

func (f FuncReadUoWFactory) Create() queries.ReadUoW {
	return f()
}
