package cmd

import (
	"context"
	"log/slog"

	httpin "homeservice/internal/adapters/in/http"
	"homeservice/internal/adapters/out/locations"
	"homeservice/internal/adapters/out/postgres"
	"homeservice/internal/adapters/out/postgres/providerrepo"
	"homeservice/internal/adapters/out/postgres/requestfeed"
	"homeservice/internal/adapters/out/postgres/reviewrepo"
	"homeservice/internal/core/application/usecases/commands"
	"homeservice/internal/core/application/usecases/queries"
	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/core/domain/services"
	"homeservice/internal/core/ports"
	"homeservice/internal/jobs"
	"homeservice/internal/push"
	"homeservice/internal/review"
	"homeservice/internal/tracking"

	"gorm.io/gorm"
)

// CompositionRoot wires the dispatch engine together: persistence, feeds,
// the in-process push broker and the session-scoped components built on
// top of them.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	broker       *push.RoomBroker
	requestFeed  *requestfeed.PgRequestFeed
	locationFeed *locations.InMemoryLocationFeed
	directory    *providerrepo.GormProviderDirectory
	reviewGate   *review.Gate

	logger *slog.Logger
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	requestFeed, err := requestfeed.NewPgRequestFeed(gormDB, configs.ConnectionString(), logger)
	if err != nil {
		return nil, err
	}

	jobCards := newDetachedUoW(gormDB).JobCardRepository()
	reviewGate := review.NewGate(
		jobCards, reviewrepo.NewGormReviewStore(gormDB), 0, 0, logger)

	return &CompositionRoot{
		gormDB:       gormDB,
		uowFactory:   *postgres.NewGormUnitOfWorkFactory(gormDB),
		broker:       push.NewRoomBroker(logger),
		requestFeed:  requestFeed,
		locationFeed: locations.NewInMemoryLocationFeed(logger),
		directory:    providerrepo.NewGormProviderDirectory(gormDB),
		reviewGate:   reviewGate,
		logger:       logger,
	}, nil
}

// Close releases long-lived feed resources.
func (c *CompositionRoot) Close() error {
	c.locationFeed.Close()
	return c.requestFeed.Close()
}

func (c *CompositionRoot) CreateCreateRequestCommandHandler() commands.CreateRequestCommandHandler {
	var f commands.RequestUoWFactory = FuncRequestUoWFactory(func() commands.RequestUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateRequestCommandHandler(
		f, c.directory, c.broker, services.NewProviderMatcher(), c.logger)
}

func (c *CompositionRoot) CreateCancelRequestCommandHandler() commands.CancelRequestCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelRequestCommandHandler(f)
}

func (c *CompositionRoot) CreateSubmitReviewCommandHandler() commands.SubmitReviewCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewSubmitReviewCommandHandler(f, reviewrepo.NewGormReviewStore(c.gormDB))
}

func (c *CompositionRoot) CreateRebroadcastPendingCommandHandler() commands.RebroadcastPendingCommandHandler {
	var f commands.RequestUoWFactory = FuncRequestUoWFactory(func() commands.RequestUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRebroadcastPendingCommandHandler(
		f, c.directory, c.broker, services.NewProviderMatcher(), c.logger)
}

func (c *CompositionRoot) CreateGetRequestByIDQueryHandler() queries.GetRequestByIDQueryHandler {
	return queries.NewGetRequestByIDQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveRequestsQueryHandler() queries.GetActiveRequestsQueryHandler {
	return queries.NewGetActiveRequestsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateRequestCommandHandler(),
		c.CreateCancelRequestCommandHandler(),
		c.CreateSubmitReviewCommandHandler(),
		c.CreateGetRequestByIDQueryHandler(),
		c.CreateGetActiveRequestsQueryHandler(),
		c.requestFeed,
		c.locationFeed,
		c.directory,
		tracking.NewLocationTracker(tracking.DefaultLocationTTL),
		c.reviewGate,
		c.OpenCustomerSession,
		c.logger,
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateRebroadcastPendingCommandHandler(), c.locationFeed, c.logger)
}

// OpenCustomerSession connects a managed push session for one customer,
// joined to the customer's room, and routes service-completed events into
// the review gate. This is the push half of the gate's dual channel; the
// durable half runs through the tracking stream.
func (c *CompositionRoot) OpenCustomerSession(
	ctx context.Context, customerID kernel.UUID,
) (*push.ConnectionManager, error) {
	return review.OpenCustomerSession(
		ctx, c.broker, push.DefaultRetryPolicy(), customerID, c.reviewGate, c.logger)
}

// ReviewGate exposes the shared review gate for session wiring.
func (c *CompositionRoot) ReviewGate() *review.Gate {
	return c.reviewGate
}

// Broker exposes the in-process push broker.
func (c *CompositionRoot) Broker() *push.RoomBroker {
	return c.broker
}

// newDetachedUoW builds a unit of work used outside any command
// transaction, for read paths that only need repository access.
func newDetachedUoW(db *gorm.DB) ports.UnitOfWork {
	return postgres.NewGormUnitOfWorkFactory(db).Create()
}

type FuncRequestUoWFactory func() commands.RequestUoW

func (f FuncRequestUoWFactory) Create() commands.RequestUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
