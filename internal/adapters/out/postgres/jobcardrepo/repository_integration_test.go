package jobcardrepo_test

import (
	"context"
	"testing"
	"time"

	"homeservice/internal/adapters/out/postgres/jobcardrepo"
	"homeservice/internal/core/domain/model/jobcard"
	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/core/domain/model/request"
	"homeservice/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// JobCardRepositoryIntegrationTestSuite provides integration tests for
// JobCardRepository using PostgreSQL containers, including the database-level
// guarantee of at most one active job card per request.
type JobCardRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *jobcardrepo.GormJobCardRepository
	tracker    *MockAggregateTracker
}

func (suite *JobCardRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&jobcardrepo.JobCardDTO{}))
}

func (suite *JobCardRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE job_cards").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = jobcardrepo.NewGormJobCardRepository(suite.db, suite.tracker)
}

func (suite *JobCardRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *JobCardRepositoryIntegrationTestSuite) TestAdd_ValidJobCard_Success() {
	ctx := context.Background()

	card := suite.createAssignedJobCard(kernel.NewUUID())
	suite.tracker.On("TrackAggregate", card.ID(), card).Once()

	err := suite.repository.Add(ctx, card)
	suite.Require().NoError(err)

	suite.assertJobCardCount(1)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *JobCardRepositoryIntegrationTestSuite) TestAdd_SecondActiveCardForRequest_Rejected() {
	ctx := context.Background()

	requestID := kernel.NewUUID()

	first := suite.createAssignedJobCard(requestID)
	suite.tracker.On("TrackAggregate", first.ID(), first).Once()
	suite.Require().NoError(suite.repository.Add(ctx, first))

	second := suite.createAssignedJobCard(requestID)
	err := suite.repository.Add(ctx, second)

	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrValueIsInvalid)
	suite.assertJobCardCount(1)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *JobCardRepositoryIntegrationTestSuite) TestAdd_NewActiveCardAfterCancellation_Succeeds() {
	ctx := context.Background()

	requestID := kernel.NewUUID()

	first := suite.createAssignedJobCard(requestID)
	suite.tracker.On("TrackAggregate", first.ID(), first).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, first))

	suite.Require().NoError(first.Cancel())
	suite.Require().NoError(suite.repository.Update(ctx, first))

	second := suite.createAssignedJobCard(requestID)
	suite.tracker.On("TrackAggregate", second.ID(), second).Once()
	suite.Require().NoError(suite.repository.Add(ctx, second))

	suite.assertJobCardCount(2)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *JobCardRepositoryIntegrationTestSuite) TestGet_ExistingJobCard_RoundTripsAllFields() {
	ctx := context.Background()

	card := suite.createAssignedJobCard(kernel.NewUUID())
	suite.tracker.On("TrackAggregate", card.ID(), card).Once()
	suite.Require().NoError(suite.repository.Add(ctx, card))

	retrieved, err := suite.repository.Get(ctx, card.ID())
	suite.Require().NoError(err)

	suite.True(card.IsEqual(retrieved))
	suite.Equal(card.RequestID(), retrieved.RequestID())
	suite.Equal(card.CustomerID(), retrieved.CustomerID())
	suite.Equal(card.ProviderID(), retrieved.ProviderID())
	suite.Equal(card.CustomerName(), retrieved.CustomerName())
	suite.Equal(jobcard.Assigned, retrieved.Status())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *JobCardRepositoryIntegrationTestSuite) TestGet_NonExistentJobCard_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *JobCardRepositoryIntegrationTestSuite) TestGetActiveByRequest_ReturnsActiveCardOnly() {
	ctx := context.Background()

	requestID := kernel.NewUUID()

	cancelled := suite.createAssignedJobCard(requestID)
	suite.tracker.On("TrackAggregate", cancelled.ID(), cancelled).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, cancelled))
	suite.Require().NoError(cancelled.Cancel())
	suite.Require().NoError(suite.repository.Update(ctx, cancelled))

	active := suite.createAssignedJobCard(requestID)
	suite.tracker.On("TrackAggregate", active.ID(), active).Once()
	suite.Require().NoError(suite.repository.Add(ctx, active))

	retrieved, err := suite.repository.GetActiveByRequest(ctx, requestID)
	suite.Require().NoError(err)
	suite.True(active.IsEqual(retrieved))

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *JobCardRepositoryIntegrationTestSuite) TestGetActiveByRequest_NoActiveCard_ReturnsNotFoundError() {
	ctx := context.Background()

	requestID := kernel.NewUUID()

	completed := suite.createAssignedJobCard(requestID)
	suite.tracker.On("TrackAggregate", completed.ID(), completed).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, completed))
	suite.Require().NoError(completed.Complete())
	suite.Require().NoError(suite.repository.Update(ctx, completed))

	retrieved, err := suite.repository.GetActiveByRequest(ctx, requestID)

	suite.Nil(retrieved)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *JobCardRepositoryIntegrationTestSuite) TestGetByRequestAndCustomer_ReturnsMostRecentCard() {
	ctx := context.Background()

	requestID := kernel.NewUUID()
	customerID := kernel.NewUUID()

	older := suite.createJobCardFor(requestID, customerID)
	suite.tracker.On("TrackAggregate", older.ID(), older).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, older))
	suite.Require().NoError(older.Cancel())
	suite.Require().NoError(suite.repository.Update(ctx, older))

	// Created-at resolution is what orders the lookup.
	time.Sleep(10 * time.Millisecond)

	newer := suite.createJobCardFor(requestID, customerID)
	suite.tracker.On("TrackAggregate", newer.ID(), newer).Once()
	suite.Require().NoError(suite.repository.Add(ctx, newer))

	retrieved, err := suite.repository.GetByRequestAndCustomer(ctx, requestID, customerID)
	suite.Require().NoError(err)
	suite.True(newer.IsEqual(retrieved))

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *JobCardRepositoryIntegrationTestSuite) TestGetByRequestAndCustomer_WrongCustomer_ReturnsNotFoundError() {
	ctx := context.Background()

	card := suite.createAssignedJobCard(kernel.NewUUID())
	suite.tracker.On("TrackAggregate", card.ID(), card).Once()
	suite.Require().NoError(suite.repository.Add(ctx, card))

	retrieved, err := suite.repository.GetByRequestAndCustomer(ctx, card.RequestID(), kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *JobCardRepositoryIntegrationTestSuite) TestUpdate_LifecyclePersistsStatus() {
	ctx := context.Background()

	card := suite.createAssignedJobCard(kernel.NewUUID())
	suite.tracker.On("TrackAggregate", card.ID(), card).Times(3)
	suite.Require().NoError(suite.repository.Add(ctx, card))

	suite.Require().NoError(card.Start())
	suite.Require().NoError(suite.repository.Update(ctx, card))

	suite.Require().NoError(card.Complete())
	suite.Require().NoError(suite.repository.Update(ctx, card))

	retrieved, err := suite.repository.Get(ctx, card.ID())
	suite.Require().NoError(err)
	suite.Equal(jobcard.Completed, retrieved.Status())
	suite.False(retrieved.IsActive())

	suite.tracker.AssertExpectations(suite.T())
}

// createAssignedJobCard creates a job card in Assigned status for the request.
func (suite *JobCardRepositoryIntegrationTestSuite) createAssignedJobCard(
	requestID kernel.UUID,
) *jobcard.JobCard {
	return suite.createJobCardFor(requestID, kernel.NewUUID())
}

func (suite *JobCardRepositoryIntegrationTestSuite) createJobCardFor(
	requestID, customerID kernel.UUID,
) *jobcard.JobCard {
	coords, err := kernel.NewGeoPoint(12.9352, 77.6245)
	suite.Require().NoError(err)
	address, err := request.NewAddress("7 Residency Road", "Bengaluru", "Karnataka", "560025", &coords)
	suite.Require().NoError(err)

	card, err := jobcard.NewJobCard(
		kernel.NewUUID(), requestID, customerID, kernel.NewUUID(),
		"Meera Nair", "+919800000003", address,
	)
	suite.Require().NoError(err)
	return card
}

// assertJobCardCount verifies the number of job cards in the database.
func (suite *JobCardRepositoryIntegrationTestSuite) assertJobCardCount(expected int) {
	var count int64
	err := suite.db.Model(&jobcardrepo.JobCardDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func TestJobCardRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(JobCardRepositoryIntegrationTestSuite))
}
