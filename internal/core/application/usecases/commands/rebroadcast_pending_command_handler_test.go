package commands_test

import (
	"context"
	"errors"
	"testing"

	"homeservice/internal/core/application/usecases/commands"
	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/core/domain/model/provider"
	"homeservice/internal/core/domain/model/request"
	"homeservice/internal/core/domain/services"
	"homeservice/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSweepRequestRepository struct{ mock.Mock }

func (m *MockSweepRequestRepository) Add(_ context.Context, _ *request.ServiceRequest) error {
	return errors.New("not implemented in mock")
}
func (m *MockSweepRequestRepository) Update(_ context.Context, _ *request.ServiceRequest) error {
	return errors.New("not implemented in mock")
}
func (m *MockSweepRequestRepository) Get(_ context.Context, _ kernel.UUID) (*request.ServiceRequest, error) {
	return nil, errors.New("not implemented in mock")
}
func (m *MockSweepRequestRepository) GetAllInPendingStatus(ctx context.Context) ([]*request.ServiceRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*request.ServiceRequest), args.Error(1)
}
func (m *MockSweepRequestRepository) GetAllActiveByCustomer(_ context.Context, _ kernel.UUID) ([]*request.ServiceRequest, error) {
	return nil, errors.New("not implemented in mock")
}

type MockSweepRequestUoW struct{ mock.Mock }

func (m *MockSweepRequestUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockSweepRequestUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockSweepRequestUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockSweepRequestUoW) RequestRepository() ports.RequestRepository {
	args := m.Called()
	return args.Get(0).(ports.RequestRepository)
}

type MockSweepRequestUoWFactory struct{ mock.Mock }

func (m *MockSweepRequestUoWFactory) Create() commands.RequestUoW {
	args := m.Called()
	return args.Get(0).(commands.RequestUoW)
}

type MockSweepDirectory struct{ mock.Mock }

func (m *MockSweepDirectory) Get(_ context.Context, _ kernel.UUID) (*provider.Provider, error) {
	return nil, errors.New("not implemented in mock")
}
func (m *MockSweepDirectory) FindAvailableByCategory(ctx context.Context, category string) ([]*provider.Provider, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*provider.Provider), args.Error(1)
}

type MockSweepPublisher struct{ mock.Mock }

func (m *MockSweepPublisher) Emit(ctx context.Context, room, event string, payload any) error {
	args := m.Called(ctx, room, event, payload)
	return args.Error(0)
}

func pendingSweepRequest(t *testing.T, serviceType string) *request.ServiceRequest {
	t.Helper()
	r, err := request.NewServiceRequest(
		kernel.NewUUID(), kernel.NewUUID(), "Asha Rao", "+919800000001",
		validAddress(t), serviceType, "kitchen sink is leaking",
		request.Immediate, nil)
	require.NoError(t, err)
	return r
}

func newSweepHandler(
	factory *MockSweepRequestUoWFactory,
	directory *MockSweepDirectory,
	publisher *MockSweepPublisher,
) commands.RebroadcastPendingCommandHandler {
	return commands.NewRebroadcastPendingCommandHandler(
		factory, directory, publisher,
		services.NewProviderMatcher(), testLogger())
}

func TestRebroadcastPendingCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()

	t.Run("should reject command that was not constructed", func(t *testing.T) {
		handler := newSweepHandler(
			new(MockSweepRequestUoWFactory), new(MockSweepDirectory), new(MockSweepPublisher))

		err := handler.Handle(ctx, commands.RebroadcastPendingCommand{})

		require.ErrorIs(t, err, commands.ErrRebroadcastPendingCommandIsNotConstructed)
	})

	t.Run("should re-broadcast each pending request to matching providers", func(t *testing.T) {
		first := pendingSweepRequest(t, "plumbing")
		second := pendingSweepRequest(t, "electrical")
		plumber := availableProvider(t, "plumbing", "")
		electrician := availableProvider(t, "electrical", "")

		repo := new(MockSweepRequestRepository)
		repo.On("GetAllInPendingStatus", ctx).
			Return([]*request.ServiceRequest{first, second}, nil).Once()
		uow := new(MockSweepRequestUoW)
		uow.On("RequestRepository").Return(repo).Once()
		factory := new(MockSweepRequestUoWFactory)
		factory.On("Create").Return(uow).Once()

		directory := new(MockSweepDirectory)
		directory.On("FindAvailableByCategory", ctx, "plumbing").
			Return([]*provider.Provider{plumber}, nil).Once()
		directory.On("FindAvailableByCategory", ctx, "electrical").
			Return([]*provider.Provider{electrician}, nil).Once()

		publisher := new(MockSweepPublisher)
		publisher.On("Emit", ctx, ports.ProviderRoom(plumber.ID()), ports.EventNewBooking, mock.Anything).
			Return(nil).Once()
		publisher.On("Emit", ctx, ports.ProviderRoom(electrician.ID()), ports.EventNewBooking, mock.Anything).
			Return(nil).Once()

		handler := newSweepHandler(factory, directory, publisher)
		err := handler.Handle(ctx, commands.NewRebroadcastPendingCommand())

		require.NoError(t, err)
		repo.AssertExpectations(t)
		directory.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("should do nothing when no requests are pending", func(t *testing.T) {
		repo := new(MockSweepRequestRepository)
		repo.On("GetAllInPendingStatus", ctx).
			Return([]*request.ServiceRequest{}, nil).Once()
		uow := new(MockSweepRequestUoW)
		uow.On("RequestRepository").Return(repo).Once()
		factory := new(MockSweepRequestUoWFactory)
		factory.On("Create").Return(uow).Once()

		directory := new(MockSweepDirectory)
		publisher := new(MockSweepPublisher)

		handler := newSweepHandler(factory, directory, publisher)
		err := handler.Handle(ctx, commands.NewRebroadcastPendingCommand())

		require.NoError(t, err)
		directory.AssertNotCalled(t, "FindAvailableByCategory", mock.Anything, mock.Anything)
		publisher.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should return error when pending lookup fails", func(t *testing.T) {
		repo := new(MockSweepRequestRepository)
		repo.On("GetAllInPendingStatus", ctx).
			Return(nil, errors.New("connection refused")).Once()
		uow := new(MockSweepRequestUoW)
		uow.On("RequestRepository").Return(repo).Once()
		factory := new(MockSweepRequestUoWFactory)
		factory.On("Create").Return(uow).Once()

		handler := newSweepHandler(factory, new(MockSweepDirectory), new(MockSweepPublisher))
		err := handler.Handle(ctx, commands.NewRebroadcastPendingCommand())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("should continue sweep when provider lookup fails for one request", func(t *testing.T) {
		failing := pendingSweepRequest(t, "plumbing")
		healthy := pendingSweepRequest(t, "electrical")
		electrician := availableProvider(t, "electrical", "")

		repo := new(MockSweepRequestRepository)
		repo.On("GetAllInPendingStatus", ctx).
			Return([]*request.ServiceRequest{failing, healthy}, nil).Once()
		uow := new(MockSweepRequestUoW)
		uow.On("RequestRepository").Return(repo).Once()
		factory := new(MockSweepRequestUoWFactory)
		factory.On("Create").Return(uow).Once()

		directory := new(MockSweepDirectory)
		directory.On("FindAvailableByCategory", ctx, "plumbing").
			Return(nil, errors.New("directory unavailable")).Once()
		directory.On("FindAvailableByCategory", ctx, "electrical").
			Return([]*provider.Provider{electrician}, nil).Once()

		publisher := new(MockSweepPublisher)
		publisher.On("Emit", ctx, ports.ProviderRoom(electrician.ID()), ports.EventNewBooking, mock.Anything).
			Return(nil).Once()

		handler := newSweepHandler(factory, directory, publisher)
		err := handler.Handle(ctx, commands.NewRebroadcastPendingCommand())

		require.NoError(t, err)
		publisher.AssertExpectations(t)
	})

	t.Run("should skip request when no provider matches its category", func(t *testing.T) {
		pending := pendingSweepRequest(t, "carpentry")

		repo := new(MockSweepRequestRepository)
		repo.On("GetAllInPendingStatus", ctx).
			Return([]*request.ServiceRequest{pending}, nil).Once()
		uow := new(MockSweepRequestUoW)
		uow.On("RequestRepository").Return(repo).Once()
		factory := new(MockSweepRequestUoWFactory)
		factory.On("Create").Return(uow).Once()

		directory := new(MockSweepDirectory)
		directory.On("FindAvailableByCategory", ctx, "carpentry").
			Return([]*provider.Provider{}, nil).Once()

		publisher := new(MockSweepPublisher)

		handler := newSweepHandler(factory, directory, publisher)
		err := handler.Handle(ctx, commands.NewRebroadcastPendingCommand())

		require.NoError(t, err)
		publisher.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should keep notifying remaining providers when one emit fails", func(t *testing.T) {
		pending := pendingSweepRequest(t, "plumbing")
		unreachable := availableProvider(t, "plumbing", "")
		reachable := availableProvider(t, "plumbing", "")

		repo := new(MockSweepRequestRepository)
		repo.On("GetAllInPendingStatus", ctx).
			Return([]*request.ServiceRequest{pending}, nil).Once()
		uow := new(MockSweepRequestUoW)
		uow.On("RequestRepository").Return(repo).Once()
		factory := new(MockSweepRequestUoWFactory)
		factory.On("Create").Return(uow).Once()

		directory := new(MockSweepDirectory)
		directory.On("FindAvailableByCategory", ctx, "plumbing").
			Return([]*provider.Provider{unreachable, reachable}, nil).Once()

		publisher := new(MockSweepPublisher)
		publisher.On("Emit", ctx, ports.ProviderRoom(unreachable.ID()), ports.EventNewBooking, mock.Anything).
			Return(errors.New("socket closed")).Once()
		publisher.On("Emit", ctx, ports.ProviderRoom(reachable.ID()), ports.EventNewBooking, mock.Anything).
			Return(nil).Once()

		handler := newSweepHandler(factory, directory, publisher)
		err := handler.Handle(ctx, commands.NewRebroadcastPendingCommand())

		require.NoError(t, err)
		publisher.AssertExpectations(t)
	})
}
