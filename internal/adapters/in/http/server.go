package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"homeservice/internal/core/application/usecases/commands"
	"homeservice/internal/core/application/usecases/queries"
	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/core/domain/model/request"
	"homeservice/internal/core/ports"
	"homeservice/internal/pkg/errs"
	"homeservice/internal/push"
	"homeservice/internal/review"
	"homeservice/internal/tracking"

	"github.com/labstack/echo/v4"
)

// Server exposes the dispatch engine over HTTP.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createRequestHandler commands.CreateRequestCommandHandler
	cancelRequestHandler commands.CancelRequestCommandHandler
	submitReviewHandler  commands.SubmitReviewCommandHandler

	// Query handlers
	getRequestByIDHandler    queries.GetRequestByIDQueryHandler
	getActiveRequestsHandler queries.GetActiveRequestsQueryHandler

	// Tracking and review session dependencies
	requestFeed  ports.RequestFeed
	locationFeed ports.LocationFeed
	directory    ports.ProviderDirectory
	tracker      tracking.LocationTracker
	reviewGate   *review.Gate

	// Customer push sessions, one per customer, opened on demand.
	sessionOpener SessionOpener
	sessionsMu    sync.Mutex
	sessions      map[string]*push.ConnectionManager

	logger *slog.Logger
}

// SessionOpener connects a managed push session for a customer, joined to
// the customer's room with completion events routed into the review gate.
type SessionOpener func(ctx context.Context, customerID kernel.UUID) (*push.ConnectionManager, error)

// NewServer creates a new HTTP server with the required command and query
// handlers plus the feeds that back tracking streams.
func NewServer(
	createRequestHandler commands.CreateRequestCommandHandler,
	cancelRequestHandler commands.CancelRequestCommandHandler,
	submitReviewHandler commands.SubmitReviewCommandHandler,
	getRequestByIDHandler queries.GetRequestByIDQueryHandler,
	getActiveRequestsHandler queries.GetActiveRequestsQueryHandler,
	requestFeed ports.RequestFeed,
	locationFeed ports.LocationFeed,
	directory ports.ProviderDirectory,
	tracker tracking.LocationTracker,
	reviewGate *review.Gate,
	sessionOpener SessionOpener,
	logger *slog.Logger,
) *Server {
	return &Server{
		createRequestHandler:     createRequestHandler,
		cancelRequestHandler:     cancelRequestHandler,
		submitReviewHandler:      submitReviewHandler,
		getRequestByIDHandler:    getRequestByIDHandler,
		getActiveRequestsHandler: getActiveRequestsHandler,
		requestFeed:              requestFeed,
		locationFeed:             locationFeed,
		directory:                directory,
		tracker:                  tracker,
		reviewGate:               reviewGate,
		sessionOpener:            sessionOpener,
		sessions:                 make(map[string]*push.ConnectionManager),
		logger:                   logger.With("component", "http_server"),
	}
}

// RegisterRoutes mounts all API routes on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	v1 := e.Group("/api/v1")

	v1.POST("/requests", s.CreateRequest)
	v1.GET("/requests/:requestId", s.GetRequest)
	v1.POST("/requests/:requestId/cancel", s.CancelRequest)
	v1.GET("/requests/:requestId/track", s.TrackRequest)
	v1.GET("/requests/:requestId/review", s.GetReviewEligibility)
	v1.POST("/requests/:requestId/review/dismiss", s.DismissReview)
	v1.GET("/customers/:customerId/requests/active", s.GetActiveRequests)
	v1.POST("/customers/:customerId/session", s.OpenSession)
	v1.DELETE("/customers/:customerId/session", s.CloseSession)
	v1.POST("/reviews", s.SubmitReview)
}

// OpenSession handles POST /api/v1/customers/:customerId/session - opens
// the customer's push session so completion events reach the review gate
// even when no tracking stream is running. Idempotent per customer.
func (s *Server) OpenSession(ctx echo.Context) error {
	customerID, err := kernel.UUIDFromString(ctx.Param("customerId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid customer id",
		})
	}

	key := customerID.String()
	s.sessionsMu.Lock()
	_, exists := s.sessions[key]
	s.sessionsMu.Unlock()
	if exists {
		return ctx.JSON(http.StatusOK, CustomerSession{CustomerID: key, Connected: true})
	}

	manager, err := s.sessionOpener(ctx.Request().Context(), customerID)
	if err != nil {
		s.logger.Error("failed to open customer session", "customerId", key, "error", err)
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to open session",
		})
	}

	s.sessionsMu.Lock()
	if _, raced := s.sessions[key]; raced {
		s.sessionsMu.Unlock()
		_ = manager.Disconnect()
		return ctx.JSON(http.StatusOK, CustomerSession{CustomerID: key, Connected: true})
	}
	s.sessions[key] = manager
	s.sessionsMu.Unlock()

	return ctx.JSON(http.StatusCreated, CustomerSession{CustomerID: key, Connected: true})
}

// CloseSession handles DELETE /api/v1/customers/:customerId/session.
func (s *Server) CloseSession(ctx echo.Context) error {
	customerID, err := kernel.UUIDFromString(ctx.Param("customerId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid customer id",
		})
	}

	key := customerID.String()
	s.sessionsMu.Lock()
	manager, ok := s.sessions[key]
	delete(s.sessions, key)
	s.sessionsMu.Unlock()

	if !ok {
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: "No open session for customer",
		})
	}
	if disconnectErr := manager.Disconnect(); disconnectErr != nil {
		s.logger.Warn("session disconnect failed", "customerId", key, "error", disconnectErr)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// CreateRequest handles POST /api/v1/requests - creates a service request
// and broadcasts it to matching providers.
func (s *Server) CreateRequest(ctx echo.Context) error {
	var body NewServiceRequest
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	customerID, err := kernel.UUIDFromString(body.CustomerID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid customer id: " + err.Error(),
		})
	}

	address, err := addressFromPayload(body.Address)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid address: " + err.Error(),
		})
	}

	urgency, err := request.UrgencyFromString(body.Urgency)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid urgency: " + err.Error(),
		})
	}

	requestID := kernel.NewUUID()
	cmd, err := commands.NewCreateRequestCommand(
		requestID, customerID, body.CustomerName, body.CustomerPhone,
		address, body.ServiceType, body.Problem, urgency, body.ScheduledTime)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request data: " + err.Error(),
		})
	}

	if _, handleErr := s.createRequestHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		s.logger.Error("failed to create request", "error", handleErr)
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to create request",
		})
	}

	return ctx.JSON(http.StatusCreated, RequestCreated{RequestID: requestID.String()})
}

// GetRequest handles GET /api/v1/requests/:requestId.
func (s *Server) GetRequest(ctx echo.Context) error {
	requestID, err := kernel.UUIDFromString(ctx.Param("requestId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request id",
		})
	}

	query, err := queries.NewGetRequestByIDQuery(requestID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request id",
		})
	}

	view, err := s.getRequestByIDHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return ctx.JSON(http.StatusNotFound, Error{
				Code:    http.StatusNotFound,
				Message: "Request not found",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve request",
		})
	}

	return ctx.JSON(http.StatusOK, requestFromView(view))
}

// GetActiveRequests handles GET /api/v1/customers/:customerId/requests/active.
func (s *Server) GetActiveRequests(ctx echo.Context) error {
	customerID, err := kernel.UUIDFromString(ctx.Param("customerId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid customer id",
		})
	}

	query, err := queries.NewGetActiveRequestsQuery(customerID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid customer id",
		})
	}

	views, err := s.getActiveRequestsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve requests",
		})
	}

	response := make([]ServiceRequest, len(views))
	for i, view := range views {
		response[i] = requestFromView(view)
	}

	return ctx.JSON(http.StatusOK, response)
}

// CancelRequest handles POST /api/v1/requests/:requestId/cancel.
func (s *Server) CancelRequest(ctx echo.Context) error {
	requestID, err := kernel.UUIDFromString(ctx.Param("requestId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request id",
		})
	}

	cmd, err := commands.NewCancelRequestCommand(requestID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request id",
		})
	}

	if handleErr := s.cancelRequestHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		switch {
		case errors.Is(handleErr, errs.ErrObjectNotFound):
			return ctx.JSON(http.StatusNotFound, Error{
				Code:    http.StatusNotFound,
				Message: "Request not found",
			})
		case errors.Is(handleErr, errs.ErrValueIsInvalid):
			return ctx.JSON(http.StatusConflict, Error{
				Code:    http.StatusConflict,
				Message: "Request can no longer be cancelled",
			})
		default:
			return ctx.JSON(http.StatusInternalServerError, Error{
				Code:    http.StatusInternalServerError,
				Message: "Failed to cancel request",
			})
		}
	}

	return ctx.NoContent(http.StatusNoContent)
}

// SubmitReview handles POST /api/v1/reviews.
func (s *Server) SubmitReview(ctx echo.Context) error {
	var body NewReview
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	jobCardID, err := kernel.UUIDFromString(body.JobCardID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid job card id",
		})
	}
	customerID, err := kernel.UUIDFromString(body.CustomerID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid customer id",
		})
	}

	cmd, err := commands.NewSubmitReviewCommand(jobCardID, customerID, body.Rating, body.Comment)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid review: " + err.Error(),
		})
	}

	if handleErr := s.submitReviewHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		switch {
		case errors.Is(handleErr, errs.ErrObjectNotFound):
			return ctx.JSON(http.StatusNotFound, Error{
				Code:    http.StatusNotFound,
				Message: "Job card not found",
			})
		case errors.Is(handleErr, errs.ErrValueIsInvalid):
			return ctx.JSON(http.StatusConflict, Error{
				Code:    http.StatusConflict,
				Message: "Review rejected: " + handleErr.Error(),
			})
		default:
			return ctx.JSON(http.StatusInternalServerError, Error{
				Code:    http.StatusInternalServerError,
				Message: "Failed to submit review",
			})
		}
	}

	return ctx.NoContent(http.StatusCreated)
}

// GetReviewEligibility handles GET /api/v1/requests/:requestId/review.
func (s *Server) GetReviewEligibility(ctx echo.Context) error {
	requestID, err := kernel.UUIDFromString(ctx.Param("requestId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request id",
		})
	}

	eligibility := ReviewEligibility{Status: s.reviewGate.Status(requestID).String()}
	if jobCardID, ok := s.reviewGate.JobCard(requestID); ok {
		eligibility.JobCardID = jobCardID.String()
	}

	return ctx.JSON(http.StatusOK, eligibility)
}

// DismissReview handles POST /api/v1/requests/:requestId/review/dismiss.
// A dismissed invitation stays dismissed even if a completion signal for the
// same request arrives later.
func (s *Server) DismissReview(ctx echo.Context) error {
	requestID, err := kernel.UUIDFromString(ctx.Param("requestId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request id",
		})
	}

	s.reviewGate.Dismiss(requestID)
	return ctx.NoContent(http.StatusNoContent)
}

// TrackRequest handles GET /api/v1/requests/:requestId/track as a
// server-sent-events stream. Each status or position change produces one
// status-update frame; feed errors produce tracking-error frames without
// closing the stream unless the failure is a permission error.
func (s *Server) TrackRequest(ctx echo.Context) error {
	requestID, err := kernel.UUIDFromString(ctx.Param("requestId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request id",
		})
	}

	updates := make(chan TrackingUpdate, 16)
	feedErrors := make(chan error, 4)

	synchronizer := tracking.NewStatusSynchronizer(
		s.requestFeed, s.locationFeed, s.directory, s.tracker, s.logger)
	defer synchronizer.Close()

	requestCtx := ctx.Request().Context()
	startErr := synchronizer.Start(requestCtx, requestID,
		func(snapshot tracking.Snapshot) {
			s.signalCompletion(requestCtx, snapshot)
			select {
			case updates <- trackingUpdateFromSnapshot(snapshot):
			default:
				// Slow consumer: drop the frame, the next one supersedes it.
			}
		},
		func(feedErr error) {
			select {
			case feedErrors <- feedErr:
			default:
			}
		})
	if startErr != nil {
		if errors.Is(startErr, errs.ErrObjectNotFound) {
			return ctx.JSON(http.StatusNotFound, Error{
				Code:    http.StatusNotFound,
				Message: "Request not found",
			})
		}
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to start tracking",
		})
	}

	response := ctx.Response()
	response.Header().Set(echo.HeaderContentType, "text/event-stream")
	response.Header().Set(echo.HeaderCacheControl, "no-cache")
	response.Header().Set(echo.HeaderConnection, "keep-alive")
	response.WriteHeader(http.StatusOK)

	for {
		select {
		case <-requestCtx.Done():
			return nil
		case update := <-updates:
			if writeErr := writeSSE(response, "status-update", update); writeErr != nil {
				return nil
			}
		case feedErr := <-feedErrors:
			frame := Error{Code: http.StatusBadGateway, Message: feedErr.Error()}
			if errors.Is(feedErr, errs.ErrPermissionDenied) {
				frame.Code = http.StatusForbidden
				_ = writeSSE(response, "tracking-error", frame)
				return nil
			}
			if writeErr := writeSSE(response, "tracking-error", frame); writeErr != nil {
				return nil
			}
		}
	}
}

// signalCompletion feeds the review gate from the durable channel: the first
// snapshot that shows the request completed opens the review invitation even
// when the push event never arrived. The gate deduplicates against the push
// signal, so double delivery is harmless.
func (s *Server) signalCompletion(ctx context.Context, snapshot tracking.Snapshot) {
	if snapshot.Request == nil || snapshot.Request.Status() != request.Completed {
		return
	}
	s.reviewGate.Notify(ctx, review.CompletionSignal{
		RequestID:  snapshot.Request.ID(),
		CustomerID: snapshot.Request.CustomerID(),
	})
}

func writeSSE(response *echo.Response, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err = fmt.Fprintf(response, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	response.Flush()
	return nil
}

func addressFromPayload(payload AddressPayload) (request.Address, error) {
	var coordinates *kernel.GeoPoint
	if payload.Latitude != nil && payload.Longitude != nil {
		point, err := kernel.NewGeoPoint(*payload.Latitude, *payload.Longitude)
		if err != nil {
			return request.Address{}, err
		}
		coordinates = &point
	}
	return request.NewAddress(payload.Line, payload.City, payload.State, payload.Pincode, coordinates)
}

func requestFromView(view queries.RequestView) ServiceRequest {
	response := ServiceRequest{
		ID:            view.ID.String(),
		CustomerID:    view.CustomerID.String(),
		CustomerName:  view.CustomerName,
		CustomerPhone: view.CustomerPhone,
		Address: AddressPayload{
			Line:      view.AddressLine,
			City:      view.City,
			State:     view.State,
			Pincode:   view.Pincode,
			Latitude:  view.Latitude,
			Longitude: view.Longitude,
		},
		ServiceType:   view.ServiceType,
		Problem:       view.Problem,
		Urgency:       view.Urgency,
		ScheduledTime: view.ScheduledTime,
		Status:        view.Status,
		CreatedAt:     view.CreatedAt,
		UpdatedAt:     view.UpdatedAt,
	}

	if view.ProviderID != nil {
		response.Provider = &ProviderProfile{
			ID:    view.ProviderID.String(),
			Name:  view.ProviderName,
			Phone: view.ProviderPhone,
		}
	}

	return response
}

func trackingUpdateFromSnapshot(snapshot tracking.Snapshot) TrackingUpdate {
	update := TrackingUpdate{}
	if snapshot.Request != nil {
		update.Status = snapshot.Request.Status().String()
	}
	if snapshot.Provider != nil {
		update.Provider = &ProviderProfile{
			ID:       snapshot.Provider.ID().String(),
			Name:     snapshot.Provider.Name(),
			Phone:    snapshot.Provider.Phone(),
			PhotoURL: snapshot.Provider.PhotoURL(),
		}
	}
	if snapshot.ProviderLocation != nil {
		update.Position = &ProviderPosition{
			Latitude:  snapshot.ProviderLocation.Point.Latitude(),
			Longitude: snapshot.ProviderLocation.Point.Longitude(),
			UpdatedAt: snapshot.ProviderLocation.UpdatedAt,
		}
	}
	if snapshot.Estimate != nil {
		update.Estimate = &Estimate{
			Distance:   snapshot.Estimate.Distance,
			EtaMinutes: snapshot.Estimate.EtaMinutes,
		}
	}
	return update
}
