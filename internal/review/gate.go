// Package review decides when a customer is invited to review a finished
// job. Completion is signalled on two channels, the push event and the
// durable status feed, and both may fire for the same job; the gate
// deduplicates them so the invitation appears exactly once.
package review

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"homeservice/internal/core/domain/model/jobcard"
	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/core/ports"
	"homeservice/internal/pkg/errs"
)

// Status is the review eligibility of a request within a customer session.
type Status int

const (
	// StatusUnknown means no completion signal was seen for the request.
	StatusUnknown Status = iota
	// StatusNotEligible means completion was signalled but eligibility could
	// not be established (yet): the job card is still being resolved, or a
	// lookup failed.
	StatusNotEligible
	// StatusEligible means the customer should be invited to review.
	StatusEligible
	// StatusReviewed means a review was already submitted for the job.
	StatusReviewed
	// StatusDismissed means the customer declined the invitation this
	// session.
	StatusDismissed
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusUnknown:
		return "unknown"
	case StatusNotEligible:
		return "not_eligible"
	case StatusEligible:
		return "eligible"
	case StatusReviewed:
		return "reviewed"
	case StatusDismissed:
		return "dismissed"
	default:
		return "invalid"
	}
}

const (
	defaultLookupAttempts = 3
	defaultLookupDelay    = 2 * time.Second
)

// CompletionSignal reports that a request finished. JobCardID is optional:
// the push event carries it, the durable feed does not.
type CompletionSignal struct {
	RequestID  kernel.UUID
	CustomerID kernel.UUID
	JobCardID  *kernel.UUID
}

type gateEntry struct {
	status    Status
	jobCardID *kernel.UUID
	resolving bool
}

// Gate tracks review eligibility per request for one customer session. The
// first completion signal for a request resolves the job card and checks the
// review store; later signals for the same request reuse the outcome.
type Gate struct {
	jobCards       ports.JobCardRepository
	reviews        ports.ReviewStore
	logger         *slog.Logger
	lookupAttempts int
	lookupDelay    time.Duration

	mu         sync.Mutex
	entries    map[string]*gateEntry
	onEligible func(requestID, jobCardID kernel.UUID)
}

// NewGate creates a review gate. lookupAttempts and lookupDelay control the
// delayed retry used when the job card is not yet readable; non-positive
// values fall back to defaults.
func NewGate(
	jobCards ports.JobCardRepository,
	reviews ports.ReviewStore,
	lookupAttempts int,
	lookupDelay time.Duration,
	logger *slog.Logger,
) *Gate {
	if lookupAttempts <= 0 {
		lookupAttempts = defaultLookupAttempts
	}
	if lookupDelay <= 0 {
		lookupDelay = defaultLookupDelay
	}

	return &Gate{
		jobCards:       jobCards,
		reviews:        reviews,
		logger:         logger,
		lookupAttempts: lookupAttempts,
		lookupDelay:    lookupDelay,
		entries:        make(map[string]*gateEntry),
	}
}

// OnEligible registers the callback fired when a request first becomes
// eligible. Fires at most once per request per session.
func (g *Gate) OnEligible(callback func(requestID, jobCardID kernel.UUID)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onEligible = callback
}

// Notify processes a completion signal and returns the resulting status.
// Duplicate signals for the same request return the settled status without
// another lookup. A resolution that cannot complete yet returns
// StatusNotEligible and keeps retrying in the background.
func (g *Gate) Notify(ctx context.Context, signal CompletionSignal) Status {
	if err := signal.RequestID.Validate(); err != nil {
		g.logger.Warn("completion signal with invalid request id", slog.Any("error", err))
		return StatusUnknown
	}

	key := signal.RequestID.String()

	g.mu.Lock()
	entry, seen := g.entries[key]
	if seen && (entry.status != StatusNotEligible || entry.resolving) {
		status := entry.status
		g.mu.Unlock()
		return status
	}
	if entry == nil {
		entry = &gateEntry{status: StatusNotEligible}
		g.entries[key] = entry
	}
	entry.resolving = true
	g.mu.Unlock()

	return g.resolve(ctx, signal, entry)
}

// Dismiss suppresses the invitation for the rest of the session. It wins
// over any earlier or later eligibility for the request.
func (g *Gate) Dismiss(requestID kernel.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := requestID.String()
	entry, ok := g.entries[key]
	if !ok {
		entry = &gateEntry{}
		g.entries[key] = entry
	}
	entry.status = StatusDismissed
}

// Status returns the request's current eligibility in this session.
func (g *Gate) Status(requestID kernel.UUID) Status {
	g.mu.Lock()
	defer g.mu.Unlock()

	if entry, ok := g.entries[requestID.String()]; ok {
		return entry.status
	}
	return StatusUnknown
}

// JobCard returns the resolved job card id for a request once it is known.
func (g *Gate) JobCard(requestID kernel.UUID) (kernel.UUID, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	entry, ok := g.entries[requestID.String()]
	if !ok || entry.jobCardID == nil {
		return kernel.UUID{}, false
	}
	return *entry.jobCardID, true
}

func (g *Gate) resolve(ctx context.Context, signal CompletionSignal, entry *gateEntry) Status {
	jobCardID, retryable := g.resolveJobCard(ctx, signal)
	if jobCardID == nil {
		if retryable {
			go g.retryResolve(ctx, signal, entry)
			return StatusNotEligible
		}
		return g.settle(signal.RequestID, entry, StatusNotEligible, nil)
	}

	return g.settle(signal.RequestID, entry, g.checkReviewed(ctx, *jobCardID), jobCardID)
}

// resolveJobCard finds the completed job card for the signal. The second
// return reports whether a failed resolution is worth retrying: the durable
// status can land moments before the job card row is readable.
func (g *Gate) resolveJobCard(ctx context.Context, signal CompletionSignal) (*kernel.UUID, bool) {
	if signal.JobCardID != nil {
		return signal.JobCardID, false
	}

	card, err := g.jobCards.GetByRequestAndCustomer(ctx, signal.RequestID, signal.CustomerID)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, true
		}
		g.logger.Warn("job card lookup failed",
			slog.String("requestId", signal.RequestID.String()), slog.Any("error", err))
		return nil, false
	}

	if card.Status() != jobcard.Completed {
		return nil, true
	}

	id := card.ID()
	return &id, false
}

func (g *Gate) retryResolve(ctx context.Context, signal CompletionSignal, entry *gateEntry) {
	for attempt := 1; attempt <= g.lookupAttempts; attempt++ {
		select {
		case <-ctx.Done():
			g.settle(signal.RequestID, entry, StatusNotEligible, nil)
			return
		case <-time.After(g.lookupDelay):
		}

		jobCardID, retryable := g.resolveJobCard(ctx, signal)
		if jobCardID != nil {
			g.settle(signal.RequestID, entry, g.checkReviewed(ctx, *jobCardID), jobCardID)
			return
		}
		if !retryable {
			break
		}
	}

	g.logger.Warn("job card never became readable, review invitation skipped",
		slog.String("requestId", signal.RequestID.String()))
	g.settle(signal.RequestID, entry, StatusNotEligible, nil)
}

func (g *Gate) checkReviewed(ctx context.Context, jobCardID kernel.UUID) Status {
	exists, err := g.reviews.Exists(ctx, jobCardID)
	if err != nil {
		g.logger.Warn("review existence check failed",
			slog.String("jobCardId", jobCardID.String()), slog.Any("error", err))
		return StatusNotEligible
	}
	if exists {
		return StatusReviewed
	}
	return StatusEligible
}

// settle records the resolution outcome. A dismissal that happened while
// resolving wins; the eligible callback fires outside the lock.
func (g *Gate) settle(requestID kernel.UUID, entry *gateEntry, status Status, jobCardID *kernel.UUID) Status {
	g.mu.Lock()
	entry.resolving = false
	entry.jobCardID = jobCardID

	if entry.status == StatusDismissed {
		g.mu.Unlock()
		return StatusDismissed
	}

	entry.status = status
	callback := g.onEligible
	g.mu.Unlock()

	if status == StatusEligible && callback != nil && jobCardID != nil {
		callback(requestID, *jobCardID)
	}
	return status
}
