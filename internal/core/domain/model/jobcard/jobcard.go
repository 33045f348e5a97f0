package jobcard

import (
	"errors"
	"time"

	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/core/domain/model/request"
	"homeservice/internal/pkg/errs"
)

// ErrJobCardIsNotConstructed is returned when a JobCard instance was not
// created through NewJobCard or RestoreJobCard.
var ErrJobCardIsNotConstructed = errors.New(
	"JobCard must be created via NewJobCard constructor")

// JobCard is the operational assignment record created once a provider is
// matched to a service request. It snapshots the customer address and
// contact at assignment time, so later edits to the request never change
// what the provider on the job sees.
//
// Invariant: at most one active (non-terminal) JobCard exists per service
// request; the repository enforces this with a partial unique index, the
// aggregate only guarantees its own state machine.
type JobCard struct {
	id            kernel.UUID
	requestID     kernel.UUID
	customerID    kernel.UUID
	providerID    kernel.UUID
	customerName  string
	customerPhone string
	address       request.Address
	status        Status
	createdAt     time.Time
	updatedAt     time.Time

	isConstructed bool
}

// NewJobCard creates a JobCard in Assigned status from the request being
// accepted and the accepting provider.
func NewJobCard(
	id kernel.UUID,
	requestID kernel.UUID,
	customerID kernel.UUID,
	providerID kernel.UUID,
	customerName string,
	customerPhone string,
	address request.Address,
) (*JobCard, error) {
	now := time.Now().UTC()
	j := &JobCard{
		status:        Assigned,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		j.setIDs(id, requestID, customerID, providerID),
		j.setSnapshot(customerName, customerPhone, address),
	); err != nil {
		return nil, err
	}

	return j, nil
}

// RestoreJobCard reconstructs a JobCard from persistence.
func RestoreJobCard(
	id kernel.UUID,
	requestID kernel.UUID,
	customerID kernel.UUID,
	providerID kernel.UUID,
	customerName string,
	customerPhone string,
	address request.Address,
	status Status,
	createdAt time.Time,
	updatedAt time.Time,
) (*JobCard, error) {
	j, err := NewJobCard(id, requestID, customerID, providerID,
		customerName, customerPhone, address)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}

	j.status = status
	j.createdAt = createdAt
	j.updatedAt = updatedAt
	return j, nil
}

// Validate ensures the instance was created through a constructor.
func (j *JobCard) Validate() error {
	if j == nil || !j.isConstructed {
		return ErrJobCardIsNotConstructed
	}

	return nil
}

// IsEqual compares two job cards by identity.
func (j *JobCard) IsEqual(other *JobCard) bool {
	return other != nil && j.id.IsEqual(other.id)
}

// ID returns the job card's unique identifier.
func (j *JobCard) ID() kernel.UUID {
	return j.id
}

// RequestID returns the linked service request's identifier.
func (j *JobCard) RequestID() kernel.UUID {
	return j.requestID
}

// CustomerID returns the customer's identifier.
func (j *JobCard) CustomerID() kernel.UUID {
	return j.customerID
}

// ProviderID returns the assigned provider's identifier.
func (j *JobCard) ProviderID() kernel.UUID {
	return j.providerID
}

// CustomerName returns the customer name snapshot.
func (j *JobCard) CustomerName() string {
	return j.customerName
}

// CustomerPhone returns the customer phone snapshot.
func (j *JobCard) CustomerPhone() string {
	return j.customerPhone
}

// Address returns the address snapshot captured at assignment.
func (j *JobCard) Address() request.Address {
	return j.address
}

// Status returns the current lifecycle status.
func (j *JobCard) Status() Status {
	return j.status
}

// IsActive reports whether the job card is still in a non-terminal state.
func (j *JobCard) IsActive() bool {
	return !j.status.IsTerminal()
}

// CreatedAt returns the creation timestamp.
func (j *JobCard) CreatedAt() time.Time {
	return j.createdAt
}

// UpdatedAt returns the last mutation timestamp.
func (j *JobCard) UpdatedAt() time.Time {
	return j.updatedAt
}

// Start moves an assigned job to InProgress.
func (j *JobCard) Start() error {
	newStatus, err := j.status.Start()
	if err != nil {
		return err
	}

	j.status = newStatus
	j.touch()
	return nil
}

// Complete closes the job successfully. Terminal.
func (j *JobCard) Complete() error {
	newStatus, err := j.status.Complete()
	if err != nil {
		return err
	}

	j.status = newStatus
	j.touch()
	return nil
}

// Cancel withdraws a non-terminal job. Terminal.
func (j *JobCard) Cancel() error {
	newStatus, err := j.status.Cancel()
	if err != nil {
		return err
	}

	j.status = newStatus
	j.touch()
	return nil
}

func (j *JobCard) touch() {
	j.updatedAt = time.Now().UTC()
}

func (j *JobCard) setIDs(id, requestID, customerID, providerID kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if err := requestID.Validate(); err != nil {
		return err
	}
	if err := customerID.Validate(); err != nil {
		return err
	}
	if err := providerID.Validate(); err != nil {
		return err
	}

	j.id = id
	j.requestID = requestID
	j.customerID = customerID
	j.providerID = providerID
	return nil
}

func (j *JobCard) setSnapshot(customerName, customerPhone string, address request.Address) error {
	var nameErr, phoneErr error
	if customerName == "" {
		nameErr = errs.NewValueIsRequiredError("customerName")
	}
	if customerPhone == "" {
		phoneErr = errs.NewValueIsRequiredError("customerPhone")
	}
	if err := errors.Join(nameErr, phoneErr, address.Validate()); err != nil {
		return err
	}

	j.customerName = customerName
	j.customerPhone = customerPhone
	j.address = address
	return nil
}
