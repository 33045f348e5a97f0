package commands

import (
	"errors"
	"time"

	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/core/domain/model/request"
	"homeservice/internal/pkg/guard"
)

var (
	ErrCreateRequestCommandIsNotConstructed = errors.New(
		"CreateRequestCommand must be created via NewCreateRequestCommand constructor",
	)
	ErrCustomerNameIsRequired  = errors.New("customer name is required")
	ErrCustomerPhoneIsRequired = errors.New("customer phone is required")
	ErrServiceTypeIsRequired   = errors.New("service type is required")
	ErrProblemIsRequired       = errors.New("problem description is required")
)

// CreateRequestCommand represents a customer's intent to create a new
// service request and have it broadcast to matching providers.
//
// Example:
//
//	requestID := kernel.NewUUID()
//	cmd, err := NewCreateRequestCommand(requestID, customerID,
//	    "Asha Rao", "+919800000001", address,
//	    "plumbing", "kitchen sink is leaking", request.Immediate, nil)
//	if err != nil {
//	    return fmt.Errorf("invalid request data: %w", err)
//	}
//
//	id, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("failed to create request: %w", err)
//	}
//	fmt.Printf("Request %s created and broadcast", id)
type CreateRequestCommand struct { //nolint:recvcheck //using for validation
	requestID     kernel.UUID
	customerID    kernel.UUID
	customerName  string
	customerPhone string
	address       request.Address
	serviceType   string
	problem       string
	urgency       request.Urgency
	scheduledTime *time.Time

	guard guard.ConstructorGuard
}

// NewCreateRequestCommand creates a command to register a new service
// request. Validates identities, contact fields, the address snapshot, and
// the urgency/scheduledTime pairing. Returns an error if any validation
// fails.
func NewCreateRequestCommand(
	requestID kernel.UUID,
	customerID kernel.UUID,
	customerName string,
	customerPhone string,
	address request.Address,
	serviceType string,
	problem string,
	urgency request.Urgency,
	scheduledTime *time.Time,
) (CreateRequestCommand, error) {
	cmd := CreateRequestCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setIDs(requestID, customerID),
		cmd.setCustomer(customerName, customerPhone),
		cmd.setAddress(address),
		cmd.setService(serviceType, problem),
		cmd.setSchedule(urgency, scheduledTime),
	); err != nil {
		return CreateRequestCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateRequestCommand) Validate() error {
	return c.guard.Validate(ErrCreateRequestCommandIsNotConstructed)
}

// RequestID returns the unique identifier of the request to create.
func (c CreateRequestCommand) RequestID() kernel.UUID {
	return c.requestID
}

// CustomerID returns the requesting customer's identifier.
func (c CreateRequestCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// CustomerName returns the customer's display name.
func (c CreateRequestCommand) CustomerName() string {
	return c.customerName
}

// CustomerPhone returns the customer's contact phone.
func (c CreateRequestCommand) CustomerPhone() string {
	return c.customerPhone
}

// Address returns the customer address snapshot.
func (c CreateRequestCommand) Address() request.Address {
	return c.address
}

// ServiceType returns the requested service category.
func (c CreateRequestCommand) ServiceType() string {
	return c.serviceType
}

// Problem returns the customer's problem description.
func (c CreateRequestCommand) Problem() string {
	return c.problem
}

// Urgency returns whether the request is immediate or scheduled.
func (c CreateRequestCommand) Urgency() request.Urgency {
	return c.urgency
}

// ScheduledTime returns the scheduled time, nil for immediate requests.
func (c CreateRequestCommand) ScheduledTime() *time.Time {
	return c.scheduledTime
}

func (c *CreateRequestCommand) setIDs(requestID, customerID kernel.UUID) error {
	if err := requestID.Validate(); err != nil {
		return err
	}
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.requestID = requestID
	c.customerID = customerID
	return nil
}

func (c *CreateRequestCommand) setCustomer(name, phone string) error {
	if name == "" {
		return ErrCustomerNameIsRequired
	}
	if phone == "" {
		return ErrCustomerPhoneIsRequired
	}

	c.customerName = name
	c.customerPhone = phone
	return nil
}

func (c *CreateRequestCommand) setAddress(address request.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}

	c.address = address
	return nil
}

func (c *CreateRequestCommand) setService(serviceType, problem string) error {
	if serviceType == "" {
		return ErrServiceTypeIsRequired
	}
	if problem == "" {
		return ErrProblemIsRequired
	}

	c.serviceType = serviceType
	c.problem = problem
	return nil
}

func (c *CreateRequestCommand) setSchedule(urgency request.Urgency, scheduledTime *time.Time) error {
	if err := urgency.Validate(); err != nil {
		return err
	}
	// The aggregate rechecks the pairing; validating here keeps bad input
	// from ever reaching the transaction.
	if urgency == request.Scheduled && scheduledTime == nil {
		return errors.New("scheduled time is required for scheduled requests")
	}

	c.urgency = urgency
	if scheduledTime != nil {
		t := *scheduledTime
		c.scheduledTime = &t
	}
	return nil
}
