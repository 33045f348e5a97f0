package request

import (
	"errors"
	"time"

	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/pkg/errs"
)

// ErrRequestIsNotConstructed is returned when a ServiceRequest instance was
// not created through NewServiceRequest or RestoreServiceRequest.
var ErrRequestIsNotConstructed = errors.New(
	"ServiceRequest must be created via NewServiceRequest constructor")

// ServiceRequest is the aggregate root for a customer's ask for a home
// service. It is the top-level unit of dispatch: created by the customer,
// broadcast to matching providers, mutated by provider-side acceptance and
// progress actions, and closed by completion or cancellation.
//
// Invariants:
//   - A provider id is set exactly when status is accepted, in_progress, or
//     completed; once set it is immutable except through cancellation, which
//     clears the assignment.
//   - scheduledTime is present exactly when urgency is scheduled.
//   - Completed and Cancelled are terminal; terminal requests reject all
//     further transitions.
type ServiceRequest struct {
	id            kernel.UUID
	customerID    kernel.UUID
	customerName  string
	customerPhone string
	address       Address
	serviceType   string
	problem       string
	urgency       Urgency
	scheduledTime *time.Time
	status        Status
	providerID    *kernel.UUID
	providerName  string
	providerPhone string
	createdAt     time.Time
	updatedAt     time.Time

	isConstructed bool
}

// NewServiceRequest creates a new ServiceRequest in Pending status with no
// provider assigned. All customer-facing fields are validated; the
// validation error names the offending field so the caller can surface it
// before any write happens.
func NewServiceRequest(
	id kernel.UUID,
	customerID kernel.UUID,
	customerName string,
	customerPhone string,
	address Address,
	serviceType string,
	problem string,
	urgency Urgency,
	scheduledTime *time.Time,
) (*ServiceRequest, error) {
	now := time.Now().UTC()
	r := &ServiceRequest{
		status:        Pending,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		r.setID(id),
		r.setCustomer(customerID, customerName, customerPhone),
		r.setAddress(address),
		r.setServiceType(serviceType),
		r.setProblem(problem),
		r.setSchedule(urgency, scheduledTime),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// RestoreServiceRequest reconstructs a ServiceRequest from persistence.
// Beyond the field validation of NewServiceRequest it checks the
// status/provider consistency invariant, so corrupted rows fail loudly
// instead of producing an impossible aggregate.
func RestoreServiceRequest(
	id kernel.UUID,
	customerID kernel.UUID,
	customerName string,
	customerPhone string,
	address Address,
	serviceType string,
	problem string,
	urgency Urgency,
	scheduledTime *time.Time,
	status Status,
	providerID *kernel.UUID,
	providerName string,
	providerPhone string,
	createdAt time.Time,
	updatedAt time.Time,
) (*ServiceRequest, error) {
	r, err := NewServiceRequest(
		id, customerID, customerName, customerPhone,
		address, serviceType, problem, urgency, scheduledTime,
	)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}
	if err = status.ValidateCanHaveProvider(providerID != nil); err != nil {
		return nil, err
	}
	if providerID != nil {
		if err = providerID.Validate(); err != nil {
			return nil, err
		}
		pid := *providerID
		r.providerID = &pid
		r.providerName = providerName
		r.providerPhone = providerPhone
	}

	r.status = status
	r.createdAt = createdAt
	r.updatedAt = updatedAt
	return r, nil
}

// Validate ensures the instance was created through a constructor.
func (r *ServiceRequest) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRequestIsNotConstructed
	}

	return nil
}

// IsEqual compares two requests by identity.
func (r *ServiceRequest) IsEqual(other *ServiceRequest) bool {
	return other != nil && r.id.IsEqual(other.id)
}

// ID returns the request's unique identifier.
func (r *ServiceRequest) ID() kernel.UUID {
	return r.id
}

// CustomerID returns the requesting customer's identifier.
func (r *ServiceRequest) CustomerID() kernel.UUID {
	return r.customerID
}

// CustomerName returns the customer's display name.
func (r *ServiceRequest) CustomerName() string {
	return r.customerName
}

// CustomerPhone returns the customer's contact phone.
func (r *ServiceRequest) CustomerPhone() string {
	return r.customerPhone
}

// Address returns the address snapshot captured at creation.
func (r *ServiceRequest) Address() Address {
	return r.address
}

// ServiceType returns the requested service category.
func (r *ServiceRequest) ServiceType() string {
	return r.serviceType
}

// Problem returns the customer's problem description.
func (r *ServiceRequest) Problem() string {
	return r.problem
}

// Urgency returns whether the request is immediate or scheduled.
func (r *ServiceRequest) Urgency() Urgency {
	return r.urgency
}

// ScheduledTime returns the scheduled time, nil for immediate requests.
func (r *ServiceRequest) ScheduledTime() *time.Time {
	if r.scheduledTime == nil {
		return nil
	}
	t := *r.scheduledTime
	return &t
}

// Status returns the current lifecycle status.
func (r *ServiceRequest) Status() Status {
	return r.status
}

// Provider returns the assigned provider's id, nil until acceptance.
func (r *ServiceRequest) Provider() *kernel.UUID {
	if r.providerID == nil {
		return nil
	}
	id := *r.providerID
	return &id
}

// ProviderName returns the denormalized provider name, empty until
// acceptance.
func (r *ServiceRequest) ProviderName() string {
	return r.providerName
}

// ProviderPhone returns the denormalized provider phone, empty until
// acceptance.
func (r *ServiceRequest) ProviderPhone() string {
	return r.providerPhone
}

// CreatedAt returns the creation timestamp.
func (r *ServiceRequest) CreatedAt() time.Time {
	return r.createdAt
}

// UpdatedAt returns the last mutation timestamp.
func (r *ServiceRequest) UpdatedAt() time.Time {
	return r.updatedAt
}

// Accept assigns the request to a provider and moves it to Accepted.
// Only Pending requests can be accepted, and the provider assignment is
// written exactly once; a second acceptance fails rather than silently
// reassigning.
func (r *ServiceRequest) Accept(providerID kernel.UUID, providerName, providerPhone string) error {
	if err := providerID.Validate(); err != nil {
		return err
	}
	if r.providerID != nil {
		return errs.NewValueIsInvalidError("providerId is already assigned")
	}

	newStatus, err := r.status.Accept()
	if err != nil {
		return err
	}

	r.status = newStatus
	r.providerID = &providerID
	r.providerName = providerName
	r.providerPhone = providerPhone
	r.touch()
	return nil
}

// Start moves an accepted request to InProgress.
func (r *ServiceRequest) Start() error {
	newStatus, err := r.status.Start()
	if err != nil {
		return err
	}

	r.status = newStatus
	r.touch()
	return nil
}

// Complete closes the request. Terminal.
func (r *ServiceRequest) Complete() error {
	newStatus, err := r.status.Complete()
	if err != nil {
		return err
	}

	r.status = newStatus
	r.touch()
	return nil
}

// Cancel cancels a non-terminal request and clears the provider assignment,
// keeping the status/provider invariant intact. Terminal.
func (r *ServiceRequest) Cancel() error {
	newStatus, err := r.status.Cancel()
	if err != nil {
		return err
	}

	r.status = newStatus
	r.providerID = nil
	r.providerName = ""
	r.providerPhone = ""
	r.touch()
	return nil
}

func (r *ServiceRequest) touch() {
	r.updatedAt = time.Now().UTC()
}

func (r *ServiceRequest) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *ServiceRequest) setCustomer(customerID kernel.UUID, name, phone string) error {
	var idErr, nameErr, phoneErr error
	idErr = customerID.Validate()
	if name == "" {
		nameErr = errs.NewValueIsRequiredError("customerName")
	}
	if phone == "" {
		phoneErr = errs.NewValueIsRequiredError("customerPhone")
	}
	if err := errors.Join(idErr, nameErr, phoneErr); err != nil {
		return err
	}

	r.customerID = customerID
	r.customerName = name
	r.customerPhone = phone
	return nil
}

func (r *ServiceRequest) setAddress(address Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	r.address = address
	return nil
}

func (r *ServiceRequest) setServiceType(serviceType string) error {
	if serviceType == "" {
		return errs.NewValueIsRequiredError("serviceType")
	}
	r.serviceType = serviceType
	return nil
}

func (r *ServiceRequest) setProblem(problem string) error {
	if problem == "" {
		return errs.NewValueIsRequiredError("problem")
	}
	r.problem = problem
	return nil
}

func (r *ServiceRequest) setSchedule(urgency Urgency, scheduledTime *time.Time) error {
	if err := urgency.Validate(); err != nil {
		return err
	}
	if urgency == Scheduled && scheduledTime == nil {
		return errs.NewValueIsRequiredError("scheduledTime")
	}
	if urgency == Immediate && scheduledTime != nil {
		return errs.NewValueIsInvalidError("scheduledTime is only valid for scheduled requests")
	}

	r.urgency = urgency
	if scheduledTime != nil {
		t := *scheduledTime
		r.scheduledTime = &t
	}
	return nil
}
