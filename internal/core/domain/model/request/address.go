package request

import (
	"errors"
	"fmt"

	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/pkg/errs"
	"homeservice/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned when attempting to use an
// improperly initialized Address.
var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError(
	"address must be created via NewAddress constructor")

// Address is the customer address snapshot captured on a service request.
// It is an immutable value object. A request must be locatable, so an
// address requires either coordinates or a pincode (postal code); city and
// state are optional display fields.
type Address struct { //nolint:recvcheck //using for validation
	line        string
	city        string
	state       string
	pincode     string
	coordinates *kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewAddress creates an Address. The street line is required, and at least
// one of coordinates or pincode must be present.
func NewAddress(line, city, state, pincode string, coordinates *kernel.GeoPoint) (Address, error) {
	address := Address{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		address.setLine(line),
		address.setLocation(pincode, coordinates),
		address.setCityState(city, state),
	); err != nil {
		return Address{}, err
	}

	return address, nil
}

// Validate checks that the Address was created through its constructor.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

// Line returns the street line.
func (a Address) Line() string {
	return a.line
}

// City returns the city, possibly empty.
func (a Address) City() string {
	return a.city
}

// State returns the state, possibly empty.
func (a Address) State() string {
	return a.state
}

// Pincode returns the postal code, possibly empty when coordinates are set.
func (a Address) Pincode() string {
	return a.pincode
}

// Coordinates returns a copy of the address coordinates, or nil when the
// address is located by pincode only.
func (a Address) Coordinates() *kernel.GeoPoint {
	if a.coordinates == nil {
		return nil
	}
	point := *a.coordinates
	return &point
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return fmt.Sprintf("Address(%s, %s %s)", a.line, a.city, a.pincode)
}

func (a *Address) setLine(line string) error {
	if line == "" {
		return errs.NewValueIsRequiredError("address")
	}

	a.line = line
	return nil
}

// setLocation enforces that the address is locatable: coordinates or pincode.
func (a *Address) setLocation(pincode string, coordinates *kernel.GeoPoint) error {
	if coordinates != nil {
		if err := coordinates.Validate(); err != nil {
			return err
		}
		point := *coordinates
		a.coordinates = &point
	}

	if pincode == "" && coordinates == nil {
		return errs.NewValueIsRequiredError("pincode or coordinates")
	}

	a.pincode = pincode
	return nil
}

func (a *Address) setCityState(city, state string) error {
	a.city = city
	a.state = state
	return nil
}
