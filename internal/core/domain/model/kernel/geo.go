package kernel

import (
	"errors"
	"fmt"
	"math"

	"homeservice/internal/pkg/errs"
	"homeservice/internal/pkg/guard"
)

const (
	// LatitudeMin is the minimum valid latitude in degrees.
	LatitudeMin = -90.0
	// LatitudeMax is the maximum valid latitude in degrees.
	LatitudeMax = 90.0
	// LongitudeMin is the minimum valid longitude in degrees.
	LongitudeMin = -180.0
	// LongitudeMax is the maximum valid longitude in degrees.
	LongitudeMax = 180.0

	// AssumedTravelSpeedKmh is the travel speed used to derive an ETA from a
	// great-circle distance. Providers move through city traffic, so the
	// constant is deliberately conservative.
	AssumedTravelSpeedKmh = 30.0

	earthRadiusKm = 6371.0
)

// ErrGeoPointIsNotConstructed is returned when attempting to use an
// improperly initialized GeoPoint. GeoPoints must be created via NewGeoPoint.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// GeoPoint represents a validated geographic coordinate pair. GeoPoint is an
// immutable value object; the zero value is invalid and fails validation —
// use NewGeoPoint to create instances.
//
// Example:
//
//	point, err := kernel.NewGeoPoint(12.9716, 77.5946)
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Println(point) // Output: GeoPoint(12.971600,77.594600)
type GeoPoint struct { //nolint:recvcheck //using for validation
	latitude  float64
	longitude float64
	guard     guard.ConstructorGuard
}

// NewGeoPoint creates a GeoPoint from a latitude/longitude pair in degrees.
// Latitude must be within [-90, 90] and longitude within [-180, 180];
// out-of-range values return a validation error.
func NewGeoPoint(latitude, longitude float64) (GeoPoint, error) {
	point := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(point.setLatitude(latitude), point.setLongitude(longitude)); err != nil {
		return GeoPoint{}, err
	}

	return point, nil
}

// Validate checks that the GeoPoint was created through its constructor.
// The zero value fails with ErrGeoPointIsNotConstructed.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Latitude returns the latitude in degrees.
func (p GeoPoint) Latitude() float64 {
	return p.latitude
}

// Longitude returns the longitude in degrees.
func (p GeoPoint) Longitude() float64 {
	return p.longitude
}

// String implements fmt.Stringer.
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%f,%f)", p.latitude, p.longitude)
}

// IsEqual compares two points for coordinate equality. Both points must be
// properly constructed for the comparison to succeed.
func (p GeoPoint) IsEqual(other GeoPoint) (bool, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return p.latitude == other.latitude && p.longitude == other.longitude, nil
}

// DistanceKm calculates the great-circle distance to another point in
// kilometers using the haversine formula. The result is symmetric and zero
// for identical points.
func (p GeoPoint) DistanceKm(other GeoPoint) (float64, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	dLat := degreesToRadians(other.latitude - p.latitude)
	dLng := degreesToRadians(other.longitude - p.longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degreesToRadians(p.latitude))*math.Cos(degreesToRadians(other.latitude))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c, nil
}

// setLatitude sets the latitude with range validation.
// Note: pointer receiver by design, for self-encapsulated validation during
// construction; all public methods use value receivers.
func (p *GeoPoint) setLatitude(latitude float64) error {
	if latitude < LatitudeMin || latitude > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, LatitudeMin, LatitudeMax)
	}

	p.latitude = latitude
	return nil
}

// setLongitude sets the longitude with range validation.
func (p *GeoPoint) setLongitude(longitude float64) error {
	if longitude < LongitudeMin || longitude > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, LongitudeMin, LongitudeMax)
	}

	p.longitude = longitude
	return nil
}

// DistanceEta is the displayable distance/ETA pair derived from a provider
// location and a customer location.
type DistanceEta struct {
	// Distance is a formatted human-readable distance, e.g. "850 m" or "3.2 km".
	Distance string
	// EtaMinutes is the estimated travel time in whole minutes.
	EtaMinutes int
}

// ComputeDistanceEta derives a distance/ETA pair from the provider's and the
// customer's positions. It reports ok=false when either point is missing or
// was not properly constructed; callers must treat that as "unknown", never
// as zero distance. The computation has no side effects.
func ComputeDistanceEta(provider, customer *GeoPoint) (DistanceEta, bool) {
	if provider == nil || customer == nil {
		return DistanceEta{}, false
	}

	km, err := provider.DistanceKm(*customer)
	if err != nil {
		return DistanceEta{}, false
	}

	return DistanceEta{
		Distance:   formatDistance(km),
		EtaMinutes: int(math.Ceil(km / AssumedTravelSpeedKmh * 60)),
	}, true
}

// formatDistance renders sub-kilometer distances in meters and everything
// else with one decimal in kilometers.
func formatDistance(km float64) string {
	if km < 1.0 {
		return fmt.Sprintf("%d m", int(math.Round(km*1000)))
	}
	return fmt.Sprintf("%.1f km", km)
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}
