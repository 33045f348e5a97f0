package provider

import (
	"errors"
	"strings"
	"time"

	"homeservice/internal/core/domain/model/kernel"
	"homeservice/internal/pkg/errs"
)

// ErrProviderIsNotConstructed is returned when a Provider instance was not
// created through NewProvider or RestoreProvider.
var ErrProviderIsNotConstructed = errors.New(
	"Provider must be created via NewProvider constructor")

// Provider is a service professional registered in the directory.
//
// A provider carries two category fields: category, the current taxonomy
// value, and legacyCategory, the value from the taxonomy it replaced.
// Directory matching treats the union of the two as authoritative, so
// providers never disappear from dispatch mid-migration.
type Provider struct {
	id             kernel.UUID
	name           string
	phone          string
	photoURL       string
	category       string
	legacyCategory string
	online         bool
	approved       bool

	isConstructed bool
}

// NewProvider creates a Provider. New registrations start offline and
// unapproved; availability flags are flipped through SetOnline and Approve.
func NewProvider(id kernel.UUID, name, phone, category string) (*Provider, error) {
	p := &Provider{isConstructed: true}

	if err := errors.Join(
		p.setID(id),
		p.setProfile(name, phone),
		p.setCategory(category),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// RestoreProvider reconstructs a Provider from persistence, including the
// legacy category and availability flags.
func RestoreProvider(
	id kernel.UUID,
	name, phone, photoURL string,
	category, legacyCategory string,
	online, approved bool,
) (*Provider, error) {
	p, err := NewProvider(id, name, phone, category)
	if err != nil {
		return nil, err
	}

	p.photoURL = photoURL
	p.legacyCategory = legacyCategory
	p.online = online
	p.approved = approved
	return p, nil
}

// Validate ensures the instance was created through a constructor.
func (p *Provider) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProviderIsNotConstructed
	}

	return nil
}

// IsEqual compares two providers by identity.
func (p *Provider) IsEqual(other *Provider) bool {
	return other != nil && p.id.IsEqual(other.id)
}

// ID returns the provider's unique identifier.
func (p *Provider) ID() kernel.UUID {
	return p.id
}

// Name returns the provider's display name.
func (p *Provider) Name() string {
	return p.name
}

// Phone returns the provider's contact phone.
func (p *Provider) Phone() string {
	return p.phone
}

// PhotoURL returns the provider's profile photo URL, may be empty.
func (p *Provider) PhotoURL() string {
	return p.photoURL
}

// Category returns the provider's current service category.
func (p *Provider) Category() string {
	return p.category
}

// LegacyCategory returns the provider's pre-migration category, may be
// empty.
func (p *Provider) LegacyCategory() string {
	return p.legacyCategory
}

// IsOnline reports whether the provider is currently accepting work.
func (p *Provider) IsOnline() bool {
	return p.online
}

// IsApproved reports whether the provider passed onboarding verification.
func (p *Provider) IsApproved() bool {
	return p.approved
}

// IsAvailable reports whether the provider can be dispatched to: online and
// approved.
func (p *Provider) IsAvailable() bool {
	return p.online && p.approved
}

// MatchesCategory reports whether the provider serves the given category,
// matching case-insensitively against either the current or the legacy
// category field.
func (p *Provider) MatchesCategory(category string) bool {
	if category == "" {
		return false
	}
	if strings.EqualFold(p.category, category) {
		return true
	}

	return p.legacyCategory != "" && strings.EqualFold(p.legacyCategory, category)
}

// SetOnline flips the provider's online flag.
func (p *Provider) SetOnline(online bool) {
	p.online = online
}

// Approve marks the provider as verified.
func (p *Provider) Approve() {
	p.approved = true
}

// SetPhotoURL updates the provider's profile photo URL.
func (p *Provider) SetPhotoURL(photoURL string) {
	p.photoURL = photoURL
}

func (p *Provider) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Provider) setProfile(name, phone string) error {
	var nameErr, phoneErr error
	if name == "" {
		nameErr = errs.NewValueIsRequiredError("name")
	}
	if phone == "" {
		phoneErr = errs.NewValueIsRequiredError("phone")
	}
	if err := errors.Join(nameErr, phoneErr); err != nil {
		return err
	}

	p.name = name
	p.phone = phone
	return nil
}

func (p *Provider) setCategory(category string) error {
	if category == "" {
		return errs.NewValueIsRequiredError("category")
	}
	p.category = category
	return nil
}

// Location is the last-known position of a provider. Ephemeral: overwritten
// on every update, never retained historically.
type Location struct {
	ProviderID kernel.UUID
	Point      kernel.GeoPoint
	UpdatedAt  time.Time
}

// NewLocation builds a validated provider location sample.
func NewLocation(providerID kernel.UUID, point kernel.GeoPoint, updatedAt time.Time) (Location, error) {
	if err := providerID.Validate(); err != nil {
		return Location{}, err
	}
	if err := point.Validate(); err != nil {
		return Location{}, err
	}

	return Location{ProviderID: providerID, Point: point, UpdatedAt: updatedAt}, nil
}

// IsStale reports whether the sample is older than ttl at the given time.
func (l Location) IsStale(now time.Time, ttl time.Duration) bool {
	return now.Sub(l.UpdatedAt) > ttl
}
