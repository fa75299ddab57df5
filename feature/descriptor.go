package feature

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownKind          = errors.New("unknown device kind")
	ErrMissingExternalID    = errors.New("device has no external id")
	ErrMissingSwitchFeature = errors.New("device has no switch feature")
	ErrMissingDimFeature    = errors.New("dimmer has no dim level feature")
	ErrUnexpectedDimFeature = errors.New("only dimmers may have a dim level feature")
	ErrInvalidWebhookKey    = errors.New("invalid webhook key")
	ErrUnknownWebhookRole   = errors.New("unknown webhook role")
	ErrUnknownWebhookDriver = errors.New("unknown webhook driver")
)

// Descriptor is the bridge's description of a single device, the feature ids
// are opaque to everything but the bridge.
type Descriptor struct {
	Kind            Kind   `json:"kind" yaml:"kind"`
	ExternalID      string `json:"id" yaml:"id"`
	Name            string `json:"name,omitempty" yaml:"name,omitempty"`
	SwitchFeatureID string `json:"switch" yaml:"switch"`
	DimFeatureID    string `json:"dimLevel,omitempty" yaml:"dimLevel,omitempty"`
	PowerFeatureID  string `json:"power,omitempty" yaml:"power,omitempty"`
	EnergyFeatureID string `json:"energy,omitempty" yaml:"energy,omitempty"`
}

func (d Descriptor) Validate() error {
	if _, ok := d.Kind.Details(); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, d.Kind)
	}

	if d.ExternalID == "" {
		return ErrMissingExternalID
	}

	if d.SwitchFeatureID == "" {
		return ErrMissingSwitchFeature
	}

	hasDim := d.DimFeatureID != ""
	wantsDim := d.Kind.Supports(DimLevel)

	switch {
	case wantsDim && !hasDim:
		return ErrMissingDimFeature
	case !wantsDim && hasDim:
		return ErrUnexpectedDimFeature
	}

	return nil
}

func (d Descriptor) FeatureID(r Role) (string, bool) {
	var id string

	switch r {
	case Switch:
		id = d.SwitchFeatureID
	case DimLevel:
		id = d.DimFeatureID
	case Power:
		id = d.PowerFeatureID
	case Energy:
		id = d.EnergyFeatureID
	}

	return id, id != ""
}

// SupportedRoles returns the roles of the device kind for which the descriptor
// has a feature id, in capability table order.
func (d Descriptor) SupportedRoles() []Role {
	details, ok := d.Kind.Details()
	if !ok {
		return nil
	}

	var roles []Role

	for _, r := range details.Roles {
		if _, has := d.FeatureID(r); has {
			roles = append(roles, r)
		}
	}

	return roles
}

func (d Descriptor) Supports(r Role) bool {
	if !d.Kind.Supports(r) {
		return false
	}

	_, has := d.FeatureID(r)
	return has
}

func (d Descriptor) DriverID() string {
	details, _ := d.Kind.Details()
	return details.DriverID
}

// Identifier is unique across all kinds, it is the webhook key without the role.
func (d Descriptor) Identifier() string {
	return d.DriverID() + "_" + d.ExternalID
}

func (d Descriptor) WebhookKey(r Role) string {
	return WebhookKey(d.DriverID(), d.ExternalID, r)
}

func WebhookKey(driverID string, externalID string, r Role) string {
	return fmt.Sprintf("%s_%s_%s", driverID, externalID, r)
}

// ParseWebhookKey splits a key into device identifier and role. The driver
// never contains an underscore and neither does the role, the external id may.
func ParseWebhookKey(key string) (string, Role, error) {
	first := strings.Index(key, "_")
	last := strings.LastIndex(key, "_")

	if first <= 0 || last == first || last == len(key)-1 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidWebhookKey, key)
	}

	driverID := key[:first]
	role := Role(key[last+1:])

	if _, ok := KindForDriver(driverID); !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownWebhookDriver, driverID)
	}

	if !role.Valid() {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownWebhookRole, role)
	}

	return key[:last], role, nil
}
