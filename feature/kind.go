package feature

import (
	"github.com/shimmeringbee/da"
	"github.com/shimmeringbee/da/capabilities"
	"time"
)

type Kind string

const (
	Dimmer Kind = "dimmer"
	Socket Kind = "socket"
)

type Role string

const (
	Switch   Role = "switch"
	DimLevel Role = "dimLevel"
	Power    Role = "power"
	Energy   Role = "energy"
)

// KindDetails is the static description of a device kind, the engine treats
// every kind identically apart from the roles listed here.
type KindDetails struct {
	DriverID     string
	Roles        []Role
	DelayStep    time.Duration
	Capabilities []da.Capability
}

var Kinds = map[Kind]KindDetails{
	Dimmer: {
		DriverID:     "lwdimmer",
		Roles:        []Role{Switch, DimLevel, Power, Energy},
		DelayStep:    2 * time.Second,
		Capabilities: []da.Capability{capabilities.OnOffFlag, capabilities.LevelFlag},
	},
	Socket: {
		DriverID:     "lwsockets",
		Roles:        []Role{Switch, Power, Energy},
		DelayStep:    1 * time.Second,
		Capabilities: []da.Capability{capabilities.OnOffFlag},
	},
}

func (k Kind) Details() (KindDetails, bool) {
	d, ok := Kinds[k]
	return d, ok
}

func (k Kind) Supports(r Role) bool {
	d, ok := Kinds[k]
	if !ok {
		return false
	}

	for _, kr := range d.Roles {
		if kr == r {
			return true
		}
	}

	return false
}

// KindForDriver finds the kind whose driver identifier is used in webhook keys.
func KindForDriver(driverID string) (Kind, bool) {
	for k, d := range Kinds {
		if d.DriverID == driverID {
			return k, true
		}
	}

	return "", false
}

func (r Role) Valid() bool {
	switch r {
	case Switch, DimLevel, Power, Energy:
		return true
	default:
		return false
	}
}
