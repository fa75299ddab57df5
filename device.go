package lightwave

import (
	"context"
	"github.com/shimmeringbee/da"
	"github.com/shimmeringbee/lightwave/engine"
	"github.com/shimmeringbee/lightwave/feature"
	"github.com/shimmeringbee/persistence"
	"time"
)

type Device struct {
	// Immutable, no locking required.
	descriptor   feature.Descriptor
	engine       *engine.Engine
	section      persistence.Section
	pollInterval time.Duration
}

func (d *Device) Identifier() string {
	return d.descriptor.Identifier()
}

func (d *Device) Descriptor() feature.Descriptor {
	return d.descriptor
}

func (d *Device) Capabilities() []da.Capability {
	details, _ := d.descriptor.Kind.Details()
	return details.Capabilities
}

func (d *Device) HasCapability(c da.Capability) bool {
	for _, dc := range d.Capabilities() {
		if dc == c {
			return true
		}
	}

	return false
}

func (d *Device) State() engine.State {
	return d.engine.State()
}

func (d *Device) Subscriptions() []engine.Subscription {
	return d.engine.Subscriptions()
}

func (d *Device) SetSwitch(ctx context.Context, on bool) error {
	return d.engine.SetSwitch(ctx, on)
}

func (d *Device) SetDim(ctx context.Context, fraction float64) error {
	return d.engine.SetDim(ctx, fraction)
}

func (d *Device) Command(ctx context.Context, r feature.Role, value any) error {
	return d.engine.OnCommand(ctx, r, value)
}

// Refresh reads every value from the bridge, as bootstrap does.
func (d *Device) Refresh(ctx context.Context) bool {
	return d.engine.GetDeviceValues(ctx) && d.engine.GetEnergyValues(ctx)
}
