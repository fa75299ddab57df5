package lightwave

import (
	"context"
	"fmt"
	"github.com/shimmeringbee/lightwave/engine"
	"github.com/shimmeringbee/lightwave/feature"
	"github.com/shimmeringbee/lightwave/rules"
	"github.com/shimmeringbee/logwrap"
	"time"
)

// AddDevice pairs a device reported by ListPairableDevices and schedules its
// bootstrap. The device is persisted and restored by later calls to Start.
// Devices can only be added once Start has seen the bridge become ready.
func (g *Gateway) AddDevice(ctx context.Context, d feature.Descriptor) (*Device, error) {
	if !g.started.Load() {
		return nil, ErrNotStarted
	}

	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("add device: %w", err)
	}

	return g.createDevice(ctx, d)
}

func (g *Gateway) createDevice(pctx context.Context, d feature.Descriptor) (*Device, error) {
	ctx, end := g.logger.Segment(pctx, "Creating device.", logwrap.Datum("device", d.Identifier()))
	defer end()

	g.createLock.Lock()
	defer g.createLock.Unlock()

	if existing := g.table.getDevice(d.Identifier()); existing != nil {
		return existing, ErrDeviceExists
	}

	s := g.sectionForDevice(d.Identifier())
	saveDescriptor(s, d)

	settings := g.deviceSettings(ctx, d)
	position := g.nextStagger(d.Kind)

	dev := &Device{
		descriptor:   d,
		section:      s,
		pollInterval: settings.pollInterval,
	}

	dev.engine = engine.New(d, g.bridge, &deviceHostShim{eventSender: g, device: dev}, s.Section("state"), g.logger, engine.Config{
		BaseDelay:     settings.delayStep * time.Duration(position),
		RetryInterval: settings.retryInterval,
		BridgeTimeout: g.cfg.BridgeTimeout,
		BridgeRetries: settings.bridgeRetries,
		Scheduler:     g.cfg.Scheduler,
		Throttle:      g.throttle,
	})

	g.table.addDevice(dev)
	g.sendEvent(DeviceAdded{Device: dev})

	g.logger.LogInfo(ctx, "Device created, bootstrap scheduled.", logwrap.Datum("kind", string(d.Kind)), logwrap.Datum("delay", (settings.delayStep*time.Duration(position)).String()))
	dev.engine.OnReady(ctx)

	return dev, nil
}

type deviceSettings struct {
	delayStep     time.Duration
	pollInterval  time.Duration
	retryInterval time.Duration
	bridgeRetries int
}

func (g *Gateway) deviceSettings(ctx context.Context, d feature.Descriptor) deviceSettings {
	details, _ := d.Kind.Details()

	ds := deviceSettings{
		delayStep:     details.DelayStep,
		pollInterval:  g.cfg.PollInterval,
		retryInterval: g.cfg.RetryInterval,
		bridgeRetries: g.cfg.BridgeRetries,
	}

	if g.cfg.Rules == nil {
		return ds
	}

	out, err := g.cfg.Rules.Execute(rules.Input{
		Kind:       string(d.Kind),
		Driver:     d.DriverID(),
		ExternalID: d.ExternalID,
		Name:       d.Name,
		HasDim:     d.Supports(feature.DimLevel),
		HasPower:   d.Supports(feature.Power),
		HasEnergy:  d.Supports(feature.Energy),
	})
	if err != nil {
		g.logger.LogError(ctx, "Failed to execute rules, using defaults.", logwrap.Err(err))
		return ds
	}

	if v, ok := out.Settings.Duration(rules.DelayStep); ok {
		ds.delayStep = v
	}

	if v, ok := out.Settings.Duration(rules.PollInterval); ok {
		ds.pollInterval = v
	}

	if v, ok := out.Settings.Duration(rules.RetryInterval); ok {
		ds.retryInterval = v
	}

	if v, ok := out.Settings.Int(rules.BridgeRetries); ok && v > 0 {
		ds.bridgeRetries = v
	}

	g.logger.LogDebug(ctx, "Applied rules to device.", logwrap.Datum("matched", out.Matched))

	return ds
}
