package engine

import (
	"context"
	"fmt"
	"github.com/shimmeringbee/lightwave/feature"
	"github.com/shimmeringbee/lightwave/translator"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/persistence"
	"time"
)

const (
	valueKey       = "Value"
	lastUpdatedKey = "LastUpdated"
	lastChangedKey = "LastChanged"
)

var capabilityNames = map[feature.Role]string{
	feature.Switch:   CapabilityOnOff,
	feature.DimLevel: CapabilityDim,
	feature.Power:    CapabilityPower,
	feature.Energy:   CapabilityEnergy,
}

// GetDeviceValues reads the switch and, if the switch is on or no dim level
// has ever been seen, the dim level.
func (e *Engine) GetDeviceValues(ctx context.Context) bool {
	if err := e.readDeviceValues(ctx); err != nil {
		e.logger.LogError(ctx, "Failed to read device values.", logwrap.Datum("device", e.d.Identifier()), logwrap.Err(err))
		return false
	}

	return true
}

func (e *Engine) readDeviceValues(ctx context.Context) error {
	raw, err := e.read(ctx, feature.Switch)
	if err != nil {
		return err
	}

	on, known := translator.ReadSwitch(raw)
	if known {
		e.apply(ctx, feature.Switch, on)
	}

	if !e.d.Supports(feature.DimLevel) {
		return nil
	}

	if (known && on) || !e.dimLevelCached() {
		raw, err := e.read(ctx, feature.DimLevel)
		if err != nil {
			return err
		}

		if f, ok := translator.ReadDimLevel(raw); ok {
			e.apply(ctx, feature.DimLevel, f)
		}
	}

	return nil
}

// GetEnergyValues reads energy then power, skipping either if the device has
// no such feature.
func (e *Engine) GetEnergyValues(ctx context.Context) bool {
	for _, r := range []feature.Role{feature.Energy, feature.Power} {
		if !e.d.Supports(r) {
			continue
		}

		raw, err := e.read(ctx, r)
		if err != nil {
			e.logger.LogError(ctx, "Failed to read energy values.", logwrap.Datum("device", e.d.Identifier()), logwrap.Err(err))
			return false
		}

		if v, ok := translator.Read(r, raw); ok {
			e.apply(ctx, r, v)
		}
	}

	return true
}

func (e *Engine) read(ctx context.Context, r feature.Role) (float64, error) {
	featureID, _ := e.d.FeatureID(r)

	var v float64

	if err := e.call(ctx, func(cctx context.Context) error {
		var err error
		v, err = e.b.GetFeatureValue(cctx, featureID)
		return err
	}); err != nil {
		return 0, fmt.Errorf("read %s: %w", r, err)
	}

	return v, nil
}

// fetch makes a single bounded read, without retries.
func (e *Engine) fetch(ctx context.Context, r feature.Role) (float64, error) {
	featureID, _ := e.d.FeatureID(r)

	cctx, cancel := context.WithTimeout(ctx, e.cfg.BridgeTimeout)
	defer cancel()

	v, err := e.b.GetFeatureValue(cctx, featureID)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", r, err)
	}

	return v, nil
}

func (e *Engine) valueSection(r feature.Role) persistence.Section {
	return e.s.Section("Capability", string(r))
}

func (e *Engine) dimLevelCached() bool {
	_, ok := e.valueSection(feature.DimLevel).Float(valueKey)
	return ok
}

func (e *Engine) floatValue(r feature.Role) *float64 {
	if v, ok := e.valueSection(r).Float(valueKey); ok {
		return &v
	}

	return nil
}

// apply stores a translated value and hands it to the host.
func (e *Engine) apply(ctx context.Context, r feature.Role, value any) {
	vs := e.valueSection(r)
	changed := true

	switch v := value.(type) {
	case bool:
		if prev, ok := vs.Bool(valueKey); ok && prev == v {
			changed = false
		}
	case float64:
		if prev, ok := vs.Float(valueKey); ok && prev == v {
			changed = false
		}
	}

	now := time.Now().UnixMilli()

	vs.Set(valueKey, value)
	vs.Set(lastUpdatedKey, now)

	if changed {
		vs.Set(lastChangedKey, now)
	}

	if err := e.h.SetCapabilityValue(ctx, capabilityNames[r], value); err != nil {
		e.logger.LogWarn(ctx, "Host rejected capability value.", logwrap.Datum("capability", capabilityNames[r]), logwrap.Err(err))
	}
}

// LastUpdated is the last time a value for the role was read or pushed.
func (e *Engine) LastUpdated(r feature.Role) (time.Time, bool) {
	t, ok := e.valueSection(r).Int(lastUpdatedKey)
	return time.UnixMilli(int64(t)), ok
}

func (e *Engine) LastChanged(r feature.Role) (time.Time, bool) {
	t, ok := e.valueSection(r).Int(lastChangedKey)
	return time.UnixMilli(int64(t)), ok
}
