package engine

import (
	"context"
	"errors"
	"fmt"
	"github.com/shimmeringbee/lightwave/feature"
	"github.com/shimmeringbee/lightwave/translator"
	"github.com/shimmeringbee/logwrap"
)

var (
	ErrUnsupportedRole     = errors.New("role not supported by device")
	ErrReadOnlyRole        = errors.New("role can not be written")
	ErrInvalidCommandValue = errors.New("invalid command value")
)

// OnCommand writes a user initiated change to the bridge. Switch takes a bool,
// dim level takes a fraction.
func (e *Engine) OnCommand(ctx context.Context, r feature.Role, value any) error {
	if !e.d.Supports(r) {
		return fmt.Errorf("%w: %s", ErrUnsupportedRole, r)
	}

	switch r {
	case feature.Switch:
		on, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w: %T for %s", ErrInvalidCommandValue, value, r)
		}

		return e.SetSwitch(ctx, on)
	case feature.DimLevel:
		f, ok := translator.Numeric(value)
		if !ok {
			return fmt.Errorf("%w: %T for %s", ErrInvalidCommandValue, value, r)
		}

		return e.SetDim(ctx, f)
	default:
		return fmt.Errorf("%w: %s", ErrReadOnlyRole, r)
	}
}

// SetSwitch writes once, local state is left for the webhook to update.
func (e *Engine) SetSwitch(ctx context.Context, on bool) error {
	return e.write(ctx, feature.Switch, translator.WriteSwitch(on))
}

// SetDim writes once, the fraction is not clamped.
func (e *Engine) SetDim(ctx context.Context, fraction float64) error {
	if !e.d.Supports(feature.DimLevel) {
		return fmt.Errorf("%w: %s", ErrUnsupportedRole, feature.DimLevel)
	}

	return e.write(ctx, feature.DimLevel, translator.WriteDimLevel(fraction))
}

func (e *Engine) write(ctx context.Context, r feature.Role, value any) error {
	featureID, _ := e.d.FeatureID(r)

	cctx, cancel := context.WithTimeout(ctx, e.cfg.BridgeTimeout)
	defer cancel()

	if err := e.b.SetFeatureValue(cctx, featureID, value); err != nil {
		e.logger.LogError(ctx, "Failed to write feature value.", logwrap.Datum("device", e.d.Identifier()), logwrap.Datum("role", string(r)), logwrap.Datum("value", value), logwrap.Err(err))
		return fmt.Errorf("write %s: %w", r, err)
	}

	return nil
}
