// Package translator converts between raw bridge feature values and the
// capability values held by a device. Every read treats a value of the wrong
// type, or a negative number, as absent.
package translator

import (
	"encoding/json"
	"github.com/shimmeringbee/lightwave/feature"
	"math"
)

// Numeric accepts any of the number representations a bridge response or a
// decoded webhook body may carry.
func Numeric(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func nonNegative(raw any) (float64, bool) {
	v, ok := Numeric(raw)
	if !ok || v < 0 || math.IsNaN(v) {
		return 0, false
	}

	return v, true
}

func ReadSwitch(raw any) (bool, bool) {
	v, ok := Numeric(raw)
	if !ok {
		return false, false
	}

	switch v {
	case 0:
		return false, true
	case 1:
		return true, true
	default:
		return false, false
	}
}

func WriteSwitch(on bool) string {
	if on {
		return "1"
	}

	return "0"
}

// ReadDimLevel converts a bridge percentage into a fraction.
func ReadDimLevel(raw any) (float64, bool) {
	v, ok := nonNegative(raw)
	if !ok {
		return 0, false
	}

	return v / 100, true
}

// WriteDimLevel converts a fraction into a bridge percentage. It does not clamp.
func WriteDimLevel(fraction float64) int {
	return int(math.Round(fraction * 100))
}

// ReadPower is in watts on both sides.
func ReadPower(raw any) (float64, bool) {
	return nonNegative(raw)
}

// ReadEnergy converts watt hours into kilowatt hours.
func ReadEnergy(raw any) (float64, bool) {
	v, ok := nonNegative(raw)
	if !ok {
		return 0, false
	}

	return v / 1000, true
}

// Read dispatches on role, the returned value is a bool for switch and a
// float64 for everything else.
func Read(role feature.Role, raw any) (any, bool) {
	switch role {
	case feature.Switch:
		return ReadSwitch(raw)
	case feature.DimLevel:
		return ReadDimLevel(raw)
	case feature.Power:
		return ReadPower(raw)
	case feature.Energy:
		return ReadEnergy(raw)
	default:
		return nil, false
	}
}
