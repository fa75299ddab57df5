package engine

import (
	"context"
	"fmt"
	"github.com/shimmeringbee/lightwave/feature"
	"github.com/shimmeringbee/lightwave/translator"
	"github.com/shimmeringbee/logwrap"
)

// OnWebhook applies a value pushed by the bridge and reports whether it was
// applied. Unsupported roles, sentinel values and failures are not applied.
// A switch turning on also refreshes the dim level, as the bridge does not
// push it when the light comes back on.
func (e *Engine) OnWebhook(ctx context.Context, r feature.Role, raw any) (applied bool) {
	defer func() {
		if p := recover(); p != nil {
			e.logger.LogError(ctx, "Webhook handling failed.", logwrap.Datum("device", e.d.Identifier()), logwrap.Datum("role", string(r)), logwrap.Datum("panic", fmt.Sprint(p)))
			applied = false
		}
	}()

	if e.isClosed() || !e.d.Supports(r) {
		return false
	}

	value, ok := translator.Read(r, raw)
	if !ok {
		e.logger.LogDebug(ctx, "Ignored webhook value.", logwrap.Datum("device", e.d.Identifier()), logwrap.Datum("role", string(r)), logwrap.Datum("value", fmt.Sprint(raw)))
		return false
	}

	e.apply(ctx, r, value)

	if on, _ := value.(bool); r == feature.Switch && on && e.d.Supports(feature.DimLevel) {
		dim, err := e.fetch(ctx, feature.DimLevel)
		if err != nil {
			e.logger.LogError(ctx, "Failed to refresh dim level after switch on.", logwrap.Datum("device", e.d.Identifier()), logwrap.Err(err))
			return false
		}

		if f, ok := translator.ReadDimLevel(dim); ok {
			e.apply(ctx, feature.DimLevel, f)
		}
	}

	return true
}
