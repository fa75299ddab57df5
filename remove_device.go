package lightwave

import (
	"context"
	"github.com/shimmeringbee/logwrap"
)

// RemoveDevice stops the device's engine and forgets it. Webhooks already
// registered with the bridge are left in place and ignored when they fire.
func (g *Gateway) RemoveDevice(ctx context.Context, identifier string) bool {
	d := g.table.removeDevice(identifier)
	if d == nil {
		return false
	}

	d.engine.Close()
	g.sectionRemoveDevice(identifier)

	g.logger.LogInfo(ctx, "Removed device.", logwrap.Datum("device", identifier))
	g.sendEvent(DeviceRemoved{Device: d})

	return true
}
