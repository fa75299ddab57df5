package lightwave

import (
	"context"
	"fmt"
	"github.com/shimmeringbee/logwrap"
)

type DeviceAdded struct {
	Device *Device
}

type DeviceRemoved struct {
	Device *Device
}

// CapabilityValueUpdate carries a value already translated for the host, Name
// is one of the engine's capability names.
type CapabilityValueUpdate struct {
	Device *Device
	Name   string
	Value  any
}

type AvailabilityUpdate struct {
	Device    *Device
	Available bool
	Reason    string
}

type eventSender interface {
	sendEvent(event any)
}

// sendEvent drops the event if the buffer is full, device engines must never
// block on a slow reader.
func (g *Gateway) sendEvent(e any) {
	select {
	case g.events <- e:
	default:
		g.logger.LogWarn(g.ctx, "Event buffer full, dropping event.", logwrap.Datum("event", fmt.Sprintf("%T", e)))
	}
}

func (g *Gateway) ReadEvent(ctx context.Context) (any, error) {
	select {
	case e := <-g.events:
		return e, nil
	case <-ctx.Done():
		return nil, context.DeadlineExceeded
	}
}
