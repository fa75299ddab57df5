package lightwave

import (
	"context"
	"github.com/stretchr/testify/assert"
	"testing"
)

type collectingEventSender struct {
	events []any
}

func (c *collectingEventSender) sendEvent(e any) {
	c.events = append(c.events, e)
}

func Test_deviceHostShim(t *testing.T) {
	t.Run("capability values and availability become events", func(t *testing.T) {
		es := &collectingEventSender{}
		d := &Device{}

		s := &deviceHostShim{eventSender: es, device: d}

		assert.NoError(t, s.SetUnavailable(context.Background(), "initialising"))
		assert.NoError(t, s.SetCapabilityValue(context.Background(), "onoff", true))
		assert.NoError(t, s.SetAvailable(context.Background()))

		assert.Equal(t, []any{
			AvailabilityUpdate{Device: d, Available: false, Reason: "initialising"},
			CapabilityValueUpdate{Device: d, Name: "onoff", Value: true},
			AvailabilityUpdate{Device: d, Available: true},
		}, es.events)
	})
}
