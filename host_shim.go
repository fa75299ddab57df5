package lightwave

import "context"

// deviceHostShim turns a device engine's host calls into gateway events.
type deviceHostShim struct {
	eventSender eventSender
	device      *Device
}

func (s *deviceHostShim) SetCapabilityValue(_ context.Context, name string, value any) error {
	s.eventSender.sendEvent(CapabilityValueUpdate{Device: s.device, Name: name, Value: value})
	return nil
}

func (s *deviceHostShim) SetAvailable(_ context.Context) error {
	s.eventSender.sendEvent(AvailabilityUpdate{Device: s.device, Available: true})
	return nil
}

func (s *deviceHostShim) SetUnavailable(_ context.Context, reason string) error {
	s.eventSender.sendEvent(AvailabilityUpdate{Device: s.device, Available: false, Reason: reason})
	return nil
}
