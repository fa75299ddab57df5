package lightwave

import (
	"context"
	"github.com/shimmeringbee/callbacks"
	"sort"
	"sync"
)

type deviceTable struct {
	devices   map[string]*Device
	lock      *sync.RWMutex
	callbacks callbacks.Caller
}

func newDeviceTable() *deviceTable {
	return &deviceTable{
		devices: make(map[string]*Device),
		lock:    &sync.RWMutex{},
	}
}

func (t *deviceTable) getDevice(identifier string) *Device {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.devices[identifier]
}

// addDevice stores d unless a device with the same identifier exists, in
// which case the existing device is returned.
func (t *deviceTable) addDevice(d *Device) (*Device, bool) {
	t.lock.Lock()
	existing, found := t.devices[d.Identifier()]
	if !found {
		t.devices[d.Identifier()] = d
	}
	t.lock.Unlock()

	if found {
		return existing, false
	}

	if t.callbacks != nil {
		t.callbacks.Call(context.Background(), internalDeviceAdded{device: d})
	}

	return d, true
}

func (t *deviceTable) removeDevice(identifier string) *Device {
	t.lock.Lock()
	d, found := t.devices[identifier]
	if found {
		delete(t.devices, identifier)
	}
	t.lock.Unlock()

	if found && t.callbacks != nil {
		t.callbacks.Call(context.Background(), internalDeviceRemoved{device: d})
	}

	return d
}

// getDevices is sorted by identifier.
func (t *deviceTable) getDevices() []*Device {
	t.lock.RLock()
	defer t.lock.RUnlock()

	devices := make([]*Device, 0, len(t.devices))

	for _, d := range t.devices {
		devices = append(devices, d)
	}

	sort.Slice(devices, func(i, j int) bool {
		return devices[i].Identifier() < devices[j].Identifier()
	})

	return devices
}
