package lightwave

type internalDeviceAdded struct {
	device *Device
}

type internalDeviceRemoved struct {
	device *Device
}
