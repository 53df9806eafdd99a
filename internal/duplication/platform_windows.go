//go:build windows && !cgo

package duplication

// newPlatformController wires the concrete DXGI/D3D11 collaborators into
// a Controller, together with the Win32-backed session, display-change and
// DPI probes. This is the only file that names those concrete types;
// everything above this layer talks to the
// AdapterDuplicator/DeviceEnumerator/*Probe interfaces.
func newPlatformController() *Controller {
	return NewController(
		newDXGIAdapterDuplicator,
		dxgiDeviceEnumerator{},
		&windowsDisplayChangeProbe{},
		windowsSessionProbe{},
		windowsDPIProbe{},
		NewSharedFrame,
	)
}
