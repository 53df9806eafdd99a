//go:build windows && !cgo

package duplication

import (
	"unsafe"

	"github.com/lanternops/deskdup/internal/logging"
)

// dxgiGraphicsDevice wraps one enumerated IDXGIAdapter1. The COM reference
// is held for the lifetime of this value and transferred to the
// AdapterDuplicator built from it in newDXGIAdapterDuplicator.
type dxgiGraphicsDevice struct {
	adapter      uintptr
	featureLevel int
}

// FeatureLevel implements GraphicsDevice.
func (d *dxgiGraphicsDevice) FeatureLevel() int { return d.featureLevel }

// dxgiDeviceEnumerator lists every GPU adapter on the system via
// IDXGIFactory1::EnumAdapters1, the standard multi-GPU enumeration path
// (as opposed to D3D11CreateDevice's implicit "default adapter" used when
// pAdapter is null).
type dxgiDeviceEnumerator struct{}

// EnumDevices implements DeviceEnumerator.
func (dxgiDeviceEnumerator) EnumDevices() []GraphicsDevice {
	log := logging.L("duplication")

	factory, err := createDXGIFactory1()
	if err != nil {
		log.Warn("CreateDXGIFactory1 failed", "error", err)
		return nil
	}
	defer comRelease(factory)

	var devices []GraphicsDevice
	for i := uint32(0); ; i++ {
		var adapter uintptr
		if _, err := comCall(factory, dxgiFactory1EnumAdapters1, uintptr(i), uintptr(unsafe.Pointer(&adapter))); err != nil {
			break // DXGI_ERROR_NOT_FOUND once the index runs past the last adapter
		}

		level, ok := probeFeatureLevel(adapter)
		if !ok {
			log.Warn("adapter rejected D3D11CreateDevice, skipping", "index", i)
			comRelease(adapter)
			continue
		}
		devices = append(devices, &dxgiGraphicsDevice{adapter: adapter, featureLevel: level})
	}
	return devices
}

func createDXGIFactory1() (uintptr, error) {
	var factory uintptr
	hr, _, _ := procCreateDXGIFactory1.Call(
		uintptr(unsafe.Pointer(&iidIDXGIFactory1)),
		uintptr(unsafe.Pointer(&factory)),
	)
	if int32(hr) < 0 {
		return 0, hrError("CreateDXGIFactory1", uint32(hr))
	}
	return factory, nil
}

// probeFeatureLevel creates a throwaway D3D11 device against adapter just
// to read back the feature level Windows negotiated, then discards the
// device — the real device used for capture is created later in
// dxgiAdapterDuplicator.Initialize, against the same adapter pointer.
func probeFeatureLevel(adapter uintptr) (int, bool) {
	device, context, level, err := createD3D11Device(adapter)
	if err != nil {
		return 0, false
	}
	comRelease(context)
	comRelease(device)
	return int(level), true
}

// createD3D11Device creates a D3D11 device bound to adapter (or the
// default adapter, if adapter is 0).
func createD3D11Device(adapter uintptr) (device, context uintptr, featureLevel uint32, err error) {
	driverType := uintptr(d3dDriverTypeHardware)
	if adapter != 0 {
		driverType = d3dDriverTypeUnknown
	}
	requested := uint32(d3dFeatureLevel11_0)
	hr, _, _ := procD3D11CreateDevice.Call(
		adapter,
		driverType,
		0,
		uintptr(d3d11CreateDeviceBGRASupport),
		uintptr(unsafe.Pointer(&requested)),
		1,
		uintptr(d3d11SDKVersion),
		uintptr(unsafe.Pointer(&device)),
		uintptr(unsafe.Pointer(&featureLevel)),
		uintptr(unsafe.Pointer(&context)),
	)
	if int32(hr) < 0 {
		return 0, 0, 0, hrError("D3D11CreateDevice", uint32(hr))
	}
	return device, context, featureLevel, nil
}
