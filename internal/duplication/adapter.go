package duplication

import "github.com/lanternops/deskdup/internal/geometry"

// GraphicsDevice is one GPU adapter as reported by a DeviceEnumerator,
// before any AdapterDuplicator has been built against it.
type GraphicsDevice interface {
	// FeatureLevel reports the Direct3D feature level the device was
	// created with, used to compute Controller.D3DInfo's min/max range.
	FeatureLevel() int
}

// DeviceEnumerator lists the graphics devices present on the system. A
// fresh enumeration is taken on every (re)initialization so a
// hot-plugged GPU is picked up without restarting the process.
type DeviceEnumerator interface {
	EnumDevices() []GraphicsDevice
}

// AdapterDuplicator drives desktop duplication for the monitors attached
// to a single GPU adapter. The controller owns a slice of these, one per
// enumerated GraphicsDevice, and aggregates their monitors into one flat
// virtual-monitor-id space.
//
// A concrete implementation's NumFramesCaptured must never decrease
// within a generation (between two calls to Initialize); the controller's
// warm-up loop assumes monotonicity and does not defend against a
// regression.
type AdapterDuplicator interface {
	// Initialize (re)acquires the adapter's outputs and D3D resources.
	// It reports false if no output on this adapter could be duplicated.
	Initialize() bool
	// DesktopRect is this adapter's contribution to the virtual desktop:
	// in system desktop coordinates right after Initialize, and in
	// virtual-desktop coordinates once TranslateRect has been applied.
	DesktopRect() geometry.Rect
	// MonitorCount is how many monitors this adapter exposes.
	MonitorCount() int
	// ScreenRect returns the i'th monitor's rect, in the same coordinate
	// space as DesktopRect (translated along with it by TranslateRect).
	ScreenRect(i int) geometry.Rect
	// DeviceName returns a human-readable name for the i'th monitor.
	DeviceName(i int) string
	// NumFramesCaptured is a running count of frames captured since the
	// last Initialize, used by the warm-up protocol to detect that a
	// real frame has landed.
	NumFramesCaptured() int64
	// Setup allocates a new SubContext for a caller. Called once per
	// Context per adapter, the first time that Context is used (or
	// reused) against this adapter.
	Setup() SubContext
	// Unregister releases resources associated with sub, called from
	// Controller.Unregister when a caller is done with a current Context.
	// Sub-contexts of an expired Context are dropped without being passed
	// back here.
	Unregister(sub SubContext)
	// Duplicate captures the full desktop area covered by this adapter
	// into target. It reports false on any duplication failure.
	Duplicate(sub SubContext, target SharedFrame) bool
	// DuplicateMonitor captures just the intraIdx'th monitor on this
	// adapter into target.
	DuplicateMonitor(sub SubContext, intraIdx int, target SharedFrame) bool
	// TranslateRect shifts this adapter's desktop and monitor rects by
	// offset, called once per successful initialization to fold every
	// adapter's coordinates into one virtual-desktop space anchored at
	// (0, 0).
	TranslateRect(offset geometry.Point)
	// Close releases the adapter's D3D/DXGI resources. Called once, when
	// the controller drops this adapter during deinitialize.
	Close()
}

// AdapterFactory builds a fresh AdapterDuplicator for one enumerated
// device. The controller calls it once per device returned by
// DeviceEnumerator.EnumDevices during (re)initialization.
type AdapterFactory func(GraphicsDevice) AdapterDuplicator

// D3DInfo summarizes the Direct3D feature levels in use across every
// initialized adapter.
type D3DInfo struct {
	MinFeatureLevel int
	MaxFeatureLevel int
}
