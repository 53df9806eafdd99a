// Package duplication implements a process-wide desktop duplication
// controller that aggregates one or more GPU-adapter monitor-duplication
// backends into a single virtual desktop.
//
// Controller is a singleton: callers obtain it with Instance, which bumps
// an external reference count, and give it back with Release. Internal
// state (the adapter list, the desktop rect, D3D feature levels) is torn
// down when the reference count reaches zero, but the Controller value
// itself is never deallocated, and a monotonically increasing identity
// survives teardown so a caller holding a stale Context can always be
// told its view is out of date rather than silently reading garbage.
package duplication

import (
	"sync"
	"sync/atomic"

	"github.com/lanternops/deskdup/internal/geometry"
	"github.com/lanternops/deskdup/internal/logging"
)

// Controller aggregates the AdapterDuplicators discovered by a
// DeviceEnumerator into one virtual desktop and mediates every
// Duplicate/DuplicateMonitor call through a single coarse mutex. All
// public methods are safe to call from multiple goroutines; none of them
// are reentrant.
type Controller struct {
	mu sync.Mutex

	newAdapter   AdapterFactory
	enumerator   DeviceEnumerator
	changeProbe  DisplayChangeProbe
	sessionProbe SessionCapabilityProbe
	dpiProbe     DPIProbe
	newFrame     SharedFrameFactory

	refcount int32

	adapters    []AdapterDuplicator
	desktopRect geometry.Rect
	identity    int64
	d3dInfo     D3DInfo
	dpi         geometry.Point

	// succeededDuplications counts successful captures across the
	// Controller's whole lifetime, not just the current generation. It
	// gates UnsupportedSession: that result is only returned on the very
	// first initialization attempt, so a session that stops being
	// interactive later surfaces as InitializationFailed instead.
	succeededDuplications int64
}

// NewController builds a Controller from its collaborators. Production
// code obtains the process-wide singleton through Instance; NewController
// exists so tests can wire in fakes directly.
func NewController(
	newAdapter AdapterFactory,
	enumerator DeviceEnumerator,
	changeProbe DisplayChangeProbe,
	sessionProbe SessionCapabilityProbe,
	dpiProbe DPIProbe,
	newFrame SharedFrameFactory,
) *Controller {
	return &Controller{
		newAdapter:   newAdapter,
		enumerator:   enumerator,
		changeProbe:  changeProbe,
		sessionProbe: sessionProbe,
		dpiProbe:     dpiProbe,
		newFrame:     newFrame,
	}
}

// AddRef increments the external reference count and returns the new
// count.
func (c *Controller) AddRef() int32 {
	return atomic.AddInt32(&c.refcount, 1)
}

// Release decrements the external reference count. When it reaches zero,
// internal state is torn down (adapters closed, desktop rect cleared) but
// the Controller value survives for a future AddRef.
func (c *Controller) Release() int32 {
	n := atomic.AddInt32(&c.refcount, -1)
	if n == 0 {
		c.mu.Lock()
		c.deinitializeLocked()
		c.mu.Unlock()
	} else if n < 0 {
		logging.L("duplication").Warn("Release called without a matching AddRef")
	}
	return n
}

// IsSupported reports whether the current process/session can host
// desktop duplication, initializing adapters on first call if needed. It
// carries no session check of its own: the session probe is only ever
// consulted from inside doDuplicateLocked's failure branch.
func (c *Controller) IsSupported() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.adapters) == 0 {
		return c.initializeLocked()
	}
	return true
}

// D3DInfo reports the min/max Direct3D feature level across every
// initialized adapter. On initialization failure it returns the
// last-known values (which are the zero value if initialization has never
// succeeded) alongside false, matching the original controller's
// retrieveD3dInfo behavior.
func (c *Controller) D3DInfo() (bool, D3DInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.adapters) == 0 && !c.initializeLocked() {
		return false, c.d3dInfo
	}
	return true, c.d3dInfo
}

// DPI returns the last-observed logical DPI, or the zero Point if
// initialization fails. The value is captured once per initialization
// (see initializeLocked) rather than requeried on every call, and a
// successful initialization whose DPI query fails keeps the previous value.
func (c *Controller) DPI() geometry.Point {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.adapters) == 0 && !c.initializeLocked() {
		return geometry.Point{}
	}
	return c.dpi
}

// ScreenCount reports the total number of monitors across every adapter.
func (c *Controller) ScreenCount() (bool, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.adapters) == 0 && !c.initializeLocked() {
		return false, 0
	}
	return true, c.totalMonitorCount()
}

// DeviceNames returns one name per monitor, in the same flat
// virtual-monitor-id order used by DuplicateMonitor.
func (c *Controller) DeviceNames() (bool, []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.adapters) == 0 && !c.initializeLocked() {
		return false, nil
	}
	names := make([]string, 0, c.totalMonitorCount())
	for _, a := range c.adapters {
		for i := 0; i < a.MonitorCount(); i++ {
			names = append(names, a.DeviceName(i))
		}
	}
	return true, names
}

// Duplicate captures the full virtual desktop into frame.
func (c *Controller) Duplicate(frame Frame) Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doDuplicateLocked(frame, FullDesktopMonitorID)
}

// DuplicateMonitor captures a single virtual monitor into frame. monitorID
// must be non-negative; negative ids are reserved for the internal
// full-desktop sentinel used by Duplicate.
func (c *Controller) DuplicateMonitor(frame Frame, monitorID int) Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	if monitorID < 0 {
		return InvalidMonitorId
	}
	return c.doDuplicateLocked(frame, monitorID)
}

// Unregister releases frame's Context against the adapters it was set up
// against, if that generation is still current. Callers should invoke
// this once they are done reusing a Frame/Context pair.
func (c *Controller) Unregister(frame Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx := frame.Context()
	if !ctx.expired(c.identity, len(c.adapters)) {
		for i, sub := range ctx.subContexts {
			c.adapters[i].Unregister(sub)
		}
	}
	ctx.reset()
}

// Unload forces internal state to be torn down without affecting the
// reference count, so the next Duplicate call reinitializes from scratch.
// Callers use this after detecting a condition the controller itself
// cannot observe (e.g. an externally reported device-lost event).
func (c *Controller) Unload() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deinitializeLocked()
}

// doDuplicateLocked follows the reference controller's duplicate algorithm
// step for step: display-change check, lazy initialize, frame preparation,
// dispatch, and the InvalidMonitorId/DuplicationFailed split on failure.
// The session probe is consulted only if initialization fails and only on
// the very first attempt — a session that stops being interactive later
// surfaces as InitializationFailed, not UnsupportedSession.
func (c *Controller) doDuplicateLocked(frame Frame, monitorID int) Result {
	if c.changeProbe.IsChanged() {
		logging.L("duplication").Info("display topology changed, reinitializing")
		c.deinitializeLocked()
	}

	if len(c.adapters) == 0 && !c.initializeLocked() {
		if c.succeededDuplications == 0 && !c.sessionProbe.OK() {
			return UnsupportedSession
		}
		return InitializationFailed
	}

	if !frame.Prepare(c.selectedDesktopSizeLocked(monitorID), monitorID) {
		return FramePreparationFailed
	}
	frame.UpdatedRegion().Clear()

	if !c.doDuplicateUnlockedLocked(frame, monitorID) {
		if monitorID >= c.totalMonitorCount() {
			return InvalidMonitorId
		}
		c.deinitializeLocked()
		return DuplicationFailed
	}

	c.succeededDuplications++
	return Succeeded
}

// doDuplicateUnlockedLocked sets up the caller's Context if it's stale,
// runs warm-up if this is a fresh generation for it, and dispatches to
// either every adapter (full desktop) or the one owning monitorID.
func (c *Controller) doDuplicateUnlockedLocked(frame Frame, monitorID int) bool {
	ctx := frame.Context()
	freshContext := ctx.expired(c.identity, len(c.adapters))
	if freshContext {
		c.setupContextLocked(ctx)
	}
	if freshContext && !c.ensureFrameCapturedLocked(ctx, frame.InnerFrame()) {
		return false
	}

	if monitorID == FullDesktopMonitorID {
		if !c.duplicateAllLocked(ctx, frame.InnerFrame()) {
			return false
		}
		frame.SetTopLeft(geometry.Point{})
		return true
	}

	adapterIdx, intraIdx, ok := c.locate(monitorID)
	if !ok {
		return false
	}
	if !c.adapters[adapterIdx].DuplicateMonitor(ctx.subContexts[adapterIdx], intraIdx, frame.InnerFrame()) {
		return false
	}
	frame.SetTopLeft(c.adapters[adapterIdx].ScreenRect(intraIdx).TopLeft())
	return true
}

// selectedDesktopSizeLocked mirrors the reference implementation's
// selectedDesktopSize: the full desktop size for the FullDesktopMonitorID
// sentinel, otherwise the requested monitor's rect size, or the zero Size
// if monitorID is out of range (frame preparation for a zero-sized buffer
// always succeeds; the invalid id itself is caught by the dispatch step).
func (c *Controller) selectedDesktopSizeLocked(monitorID int) geometry.Size {
	if monitorID == FullDesktopMonitorID {
		return c.desktopRect.Size()
	}
	rect, _ := c.monitorRectByID(monitorID)
	return rect.Size()
}

func (c *Controller) initializeLocked() bool {
	devices := c.enumerator.EnumDevices()
	adapters := make([]AdapterDuplicator, 0, len(devices))
	var minLevel, maxLevel int
	first := true

	for _, device := range devices {
		a := c.newAdapter(device)
		if !a.Initialize() {
			logging.L("duplication").Warn("adapter failed to initialize, skipping")
			continue
		}
		adapters = append(adapters, a)
		level := device.FeatureLevel()
		if first {
			minLevel, maxLevel = level, level
			first = false
			continue
		}
		if level < minLevel {
			minLevel = level
		}
		if level > maxLevel {
			maxLevel = level
		}
	}

	if len(adapters) == 0 {
		logging.L("duplication").Warn("cannot initialize any adapter duplicator")
		return false
	}

	rects := make([]geometry.Rect, len(adapters))
	for i, a := range adapters {
		rects[i] = a.DesktopRect()
	}
	union := geometry.UnionAll(rects)
	offset := geometry.Point{X: -union.Left, Y: -union.Top}
	for _, a := range adapters {
		a.TranslateRect(offset)
	}

	c.adapters = adapters
	c.desktopRect = union.Translate(offset)
	c.d3dInfo = D3DInfo{MinFeatureLevel: minLevel, MaxFeatureLevel: maxLevel}
	if p, ok := c.dpiProbe.Query(); ok {
		c.dpi = p
	}
	c.identity++

	logging.L("duplication").Info("initialized",
		"adapters", len(adapters), "identity", c.identity, "desktop", c.desktopRect)
	return true
}

// deinitializeLocked tears down adapters, clears desktopRect, and resets
// the display-change probe's baseline, but leaves identity and d3dInfo
// untouched: identity must keep climbing so a stale Context is
// recognizable as stale, and d3dInfo reports the last-known values on a
// later failed reinitialization. Every deinitialize path (release,
// unload, a failed duplication, and display-change reinitialization)
// goes through here, not just the display-change branch.
func (c *Controller) deinitializeLocked() {
	c.changeProbe.Reset()
	if len(c.adapters) == 0 {
		return
	}
	for _, a := range c.adapters {
		a.Close()
	}
	c.adapters = nil
	c.desktopRect = geometry.Rect{}
	logging.L("duplication").Info("deinitialized", "identity", c.identity)
}

func (c *Controller) setupContextLocked(ctx *Context) {
	subs := make([]SubContext, len(c.adapters))
	for i, a := range c.adapters {
		subs[i] = a.Setup()
	}
	ctx.subContexts = subs
	ctx.identity = c.identity
}

func (c *Controller) duplicateAllLocked(ctx *Context, target SharedFrame) bool {
	for i, a := range c.adapters {
		if !a.Duplicate(ctx.subContexts[i], target) {
			logging.L("duplication").Warn("adapter duplicate failed", "adapter", i)
			return false
		}
	}
	return true
}

// totalMonitorCount sums MonitorCount across every adapter.
func (c *Controller) totalMonitorCount() int {
	n := 0
	for _, a := range c.adapters {
		n += a.MonitorCount()
	}
	return n
}

// locate walks the flat virtual-monitor-id space, subtracting each
// adapter's monitor count in order until id falls within one adapter's
// range.
func (c *Controller) locate(id int) (adapterIdx, intraIdx int, ok bool) {
	if id < 0 {
		return 0, 0, false
	}
	remaining := id
	for i, a := range c.adapters {
		n := a.MonitorCount()
		if remaining < n {
			return i, remaining, true
		}
		remaining -= n
	}
	return 0, 0, false
}

func (c *Controller) monitorRectByID(id int) (geometry.Rect, bool) {
	adapterIdx, intraIdx, ok := c.locate(id)
	if !ok {
		return geometry.Rect{}, false
	}
	return c.adapters[adapterIdx].ScreenRect(intraIdx), true
}
