package duplication

import (
	"github.com/lanternops/deskdup/internal/geometry"
)

// --- fakes, following the teacher's stubWallpaperBackend pattern: a
// struct that records calls and can be configured to fail on demand. ---

type fakeDevice struct{ level int }

func (d *fakeDevice) FeatureLevel() int { return d.level }

type fakeEnumerator struct {
	devices []GraphicsDevice
}

func (e *fakeEnumerator) EnumDevices() []GraphicsDevice { return e.devices }

type fakeAdapter struct {
	initOK      bool
	monitors    []geometry.Rect
	names       []string
	failCapture bool
	// stallFrames makes Duplicate/DuplicateMonitor keep succeeding
	// without ever advancing frames, to exercise a genuine warm-up
	// timeout as opposed to a fast-failing capture.
	stallFrames bool

	frames  int64
	setups  int
	closed  bool
	unregs  int
}

func newFakeAdapter(initOK bool, monitors ...geometry.Rect) *fakeAdapter {
	names := make([]string, len(monitors))
	for i := range monitors {
		names[i] = "monitor"
	}
	return &fakeAdapter{initOK: initOK, monitors: monitors, names: names}
}

func (a *fakeAdapter) Initialize() bool                  { return a.initOK }
func (a *fakeAdapter) DesktopRect() geometry.Rect         { return geometry.UnionAll(a.monitors) }
func (a *fakeAdapter) MonitorCount() int                  { return len(a.monitors) }
func (a *fakeAdapter) ScreenRect(i int) geometry.Rect     { return a.monitors[i] }
func (a *fakeAdapter) DeviceName(i int) string            { return a.names[i] }
func (a *fakeAdapter) NumFramesCaptured() int64           { return a.frames }
func (a *fakeAdapter) Setup() SubContext                  { a.setups++; return a.setups }
func (a *fakeAdapter) Unregister(SubContext)              { a.unregs++ }
func (a *fakeAdapter) Close()                             { a.closed = true }

func (a *fakeAdapter) Duplicate(SubContext, SharedFrame) bool {
	if a.failCapture {
		return false
	}
	if !a.stallFrames {
		a.frames++
	}
	return true
}

func (a *fakeAdapter) DuplicateMonitor(_ SubContext, intraIdx int, _ SharedFrame) bool {
	if a.failCapture || intraIdx < 0 || intraIdx >= len(a.monitors) {
		return false
	}
	if !a.stallFrames {
		a.frames++
	}
	return true
}

func (a *fakeAdapter) TranslateRect(offset geometry.Point) {
	for i, r := range a.monitors {
		a.monitors[i] = r.Translate(offset)
	}
}

type fakeChangeProbe struct {
	changed    bool
	resetCalls int
}

func (p *fakeChangeProbe) IsChanged() bool { return p.changed }
func (p *fakeChangeProbe) Reset()          { p.changed = false; p.resetCalls++ }

type fakeSessionProbe struct{ ok bool }

func (p fakeSessionProbe) OK() bool { return p.ok }

type fakeDPIProbe struct {
	point geometry.Point
	ok    bool
}

func (p fakeDPIProbe) Query() (geometry.Point, bool) { return p.point, p.ok }

type fakeSharedFrame struct {
	size   geometry.Size
	pixels []byte
}

func newFakeSharedFrame(size geometry.Size) SharedFrame {
	return &fakeSharedFrame{size: size, pixels: make([]byte, size.Width*size.Height*bytesPerPixel)}
}

func (f *fakeSharedFrame) Size() geometry.Size    { return f.size }
func (f *fakeSharedFrame) Stride() int            { return f.size.Width * bytesPerPixel }
func (f *fakeSharedFrame) MutablePixels() []byte  { return f.pixels }

type fakeRegion struct{ cleared int }

func (r *fakeRegion) Clear() { r.cleared++ }

type fakeFrame struct {
	ctx         Context
	region      fakeRegion
	inner       SharedFrame
	topLeft     geometry.Point
	prepareFail bool

	lastSize      geometry.Size
	lastMonitorID int
}

func newFakeFrame() *fakeFrame {
	return &fakeFrame{inner: newFakeSharedFrame(geometry.Size{})}
}

func (f *fakeFrame) Prepare(size geometry.Size, monitorID int) bool {
	f.lastSize, f.lastMonitorID = size, monitorID
	if f.prepareFail {
		return false
	}
	f.inner = newFakeSharedFrame(size)
	return true
}

func (f *fakeFrame) UpdatedRegion() Region        { return &f.region }
func (f *fakeFrame) SetTopLeft(p geometry.Point)  { f.topLeft = p }
func (f *fakeFrame) Context() *Context            { return &f.ctx }
func (f *fakeFrame) InnerFrame() SharedFrame      { return f.inner }

func newTestController(enumerator *fakeEnumerator, session fakeSessionProbe, change *fakeChangeProbe) (*Controller, map[GraphicsDevice]*fakeAdapter) {
	built := make(map[GraphicsDevice]*fakeAdapter)
	factory := func(d GraphicsDevice) AdapterDuplicator {
		return built[d]
	}
	return NewController(factory, enumerator, change, session, fakeDPIProbe{}, newFakeSharedFrame), built
}
