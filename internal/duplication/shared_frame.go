package duplication

import "github.com/lanternops/deskdup/internal/geometry"

// ARGBFrame is the reference Frame/SharedFrame/Region implementation:
// a single self-contained struct holding a BGRA8 pixel buffer, an updated
// region flag, and the Context the controller needs to detect staleness.
// It's what NewSharedFrame builds for the warm-up path's throwaway buffer,
// and it's a reasonable default for callers who don't need a custom pixel
// buffer type (e.g. one backed by a GPU-mapped texture).
type ARGBFrame struct {
	ctx Context

	size    geometry.Size
	stride  int
	pixels  []byte
	dirty   bool
	topLeft geometry.Point
}

// NewARGBFrame allocates a zero-sized ARGBFrame ready for repeated
// Duplicate/DuplicateMonitor calls.
func NewARGBFrame() *ARGBFrame {
	return &ARGBFrame{}
}

// NewSharedFrame is a SharedFrameFactory that allocates a throwaway
// ARGBFrame of the given size, used by the controller's warm-up path.
func NewSharedFrame(size geometry.Size) SharedFrame {
	f := &ARGBFrame{}
	f.resize(size)
	return f
}

const bytesPerPixel = 4

func (f *ARGBFrame) resize(size geometry.Size) {
	if size.Empty() {
		size = geometry.Size{}
	}
	f.size = size
	f.stride = size.Width * bytesPerPixel
	need := f.stride * size.Height
	if cap(f.pixels) < need {
		f.pixels = make([]byte, need)
	} else {
		f.pixels = f.pixels[:need]
	}
}

// Prepare implements Frame. A zero-area size (the reference controller
// hands back the zero Size for an out-of-range monitor id, letting the
// dispatch step reject it as InvalidMonitorId rather than failing
// preparation) is not itself an error.
func (f *ARGBFrame) Prepare(size geometry.Size, _ int) bool {
	f.resize(size)
	return true
}

// UpdatedRegion implements Frame.
func (f *ARGBFrame) UpdatedRegion() Region { return f }

// Clear implements Region.
func (f *ARGBFrame) Clear() { f.dirty = false }

// SetTopLeft implements Frame.
func (f *ARGBFrame) SetTopLeft(p geometry.Point) { f.topLeft = p }

// TopLeft returns where this frame sits within the virtual desktop, as
// last set by SetTopLeft.
func (f *ARGBFrame) TopLeft() geometry.Point { return f.topLeft }

// Context implements Frame.
func (f *ARGBFrame) Context() *Context { return &f.ctx }

// InnerFrame implements Frame.
func (f *ARGBFrame) InnerFrame() SharedFrame { return f }

// Size implements SharedFrame.
func (f *ARGBFrame) Size() geometry.Size { return f.size }

// Stride implements SharedFrame.
func (f *ARGBFrame) Stride() int { return f.stride }

// MutablePixels implements SharedFrame.
func (f *ARGBFrame) MutablePixels() []byte { return f.pixels }

var (
	_ Frame       = (*ARGBFrame)(nil)
	_ SharedFrame = (*ARGBFrame)(nil)
	_ Region      = (*ARGBFrame)(nil)
)
