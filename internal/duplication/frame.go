package duplication

import "github.com/lanternops/deskdup/internal/geometry"

// Region is the updated-region accumulator on a caller's Frame. The
// controller only ever clears it before a fresh capture; the pixel-level
// rectangle bookkeeping lives with whatever concrete Frame the caller
// supplies.
type Region interface {
	Clear()
}

// SharedFrame is the opaque pixel buffer a Frame wraps. The controller
// never reads or writes pixels itself — it only needs to know how big the
// buffer is, so it can decide during warm-up whether the caller's buffer
// is safe to capture into or whether a throwaway buffer is needed instead.
type SharedFrame interface {
	Size() geometry.Size
	// Stride is the row length in bytes of the pixel buffer, which may
	// exceed Size().Width*4 if the buffer was allocated with padding.
	Stride() int
	// MutablePixels returns the raw BGRA8 pixel buffer, row-major, for
	// an AdapterDuplicator to copy captured pixels into.
	MutablePixels() []byte
}

// SharedFrameFactory allocates a throwaway SharedFrame of the given size,
// used by the warm-up path when the caller's own frame is smaller than the
// desktop.
type SharedFrameFactory func(size geometry.Size) SharedFrame

// Frame is the per-call capture target a caller passes to Duplicate or
// DuplicateMonitor. It owns a Context, which the controller uses to detect
// whether the caller's view of adapter/generation state is stale.
type Frame interface {
	// Prepare resizes the frame's backing buffer for size and records
	// which monitor id (or FullDesktopMonitorID) it was prepared for. It
	// reports false if the buffer could not be resized.
	Prepare(size geometry.Size, monitorID int) bool
	// UpdatedRegion returns the region accumulator to clear/populate
	// during this capture.
	UpdatedRegion() Region
	// SetTopLeft records where this frame's content sits within the
	// virtual desktop.
	SetTopLeft(p geometry.Point)
	// Context returns the caller's persistent Context, reused across
	// calls so the controller can detect staleness.
	Context() *Context
	// InnerFrame returns the opaque pixel buffer the concrete
	// AdapterDuplicator captures into.
	InnerFrame() SharedFrame
}

// FullDesktopMonitorID requests a capture of the whole virtual desktop
// rather than a single monitor.
const FullDesktopMonitorID = -1
