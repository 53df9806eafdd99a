package duplication

import "github.com/lanternops/deskdup/internal/geometry"

// DisplayChangeProbe reports whether the desktop's monitor topology has
// changed since the last Reset. The controller checks it at the top of
// every Duplicate/DuplicateMonitor call and reinitializes when it fires.
//
// IsChanged returns false on the very first call after Reset (or after
// construction): with no prior topology snapshot recorded, there is
// nothing to have changed from yet.
type DisplayChangeProbe interface {
	IsChanged() bool
	Reset()
}

// SessionCapabilityProbe reports whether the calling process's session
// can host desktop duplication at all. Session 0 (services) cannot attach
// to an interactive desktop and always fails this probe.
type SessionCapabilityProbe interface {
	OK() bool
}

// DPIProbe reports the system DPI. The controller queries it once per
// successful initialization and keeps the last successful answer; it is
// not queried on every Controller.DPI call.
type DPIProbe interface {
	Query() (geometry.Point, bool)
}
