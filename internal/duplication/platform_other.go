//go:build !windows || cgo

package duplication

import "github.com/lanternops/deskdup/internal/geometry"

// Desktop duplication has no backend outside Windows. The collaborators
// below make that failure visible through the normal Result paths rather
// than through a platform-specific error type: IsSupported reports false,
// and since no capture ever succeeds and the session probe always fails,
// Duplicate/DuplicateMonitor return UnsupportedSession. This matches the
// teacher's own "_other.go" stub files (a present-but-inert
// implementation, not a build error).
func newPlatformController() *Controller {
	return NewController(
		func(GraphicsDevice) AdapterDuplicator { return nil },
		noAdapterEnumerator{},
		neverChangedProbe{},
		unsupportedSessionProbe{},
		noDPIProbe{},
		NewSharedFrame,
	)
}

type noAdapterEnumerator struct{}

func (noAdapterEnumerator) EnumDevices() []GraphicsDevice { return nil }

type neverChangedProbe struct{}

func (neverChangedProbe) IsChanged() bool { return false }
func (neverChangedProbe) Reset()          {}

type unsupportedSessionProbe struct{}

func (unsupportedSessionProbe) OK() bool { return false }

type noDPIProbe struct{}

func (noDPIProbe) Query() (geometry.Point, bool) { return geometry.Point{}, false }
