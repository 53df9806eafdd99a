package duplication

import (
	"time"

	"github.com/lanternops/deskdup/internal/logging"
)

// Warm-up tunables. The first frame or two out of a freshly (re)initialized
// duplicator is often stale or black on real hardware, so a brand new
// Context runs a short, discardable capture loop before its first "real"
// Duplicate/DuplicateMonitor call is allowed to return Succeeded.
const (
	// warmupFramesToSkip is how many captured frames (the minimum across
	// every adapter) must land before warm-up is considered done.
	warmupFramesToSkip = 1
	// warmupInterFrameSleep is how long to wait between warm-up attempts.
	warmupInterFrameSleep = 17 * time.Millisecond
	// warmupOverallTimeout bounds the whole warm-up loop.
	warmupOverallTimeout = 500 * time.Millisecond
)

// ensureFrameCapturedLocked runs the warm-up loop for a freshly (re)set-up
// Context, capturing full-desktop frames into a throwaway (or, if large
// enough, the caller's own) buffer until every adapter reports at least
// warmupFramesToSkip captured frames or the overall timeout elapses.
//
// AdapterDuplicator.NumFramesCaptured is assumed never to decrease within
// a generation; a violating implementation makes this loop spin until
// warmupOverallTimeout on every fresh Context, which is a caller bug this
// controller does not defend against.
func (c *Controller) ensureFrameCapturedLocked(ctx *Context, callerInner SharedFrame) bool {
	desktopSize := c.desktopRect.Size()
	target := callerInner
	if s := callerInner.Size(); s.Width < desktopSize.Width || s.Height < desktopSize.Height {
		target = c.newFrame(desktopSize)
	}

	deadline := time.Now().Add(warmupOverallTimeout)
	for c.minFramesCaptured() < warmupFramesToSkip {
		if !c.duplicateAllLocked(ctx, target) {
			return false
		}
		if c.minFramesCaptured() >= warmupFramesToSkip {
			return true
		}
		if time.Now().After(deadline) {
			logging.L("duplication").Warn("warm-up timed out waiting for a captured frame")
			return false
		}
		time.Sleep(warmupInterFrameSleep)
	}
	return true
}

// minFramesCaptured returns the smallest NumFramesCaptured across every
// adapter, or 0 if there are no adapters.
func (c *Controller) minFramesCaptured() int64 {
	min := int64(-1)
	for _, a := range c.adapters {
		n := a.NumFramesCaptured()
		if min == -1 || n < min {
			min = n
		}
	}
	if min == -1 {
		return 0
	}
	return min
}
