package duplication

// Result is the outcome of a duplicate/duplicate-monitor call. It is the
// primary error-signaling mechanism for the public API: callers branch on
// Result rather than on a plain error, mirroring the enum the original
// dxgi_duplicator_controller.cc returns from doDuplicate.
type Result int

const (
	// Succeeded means the frame was captured and target was updated.
	Succeeded Result = iota
	// UnsupportedSession means the calling process's session cannot host
	// desktop duplication (session 0, or the session probe otherwise
	// reports incapability).
	UnsupportedSession
	// FramePreparationFailed means the caller's Frame refused to prepare
	// a buffer of the requested size.
	FramePreparationFailed
	// InitializationFailed means no AdapterDuplicator could be
	// initialized for the current desktop.
	InitializationFailed
	// DuplicationFailed means initialization succeeded and the monitor id
	// is valid, but warm-up or an adapter's Duplicate/DuplicateMonitor call
	// failed (a full-desktop capture fails on the first failing adapter).
	// The controller deinitializes before returning it.
	DuplicationFailed
	// InvalidMonitorId means the requested virtual monitor id is out of
	// range for the current topology.
	InvalidMonitorId
)

// String returns the diagnostic name of r, the idiomatic-Go equivalent of
// the original source's free-standing resultName() function.
func (r Result) String() string {
	switch r {
	case Succeeded:
		return "Succeeded"
	case UnsupportedSession:
		return "UnsupportedSession"
	case FramePreparationFailed:
		return "FramePreparationFailed"
	case InitializationFailed:
		return "InitializationFailed"
	case DuplicationFailed:
		return "DuplicationFailed"
	case InvalidMonitorId:
		return "InvalidMonitorId"
	default:
		return "Unknown"
	}
}
