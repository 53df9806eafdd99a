//go:build windows

package duplication

import "golang.org/x/sys/windows"

// windowsSessionProbe implements SessionCapabilityProbe using the same
// ProcessIdToSessionId/GetCurrentProcessId pair the teacher already uses
// in internal/userhelper/session_windows.go and
// internal/remote/desktop/sas_windows.go — session 0 (services) cannot
// attach to an interactive desktop, so desktop duplication is never
// supported there.
type windowsSessionProbe struct{}

// OK implements SessionCapabilityProbe.
func (windowsSessionProbe) OK() bool {
	var sessionID uint32
	if err := windows.ProcessIdToSessionId(windows.GetCurrentProcessId(), &sessionID); err != nil {
		return false
	}
	return sessionID != 0
}
