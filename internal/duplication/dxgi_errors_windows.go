//go:build windows && !cgo

package duplication

import "fmt"

// hrError wraps a failing HRESULT the way the teacher formats every DXGI
// failure it logs: call site name plus the raw HRESULT in hex.
func hrError(call string, hr uint32) error {
	return fmt.Errorf("%s failed: 0x%08X", call, hr)
}

// recoverableDeviceLoss reports whether hr indicates the D3D device or
// its output duplication needs to be torn down and reinitialized rather
// than retried as-is.
func recoverableDeviceLoss(hr uint32) bool {
	switch hr {
	case dxgiErrAccessLost, dxgiErrDeviceRemoved, dxgiErrDeviceReset:
		return true
	default:
		return false
	}
}
