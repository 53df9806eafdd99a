//go:build windows

package duplication

import (
	"syscall"

	"github.com/lanternops/deskdup/internal/geometry"
)

var (
	gdi32DLL = syscall.NewLazyDLL("gdi32.dll")

	procGetDC         = user32DLL.NewProc("GetDC")
	procReleaseDC     = user32DLL.NewProc("ReleaseDC")
	procGetDeviceCaps = gdi32DLL.NewProc("GetDeviceCaps")
)

const (
	logPixelsX = 88
	logPixelsY = 90
)

// windowsDPIProbe reads the system DPI via GetDC(NULL)+GetDeviceCaps, the
// same call pair the original controller's DPI query uses. A null HDC
// scopes the query to the whole screen rather than one window.
type windowsDPIProbe struct{}

// Query implements DPIProbe.
func (windowsDPIProbe) Query() (geometry.Point, bool) {
	hdc, _, _ := procGetDC.Call(0)
	if hdc == 0 {
		return geometry.Point{}, false
	}
	defer procReleaseDC.Call(0, hdc)

	x, _, _ := procGetDeviceCaps.Call(hdc, uintptr(logPixelsX))
	y, _, _ := procGetDeviceCaps.Call(hdc, uintptr(logPixelsY))
	if x == 0 || y == 0 {
		return geometry.Point{}, false
	}
	return geometry.Point{X: int(x), Y: int(y)}, true
}
