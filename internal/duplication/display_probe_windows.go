//go:build windows

package duplication

import "syscall"

var (
	user32DLL           = syscall.NewLazyDLL("user32.dll")
	procGetSystemMetrics = user32DLL.NewProc("GetSystemMetrics")
)

const (
	smCXVirtualScreen = 78
	smCYVirtualScreen = 79
	smXVirtualScreen  = 76
	smYVirtualScreen  = 77
	smCMonitors       = 80
)

func getSystemMetrics(index int) int32 {
	ret, _, _ := procGetSystemMetrics.Call(uintptr(index))
	return int32(ret)
}

// windowsDisplayChangeProbe fingerprints the desktop's monitor topology
// with GetSystemMetrics. golang.org/x/sys/windows doesn't wrap this call
// (it stops at the Win32 surface the runtime and common tooling actually
// need), so this drops to the same raw syscall.NewLazyDLL pattern the
// teacher uses for every other user32.dll entry point it calls that isn't
// already in that package (OpenInputDesktop, SetThreadDesktop, ...).
//
// IsChanged reports false on the very first call after Reset/construction:
// with no prior fingerprint recorded, there is nothing to have changed
// from yet.
type windowsDisplayChangeProbe struct {
	have     bool
	monitors int32
	bounds   [4]int32
}

func (p *windowsDisplayChangeProbe) fingerprint() (int32, [4]int32) {
	monitors := getSystemMetrics(smCMonitors)
	bounds := [4]int32{
		getSystemMetrics(smXVirtualScreen),
		getSystemMetrics(smYVirtualScreen),
		getSystemMetrics(smCXVirtualScreen),
		getSystemMetrics(smCYVirtualScreen),
	}
	return monitors, bounds
}

// IsChanged implements DisplayChangeProbe.
func (p *windowsDisplayChangeProbe) IsChanged() bool {
	monitors, bounds := p.fingerprint()
	if !p.have {
		p.have = true
		p.monitors = monitors
		p.bounds = bounds
		return false
	}
	return monitors != p.monitors || bounds != p.bounds
}

// Reset implements DisplayChangeProbe.
func (p *windowsDisplayChangeProbe) Reset() {
	p.have = false
}
