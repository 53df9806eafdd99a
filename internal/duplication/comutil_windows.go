//go:build windows && !cgo

package duplication

import (
	"fmt"
	"syscall"
	"unsafe"
)

// COM vtable calling infrastructure. DXGI and Direct3D 11 are exposed to
// Go only as raw COM interfaces; golang.org/x/sys/windows stops at the
// Win32 API surface and doesn't wrap either one, so every call here goes
// through a hand-resolved vtable slot the same way the teacher's original
// capture backend does.

// comGUID is a COM GUID (128-bit), laid out to match Windows' GUID.
type comGUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

const vtblQueryInterface = 0

// comVtblFn resolves a COM vtable function pointer by index. obj is a
// pointer to a COM interface (pointer to pointer to vtable).
func comVtblFn(obj uintptr, idx int) uintptr {
	vtablePtr := *(*uintptr)(unsafe.Pointer(obj))
	return *(*uintptr)(unsafe.Pointer(vtablePtr + uintptr(idx)*unsafe.Sizeof(uintptr(0))))
}

// comCall invokes a COM vtable method at the given index and treats a
// negative return value as a failing HRESULT.
func comCall(obj uintptr, vtableIdx int, args ...uintptr) (uintptr, error) {
	fnPtr := comVtblFn(obj, vtableIdx)
	allArgs := make([]uintptr, 0, 1+len(args))
	allArgs = append(allArgs, obj)
	allArgs = append(allArgs, args...)
	ret, _, _ := syscall.SyscallN(fnPtr, allArgs...)
	if int32(ret) < 0 {
		return ret, fmt.Errorf("COM vtable[%d] HRESULT 0x%08X", vtableIdx, uint32(ret))
	}
	return ret, nil
}

// comRelease calls IUnknown::Release (vtable index 2).
func comRelease(obj uintptr) {
	if obj == 0 {
		return
	}
	syscall.SyscallN(comVtblFn(obj, 2), obj)
}

// comCallRaw invokes a COM vtable method and returns the raw HRESULT
// without turning a negative result into an error, for call sites (like
// AcquireNextFrame's DXGI_ERROR_WAIT_TIMEOUT) where a "failure" HRESULT is
// an expected, common outcome rather than a real error.
func comCallRaw(obj uintptr, vtableIdx int, args ...uintptr) (uintptr, uintptr, error) {
	fnPtr := comVtblFn(obj, vtableIdx)
	allArgs := make([]uintptr, 0, 1+len(args))
	allArgs = append(allArgs, obj)
	allArgs = append(allArgs, args...)
	return syscall.SyscallN(fnPtr, allArgs...)
}

// syscallRelease invokes a zero-argument, return-value-ignored vtable
// method such as IDXGIOutputDuplication::ReleaseFrame.
func syscallRelease(obj uintptr, vtableIdx int) {
	syscall.SyscallN(comVtblFn(obj, vtableIdx), obj)
}
