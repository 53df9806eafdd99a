//go:build windows && !cgo

package duplication

import (
	"unsafe"

	"github.com/lanternops/deskdup/internal/geometry"
	"github.com/lanternops/deskdup/internal/logging"
)

// acquireFrameTimeoutMS is how long AcquireNextFrame blocks waiting for a
// new frame before giving up. The controller's own warm-up loop already
// owns the retry cadence (warmupInterFrameSleep), so this stays short:
// a long per-call timeout here would hold the controller's mutex for no
// benefit.
const acquireFrameTimeoutMS = 0

// dxgiOutput is one monitor attached to an adapter, with its own
// IDXGIOutputDuplication and staging texture. DXGI Desktop Duplication
// hands out one duplication instance per output, each producing full
// frames at that output's native resolution — there's no cross-output
// texture to crop, so ScreenRect is exactly the region Duplicate writes.
type dxgiOutput struct {
	name        string
	rect        geometry.Rect
	duplication uintptr
	staging     uintptr
	texW, texH  int
	rotation    uint32

	framesCaptured int64
}

// dxgiAdapterDuplicator is the concrete Windows AdapterDuplicator: one
// D3D11 device bound to a single GPU adapter, duplicating every output
// (monitor) attached to that adapter.
type dxgiAdapterDuplicator struct {
	device  *dxgiGraphicsDevice
	d3dDev  uintptr
	d3dCtx  uintptr
	outputs []*dxgiOutput
}

func newDXGIAdapterDuplicator(device GraphicsDevice) AdapterDuplicator {
	d, ok := device.(*dxgiGraphicsDevice)
	if !ok {
		return nil
	}
	return &dxgiAdapterDuplicator{device: d}
}

// Initialize implements AdapterDuplicator.
func (a *dxgiAdapterDuplicator) Initialize() bool {
	log := logging.L("duplication")

	d3dDev, d3dCtx, _, err := createD3D11Device(a.device.adapter)
	if err != nil {
		log.Warn("D3D11CreateDevice failed for adapter", "error", err)
		return false
	}

	outputInfos, err := enumAdapterOutputs(a.device.adapter)
	if err != nil {
		log.Warn("IDXGIAdapter::EnumOutputs failed", "error", err)
		comRelease(d3dCtx)
		comRelease(d3dDev)
		return false
	}

	outputs := make([]*dxgiOutput, 0, len(outputInfos))
	for _, info := range outputInfos {
		out, err := duplicateOutput(d3dDev, info)
		comRelease(info.output)
		if err != nil {
			log.Warn("failed to duplicate output, skipping", "output", info.name, "error", err)
			continue
		}
		outputs = append(outputs, out)
	}

	if len(outputs) == 0 {
		comRelease(d3dCtx)
		comRelease(d3dDev)
		return false
	}

	a.d3dDev = d3dDev
	a.d3dCtx = d3dCtx
	a.outputs = outputs
	return true
}

// DesktopRect implements AdapterDuplicator.
func (a *dxgiAdapterDuplicator) DesktopRect() geometry.Rect {
	rects := make([]geometry.Rect, len(a.outputs))
	for i, o := range a.outputs {
		rects[i] = o.rect
	}
	return geometry.UnionAll(rects)
}

// MonitorCount implements AdapterDuplicator.
func (a *dxgiAdapterDuplicator) MonitorCount() int { return len(a.outputs) }

// ScreenRect implements AdapterDuplicator.
func (a *dxgiAdapterDuplicator) ScreenRect(i int) geometry.Rect { return a.outputs[i].rect }

// DeviceName implements AdapterDuplicator.
func (a *dxgiAdapterDuplicator) DeviceName(i int) string { return a.outputs[i].name }

// NumFramesCaptured implements AdapterDuplicator: the minimum across this
// adapter's own outputs, so a full-desktop capture only counts as "warm"
// once every output on the adapter has produced at least one frame.
func (a *dxgiAdapterDuplicator) NumFramesCaptured() int64 {
	min := int64(-1)
	for _, o := range a.outputs {
		if min == -1 || o.framesCaptured < min {
			min = o.framesCaptured
		}
	}
	if min == -1 {
		return 0
	}
	return min
}

// Setup implements AdapterDuplicator. This adapter keeps no per-caller
// state: every output's IDXGIOutputDuplication is shared across whichever
// Context happens to call Duplicate/DuplicateMonitor next, so the
// sub-context is just a presence marker.
func (a *dxgiAdapterDuplicator) Setup() SubContext { return struct{}{} }

// Unregister implements AdapterDuplicator.
func (a *dxgiAdapterDuplicator) Unregister(SubContext) {}

// Duplicate implements AdapterDuplicator: captures every output on this
// adapter into its translated position within target.
func (a *dxgiAdapterDuplicator) Duplicate(_ SubContext, target SharedFrame) bool {
	ok := true
	for _, o := range a.outputs {
		if !a.captureInto(o, target, o.rect.TopLeft()) {
			ok = false
		}
	}
	return ok
}

// DuplicateMonitor implements AdapterDuplicator: captures a single output
// into target, which is sized to exactly that output.
func (a *dxgiAdapterDuplicator) DuplicateMonitor(_ SubContext, intraIdx int, target SharedFrame) bool {
	if intraIdx < 0 || intraIdx >= len(a.outputs) {
		return false
	}
	return a.captureInto(a.outputs[intraIdx], target, geometry.Point{})
}

// TranslateRect implements AdapterDuplicator.
func (a *dxgiAdapterDuplicator) TranslateRect(offset geometry.Point) {
	for _, o := range a.outputs {
		o.rect = o.rect.Translate(offset)
	}
}

// Close implements AdapterDuplicator.
func (a *dxgiAdapterDuplicator) Close() {
	for _, o := range a.outputs {
		comRelease(o.staging)
		comRelease(o.duplication)
	}
	a.outputs = nil
	comRelease(a.d3dCtx)
	comRelease(a.d3dDev)
	comRelease(a.device.adapter)
}

// captureInto runs one AcquireNextFrame/CopyResource/Map/ReleaseFrame
// cycle for o and blits the mapped staging texture into target at
// destTopLeft.
func (a *dxgiAdapterDuplicator) captureInto(o *dxgiOutput, target SharedFrame, destTopLeft geometry.Point) bool {
	log := logging.L("duplication")

	var frameInfo dxgiOutDuplFrameInfo
	var resource uintptr
	hr, _, _ := comCallRaw(o.duplication, dxgiDuplAcquireNextFrame,
		uintptr(acquireFrameTimeoutMS),
		uintptr(unsafe.Pointer(&frameInfo)),
		uintptr(unsafe.Pointer(&resource)),
	)
	if int32(hr) < 0 {
		switch {
		case uint32(hr) == dxgiErrWaitTimeout:
			// No new frame since the last AcquireNextFrame; not an error,
			// the controller's warm-up/steady-state cadence just retries.
			// target keeps its previous content and framesCaptured does
			// not advance.
			return true
		case recoverableDeviceLoss(uint32(hr)):
			log.Warn("device lost, output duplication must be reinitialized",
				"output", o.name, "hresult", uint32(hr))
		default:
			log.Warn("AcquireNextFrame failed", "output", o.name, "hresult", uint32(hr))
		}
		return false
	}
	defer func() {
		syscallRelease(o.duplication, dxgiDuplReleaseFrame)
	}()

	var texture uintptr
	if _, err := comCall(resource, vtblQueryInterface,
		uintptr(unsafe.Pointer(&iidID3D11Texture2D)),
		uintptr(unsafe.Pointer(&texture)),
	); err != nil {
		comRelease(resource)
		log.Warn("QueryInterface ID3D11Texture2D failed", "output", o.name, "error", err)
		return false
	}
	comRelease(resource)
	defer comRelease(texture)

	if _, err := comCall(a.d3dCtx, d3d11CtxCopyResource, o.staging, texture); err != nil {
		log.Warn("CopyResource failed", "output", o.name, "error", err)
		return false
	}

	var mapped d3d11MappedSubresource
	if _, err := comCall(a.d3dCtx, d3d11CtxMap, o.staging, 0, d3d11MapRead, 0, uintptr(unsafe.Pointer(&mapped))); err != nil {
		log.Warn("Map staging texture failed", "output", o.name, "error", err)
		return false
	}
	blitBGRA(target, destTopLeft, mapped.PData, mapped.RowPitch, o.texW, o.texH)
	comCall(a.d3dCtx, d3d11CtxUnmap, o.staging, 0)

	o.framesCaptured++
	return true
}

// blitBGRA copies a w x h BGRA8 image from a mapped D3D11 staging texture
// (srcPtr/srcPitch) into dst at destTopLeft.
func blitBGRA(dst SharedFrame, destTopLeft geometry.Point, srcPtr uintptr, srcPitch uint32, w, h int) {
	pixels := dst.MutablePixels()
	dstStride := dst.Stride()
	rowBytes := w * bytesPerPixel
	src := unsafe.Slice((*byte)(unsafe.Pointer(srcPtr)), int(srcPitch)*h)

	for row := 0; row < h; row++ {
		dstY := destTopLeft.Y + row
		dstOff := dstY*dstStride + destTopLeft.X*bytesPerPixel
		if dstOff < 0 || dstOff+rowBytes > len(pixels) {
			continue
		}
		srcOff := row * int(srcPitch)
		copy(pixels[dstOff:dstOff+rowBytes], src[srcOff:srcOff+rowBytes])
	}
}

var _ AdapterFactory = newDXGIAdapterDuplicator
