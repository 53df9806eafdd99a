//go:build windows && !cgo

package duplication

import (
	"syscall"
	"unsafe"

	"github.com/lanternops/deskdup/internal/geometry"
)

// outputInfo is what enumAdapterOutputs gathers about one IDXGIOutput
// before it has been upgraded to IDXGIOutput1 and duplicated.
type outputInfo struct {
	output uintptr // IDXGIOutput, caller releases
	name   string
	rect   geometry.Rect
}

// enumAdapterOutputs walks IDXGIAdapter::EnumOutputs until it runs out of
// outputs, reading each one's DXGI_OUTPUT_DESC for its name and desktop
// coordinates.
func enumAdapterOutputs(adapter uintptr) ([]outputInfo, error) {
	var outputs []outputInfo
	for i := uint32(0); ; i++ {
		var output uintptr
		if _, err := comCall(adapter, dxgiAdapterEnumOutputs, uintptr(i), uintptr(unsafe.Pointer(&output))); err != nil {
			break
		}

		var desc dxgiOutputDesc
		if _, err := comCall(output, dxgiOutputGetDesc, uintptr(unsafe.Pointer(&desc))); err != nil {
			comRelease(output)
			continue
		}

		outputs = append(outputs, outputInfo{
			output: output,
			name:   syscall.UTF16ToString(desc.DeviceName[:]),
			rect: geometry.Rect{
				Left:   int(desc.DesktopCoordinates.Left),
				Top:    int(desc.DesktopCoordinates.Top),
				Right:  int(desc.DesktopCoordinates.Right),
				Bottom: int(desc.DesktopCoordinates.Bottom),
			},
		})
	}
	if len(outputs) == 0 {
		return nil, hrError("IDXGIAdapter::EnumOutputs", 0)
	}
	return outputs, nil
}

// duplicateOutput upgrades info's IDXGIOutput to IDXGIOutput1, calls
// DuplicateOutput against device, and allocates the CPU-readable staging
// texture Duplicate/DuplicateMonitor map on every capture.
func duplicateOutput(device uintptr, info outputInfo) (*dxgiOutput, error) {
	var output1 uintptr
	if _, err := comCall(info.output, vtblQueryInterface,
		uintptr(unsafe.Pointer(&iidIDXGIOutput1)),
		uintptr(unsafe.Pointer(&output1)),
	); err != nil {
		return nil, err
	}
	defer comRelease(output1)

	var duplication uintptr
	if _, err := comCall(output1, dxgiOutput1DuplicateOutput, device, uintptr(unsafe.Pointer(&duplication))); err != nil {
		return nil, err
	}

	var desc dxgiOutDuplDesc
	if _, err := comCall(duplication, dxgiDuplGetDesc, uintptr(unsafe.Pointer(&desc))); err != nil {
		comRelease(duplication)
		return nil, err
	}

	texW, texH := int(desc.ModeDesc.Width), int(desc.ModeDesc.Height)
	if desc.Rotation == 2 || desc.Rotation == 4 { // 90 or 270 degrees: DXGI hands back native (pre-rotation) dims
		texW, texH = texH, texW
	}

	staging, err := createStagingTexture(device, texW, texH)
	if err != nil {
		comRelease(duplication)
		return nil, err
	}

	return &dxgiOutput{
		name:        info.name,
		rect:        info.rect,
		duplication: duplication,
		staging:     staging,
		texW:        texW,
		texH:        texH,
		rotation:    desc.Rotation,
	}, nil
}

func createStagingTexture(device uintptr, w, h int) (uintptr, error) {
	desc := d3d11Texture2DDesc{
		Width:          uint32(w),
		Height:         uint32(h),
		MipLevels:      1,
		ArraySize:      1,
		Format:         dxgiFormatB8G8R8A8,
		SampleCount:    1,
		SampleQuality:  0,
		Usage:          d3d11UsageStaging,
		BindFlags:      0,
		CPUAccessFlags: d3d11CPUAccessRead,
		MiscFlags:      0,
	}
	var staging uintptr
	if _, err := comCall(device, d3d11DeviceCreateTexture2D,
		uintptr(unsafe.Pointer(&desc)),
		0,
		uintptr(unsafe.Pointer(&staging)),
	); err != nil {
		return 0, err
	}
	return staging, nil
}
