package engine

// DeltaMode is the unit of a wheel event's deltas.
type DeltaMode int

const (
	DeltaPixel DeltaMode = iota
	DeltaLine
	DeltaPage
)

// Normalization constants shared by browsers' wheel implementations.
const (
	PixelStep  = 10
	LineHeight = 40
	PageHeight = 800
)

// WheelEvent is a raw wheel/scroll input. WheelDeltaX/Y carry the legacy
// 120-per-notch values some devices still report; they are only consulted
// when both modern deltas are zero.
type WheelEvent struct {
	DeltaX      float64
	DeltaY      float64
	DeltaMode   DeltaMode
	WheelDeltaX float64
	WheelDeltaY float64
}

// NormalizedWheel is a wheel event in canonical units: spin counts notches,
// pixel is the distance in pixels.
type NormalizedWheel struct {
	SpinX, SpinY   float64
	PixelX, PixelY float64
}

// NormalizeWheel converts device-specific wheel deltas to pixels.
func NormalizeWheel(e WheelEvent) NormalizedWheel {
	var n NormalizedWheel

	if e.WheelDeltaY != 0 {
		n.SpinY = -e.WheelDeltaY / 120
	}
	if e.WheelDeltaX != 0 {
		n.SpinX = -e.WheelDeltaX / 120
	}
	n.PixelX = n.SpinX * PixelStep
	n.PixelY = n.SpinY * PixelStep

	if e.DeltaX != 0 || e.DeltaY != 0 {
		n.PixelX = e.DeltaX
		n.PixelY = e.DeltaY
	}

	if (n.PixelX != 0 || n.PixelY != 0) && e.DeltaMode != DeltaPixel {
		if e.DeltaMode == DeltaLine {
			n.PixelX *= LineHeight
			n.PixelY *= LineHeight
		} else {
			n.PixelX *= PageHeight
			n.PixelY *= PageHeight
		}
	}

	if n.PixelX != 0 && n.SpinX == 0 {
		n.SpinX = spinOf(n.PixelX)
	}
	if n.PixelY != 0 && n.SpinY == 0 {
		n.SpinY = spinOf(n.PixelY)
	}
	return n
}

func spinOf(px float64) float64 {
	if px < 1 {
		return -1
	}
	return 1
}
