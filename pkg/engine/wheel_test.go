package engine

import "testing"

func TestNormalizeWheel(t *testing.T) {
	tests := []struct {
		name   string
		ev     WheelEvent
		pixelY float64
		spinY  float64
	}{
		{"pixel mode", WheelEvent{DeltaY: 100}, 100, 1},
		{"pixel mode up", WheelEvent{DeltaY: -53}, -53, -1},
		{"line mode", WheelEvent{DeltaY: 3, DeltaMode: DeltaLine}, 120, 1},
		{"page mode", WheelEvent{DeltaY: 1, DeltaMode: DeltaPage}, 800, 1},
		{"legacy wheelDelta", WheelEvent{WheelDeltaY: 120}, -10, -1},
		{"legacy ignored when modern set", WheelEvent{DeltaY: 4, WheelDeltaY: 120}, 4, -1},
		{"sub-pixel counts as negative spin", WheelEvent{DeltaY: 0.5}, 0.5, -1},
		{"no motion", WheelEvent{DeltaMode: DeltaLine}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NormalizeWheel(tt.ev)
			if n.PixelY != tt.pixelY {
				t.Errorf("PixelY = %v, want %v", n.PixelY, tt.pixelY)
			}
			if n.SpinY != tt.spinY {
				t.Errorf("SpinY = %v, want %v", n.SpinY, tt.spinY)
			}
		})
	}
}

func TestNormalizeWheel_Horizontal(t *testing.T) {
	n := NormalizeWheel(WheelEvent{DeltaX: 2, DeltaMode: DeltaLine})
	if n.PixelX != 80 || n.SpinX != 1 {
		t.Errorf("got %+v", n)
	}
	if n.PixelY != 0 || n.SpinY != 0 {
		t.Errorf("vertical motion from horizontal event: %+v", n)
	}
}
