package utils

import (
	"io"
	"log"
	"math"
	"testing"

	"github.com/decker502/gridbag/pkg/grid"
)

func newEngine(t *testing.T) *grid.Engine {
	t.Helper()
	e, err := grid.Initialize(grid.DefaultConfig(), grid.WithLogger(log.New(io.Discard, "", 0)))
	if err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	return e
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScreenTransformRoundTrip(t *testing.T) {
	tr := ScreenTransform{OriginX: 40, OriginY: 60, Scale: 0.5}

	px, py := tr.ScreenToContainer(92.5, 112.5)
	if !almostEqual(px, 105) || !almostEqual(py, -105) {
		t.Errorf("ScreenToContainer = (%v,%v), want (105,-105)", px, py)
	}
	sx, sy := tr.ContainerToScreen(px, py)
	if !almostEqual(sx, 92.5) || !almostEqual(sy, 112.5) {
		t.Errorf("ContainerToScreen = (%v,%v), want (92.5,112.5)", sx, sy)
	}
}

func TestScreenToCell(t *testing.T) {
	e := newEngine(t)
	tr := ScreenTransform{OriginX: 40, OriginY: 60, Scale: 1}

	tests := []struct {
		name     string
		sx, sy   float64
		wantX    int
		wantY    int
		inBounds bool
	}{
		{"左上格子", 41, 61, 0, 0, true},
		{"第二列第三行", 40 + 105 + 1, 60 + 210 + 99, 1, 2, true},
		{"间隔归属前一格", 40 + 102, 60, 0, 0, true},
		{"网格左侧", 30, 61, -1, 0, false},
		{"网格下方", 41, 60 + 400, 0, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, in := tr.ScreenToCell(e, tt.sx, tt.sy)
			if x != tt.wantX || y != tt.wantY || in != tt.inBounds {
				t.Errorf("ScreenToCell(%v,%v) = (%d,%d,%v), want (%d,%d,%v)", tt.sx, tt.sy, x, y, in, tt.wantX, tt.wantY, tt.inBounds)
			}
		})
	}
}

func TestScreenRects(t *testing.T) {
	e := newEngine(t)
	tr := ScreenTransform{OriginX: 40, OriginY: 60, Scale: 2}

	sx, sy, size := tr.CellScreenRect(e, 2, 1)
	if sx != 40+420 || sy != 60+210 || size != 200 {
		t.Errorf("CellScreenRect(2,1) = (%v,%v,%v)", sx, sy, size)
	}
	if w, h := tr.FootprintScreenSize(e, 2, 1); w != 410 || h != 200 {
		t.Errorf("FootprintScreenSize(2,1) = (%v,%v), want (410,200)", w, h)
	}
	if w, h := tr.ContainerScreenSize(e); w != 620 || h != 620 {
		t.Errorf("ContainerScreenSize = (%v,%v), want (620,620)", w, h)
	}
}
