package grid

import "testing"

func TestMapPointToCell(t *testing.T) {
	e := newTestEngine(t)

	// 格子间距 = 100 + 5 = 105
	tests := []struct {
		name     string
		px, py   float64
		wantX    int
		wantY    int
		inBounds bool
	}{
		{"原点", 0, 0, 0, 0, true},
		{"第一个格子内部", 50, -50, 0, 0, true},
		{"间距区域归属左上格子", 104.9, -104.9, 0, 0, true},
		{"下一格的起点", 105, -105, 1, 1, true},
		{"右下角格子", 300, -300, 2, 2, true},
		{"左侧越界", -1, -10, -1, 0, false},
		{"上方越界", 10, 1, 0, -1, false},
		{"右侧越界", 315, -10, 3, 0, false},
		{"下方越界", 10, -400, 0, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, ok := e.MapPointToCell(tt.px, tt.py)
			if x != tt.wantX || y != tt.wantY || ok != tt.inBounds {
				t.Errorf("MapPointToCell(%v, %v) = (%d, %d, %v), want (%d, %d, %v)",
					tt.px, tt.py, x, y, ok, tt.wantX, tt.wantY, tt.inBounds)
			}
		})
	}
}

func TestMapPointToCellFollowsResize(t *testing.T) {
	e := newTestEngine(t)
	if _, _, ok := e.MapPointToCell(330, -10); ok {
		t.Fatal("column 3 should be out of bounds on a 3-wide grid")
	}
	e.AddColumn()
	if x, _, ok := e.MapPointToCell(330, -10); !ok || x != 3 {
		t.Errorf("after AddColumn: x=%d inBounds=%v, want 3 true", x, ok)
	}
}

func TestGeometry(t *testing.T) {
	e := newTestEngine(t)

	px, py := e.CellOrigin(2, 1)
	if px != 210 || py != -105 {
		t.Errorf("CellOrigin(2,1) = (%v,%v), want (210,-105)", px, py)
	}

	w, h := e.ContainerSize()
	if w != 310 || h != 310 {
		t.Errorf("ContainerSize = (%v,%v), want (310,310)", w, h)
	}

	w, h = e.FootprintSize(2, 1)
	if w != 205 || h != 100 {
		t.Errorf("FootprintSize(2,1) = (%v,%v), want (205,100)", w, h)
	}

	// 格子原点映射回同一个格子
	for y := 0; y < e.Height(); y++ {
		for x := 0; x < e.Width(); x++ {
			ox, oy := e.CellOrigin(x, y)
			gx, gy, ok := e.MapPointToCell(ox+1, oy-1)
			if !ok || gx != x || gy != y {
				t.Errorf("origin of (%d,%d) maps to (%d,%d,%v)", x, y, gx, gy, ok)
			}
		}
	}
}
