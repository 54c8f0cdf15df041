package components

import "testing"

func TestClickableContains(t *testing.T) {
	c := &ClickableComponent{Width: 100, Height: 50, IsEnabled: true}

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"左上角", 10, 20, true},
		{"内部", 60, 40, true},
		{"右边界不含", 110, 30, false},
		{"下边界不含", 50, 70, false},
		{"左侧", 9, 30, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Contains(10, 20, tt.x, tt.y); got != tt.want {
				t.Errorf("Contains(%v,%v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}

	c.IsEnabled = false
	if c.Contains(10, 20, 60, 40) {
		t.Error("disabled clickable must not contain any point")
	}
}
