package components

// PositionComponent 实体左上角的屏幕坐标（像素）
type PositionComponent struct {
	X, Y float64
}
