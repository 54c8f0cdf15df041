package components

// ClickableComponent 标记实体可以被指针抓取
// 定义了可点击区域的尺寸和是否启用点击
type ClickableComponent struct {
	Width     float64 // 可点击区域的宽度(像素)
	Height    float64 // 可点击区域的高度(像素)
	IsEnabled bool    // 是否可以被点击
}

// Contains 点 (x, y) 是否落在以 (originX, originY) 为左上角的可点击区域内
func (c *ClickableComponent) Contains(originX, originY, x, y float64) bool {
	return c.IsEnabled &&
		x >= originX && x < originX+c.Width &&
		y >= originY && y < originY+c.Height
}
