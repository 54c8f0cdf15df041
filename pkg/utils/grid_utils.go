package utils

import "github.com/decker502/gridbag/pkg/grid"

// ScreenTransform 屏幕坐标与网格容器坐标之间的换算
//
// 容器坐标以网格左上角为原点，x 向右，y 向上（向下为负），
// 与 grid.Engine 的几何约定一致。屏幕坐标 y 向下。
type ScreenTransform struct {
	OriginX, OriginY float64 // 网格左上角的屏幕位置
	Scale            float64 // 容器单位到像素的缩放
}

// ScreenToContainer 屏幕坐标 → 容器坐标
func (t ScreenTransform) ScreenToContainer(sx, sy float64) (px, py float64) {
	return (sx - t.OriginX) / t.Scale, -(sy - t.OriginY) / t.Scale
}

// ContainerToScreen 容器坐标 → 屏幕坐标
func (t ScreenTransform) ContainerToScreen(px, py float64) (sx, sy float64) {
	return t.OriginX + px*t.Scale, t.OriginY - py*t.Scale
}

// CellScreenRect 格子 (x, y) 的屏幕矩形：左上角和边长
func (t ScreenTransform) CellScreenRect(e *grid.Engine, x, y int) (sx, sy, size float64) {
	sx, sy = t.ContainerToScreen(e.CellOrigin(x, y))
	return sx, sy, e.CellSize() * t.Scale
}

// FootprintScreenSize w x h 占地在屏幕上的尺寸
func (t ScreenTransform) FootprintScreenSize(e *grid.Engine, w, h int) (width, height float64) {
	fw, fh := e.FootprintSize(w, h)
	return fw * t.Scale, fh * t.Scale
}

// ScreenToCell 屏幕坐标对应的格子
// 参数:
//   - sx, sy: 屏幕坐标
//
// 返回:
//   - x, y: 格子坐标（可能越界）
//   - inBounds: 是否在网格范围内
func (t ScreenTransform) ScreenToCell(e *grid.Engine, sx, sy float64) (x, y int, inBounds bool) {
	return e.MapPointToCell(t.ScreenToContainer(sx, sy))
}

// ContainerScreenSize 整个网格在屏幕上的尺寸
func (t ScreenTransform) ContainerScreenSize(e *grid.Engine) (width, height float64) {
	w, h := e.ContainerSize()
	return w * t.Scale, h * t.Scale
}
