package grid

import "math"

// 容器坐标与格子坐标的换算
//
// 容器坐标系：原点在网格左上角，X 向右，Y 向上；
// 第 y 行的格子位于 -y*(cellSize+spacing) 处，即越往下 Y 越小。

// pitch 相邻格子原点之间的距离
func (e *Engine) pitch() float64 {
	return e.cellSize + e.spacing
}

// MapPointToCell 把容器坐标转换为格子坐标
//
// 每个轴除以 (cellSize + spacing) 后向负无穷取整，纵轴取反。
// 越界的坐标原样返回（不钳制），便于诊断。
//
// 返回:
//   - x, y: 格子坐标
//   - inBounds: (x, y) 是否位于 [0,W) x [0,H)
func (e *Engine) MapPointToCell(px, py float64) (x, y int, inBounds bool) {
	p := e.pitch()
	x = int(math.Floor(px / p))
	y = int(math.Floor(-py / p))
	return x, y, e.inBounds(x, y)
}

// CellOrigin 返回格子左上角的容器坐标
func (e *Engine) CellOrigin(x, y int) (px, py float64) {
	p := e.pitch()
	return float64(x) * p, -float64(y) * p
}

// ContainerSize 网格容器的总尺寸：n 个格子加 n-1 个间距
func (e *Engine) ContainerSize() (width, height float64) {
	return e.FootprintSize(e.width, e.height)
}

// FootprintSize w x h 个格子（含内部间距）的显示尺寸
// 例如 2x2 物品：2*cellSize + 1*spacing
func (e *Engine) FootprintSize(w, h int) (width, height float64) {
	width = float64(w)*e.cellSize + float64(w-1)*e.spacing
	height = float64(h)*e.cellSize + float64(h-1)*e.spacing
	return width, height
}
