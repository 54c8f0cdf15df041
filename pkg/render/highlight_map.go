// Package render 网格引擎的渲染协作者
//
// HighlightMap 实现 grid.CellRenderer，只记录每个格子的高亮状态；
// 终端渲染（tcell）、PNG 渲染（gg）以及 ebiten 渲染系统都从它读取高亮。
package render

// HighlightState 格子的高亮状态
type HighlightState int

const (
	HighlightNone HighlightState = iota
	HighlightValid
	HighlightInvalid
)

type cellKey struct{ x, y int }

// HighlightMap 记录格子高亮状态
type HighlightMap struct {
	cells map[cellKey]bool // 值为 valid
}

// NewHighlightMap 创建空的高亮表
func NewHighlightMap() *HighlightMap {
	return &HighlightMap{cells: make(map[cellKey]bool)}
}

// HighlightCell 实现 grid.CellRenderer
func (h *HighlightMap) HighlightCell(x, y int, valid bool) {
	h.cells[cellKey{x, y}] = valid
}

// ClearCellHighlight 实现 grid.CellRenderer
func (h *HighlightMap) ClearCellHighlight(x, y int) {
	delete(h.cells, cellKey{x, y})
}

// State 查询格子高亮状态
func (h *HighlightMap) State(x, y int) HighlightState {
	valid, ok := h.cells[cellKey{x, y}]
	switch {
	case !ok:
		return HighlightNone
	case valid:
		return HighlightValid
	default:
		return HighlightInvalid
	}
}

// Len 高亮中的格子数
func (h *HighlightMap) Len() int {
	return len(h.cells)
}
