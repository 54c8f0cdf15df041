package grid

import "fmt"

// CheckResize 检查能否把网格调整为 newWidth x newHeight，返回拒绝原因
//
// 规则:
//   - 任一维度小于 minSize 或超过对应最大值 → ErrSizeLimit
//   - 缩小时，被移除的列/行中只要有一个格子被占用 → ErrShrinkOccupied
//     （缩小要么全部成功，要么完全拒绝）
func (e *Engine) CheckResize(newWidth, newHeight int) error {
	if newWidth < e.minSize || newHeight < e.minSize {
		return fmt.Errorf("%w: %dx%d below minimum %d", ErrSizeLimit, newWidth, newHeight, e.minSize)
	}
	if newWidth > e.maxWidth || newHeight > e.maxHeight {
		return fmt.Errorf("%w: %dx%d exceeds maximum %dx%d", ErrSizeLimit, newWidth, newHeight, e.maxWidth, e.maxHeight)
	}

	if newWidth >= e.width && newHeight >= e.height {
		return nil
	}

	// 被移除的区域：x >= newWidth 的列，以及 y >= newHeight 的行
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			if x < newWidth && y < newHeight {
				continue
			}
			if e.cellAt(x, y).IsOccupied() {
				return fmt.Errorf("%w: cell (%d,%d)", ErrShrinkOccupied, x, y)
			}
		}
	}
	return nil
}

// Resize 调整网格尺寸
//
// 校验失败返回 false 且不修改状态。成功时分配新的 W'xH' 缓冲区，
// 拷贝重叠区域 [0,min(W,W')) x [0,min(H,H')) 的格子（占用状态与占用者保持不变），
// 丢弃超出新边界的格子（并清除它们在渲染器上的高亮），为新增坐标构造空格子。不会移动任何已放置物品的锚点。
func (e *Engine) Resize(newWidth, newHeight int) bool {
	if err := e.CheckResize(newWidth, newHeight); err != nil {
		e.logger.Printf("[GridEngine] Resize %dx%d -> %dx%d rejected: %v", e.width, e.height, newWidth, newHeight, err)
		return false
	}

	e.reallocate(newWidth, newHeight)
	return true
}

// reallocate 用新的扁平缓冲区替换格子数组
func (e *Engine) reallocate(newWidth, newHeight int) {
	copyWidth := min(e.width, newWidth)
	copyHeight := min(e.height, newHeight)

	cells := make([]Cell, newWidth*newHeight)
	for y := 0; y < newHeight; y++ {
		for x := 0; x < newWidth; x++ {
			i := y*newWidth + x
			if x < copyWidth && y < copyHeight {
				cells[i] = e.cells[e.index(x, y)]
			} else {
				cells[i] = newCell(x, y)
			}
		}
	}

	// 被丢弃的格子连同渲染状态一起销毁，否则重新扩容后会残留旧高亮
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			if x >= newWidth || y >= newHeight {
				e.renderer.ClearCellHighlight(x, y)
			}
		}
	}

	e.cells = cells
	e.width = newWidth
	e.height = newHeight
}

// AddColumn 在右侧增加一列
func (e *Engine) AddColumn() bool {
	return e.Resize(e.width+1, e.height)
}

// AddRow 在底部增加一行
func (e *Engine) AddRow() bool {
	return e.Resize(e.width, e.height+1)
}

// AddColumns 在右侧增加 count 列
func (e *Engine) AddColumns(count int) bool {
	return e.Resize(e.width+count, e.height)
}

// AddRows 在底部增加 count 行
func (e *Engine) AddRows(count int) bool {
	return e.Resize(e.width, e.height+count)
}

// RemoveColumn 移除最右侧的一列（必须为空）
func (e *Engine) RemoveColumn() bool {
	if e.width <= e.minSize {
		return false
	}

	// 只检查最后一列
	for y := 0; y < e.height; y++ {
		if e.cellAt(e.width-1, y).IsOccupied() {
			e.logger.Printf("[GridEngine] Cannot remove column %d: occupied at row %d", e.width-1, y)
			return false
		}
	}

	return e.Resize(e.width-1, e.height)
}

// RemoveRow 移除最底部的一行（必须为空）
func (e *Engine) RemoveRow() bool {
	if e.height <= e.minSize {
		return false
	}

	// 只检查最后一行
	for x := 0; x < e.width; x++ {
		if e.cellAt(x, e.height-1).IsOccupied() {
			e.logger.Printf("[GridEngine] Cannot remove row %d: occupied at column %d", e.height-1, x)
			return false
		}
	}

	return e.Resize(e.width, e.height-1)
}

// SetGridSize 直接设置网格尺寸
func (e *Engine) SetGridSize(width, height int) bool {
	return e.Resize(width, height)
}
